package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/transport/httpserver/dto"
)

// ProviderHandler reports and refreshes REST provider health.
type ProviderHandler struct {
	monitor HealthMonitor
	logger  *zap.Logger
}

// NewProviderHandler creates a new ProviderHandler.
func NewProviderHandler(monitor HealthMonitor, logger *zap.Logger) *ProviderHandler {
	return &ProviderHandler{
		monitor: monitor,
		logger:  logger,
	}
}

// GetProviders handles GET /api/v1/providers
func (h *ProviderHandler) GetProviders(c *fiber.Ctx) error {
	statuses, err := h.monitor.Statuses(c.UserContext())
	if err != nil {
		h.logger.Error("reading provider status failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to read provider status",
			Code:  "STATUS_UNAVAILABLE",
		})
	}

	return c.JSON(dto.ProvidersResponse{Providers: statuses, Ready: h.monitor.Ready(c.UserContext())})
}

// Probe handles POST /api/v1/providers/probe
func (h *ProviderHandler) Probe(c *fiber.Ctx) error {
	h.logger.Info("manual health probe triggered")

	statuses := h.monitor.ProbeAll(c.UserContext())
	if statuses == nil {
		statuses = []domain.ProviderStatus{}
	}

	return c.JSON(dto.ProvidersResponse{Providers: statuses, Ready: h.monitor.Ready(c.UserContext())})
}
