// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/transport/httpserver/dto"
	"anime-aggregator/internal/validator"
)

// AnimeCatalog is the unauthenticated half of the facade.
type AnimeCatalog interface {
	SearchAnime(ctx context.Context, query string, page, pageSize int) []domain.CanonicalMedia
	GetTrendingAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia
	GetPopularAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia
	GetTopRatedAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia
	GetRecentlyUpdatedAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia
	GetMostFavoritedAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia
	GetMostWatchedAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia
	GetUpcomingAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia
	GetAnimeDetails(ctx context.Context, id int) domain.CanonicalMedia
}

// Library is the authenticated half of the facade.
type Library interface {
	GetUserAnimeList(ctx context.Context, auth domain.AuthContext, status domain.MediaListStatus) (domain.MediaListCollection, error)
	GetFavorites(ctx context.Context, auth domain.AuthContext) ([]domain.CanonicalMedia, error)
	IsAnimeFavorite(ctx context.Context, auth domain.AuthContext, mediaID int) (bool, error)
	ToggleFavorite(ctx context.Context, auth domain.AuthContext, mediaID int) (bool, error)
	GetAnimeStatus(ctx context.Context, auth domain.AuthContext, mediaID int) (*domain.MediaListEntry, error)
	SaveProgress(ctx context.Context, auth domain.AuthContext, mediaID, progress int) error
	UpdateAnimeStatus(ctx context.Context, auth domain.AuthContext, mediaID int, status string) error
	DeleteAnimeEntry(ctx context.Context, auth domain.AuthContext, mediaID int) error
}

// HealthMonitor exposes provider health.
type HealthMonitor interface {
	ProbeAll(ctx context.Context) []domain.ProviderStatus
	Statuses(ctx context.Context) ([]domain.ProviderStatus, error)
	Ready(ctx context.Context) bool
}

func badRequest(c *fiber.Ctx, resp *dto.ErrorResponse) error {
	return c.Status(fiber.StatusBadRequest).JSON(resp)
}

// bindQuery parses and validates query parameters into req. A non-nil
// result is the 400 body to send.
func bindQuery(c *fiber.Ctx, v *validator.Validator, req any) *dto.ErrorResponse {
	if err := c.QueryParser(req); err != nil {
		return &dto.ErrorResponse{Error: "invalid query parameters", Code: "INVALID_PARAMS"}
	}

	return validate(v, req)
}

// bindBody parses and validates a JSON body into req.
func bindBody(c *fiber.Ctx, v *validator.Validator, req any) *dto.ErrorResponse {
	if err := c.BodyParser(req); err != nil {
		return &dto.ErrorResponse{Error: "invalid request body", Code: "INVALID_BODY"}
	}

	return validate(v, req)
}

func validate(v *validator.Validator, req any) *dto.ErrorResponse {
	if err := v.Validate(req); err != nil {
		return &dto.ErrorResponse{Error: "validation failed", Code: "VALIDATION_ERROR", Details: err}
	}

	return nil
}

var errInvalidID = &dto.ErrorResponse{Error: "id must be a positive integer", Code: "INVALID_ID"}

// parseID reads the positive integer :id route parameter.
func parseID(c *fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// writeServiceError maps facade errors to HTTP statuses.
func writeServiceError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_ARGUMENT",
		})
	}

	var svcErr *domain.ServiceError
	if errors.As(err, &svcErr) {
		logger.Warn("upstream operation failed", zap.String("operation", svcErr.Op), zap.Error(err))

		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: "upstream provider failed",
			Code:  "UPSTREAM_ERROR",
			Details: fiber.Map{
				"operation": svcErr.Op,
			},
		})
	}

	logger.Error("unexpected service error", zap.Error(err))

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: "internal error",
		Code:  "INTERNAL_ERROR",
	})
}
