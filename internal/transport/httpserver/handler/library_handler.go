package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"anime-aggregator/internal/transport/httpserver/dto"
	"anime-aggregator/internal/transport/httpserver/middleware"
	"anime-aggregator/internal/validator"
)

// LibraryHandler handles the authenticated /me routes. Requests without a
// valid AuthContext get empty results, never 401.
type LibraryHandler struct {
	service   Library
	validator *validator.Validator
	logger    *zap.Logger
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(svc Library, v *validator.Validator, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// List handles GET /api/v1/me/list
func (h *LibraryHandler) List(c *fiber.Ctx) error {
	var req dto.ListRequest
	if resp := bindQuery(c, h.validator, &req); resp != nil {
		return badRequest(c, resp)
	}

	collection, err := h.service.GetUserAnimeList(c.UserContext(), middleware.AuthFrom(c), req.ToStatus())
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}

	return c.JSON(dto.CollectionResponse{Data: collection, Total: collection.Len()})
}

// Favorites handles GET /api/v1/me/favorites
func (h *LibraryHandler) Favorites(c *fiber.Ctx) error {
	items, err := h.service.GetFavorites(c.UserContext(), middleware.AuthFrom(c))
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}

	return c.JSON(dto.FavoritesResponse{Data: items})
}

// IsFavorite handles GET /api/v1/me/favorites/:id
func (h *LibraryHandler) IsFavorite(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, errInvalidID)
	}

	fav, err := h.service.IsAnimeFavorite(c.UserContext(), middleware.AuthFrom(c), id)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}

	return c.JSON(dto.FavoriteResponse{MediaID: id, Favorite: fav})
}

// ToggleFavorite handles POST /api/v1/me/favorites/:id/toggle
func (h *LibraryHandler) ToggleFavorite(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, errInvalidID)
	}

	fav, err := h.service.ToggleFavorite(c.UserContext(), middleware.AuthFrom(c), id)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}

	return c.JSON(dto.FavoriteResponse{MediaID: id, Favorite: fav})
}

// Entry handles GET /api/v1/me/entries/:id
func (h *LibraryHandler) Entry(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, errInvalidID)
	}

	entry, err := h.service.GetAnimeStatus(c.UserContext(), middleware.AuthFrom(c), id)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}

	return c.JSON(dto.EntryResponse{Data: entry})
}

// SaveProgress handles PUT /api/v1/me/entries/:id/progress
func (h *LibraryHandler) SaveProgress(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, errInvalidID)
	}

	var req dto.ProgressRequest
	if resp := bindBody(c, h.validator, &req); resp != nil {
		return badRequest(c, resp)
	}

	if err := h.service.SaveProgress(c.UserContext(), middleware.AuthFrom(c), id, *req.Progress); err != nil {
		return writeServiceError(c, h.logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateStatus handles PUT /api/v1/me/entries/:id/status
func (h *LibraryHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, errInvalidID)
	}

	var req dto.StatusRequest
	if resp := bindBody(c, h.validator, &req); resp != nil {
		return badRequest(c, resp)
	}

	if err := h.service.UpdateAnimeStatus(c.UserContext(), middleware.AuthFrom(c), id, req.Status); err != nil {
		return writeServiceError(c, h.logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteEntry handles DELETE /api/v1/me/entries/:id
func (h *LibraryHandler) DeleteEntry(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, errInvalidID)
	}

	if err := h.service.DeleteAnimeEntry(c.UserContext(), middleware.AuthFrom(c), id); err != nil {
		return writeServiceError(c, h.logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
