package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/transport/httpserver/dto"
	"anime-aggregator/internal/validator"
)

// AnimeHandler handles the public catalogue routes.
type AnimeHandler struct {
	service   AnimeCatalog
	validator *validator.Validator
	logger    *zap.Logger
}

// NewAnimeHandler creates a new AnimeHandler.
func NewAnimeHandler(svc AnimeCatalog, v *validator.Validator, logger *zap.Logger) *AnimeHandler {
	return &AnimeHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Search handles GET /api/v1/anime/search
func (h *AnimeHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if resp := bindQuery(c, h.validator, &req); resp != nil {
		return badRequest(c, resp)
	}

	p := req.ToPageParams()
	items := h.service.SearchAnime(c.UserContext(), req.Query, p.Page, p.PageSize)

	return c.JSON(dto.NewMediaListResponse(items, p))
}

type listFunc func(ctx context.Context, page, pageSize int) []domain.CanonicalMedia

func (h *AnimeHandler) list(fn listFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.PageRequest
		if resp := bindQuery(c, h.validator, &req); resp != nil {
			return badRequest(c, resp)
		}

		p := req.ToPageParams()

		return c.JSON(dto.NewMediaListResponse(fn(c.UserContext(), p.Page, p.PageSize), p))
	}
}

// Trending handles GET /api/v1/anime/trending
func (h *AnimeHandler) Trending() fiber.Handler { return h.list(h.service.GetTrendingAnime) }

// Popular handles GET /api/v1/anime/popular
func (h *AnimeHandler) Popular() fiber.Handler { return h.list(h.service.GetPopularAnime) }

// TopRated handles GET /api/v1/anime/top-rated
func (h *AnimeHandler) TopRated() fiber.Handler { return h.list(h.service.GetTopRatedAnime) }

// Recent handles GET /api/v1/anime/recent
func (h *AnimeHandler) Recent() fiber.Handler { return h.list(h.service.GetRecentlyUpdatedAnime) }

// MostFavorited handles GET /api/v1/anime/most-favorited
func (h *AnimeHandler) MostFavorited() fiber.Handler { return h.list(h.service.GetMostFavoritedAnime) }

// MostWatched handles GET /api/v1/anime/most-watched
func (h *AnimeHandler) MostWatched() fiber.Handler { return h.list(h.service.GetMostWatchedAnime) }

// Upcoming handles GET /api/v1/anime/upcoming
func (h *AnimeHandler) Upcoming() fiber.Handler { return h.list(h.service.GetUpcomingAnime) }

// GetByID handles GET /api/v1/anime/:id
// Both tiers failing yields a blank record with found=false rather than an
// error status.
func (h *AnimeHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, errInvalidID)
	}

	m := h.service.GetAnimeDetails(c.UserContext(), id)

	return c.JSON(dto.MediaResponse{Data: m, Found: !m.IsBlank()})
}
