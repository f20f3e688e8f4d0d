// Package service provides application use cases.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"anime-aggregator/internal/app/fallback"
	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/infra/provider/provider_a"
	"anime-aggregator/internal/infra/provider/provider_b"
)

// RESTFetcher runs a request against the primary tier, then the backup.
type RESTFetcher interface {
	Fetch(ctx context.Context, req fallback.Request) (*fallback.Result, error)
}

// BaseURLs holds the base URL of each REST tier.
type BaseURLs struct {
	Primary string
	Backup  string
}

// Operation names of the unauthenticated listing operations.
const (
	OpSearch          = "search"
	OpTrending        = "trending"
	OpPopular         = "popular"
	OpTopRated        = "top_rated"
	OpRecentlyUpdated = "recently_updated"
	OpUpcoming        = "upcoming"
	OpDetail          = "detail"
)

// AnimeService serves the unauthenticated catalogue operations. Every
// operation is fail-soft: when both tiers fail the caller gets an empty
// result and the failure is only logged.
type AnimeService struct {
	fetcher RESTFetcher
	urls    BaseURLs
	logger  *zap.Logger
}

// NewAnimeService creates a new AnimeService.
func NewAnimeService(fetcher RESTFetcher, urls BaseURLs, logger *zap.Logger) *AnimeService {
	return &AnimeService{
		fetcher: fetcher,
		urls:    urls,
		logger:  logger,
	}
}

// SearchAnime searches both tiers by title.
func (s *AnimeService) SearchAnime(ctx context.Context, query string, page, pageSize int) []domain.CanonicalMedia {
	p := domain.NewPageParams(page, pageSize)

	return s.list(ctx, fallback.Request{
		Operation: OpSearch,
		Primary:   provider_a.SearchURL(s.urls.Primary, query, p),
		Backup:    provider_b.SearchURL(s.urls.Backup, query, p),
	})
}

// GetTrendingAnime returns currently airing titles.
func (s *AnimeService) GetTrendingAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia {
	p := domain.NewPageParams(page, pageSize)

	return s.list(ctx, fallback.Request{
		Operation: OpTrending,
		Primary:   provider_a.TopURL(s.urls.Primary, provider_a.FilterAiring, p),
		Backup:    provider_b.ListURL(s.urls.Backup, provider_b.StatusCurrent, provider_b.SortPopularity, p),
	})
}

// GetPopularAnime returns titles ordered by popularity.
func (s *AnimeService) GetPopularAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia {
	p := domain.NewPageParams(page, pageSize)

	return s.list(ctx, fallback.Request{
		Operation: OpPopular,
		Primary:   provider_a.TopURL(s.urls.Primary, provider_a.FilterByPopularity, p),
		Backup:    provider_b.ListURL(s.urls.Backup, "", provider_b.SortPopularity, p),
	})
}

// GetTopRatedAnime returns titles ordered by score.
func (s *AnimeService) GetTopRatedAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia {
	p := domain.NewPageParams(page, pageSize)

	return s.list(ctx, fallback.Request{
		Operation: OpTopRated,
		Primary:   provider_a.TopURL(s.urls.Primary, "", p),
		Backup:    provider_b.ListURL(s.urls.Backup, "", provider_b.SortRating, p),
	})
}

// GetRecentlyUpdatedAnime returns this season's titles.
func (s *AnimeService) GetRecentlyUpdatedAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia {
	p := domain.NewPageParams(page, pageSize)

	return s.list(ctx, fallback.Request{
		Operation: OpRecentlyUpdated,
		Primary:   provider_a.SeasonNowURL(s.urls.Primary, p),
		Backup:    provider_b.ListURL(s.urls.Backup, provider_b.StatusCurrent, provider_b.SortUpdated, p),
	})
}

// GetMostFavoritedAnime is an alias of GetTopRatedAnime; neither tier
// exposes a favourite count to sort by.
func (s *AnimeService) GetMostFavoritedAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia {
	return s.GetTopRatedAnime(ctx, page, pageSize)
}

// GetMostWatchedAnime is an alias of GetTrendingAnime.
func (s *AnimeService) GetMostWatchedAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia {
	return s.GetTrendingAnime(ctx, page, pageSize)
}

// GetUpcomingAnime returns titles of the next season.
func (s *AnimeService) GetUpcomingAnime(ctx context.Context, page, pageSize int) []domain.CanonicalMedia {
	p := domain.NewPageParams(page, pageSize)

	return s.list(ctx, fallback.Request{
		Operation: OpUpcoming,
		Primary:   provider_a.SeasonUpcomingURL(s.urls.Primary, p),
		Backup:    provider_b.ListURL(s.urls.Backup, provider_b.StatusUpcoming, provider_b.SortPopularity, p),
	})
}

// GetAnimeDetails returns one title, or a blank record when neither tier
// could serve it. The id is passed to both tiers unchanged.
func (s *AnimeService) GetAnimeDetails(ctx context.Context, id int) domain.CanonicalMedia {
	req := fallback.Request{
		Operation: OpDetail,
		Primary:   provider_a.DetailURL(s.urls.Primary, id),
		Backup:    provider_b.DetailURL(s.urls.Backup, id),
	}

	res, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		s.logger.Warn("all providers failed", zap.String("operation", req.Operation), zap.Int("id", id), zap.Error(err))
		return domain.NewCanonicalMedia()
	}

	m, err := decodeDetail(res)
	if err != nil {
		s.logger.Warn("normalizing detail failed",
			zap.String("operation", req.Operation),
			zap.String("provider", string(res.Provider)),
			zap.Error(err),
		)
		return domain.NewCanonicalMedia()
	}

	return m
}

func (s *AnimeService) list(ctx context.Context, req fallback.Request) []domain.CanonicalMedia {
	res, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		s.logger.Warn("all providers failed", zap.String("operation", req.Operation), zap.Error(err))
		return []domain.CanonicalMedia{}
	}

	items, err := decodeList(res)
	if err != nil {
		s.logger.Warn("normalizing list failed",
			zap.String("operation", req.Operation),
			zap.String("provider", string(res.Provider)),
			zap.Error(err),
		)
		return []domain.CanonicalMedia{}
	}

	s.logger.Debug("listing completed",
		zap.String("operation", req.Operation),
		zap.String("provider", string(res.Provider)),
		zap.Int("count", len(items)),
	)

	return items
}

func decodeList(res *fallback.Result) ([]domain.CanonicalMedia, error) {
	switch res.Provider {
	case domain.ProviderA:
		return provider_a.DecodeList(res.Body)
	case domain.ProviderB:
		return provider_b.DecodeList(res.Body)
	default:
		return nil, fmt.Errorf("no normalizer for provider %q", res.Provider)
	}
}

func decodeDetail(res *fallback.Result) (domain.CanonicalMedia, error) {
	switch res.Provider {
	case domain.ProviderA:
		return provider_a.DecodeDetail(res.Body)
	case domain.ProviderB:
		return provider_b.DecodeDetail(res.Body)
	default:
		return domain.CanonicalMedia{}, fmt.Errorf("no normalizer for provider %q", res.Provider)
	}
}
