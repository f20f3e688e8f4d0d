package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/infra/provider/anilist"
)

// LibraryService serves the authenticated list operations.
//
// Every operation first checks the AuthContext: without a valid one it
// returns the operation's empty value and issues no request. Reads
// propagate failures as *domain.ServiceError; mutations log and swallow
// them once their arguments passed validation.
type LibraryService struct {
	executor GraphQLExecutor
	logger   *zap.Logger
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(executor GraphQLExecutor, logger *zap.Logger) *LibraryService {
	return &LibraryService{
		executor: executor,
		logger:   logger,
	}
}

// GetUserAnimeList returns the user's lists. An empty status returns every list.
func (s *LibraryService) GetUserAnimeList(ctx context.Context, auth domain.AuthContext, status domain.MediaListStatus) (domain.MediaListCollection, error) {
	if !auth.Valid() {
		return domain.NewMediaListCollection(), nil
	}

	vars := map[string]any{"userId": auth.UserID}
	if status != "" {
		vars["status"] = string(status)
	}

	var data anilist.UserAnimeListData
	if err := s.settle(opGetUserAnimeList, s.execute(ctx, auth, opGetUserAnimeList, vars, &data)); err != nil {
		return domain.NewMediaListCollection(), err
	}

	return data.ToDomain(), nil
}

// GetFavorites returns the user's favourite anime.
func (s *LibraryService) GetFavorites(ctx context.Context, auth domain.AuthContext) ([]domain.CanonicalMedia, error) {
	if !auth.Valid() {
		return []domain.CanonicalMedia{}, nil
	}

	var data anilist.FavoritesData
	vars := map[string]any{"userId": auth.UserID, "page": 1}
	if err := s.settle(opGetFavorites, s.execute(ctx, auth, opGetFavorites, vars, &data)); err != nil {
		return []domain.CanonicalMedia{}, err
	}

	return data.ToDomain(), nil
}

// IsAnimeFavorite reports whether mediaID is among the user's favourites.
func (s *LibraryService) IsAnimeFavorite(ctx context.Context, auth domain.AuthContext, mediaID int) (bool, error) {
	if !auth.Valid() {
		return false, nil
	}

	var data anilist.IsFavoriteData
	vars := map[string]any{"mediaId": mediaID}
	if err := s.settle(opIsAnimeFavorite, s.execute(ctx, auth, opIsAnimeFavorite, vars, &data)); err != nil {
		return false, err
	}

	return data.Favourite(), nil
}

// ToggleFavorite flips the favourite flag and returns the new state.
func (s *LibraryService) ToggleFavorite(ctx context.Context, auth domain.AuthContext, mediaID int) (bool, error) {
	if !auth.Valid() {
		return false, nil
	}

	vars := map[string]any{"animeId": mediaID}
	if err := s.settle(opToggleFavorite, s.execute(ctx, auth, opToggleFavorite, vars, nil)); err != nil {
		return false, err
	}

	// The mutation answers with the paginated favourites list, so the new
	// state is read back directly.
	return s.IsAnimeFavorite(ctx, auth, mediaID)
}

// GetAnimeStatus returns the user's entry for mediaID, or nil when there is none.
func (s *LibraryService) GetAnimeStatus(ctx context.Context, auth domain.AuthContext, mediaID int) (*domain.MediaListEntry, error) {
	if !auth.Valid() {
		return nil, nil
	}

	entry, err := s.lookupEntry(ctx, auth, mediaID)
	if err = s.settle(opGetAnimeStatus, err); err != nil {
		return nil, err
	}

	return entry, nil
}

// SaveProgress sets the watched episode count. Provider failures are logged only.
func (s *LibraryService) SaveProgress(ctx context.Context, auth domain.AuthContext, mediaID, progress int) error {
	if progress < 0 {
		return fmt.Errorf("%w: negative progress %d", domain.ErrInvalidArgument, progress)
	}
	if !auth.Valid() {
		return nil
	}

	vars := map[string]any{"mediaId": mediaID, "progress": progress}

	return s.settle(opSaveProgress, s.execute(ctx, auth, opSaveProgress, vars, nil))
}

// UpdateAnimeStatus validates status case-insensitively, then saves it.
// Validation errors are always returned; provider failures are logged only.
func (s *LibraryService) UpdateAnimeStatus(ctx context.Context, auth domain.AuthContext, mediaID int, status string) error {
	parsed, err := domain.ParseMediaListStatus(status)
	if err != nil {
		return err
	}
	if !auth.Valid() {
		return nil
	}

	vars := map[string]any{"mediaId": mediaID, "status": string(parsed)}

	return s.settle(opUpdateAnimeStatus, s.execute(ctx, auth, opUpdateAnimeStatus, vars, nil))
}

// DeleteAnimeEntry removes the user's entry for mediaID. A missing entry is
// not an error; provider failures are logged only.
func (s *LibraryService) DeleteAnimeEntry(ctx context.Context, auth domain.AuthContext, mediaID int) error {
	if !auth.Valid() {
		return nil
	}

	entry, err := s.lookupEntry(ctx, auth, mediaID)
	if err != nil {
		return s.settle(opDeleteAnimeEntry, fmt.Errorf("looking up entry: %w", err))
	}
	if entry == nil {
		s.logger.Debug("no entry to delete", zap.Int("media_id", mediaID))
		return nil
	}

	var data anilist.DeleteEntryData
	err = s.execute(ctx, auth, opDeleteAnimeEntry, map[string]any{"id": entry.ID}, &data)
	if err == nil && !data.Deleted() {
		err = fmt.Errorf("entry %d was not deleted", entry.ID)
	}

	return s.settle(opDeleteAnimeEntry, err)
}

// lookupEntry reads the entry of (auth.UserID, mediaID). A not-found answer
// yields nil without error.
func (s *LibraryService) lookupEntry(ctx context.Context, auth domain.AuthContext, mediaID int) (*domain.MediaListEntry, error) {
	var data anilist.AnimeStatusData
	vars := map[string]any{"userId": auth.UserID, "mediaId": mediaID}
	err := s.execute(ctx, auth, opGetAnimeStatus, vars, &data)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return data.ToDomain(), nil
}
