package dto

import "anime-aggregator/internal/domain"

// MediaListResponse wraps a page of media records.
type MediaListResponse struct {
	Data     []domain.CanonicalMedia `json:"data"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}

// NewMediaListResponse wraps items; a nil slice is rendered as [].
func NewMediaListResponse(items []domain.CanonicalMedia, p domain.PageParams) MediaListResponse {
	if items == nil {
		items = []domain.CanonicalMedia{}
	}

	return MediaListResponse{Data: items, Page: p.Page, PageSize: p.PageSize}
}

// MediaResponse wraps a single media record.
type MediaResponse struct {
	Data  domain.CanonicalMedia `json:"data"`
	Found bool                  `json:"found"`
}

// CollectionResponse wraps a user's list collection.
type CollectionResponse struct {
	Data  domain.MediaListCollection `json:"data"`
	Total int                        `json:"total"`
}

// FavoritesResponse wraps a user's favourites.
type FavoritesResponse struct {
	Data []domain.CanonicalMedia `json:"data"`
}

// FavoriteResponse reports the favourite flag of one media.
type FavoriteResponse struct {
	MediaID  int  `json:"media_id"`
	Favorite bool `json:"favorite"`
}

// EntryResponse wraps a user's entry; Data is null when there is none.
type EntryResponse struct {
	Data *domain.MediaListEntry `json:"data"`
}

// ProvidersResponse reports the last known provider health.
type ProvidersResponse struct {
	Providers []domain.ProviderStatus `json:"providers"`
	Ready     bool                    `json:"ready"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
