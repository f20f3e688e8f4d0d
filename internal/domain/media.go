// Package domain contains the core entities of the aggregation service.
// This package has no external dependencies (only stdlib).
package domain

// ProviderID identifies which backend produced a payload.
type ProviderID string

const (
	ProviderA       ProviderID = "provider_a" // primary REST (Jikan shape)
	ProviderB       ProviderID = "provider_b" // backup REST (Kitsu shape)
	ProviderAniList ProviderID = "anilist"    // authenticated GraphQL
)

// Title holds the three title variants every provider is mapped onto.
type Title struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

// Genre is a single named genre.
type Genre struct {
	Name string `json:"name"`
}

// CanonicalMedia is the provider-agnostic media record returned by every
// listing, search and detail operation.
//
// ID and Title are always populated (zero values allowed). Optional numeric
// and date fields are nil when the provider supplied nothing usable, and
// Genres is never nil.
type CanonicalMedia struct {
	ID            int     `json:"id"`
	Title         Title   `json:"title"`
	CoverImageURL string  `json:"coverImageUrl"`
	Description   string  `json:"description"`
	AverageScore  *int    `json:"averageScore"` // 0-100
	EpisodeCount  *int    `json:"episodeCount"`
	StartDate     *string `json:"startDate"` // provider-native representation
	Genres        []Genre `json:"genres"`
}

// NewCanonicalMedia returns a blank record with all defaults applied.
func NewCanonicalMedia() CanonicalMedia {
	return CanonicalMedia{Genres: []Genre{}}
}

// IsBlank reports whether the record carries no identity at all.
func (m *CanonicalMedia) IsBlank() bool {
	return m.ID == 0 && m.Title == (Title{})
}

// DisplayTitle returns the first non-empty title, preferring English.
func (m *CanonicalMedia) DisplayTitle() string {
	switch {
	case m.Title.English != "":
		return m.Title.English
	case m.Title.Romaji != "":
		return m.Title.Romaji
	default:
		return m.Title.Native
	}
}
