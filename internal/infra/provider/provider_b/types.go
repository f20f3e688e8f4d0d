package provider_b

import (
	"fmt"

	"github.com/goccy/go-json"

	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/infra/provider"
)

// ListResponse is the JSON:API envelope of a collection.
type ListResponse struct {
	Data  []json.RawMessage `json:"data"`
	Links map[string]string `json:"links"`
}

// DetailResponse is the JSON:API envelope of a single resource.
type DetailResponse struct {
	Data json.RawMessage `json:"data"`
}

// Resource is a single anime resource.
type Resource struct {
	ID         provider.FlexInt `json:"id"`
	Type       string           `json:"type"`
	Attributes *Attributes      `json:"attributes"`
}

// Attributes holds the resource fields.
type Attributes struct {
	CanonicalTitle string                 `json:"canonicalTitle"`
	Titles         map[string]string      `json:"titles"` // en, en_jp, en_us, ja_jp, ...
	PosterImage    *PosterImage           `json:"posterImage"`
	Synopsis       string                 `json:"synopsis"`
	Description    string                 `json:"description"`
	AverageRating  provider.OptionalFloat `json:"averageRating"`
	EpisodeCount   *int                   `json:"episodeCount"`
	StartDate      string                 `json:"startDate"`
}

// PosterImage holds poster URLs by size.
type PosterImage struct {
	Tiny     string `json:"tiny"`
	Small    string `json:"small"`
	Medium   string `json:"medium"`
	Large    string `json:"large"`
	Original string `json:"original"`
}

// ToDomain converts Resource to domain.CanonicalMedia. Genres are always
// empty: they live behind a relationship link this client does not follow.
func (r *Resource) ToDomain() domain.CanonicalMedia {
	m := domain.NewCanonicalMedia()
	m.ID = int(r.ID)

	attrs := r.Attributes
	if attrs == nil {
		return m
	}

	m.Title = domain.Title{
		Romaji:  provider.FirstNonEmpty(attrs.CanonicalTitle, attrs.Titles["en_jp"]),
		English: provider.FirstNonEmpty(attrs.Titles["en"], attrs.Titles["en_us"]),
		Native:  provider.FirstNonEmpty(attrs.Titles["ja_jp"]),
	}
	if p := attrs.PosterImage; p != nil {
		m.CoverImageURL = provider.FirstNonEmpty(p.Large, p.Medium, p.Small)
	}
	m.Description = provider.FirstNonEmpty(attrs.Synopsis, attrs.Description)

	if attrs.AverageRating.Valid {
		m.AverageScore = provider.IntPtr(provider.ScoreFromHundredScale(attrs.AverageRating.Value))
	}
	if attrs.EpisodeCount != nil {
		m.EpisodeCount = provider.IntPtr(*attrs.EpisodeCount)
	}
	m.StartDate = provider.StringPtrOrNil(attrs.StartDate)

	return m
}

// Normalize maps one raw resource onto a canonical record. Missing optional
// fields take their defaults; only a non-object item is an error.
func Normalize(raw []byte) (domain.CanonicalMedia, error) {
	if err := provider.RequireObject(raw); err != nil {
		return domain.CanonicalMedia{}, err
	}

	var r Resource
	if err := json.Unmarshal(raw, &r); err != nil {
		return domain.CanonicalMedia{}, fmt.Errorf("%w: %w", domain.ErrMalformedShape, err)
	}

	return r.ToDomain(), nil
}

// DecodeList normalizes every resource of a collection, keeping provider order.
func DecodeList(body []byte) ([]domain.CanonicalMedia, error) {
	if err := provider.RequireObject(body); err != nil {
		return nil, err
	}

	var resp ListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding provider_b list: %w: %w", domain.ErrMalformedShape, err)
	}

	items := make([]domain.CanonicalMedia, 0, len(resp.Data))
	for i, raw := range resp.Data {
		m, err := Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("provider_b item %d: %w", i, err)
		}
		items = append(items, m)
	}

	return items, nil
}

// DecodeDetail normalizes the resource of a detail envelope.
func DecodeDetail(body []byte) (domain.CanonicalMedia, error) {
	if err := provider.RequireObject(body); err != nil {
		return domain.CanonicalMedia{}, err
	}

	var resp DetailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.CanonicalMedia{}, fmt.Errorf("decoding provider_b detail: %w: %w", domain.ErrMalformedShape, err)
	}

	return Normalize(resp.Data)
}
