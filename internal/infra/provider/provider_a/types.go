package provider_a

import (
	"fmt"

	"github.com/goccy/go-json"

	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/infra/provider"
)

// ListResponse is the envelope of every list endpoint.
type ListResponse struct {
	Data       []json.RawMessage `json:"data"`
	Pagination *Pagination       `json:"pagination"`
}

// DetailResponse is the envelope of /anime/<id>.
type DetailResponse struct {
	Data json.RawMessage `json:"data"`
}

// Pagination holds pagination info.
type Pagination struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
}

// Anime is a single anime item.
type Anime struct {
	MalID         int        `json:"mal_id"`
	Title         string     `json:"title"`
	TitleEnglish  string     `json:"title_english"`
	TitleJapanese string     `json:"title_japanese"`
	Titles        []AltTitle `json:"titles"`
	Images        *Images    `json:"images"`
	Synopsis      string     `json:"synopsis"`
	Score         *float64   `json:"score"`
	Episodes      *int       `json:"episodes"`
	Aired         *Aired     `json:"aired"`
	Genres        []Genre    `json:"genres"`
}

// AltTitle is one entry of the titles list.
type AltTitle struct {
	Type  string `json:"type"` // Default, Synonym, Japanese, English, ...
	Title string `json:"title"`
}

// Images holds per-format image sets.
type Images struct {
	JPG  *ImageSet `json:"jpg"`
	WebP *ImageSet `json:"webp"`
}

// ImageSet holds image URLs of one format.
type ImageSet struct {
	ImageURL      string `json:"image_url"`
	SmallImageURL string `json:"small_image_url"`
	LargeImageURL string `json:"large_image_url"`
}

// Aired holds the airing interval.
type Aired struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Genre is a name-bearing genre object.
type Genre struct {
	MalID int    `json:"mal_id"`
	Name  string `json:"name"`
}

// ToDomain converts Anime to domain.CanonicalMedia.
func (a *Anime) ToDomain() domain.CanonicalMedia {
	m := domain.NewCanonicalMedia()
	m.ID = a.MalID
	m.Title = domain.Title{
		Romaji:  provider.FirstNonEmpty(a.Title, a.altTitle("Default"), a.TitleEnglish),
		English: provider.FirstNonEmpty(a.TitleEnglish, a.altTitle("English")),
		Native:  provider.FirstNonEmpty(a.TitleJapanese, a.altTitle("Japanese")),
	}
	m.CoverImageURL = a.coverImage()
	m.Description = a.Synopsis

	if a.Score != nil {
		m.AverageScore = provider.IntPtr(provider.ScoreFromTenScale(*a.Score))
	}
	if a.Episodes != nil {
		m.EpisodeCount = provider.IntPtr(*a.Episodes)
	}
	if a.Aired != nil {
		m.StartDate = provider.StringPtrOrNil(a.Aired.From)
	}

	for _, g := range a.Genres {
		if g.Name != "" {
			m.Genres = append(m.Genres, domain.Genre{Name: g.Name})
		}
	}

	return m
}

func (a *Anime) altTitle(kind string) string {
	for _, t := range a.Titles {
		if t.Type == kind && t.Title != "" {
			return t.Title
		}
	}

	return ""
}

// coverImage descends jpg then webp, preferring the large variant.
func (a *Anime) coverImage() string {
	if a.Images == nil {
		return ""
	}
	var candidates []string
	for _, set := range []*ImageSet{a.Images.JPG, a.Images.WebP} {
		if set != nil {
			candidates = append(candidates, set.LargeImageURL, set.ImageURL, set.SmallImageURL)
		}
	}

	return provider.FirstNonEmpty(candidates...)
}

// Normalize maps one raw item onto a canonical record. Missing optional
// fields take their defaults; only a non-object item is an error.
func Normalize(raw []byte) (domain.CanonicalMedia, error) {
	if err := provider.RequireObject(raw); err != nil {
		return domain.CanonicalMedia{}, err
	}

	var a Anime
	if err := json.Unmarshal(raw, &a); err != nil {
		return domain.CanonicalMedia{}, fmt.Errorf("%w: %w", domain.ErrMalformedShape, err)
	}

	return a.ToDomain(), nil
}

// DecodeList normalizes every item of a list envelope, keeping provider order.
func DecodeList(body []byte) ([]domain.CanonicalMedia, error) {
	if err := provider.RequireObject(body); err != nil {
		return nil, err
	}

	var resp ListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding provider_a list: %w: %w", domain.ErrMalformedShape, err)
	}

	items := make([]domain.CanonicalMedia, 0, len(resp.Data))
	for i, raw := range resp.Data {
		m, err := Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("provider_a item %d: %w", i, err)
		}
		items = append(items, m)
	}

	return items, nil
}

// DecodeDetail normalizes the single item of a detail envelope.
func DecodeDetail(body []byte) (domain.CanonicalMedia, error) {
	if err := provider.RequireObject(body); err != nil {
		return domain.CanonicalMedia{}, err
	}

	var resp DetailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.CanonicalMedia{}, fmt.Errorf("decoding provider_a detail: %w: %w", domain.ErrMalformedShape, err)
	}

	return Normalize(resp.Data)
}
