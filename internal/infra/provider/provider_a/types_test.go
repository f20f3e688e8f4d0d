package provider_a

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anime-aggregator/internal/domain"
)

const narutoItem = `{
	"mal_id": 20,
	"title": "Naruto",
	"title_english": "Naruto",
	"title_japanese": "ナルト",
	"images": {
		"jpg": {"image_url": "https://cdn.example.com/20.jpg", "large_image_url": "https://cdn.example.com/20l.jpg"},
		"webp": {"image_url": "https://cdn.example.com/20.webp"}
	},
	"synopsis": "A young ninja.",
	"score": 7.95,
	"episodes": 220,
	"aired": {"from": "2002-10-03T00:00:00+00:00", "to": "2007-02-08T00:00:00+00:00"},
	"genres": [{"mal_id": 1, "name": "Action"}, {"mal_id": 2, "name": "Adventure"}]
}`

// TestNormalize_FullItem tests mapping of every field.
func TestNormalize_FullItem(t *testing.T) {
	m, err := Normalize([]byte(narutoItem))

	require.NoError(t, err)
	assert.Equal(t, 20, m.ID)
	assert.Equal(t, domain.Title{Romaji: "Naruto", English: "Naruto", Native: "ナルト"}, m.Title)
	assert.Equal(t, "https://cdn.example.com/20l.jpg", m.CoverImageURL)
	assert.Equal(t, "A young ninja.", m.Description)
	require.NotNil(t, m.AverageScore)
	assert.Equal(t, 79, *m.AverageScore)
	require.NotNil(t, m.EpisodeCount)
	assert.Equal(t, 220, *m.EpisodeCount)
	require.NotNil(t, m.StartDate)
	assert.Equal(t, "2002-10-03T00:00:00+00:00", *m.StartDate)
	assert.Equal(t, []domain.Genre{{Name: "Action"}, {Name: "Adventure"}}, m.Genres)
}

// TestNormalize_ScoreScaling tests the 0-10 to 0-100 truncation.
func TestNormalize_ScoreScaling(t *testing.T) {
	m, err := Normalize([]byte(`{"mal_id": 1, "title": "X", "score": 8.5}`))

	require.NoError(t, err)
	require.NotNil(t, m.AverageScore)
	assert.Equal(t, 85, *m.AverageScore)
}

// TestNormalize_MissingFields tests defaults for absent optional fields.
func TestNormalize_MissingFields(t *testing.T) {
	m, err := Normalize([]byte(`{"mal_id": 5, "title": "Bare"}`))

	require.NoError(t, err)
	assert.Nil(t, m.AverageScore)
	assert.Nil(t, m.EpisodeCount)
	assert.Nil(t, m.StartDate)
	assert.NotNil(t, m.Genres)
	assert.Empty(t, m.Genres)
	assert.Equal(t, "", m.CoverImageURL)
	assert.Equal(t, "", m.Title.English)
	assert.Equal(t, "", m.Title.Native)
}

// TestNormalize_NullFields tests explicit nulls behave like absent fields.
func TestNormalize_NullFields(t *testing.T) {
	m, err := Normalize([]byte(`{"mal_id": null, "title": null, "score": null, "episodes": null, "images": null, "aired": null, "genres": null}`))

	require.NoError(t, err)
	assert.Equal(t, 0, m.ID)
	assert.Equal(t, domain.Title{}, m.Title)
	assert.Nil(t, m.AverageScore)
	assert.NotNil(t, m.Genres)
}

// TestNormalize_TitleFallbacks tests descent through alternate title fields.
func TestNormalize_TitleFallbacks(t *testing.T) {
	raw := `{
		"mal_id": 9,
		"titles": [
			{"type": "Default", "title": "Shingeki no Kyojin"},
			{"type": "English", "title": "Attack on Titan"},
			{"type": "Japanese", "title": "進撃の巨人"}
		],
		"images": {"webp": {"image_url": "https://cdn.example.com/9.webp"}}
	}`
	m, err := Normalize([]byte(raw))

	require.NoError(t, err)
	assert.Equal(t, "Shingeki no Kyojin", m.Title.Romaji)
	assert.Equal(t, "Attack on Titan", m.Title.English)
	assert.Equal(t, "進撃の巨人", m.Title.Native)
	assert.Equal(t, "https://cdn.example.com/9.webp", m.CoverImageURL)
}

// TestNormalize_MalformedTopLevel tests the only hard failure.
func TestNormalize_MalformedTopLevel(t *testing.T) {
	for _, raw := range []string{`[]`, `null`, `"naruto"`, `12`} {
		_, err := Normalize([]byte(raw))
		assert.ErrorIs(t, err, domain.ErrMalformedShape, raw)
	}
}

// TestNormalize_Deterministic tests that the same input yields identical output.
func TestNormalize_Deterministic(t *testing.T) {
	first, err := Normalize([]byte(narutoItem))
	require.NoError(t, err)
	second, err := Normalize([]byte(narutoItem))
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, a, b)
}

// TestDecodeList tests envelope decoding and ordering.
func TestDecodeList(t *testing.T) {
	body := `{"pagination": {"has_next_page": true}, "data": [` + narutoItem + `, {"mal_id": 21, "title": "One Piece"}]}`
	items, err := DecodeList([]byte(body))

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 20, items[0].ID)
	assert.Equal(t, 21, items[1].ID)

	empty, err := DecodeList([]byte(`{"data": []}`))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = DecodeList([]byte(`{"data": [1]}`))
	assert.ErrorIs(t, err, domain.ErrMalformedShape)
}

// TestDecodeDetail tests the detail envelope.
func TestDecodeDetail(t *testing.T) {
	m, err := DecodeDetail([]byte(`{"data": ` + narutoItem + `}`))

	require.NoError(t, err)
	assert.Equal(t, 20, m.ID)

	_, err = DecodeDetail([]byte(`{"data": null}`))
	assert.ErrorIs(t, err, domain.ErrMalformedShape)
}

// TestEndpoints tests URL construction.
func TestEndpoints(t *testing.T) {
	p := domain.NewPageParams(2, 5)
	base := "https://api.example.com/v4/"

	assert.Equal(t, "https://api.example.com/v4/anime?limit=5&page=2&q=cowboy+bebop", SearchURL(base, "cowboy bebop", p))
	assert.Equal(t, "https://api.example.com/v4/top/anime?filter=airing&limit=5&page=2", TopURL(base, FilterAiring, p))
	assert.Equal(t, "https://api.example.com/v4/top/anime?limit=5&page=2", TopURL(base, "", p))
	assert.Equal(t, "https://api.example.com/v4/seasons/now?limit=5&page=2", SeasonNowURL(base, p))
	assert.Equal(t, "https://api.example.com/v4/seasons/upcoming?limit=5&page=2", SeasonUpcomingURL(base, p))
	assert.Equal(t, "https://api.example.com/v4/anime/20", DetailURL(base, 20))
}
