package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"anime-aggregator/internal/config"
	"anime-aggregator/internal/domain"
)

type call struct {
	op       string
	page     int
	pageSize int
	id       int
	arg      string
	auth     domain.AuthContext
}

type fakeCatalog struct {
	calls []call
}

func (f *fakeCatalog) list(op string, page, pageSize int) []domain.CanonicalMedia {
	f.calls = append(f.calls, call{op: op, page: page, pageSize: pageSize})
	m := domain.NewCanonicalMedia()
	m.ID = 1
	m.Title.Romaji = "Cowboy Bebop"

	return []domain.CanonicalMedia{m}
}

func (f *fakeCatalog) SearchAnime(_ context.Context, q string, page, pageSize int) []domain.CanonicalMedia {
	items := f.list("search", page, pageSize)
	f.calls[len(f.calls)-1].arg = q

	return items
}

func (f *fakeCatalog) GetTrendingAnime(_ context.Context, page, pageSize int) []domain.CanonicalMedia {
	return f.list("trending", page, pageSize)
}

func (f *fakeCatalog) GetPopularAnime(_ context.Context, page, pageSize int) []domain.CanonicalMedia {
	return f.list("popular", page, pageSize)
}

func (f *fakeCatalog) GetTopRatedAnime(_ context.Context, page, pageSize int) []domain.CanonicalMedia {
	return f.list("top", page, pageSize)
}

func (f *fakeCatalog) GetRecentlyUpdatedAnime(_ context.Context, page, pageSize int) []domain.CanonicalMedia {
	return f.list("recent", page, pageSize)
}

func (f *fakeCatalog) GetMostFavoritedAnime(_ context.Context, page, pageSize int) []domain.CanonicalMedia {
	return f.list("favorited", page, pageSize)
}

func (f *fakeCatalog) GetMostWatchedAnime(_ context.Context, page, pageSize int) []domain.CanonicalMedia {
	return f.list("watched", page, pageSize)
}

func (f *fakeCatalog) GetUpcomingAnime(_ context.Context, page, pageSize int) []domain.CanonicalMedia {
	return f.list("upcoming", page, pageSize)
}

func (f *fakeCatalog) GetAnimeDetails(_ context.Context, id int) domain.CanonicalMedia {
	f.calls = append(f.calls, call{op: "show", id: id})
	m := domain.NewCanonicalMedia()
	m.ID = id

	return m
}

type fakeLibrary struct {
	calls []call
	err   error
}

func (f *fakeLibrary) record(op string, auth domain.AuthContext, id int, arg string) {
	f.calls = append(f.calls, call{op: op, auth: auth, id: id, arg: arg})
}

func (f *fakeLibrary) GetUserAnimeList(_ context.Context, auth domain.AuthContext, status domain.MediaListStatus) (domain.MediaListCollection, error) {
	f.record("list", auth, 0, string(status))
	return domain.NewMediaListCollection(), f.err
}

func (f *fakeLibrary) GetFavorites(_ context.Context, auth domain.AuthContext) ([]domain.CanonicalMedia, error) {
	f.record("favorites", auth, 0, "")
	return []domain.CanonicalMedia{}, f.err
}

func (f *fakeLibrary) IsAnimeFavorite(_ context.Context, auth domain.AuthContext, id int) (bool, error) {
	f.record("is-favorite", auth, id, "")
	return false, f.err
}

func (f *fakeLibrary) ToggleFavorite(_ context.Context, auth domain.AuthContext, id int) (bool, error) {
	f.record("toggle", auth, id, "")
	return true, f.err
}

func (f *fakeLibrary) GetAnimeStatus(_ context.Context, auth domain.AuthContext, id int) (*domain.MediaListEntry, error) {
	f.record("status", auth, id, "")
	return nil, f.err
}

func (f *fakeLibrary) SaveProgress(_ context.Context, auth domain.AuthContext, id, progress int) error {
	f.record("progress", auth, id, "")
	f.calls[len(f.calls)-1].page = progress

	return f.err
}

func (f *fakeLibrary) UpdateAnimeStatus(_ context.Context, auth domain.AuthContext, id int, status string) error {
	f.record("set-status", auth, id, status)
	return f.err
}

func (f *fakeLibrary) DeleteAnimeEntry(_ context.Context, auth domain.AuthContext, id int) error {
	f.record("delete", auth, id, "")
	return f.err
}

type harness struct {
	catalog *fakeCatalog
	library *fakeLibrary
	cfg     *config.Config
	out     bytes.Buffer
	errOut  bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(EnvToken, "")
	t.Setenv(EnvUserID, "")

	return &harness{catalog: &fakeCatalog{}, library: &fakeLibrary{}}
}

func (h *harness) run(args ...string) error {
	factory := func(cfg *config.Config, _ *zap.Logger) Services {
		h.cfg = cfg
		return Services{Catalog: h.catalog, Library: h.library}
	}

	cmd := NewRootCmd(&h.out, &h.errOut, factory)
	cmd.SetArgs(append([]string{"--no-color"}, args...))

	return cmd.Execute()
}

func TestCatalogCommands(t *testing.T) {
	for _, op := range []string{"trending", "popular", "top", "recent", "favorited", "watched", "upcoming"} {
		t.Run(op, func(t *testing.T) {
			h := newHarness(t)

			require.NoError(t, h.run(op, "--page", "2", "--page-size", "5"))

			require.Len(t, h.catalog.calls, 1)
			assert.Equal(t, call{op: op, page: 2, pageSize: 5}, h.catalog.calls[0])

			var items []domain.CanonicalMedia
			require.NoError(t, json.Unmarshal(h.out.Bytes(), &items))
			require.Len(t, items, 1)
			assert.Equal(t, "Cowboy Bebop", items[0].Title.Romaji)
		})
	}
}

func TestSearchCommand(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("search", "cowboy", "bebop"))

	require.Len(t, h.catalog.calls, 1)
	assert.Equal(t, "cowboy bebop", h.catalog.calls[0].arg)
	assert.Equal(t, domain.DefaultPageSize, h.catalog.calls[0].pageSize)

	assert.Error(t, newHarness(t).run("search"))
}

func TestShowCommand(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("show", "1"))
	assert.Equal(t, 1, h.catalog.calls[0].id)
	assert.Contains(t, h.out.String(), `"id": 1`)

	assert.Error(t, newHarness(t).run("show", "abc"))
}

func TestURLFlagsOverrideEnv(t *testing.T) {
	h := newHarness(t)
	t.Setenv(config.EnvPrimaryURL, "http://env-primary")
	t.Setenv(config.EnvBackupURL, "http://env-backup")

	require.NoError(t, h.run("--api-url", "http://flag-primary", "trending"))

	assert.Equal(t, "http://flag-primary", h.cfg.Provider.A.BaseURL)
	assert.Equal(t, "http://env-backup", h.cfg.Provider.B.BaseURL)
}

func TestMeCommands_Auth(t *testing.T) {
	h := newHarness(t)
	t.Setenv(EnvToken, "env-token")
	t.Setenv(EnvUserID, "7")

	require.NoError(t, h.run("me", "favorites"))
	assert.Equal(t, domain.AuthContext{UserID: 7, AccessToken: "env-token"}, h.library.calls[0].auth)

	h2 := newHarness(t)
	require.NoError(t, h2.run("--token", "flag", "--user-id", "9", "me", "favorites"))
	assert.Equal(t, domain.AuthContext{UserID: 9, AccessToken: "flag"}, h2.library.calls[0].auth)

	h3 := newHarness(t)
	require.NoError(t, h3.run("me", "favorites"))
	assert.Contains(t, h3.errOut.String(), "no AniList credentials")
}

func TestMeCommands(t *testing.T) {
	tests := []struct {
		args []string
		want call
	}{
		{[]string{"list", "--status", "completed"}, call{op: "list", arg: "COMPLETED"}},
		{[]string{"list"}, call{op: "list"}},
		{[]string{"is-favorite", "5"}, call{op: "is-favorite", id: 5}},
		{[]string{"toggle-favorite", "5"}, call{op: "toggle", id: 5}},
		{[]string{"status", "5"}, call{op: "status", id: 5}},
		{[]string{"progress", "5", "12"}, call{op: "progress", id: 5, page: 12}},
		{[]string{"set-status", "5", "planning"}, call{op: "set-status", id: 5, arg: "planning"}},
		{[]string{"delete", "5"}, call{op: "delete", id: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			h := newHarness(t)

			require.NoError(t, h.run(append([]string{"--token", "t", "--user-id", "1", "me"}, tt.args...)...))

			require.Len(t, h.library.calls, 1)
			got := h.library.calls[0]
			got.auth = domain.AuthContext{}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMeCommands_Errors(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.run("me", "list", "--status", "watching"), domain.ErrInvalidStatus)
	assert.Empty(t, h.library.calls)

	h = newHarness(t)
	h.library.err = domain.NewServiceError("GetFavorites", assert.AnError)
	err := h.run("me", "favorites")

	var svcErr *domain.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "GetFavorites", svcErr.Op)

	assert.Error(t, newHarness(t).run("me", "progress", "5", "many"))
}
