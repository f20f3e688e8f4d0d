package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/infra/provider"
	"anime-aggregator/internal/infra/provider/anilist"
	"anime-aggregator/internal/infra/provider/graphql"
)

// scriptedExecutor answers each operation name with canned data or an error.
type scriptedExecutor struct {
	data  map[string]string
	errs  map[string]error
	calls []graphql.Request
}

func newScriptedExecutor() *scriptedExecutor {
	return &scriptedExecutor{data: map[string]string{}, errs: map[string]error{}}
}

func (e *scriptedExecutor) Execute(_ context.Context, req graphql.Request, out any) error {
	e.calls = append(e.calls, req)
	if err := e.errs[req.OperationName]; err != nil {
		return err
	}
	if body, ok := e.data[req.OperationName]; ok && out != nil {
		return json.Unmarshal([]byte(body), out)
	}

	return nil
}

func (e *scriptedExecutor) names() []string {
	names := make([]string, 0, len(e.calls))
	for _, c := range e.calls {
		names = append(names, c.OperationName)
	}

	return names
}

var validAuth = domain.AuthContext{UserID: 7, AccessToken: "token-7"}

func TestLibraryService_NoAuthIssuesNoCalls(t *testing.T) {
	exec := newScriptedExecutor()
	svc := NewLibraryService(exec, zap.NewNop())
	ctx := context.Background()

	for _, auth := range []domain.AuthContext{{}, {UserID: 7}, {AccessToken: "t"}, {UserID: 7, AccessToken: "  "}} {
		list, err := svc.GetUserAnimeList(ctx, auth, "")
		require.NoError(t, err)
		assert.NotNil(t, list.Lists)
		assert.Equal(t, 0, list.Len())

		favs, err := svc.GetFavorites(ctx, auth)
		require.NoError(t, err)
		assert.NotNil(t, favs)
		assert.Empty(t, favs)

		fav, err := svc.IsAnimeFavorite(ctx, auth, 1)
		require.NoError(t, err)
		assert.False(t, fav)

		toggled, err := svc.ToggleFavorite(ctx, auth, 1)
		require.NoError(t, err)
		assert.False(t, toggled)

		entry, err := svc.GetAnimeStatus(ctx, auth, 1)
		require.NoError(t, err)
		assert.Nil(t, entry)

		assert.NoError(t, svc.SaveProgress(ctx, auth, 1, 3))
		assert.NoError(t, svc.UpdateAnimeStatus(ctx, auth, 1, "completed"))
		assert.NoError(t, svc.DeleteAnimeEntry(ctx, auth, 1))
	}

	assert.Empty(t, exec.calls)
}

func TestLibraryService_GetUserAnimeList(t *testing.T) {
	exec := newScriptedExecutor()
	exec.data[anilist.OpGetUserAnimeList] = `{"MediaListCollection":{"lists":[{"name":"Watching","status":"CURRENT","entries":[{"id":1,"mediaId":20,"status":"CURRENT","progress":3}]}]}}`
	svc := NewLibraryService(exec, zap.NewNop())

	list, err := svc.GetUserAnimeList(context.Background(), validAuth, domain.StatusCurrent)

	require.NoError(t, err)
	assert.Equal(t, 1, list.Len())
	require.Len(t, exec.calls, 1)
	call := exec.calls[0]
	assert.Equal(t, "token-7", call.Token)
	assert.Equal(t, anilist.GetUserAnimeListQuery, call.Query)
	assert.Equal(t, map[string]any{"userId": 7, "status": "CURRENT"}, call.Variables)
}

func TestLibraryService_ReadsPropagate(t *testing.T) {
	cause := &graphql.Error{Status: 400, Messages: []string{"Invalid token"}}
	ctx := context.Background()

	tests := []struct {
		op  string
		run func(*LibraryService) error
	}{
		{anilist.OpGetUserAnimeList, func(s *LibraryService) error {
			_, err := s.GetUserAnimeList(ctx, validAuth, "")
			return err
		}},
		{anilist.OpGetFavorites, func(s *LibraryService) error {
			_, err := s.GetFavorites(ctx, validAuth)
			return err
		}},
		{anilist.OpIsAnimeFavorite, func(s *LibraryService) error {
			_, err := s.IsAnimeFavorite(ctx, validAuth, 1)
			return err
		}},
		{anilist.OpToggleFavorite, func(s *LibraryService) error {
			_, err := s.ToggleFavorite(ctx, validAuth, 1)
			return err
		}},
		{anilist.OpGetAnimeStatus, func(s *LibraryService) error {
			_, err := s.GetAnimeStatus(ctx, validAuth, 1)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			exec := newScriptedExecutor()
			exec.errs[tt.op] = cause
			err := tt.run(NewLibraryService(exec, zap.NewNop()))

			var svcErr *domain.ServiceError
			require.True(t, errors.As(err, &svcErr))
			assert.Equal(t, tt.op, svcErr.Op)
			assert.ErrorIs(t, err, cause)
		})
	}
}

func TestLibraryService_MutationsSwallow(t *testing.T) {
	exec := newScriptedExecutor()
	exec.errs[anilist.OpSaveProgress] = provider.ErrTimeout
	exec.errs[anilist.OpUpdateAnimeStatus] = &provider.StatusError{Provider: domain.ProviderAniList, Code: 500}
	exec.errs[anilist.OpGetAnimeStatus] = provider.ErrNetwork
	svc := NewLibraryService(exec, zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, svc.SaveProgress(ctx, validAuth, 20, 5))
	assert.NoError(t, svc.UpdateAnimeStatus(ctx, validAuth, 20, "paused"))
	assert.NoError(t, svc.DeleteAnimeEntry(ctx, validAuth, 20))
	assert.Equal(t, []string{anilist.OpSaveProgress, anilist.OpUpdateAnimeStatus, anilist.OpGetAnimeStatus}, exec.names())
}

func TestLibraryService_UpdateAnimeStatusValidation(t *testing.T) {
	exec := newScriptedExecutor()
	svc := NewLibraryService(exec, zap.NewNop())

	err := svc.UpdateAnimeStatus(context.Background(), validAuth, 20, "watching")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Empty(t, exec.calls)

	// Validation is raised even without credentials.
	err = svc.UpdateAnimeStatus(context.Background(), domain.AuthContext{}, 20, "watching")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	require.NoError(t, svc.UpdateAnimeStatus(context.Background(), validAuth, 20, "completed"))
	require.Len(t, exec.calls, 1)
	assert.Equal(t, "COMPLETED", exec.calls[0].Variables["status"])
	assert.Equal(t, 20, exec.calls[0].Variables["mediaId"])
}

func TestLibraryService_SaveProgressRejectsNegative(t *testing.T) {
	exec := newScriptedExecutor()
	svc := NewLibraryService(exec, zap.NewNop())

	err := svc.SaveProgress(context.Background(), validAuth, 20, -1)

	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Empty(t, exec.calls)
}

func TestLibraryService_ToggleFavoriteReadsBack(t *testing.T) {
	exec := newScriptedExecutor()
	exec.data[anilist.OpIsAnimeFavorite] = `{"Media":{"id":20,"isFavourite":true}}`
	svc := NewLibraryService(exec, zap.NewNop())

	state, err := svc.ToggleFavorite(context.Background(), validAuth, 20)

	require.NoError(t, err)
	assert.True(t, state)
	assert.Equal(t, []string{anilist.OpToggleFavorite, anilist.OpIsAnimeFavorite}, exec.names())
	assert.Equal(t, map[string]any{"animeId": 20}, exec.calls[0].Variables)
}

func TestLibraryService_GetAnimeStatus(t *testing.T) {
	exec := newScriptedExecutor()
	exec.data[anilist.OpGetAnimeStatus] = `{"MediaList":{"id":9,"userId":7,"mediaId":20,"status":"COMPLETED","progress":220,"score":90}}`
	svc := NewLibraryService(exec, zap.NewNop())

	entry, err := svc.GetAnimeStatus(context.Background(), validAuth, 20)

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, domain.StatusCompleted, entry.Status)
	assert.Equal(t, 220, entry.Progress)

	missing := newScriptedExecutor()
	missing.errs[anilist.OpGetAnimeStatus] = &graphql.Error{Status: http.StatusNotFound, Messages: []string{"Not Found."}}
	entry, err = NewLibraryService(missing, zap.NewNop()).GetAnimeStatus(context.Background(), validAuth, 20)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestLibraryService_DeleteAnimeEntry(t *testing.T) {
	exec := newScriptedExecutor()
	exec.data[anilist.OpGetAnimeStatus] = `{"MediaList":{"id":9,"mediaId":20,"status":"DROPPED"}}`
	exec.data[anilist.OpDeleteAnimeEntry] = `{"DeleteMediaListEntry":{"deleted":true}}`
	svc := NewLibraryService(exec, zap.NewNop())

	require.NoError(t, svc.DeleteAnimeEntry(context.Background(), validAuth, 20))
	assert.Equal(t, []string{anilist.OpGetAnimeStatus, anilist.OpDeleteAnimeEntry}, exec.names())
	assert.Equal(t, map[string]any{"id": 9}, exec.calls[1].Variables)

	noEntry := newScriptedExecutor()
	noEntry.errs[anilist.OpGetAnimeStatus] = &graphql.Error{Status: http.StatusNotFound}
	require.NoError(t, NewLibraryService(noEntry, zap.NewNop()).DeleteAnimeEntry(context.Background(), validAuth, 20))
	assert.Equal(t, []string{anilist.OpGetAnimeStatus}, noEntry.names())
}

func TestOperations_PolicyTable(t *testing.T) {
	policies := map[string]domain.ErrorPolicy{}
	for _, op := range Operations {
		assert.NotEmpty(t, op.Document, op.Name)
		policies[op.Name] = op.Policy
	}

	assert.Equal(t, map[string]domain.ErrorPolicy{
		anilist.OpGetUserAnimeList:  domain.PolicyPropagate,
		anilist.OpGetFavorites:      domain.PolicyPropagate,
		anilist.OpIsAnimeFavorite:   domain.PolicyPropagate,
		anilist.OpToggleFavorite:    domain.PolicyPropagate,
		anilist.OpGetAnimeStatus:    domain.PolicyPropagate,
		anilist.OpSaveProgress:      domain.PolicyLogAndSwallow,
		anilist.OpUpdateAnimeStatus: domain.PolicyLogAndSwallow,
		anilist.OpDeleteAnimeEntry:  domain.PolicyLogAndSwallow,
	}, policies)
}

// TestLibraryService_GraphQLEndToEnd runs a read through the real GraphQL
// client against mocked HTTP.
func TestLibraryService_GraphQLEndToEnd(t *testing.T) {
	const endpoint = "https://graphql.example.com"
	client := graphql.New(provider.ClientConfig{BaseURL: endpoint}, zap.NewNop())
	httpmock.ActivateNonDefault(client.HTTPClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", endpoint, func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("Authorization") != "Bearer token-7" {
			return httpmock.NewStringResponse(401, `{"data":null,"errors":[{"message":"Invalid token","status":401}]}`), nil
		}
		return httpmock.NewStringResponse(200, `{"data":{"Media":{"id":20,"isFavourite":true}}}`), nil
	})

	svc := NewLibraryService(client, zap.NewNop())

	fav, err := svc.IsAnimeFavorite(context.Background(), validAuth, 20)
	require.NoError(t, err)
	assert.True(t, fav)

	_, err = svc.IsAnimeFavorite(context.Background(), domain.AuthContext{UserID: 7, AccessToken: "wrong"}, 20)
	var svcErr *domain.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, anilist.OpIsAnimeFavorite, svcErr.Op)
}
