package graphql

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"anime-aggregator/internal/infra/provider"
)

const testEndpoint = "https://graphql.example.com"

func newTestClient() *Client {
	client := New(provider.ClientConfig{
		BaseURL: testEndpoint,
		Timeout: 5 * time.Second,
	}, zap.NewNop())

	httpmock.ActivateNonDefault(client.client.GetClient())

	return client
}

// TestGraphQL_Execute_Success verifies the request shape and data decoding.
func TestGraphQL_Execute_Success(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	var gotAuth string
	var gotBody payload
	httpmock.RegisterResponder("POST", testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			gotAuth = req.Header.Get("Authorization")
			raw, _ := io.ReadAll(req.Body)
			_ = json.Unmarshal(raw, &gotBody)

			return httpmock.NewStringResponse(200, `{"data":{"Media":{"id":21,"isFavourite":true}}}`), nil
		})

	client := newTestClient()
	var out struct {
		Media struct {
			ID          int  `json:"id"`
			IsFavourite bool `json:"isFavourite"`
		} `json:"Media"`
	}
	err := client.Execute(context.Background(), Request{
		OperationName: "IsAnimeFavorite",
		Query:         "query IsAnimeFavorite($id: Int) { Media(id: $id) { id isFavourite } }",
		Variables:     map[string]any{"id": 21},
		Token:         "secret",
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, 21, out.Media.ID)
	assert.True(t, out.Media.IsFavourite)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "IsAnimeFavorite", gotBody.OperationName)
	assert.EqualValues(t, 21, gotBody.Variables["id"])
}

// TestGraphQL_Execute_ServerErrors tests server-reported errors.
func TestGraphQL_Execute_ServerErrors(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint,
		httpmock.NewStringResponder(404, `{"data":{"MediaList":null},"errors":[{"message":"Not Found.","status":404}]}`))

	client := newTestClient()
	err := client.Execute(context.Background(), Request{OperationName: "GetAnimeStatus"}, nil)

	var gqlErr *Error
	require.ErrorAs(t, err, &gqlErr)
	assert.True(t, gqlErr.NotFound())
	assert.Equal(t, []string{"Not Found."}, gqlErr.Messages)
}

// TestGraphQL_Execute_InvalidToken tests a 400 with a GraphQL error body.
func TestGraphQL_Execute_InvalidToken(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint,
		httpmock.NewStringResponder(400, `{"errors":[{"message":"Invalid token","status":400}]}`))

	client := newTestClient()
	err := client.Execute(context.Background(), Request{OperationName: "GetFavorites", Token: "bad"}, nil)

	var gqlErr *Error
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, 400, gqlErr.Status)
	assert.Contains(t, err.Error(), "Invalid token")
}

// TestGraphQL_Execute_TransportFailures tests the provider failure signals.
func TestGraphQL_Execute_TransportFailures(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	tests := []struct {
		name      string
		responder httpmock.Responder
		target    error
	}{
		{"network", httpmock.NewErrorResponder(errors.New("connection reset")), provider.ErrNetwork},
		{"malformed", httpmock.NewStringResponder(200, `<html>`), provider.ErrMalformedJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Reset()
			httpmock.RegisterResponder("POST", testEndpoint, tt.responder)

			client := newTestClient()
			err := client.Execute(context.Background(), Request{OperationName: "GetUserAnimeList"}, nil)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), "GetUserAnimeList")
		})
	}
}

// TestGraphQL_Execute_Outage tests a 5xx without a GraphQL error body.
func TestGraphQL_Execute_Outage(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint,
		httpmock.NewStringResponder(503, `Service Unavailable`))

	client := newTestClient()
	err := client.Execute(context.Background(), Request{OperationName: "SaveProgress"}, nil)

	var statusErr *provider.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 503, statusErr.Code)
}
