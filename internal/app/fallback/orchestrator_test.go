package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"anime-aggregator/internal/domain"
	"anime-aggregator/internal/infra/provider"
)

type fakeFetcher struct {
	name  domain.ProviderID
	body  []byte
	err   error
	calls []string
}

func (f *fakeFetcher) Name() domain.ProviderID {
	return f.name
}

func (f *fakeFetcher) Get(_ context.Context, rawURL string) ([]byte, error) {
	f.calls = append(f.calls, rawURL)
	if f.err != nil {
		return nil, f.err
	}

	return f.body, nil
}

func newFakes(primaryErr, backupErr error) (*fakeFetcher, *fakeFetcher) {
	return &fakeFetcher{name: domain.ProviderA, body: []byte(`{"data":"a"}`), err: primaryErr},
		&fakeFetcher{name: domain.ProviderB, body: []byte(`{"data":"b"}`), err: backupErr}
}

var testRequest = Request{Operation: "search", Primary: "http://a/anime", Backup: "http://b/anime"}

func TestFetch_PrimarySuccessNeverCallsBackup(t *testing.T) {
	primary, backup := newFakes(nil, nil)
	o := NewOrchestrator(primary, backup, zap.NewNop())

	res, err := o.Fetch(context.Background(), testRequest)

	require.NoError(t, err)
	assert.Equal(t, domain.ProviderA, res.Provider)
	assert.Equal(t, "http://a/anime", res.URL)
	assert.JSONEq(t, `{"data":"a"}`, string(res.Body))
	assert.Len(t, primary.calls, 1)
	assert.Empty(t, backup.calls)
}

func TestFetch_PrimaryFailureCallsBackupOnce(t *testing.T) {
	failures := []struct {
		name string
		err  error
	}{
		{"status 404", &provider.StatusError{Provider: domain.ProviderA, Code: 404}},
		{"status 500", &provider.StatusError{Provider: domain.ProviderA, Code: 500}},
		{"timeout", provider.ErrTimeout},
		{"network", provider.ErrNetwork},
		{"malformed", provider.ErrMalformedJSON},
		{"circuit open", provider.ErrCircuitOpen},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			primary, backup := newFakes(tt.err, nil)
			o := NewOrchestrator(primary, backup, zap.NewNop())

			res, err := o.Fetch(context.Background(), testRequest)

			require.NoError(t, err)
			assert.Equal(t, domain.ProviderB, res.Provider)
			assert.Equal(t, "http://b/anime", res.URL)
			assert.Len(t, primary.calls, 1)
			assert.Equal(t, []string{"http://b/anime"}, backup.calls)
		})
	}
}

func TestFetch_BothTiersFail(t *testing.T) {
	primary, backup := newFakes(provider.ErrTimeout, &provider.StatusError{Provider: domain.ProviderB, Code: 503})
	o := NewOrchestrator(primary, backup, zap.NewNop())

	res, err := o.Fetch(context.Background(), testRequest)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.Len(t, primary.calls, 1)
	assert.Len(t, backup.calls, 1)

	var statusErr *provider.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 503, statusErr.Code)
	assert.ErrorIs(t, err, provider.ErrTimeout)
}

func TestFetch_NoBackupURL(t *testing.T) {
	primary, backup := newFakes(provider.ErrNetwork, nil)
	o := NewOrchestrator(primary, backup, zap.NewNop())

	_, err := o.Fetch(context.Background(), Request{Operation: "detail", Primary: "http://a/anime/1"})

	assert.ErrorIs(t, err, ErrNoBackup)
	assert.Empty(t, backup.calls)
}
