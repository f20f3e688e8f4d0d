package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"anime-aggregator/internal/domain"
)

// Failure signals returned by provider clients. Each is distinct so callers
// can tell them apart with errors.Is / errors.As.
var (
	ErrNetwork       = errors.New("provider network error")
	ErrTimeout       = errors.New("provider timeout")
	ErrMalformedJSON = errors.New("provider returned malformed JSON")
	ErrCircuitOpen   = errors.New("provider circuit open")
	ErrThrottled     = errors.New("provider request throttled")
)

// StatusError is returned when a provider answers with anything but 200.
type StatusError struct {
	Provider domain.ProviderID
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Provider, e.Code)
}

// Classify maps a transport-level error onto one of the failure signals.
// Errors that already carry a signal pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr),
		errors.Is(err, ErrMalformedJSON),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrNetwork),
		errors.Is(err, ErrThrottled),
		errors.Is(err, ErrCircuitOpen):
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

// Outcome returns a short label for metrics and logs.
func Outcome(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &statusErr):
		return "status"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMalformedJSON):
		return "malformed"
	case errors.Is(err, ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, ErrThrottled):
		return "throttled"
	default:
		return "network"
	}
}

// IsUpstreamFailure reports whether err means the provider itself is
// unhealthy: a transport failure, a timeout or a 5xx. A 4xx, a malformed
// body, local throttling and caller cancellation are per-call results and
// must not open the breaker.
func IsUpstreamFailure(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.Code >= http.StatusInternalServerError
	case errors.Is(err, ErrMalformedJSON),
		errors.Is(err, ErrThrottled),
		errors.Is(err, context.Canceled):
		return false
	}

	return true
}
