package weather

import (
	"context"
	"errors"
	"fmt"
)

// Source abstracts a forecast provider (e.g. Open-Meteo, OpenWeatherMap).
type Source interface {
	Name() string
	Fetch(ctx context.Context, c Coordinate) (Sample, error)
}

// ReverseGeocoder abstracts a reverse-geocoding provider (e.g. Nominatim).
type ReverseGeocoder interface {
	Name() string
	Reverse(ctx context.Context, c Coordinate) (string, error)
}

var (
	// ErrBadStatus marks a non-2xx upstream response.
	ErrBadStatus = errors.New("unexpected status code")
	// ErrMalformed marks a response body that does not have the expected shape.
	ErrMalformed = errors.New("malformed response")
	// ErrCircuitOpen marks a call rejected by the provider's circuit breaker.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// UpstreamError is the only error a gateway converts into its fallback value.
// Providers wrap every transport, status and payload failure in it.
type UpstreamError struct {
	Provider string
	Op       string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps err as an UpstreamError for the given provider.
func NewUpstreamError(provider, op string, err error) *UpstreamError {
	return &UpstreamError{Provider: provider, Op: op, Err: err}
}
