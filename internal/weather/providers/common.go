package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/solar-energy-estimator/internal/weather"
)

// HTTPClientConfig bundles the shared HTTP client and request headers.
type HTTPClientConfig struct {
	Client    *http.Client
	UserAgent string
}

var errNoHTTPClient = errors.New("http client not configured")

// ErrMissingAPIKey is returned by keyed providers built without a key. It is
// a configuration error, so gateways propagate it instead of falling back.
var ErrMissingAPIKey = errors.New("api key is not configured")

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		// A caller giving up says nothing about the upstream's health.
		IsSuccessful: func(err error) bool {
			return err == nil || isContextErr(err)
		},
	})
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// doRequest executes a single HTTP request through the circuit breaker.
// Upstream calls are never retried. Transport failures, non-2xx statuses and
// an open circuit are returned as *weather.UpstreamError. Cancellation of ctx
// and requests that cannot be built are returned unwrapped.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	provider string,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", weather.ErrBadStatus, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", weather.ErrCircuitOpen, err)
		}
		return nil, weather.NewUpstreamError(provider, "request", err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

// decodeJSON decodes the response body into v and closes it. Decode
// failures are reported as weather.ErrMalformed.
func decodeJSON(resp *http.Response, provider string, v interface{}) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return weather.NewUpstreamError(provider, "decode", fmt.Errorf("%w: %v", weather.ErrMalformed, err))
	}
	return nil
}

func malformed(provider, detail string) error {
	return weather.NewUpstreamError(provider, "decode", fmt.Errorf("%w: %s", weather.ErrMalformed, detail))
}
