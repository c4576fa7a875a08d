package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/solar-energy-estimator/internal/common"
	"github.com/i474232898/solar-energy-estimator/internal/weather"
)

// NominatimBaseURL is the public OpenStreetMap reverse-geocoding endpoint.
const NominatimBaseURL = "https://nominatim.openstreetmap.org/reverse"

// nominatimZoom asks for city-level detail.
const nominatimZoom = "10"

// NominatimGeocoder implements weather.ReverseGeocoder for OpenStreetMap
// Nominatim. Requests are rate limited to respect the public usage policy.
type NominatimGeocoder struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// NewNominatimGeocoder creates a geocoder allowing at most rps requests per
// second. A non-positive rps disables limiting.
func NewNominatimGeocoder(cfg HTTPClientConfig, baseURL string, rps float64) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = NominatimBaseURL
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &NominatimGeocoder{
		name:    "nominatim",
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newCircuitBreaker("nominatim"),
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (g *NominatimGeocoder) Name() string {
	return g.name
}

// Reverse returns the city, town, village or state containing c, in that
// order of preference, or weather.UnknownRegion.
func (g *NominatimGeocoder) Reverse(ctx context.Context, c weather.Coordinate) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		// Wait fails only when ctx is done or its deadline falls before the
		// next token; neither is an upstream failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("format", "json")
		values.Set("lat", common.FormatFloat(c.Lat))
		values.Set("lon", common.FormatFloat(c.Lon))
		values.Set("zoom", nominatimZoom)

		u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, g.httpCfg, g.circuit, g.name, buildRequest)
	if err != nil {
		return "", err
	}

	var payload struct {
		Error   string `json:"error"`
		Address *struct {
			City    string `json:"city"`
			Town    string `json:"town"`
			Village string `json:"village"`
			State   string `json:"state"`
		} `json:"address"`
	}
	if err := decodeJSON(resp, g.name, &payload); err != nil {
		return "", err
	}

	if payload.Address == nil {
		// Nominatim answers open water and similar with an error message.
		if payload.Error != "" {
			return weather.UnknownRegion, nil
		}
		return "", malformed(g.name, "missing address")
	}

	a := payload.Address
	return weather.FirstName(a.City, a.Town, a.Village, a.State), nil
}
