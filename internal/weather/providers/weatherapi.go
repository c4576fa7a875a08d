package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/solar-energy-estimator/internal/weather"
)

// WeatherAPIBaseURL is the WeatherAPI.com current-conditions endpoint.
const WeatherAPIBaseURL = "https://api.weatherapi.com/v1/current.json"

// WeatherAPIProvider implements weather.Source for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(cfg HTTPClientConfig, baseURL, apiKey string) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = WeatherAPIBaseURL
	}
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, c weather.Coordinate) (weather.Sample, error) {
	if p.apiKey == "" {
		return weather.Sample{}, fmt.Errorf("weatherapi: %w", ErrMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "lat,lon".
		values.Set("q", fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, p.name, buildRequest)
	if err != nil {
		return weather.Sample{}, err
	}

	var payload struct {
		Current *struct {
			TempC *float64 `json:"temp_c"`
			Cloud *float64 `json:"cloud"`
		} `json:"current"`
	}
	if err := decodeJSON(resp, p.name, &payload); err != nil {
		return weather.Sample{}, err
	}

	if payload.Current == nil || payload.Current.TempC == nil {
		return weather.Sample{}, malformed(p.name, "missing current.temp_c")
	}

	return weather.Sample{
		TemperatureC:  *payload.Current.TempC,
		CloudCoverPct: weather.AverageCloudCover([]*float64{payload.Current.Cloud}),
	}, nil
}
