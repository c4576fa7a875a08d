package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/solar-energy-estimator/internal/common"
	"github.com/i474232898/solar-energy-estimator/internal/weather"
)

// OpenMeteoBaseURL is the public Open-Meteo forecast endpoint.
const OpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider implements weather.Source for Open-Meteo. It needs no API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates a provider against baseURL, or the public
// endpoint when baseURL is empty.
func NewOpenMeteoProvider(cfg HTTPClientConfig, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = OpenMeteoBaseURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Fetch requests the current temperature and the hourly cloud cover series
// and averages the latter.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, c weather.Coordinate) (weather.Sample, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", common.FormatFloat(c.Lat))
		values.Set("longitude", common.FormatFloat(c.Lon))
		values.Set("hourly", "cloudcover")
		values.Set("current_weather", "true")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, p.name, buildRequest)
	if err != nil {
		return weather.Sample{}, err
	}

	var payload struct {
		CurrentWeather *struct {
			Temperature *float64 `json:"temperature"`
		} `json:"current_weather"`
		Hourly *struct {
			CloudCover []*float64 `json:"cloudcover"`
		} `json:"hourly"`
	}
	if err := decodeJSON(resp, p.name, &payload); err != nil {
		return weather.Sample{}, err
	}

	if payload.CurrentWeather == nil || payload.CurrentWeather.Temperature == nil {
		return weather.Sample{}, malformed(p.name, "missing current_weather.temperature")
	}
	if payload.Hourly == nil || payload.Hourly.CloudCover == nil {
		return weather.Sample{}, malformed(p.name, "missing hourly.cloudcover")
	}

	return weather.Sample{
		TemperatureC:  *payload.CurrentWeather.Temperature,
		CloudCoverPct: weather.AverageCloudCover(payload.Hourly.CloudCover),
	}, nil
}
