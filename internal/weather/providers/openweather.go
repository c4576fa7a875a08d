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

// OpenWeatherBaseURL is the OpenWeatherMap current-conditions endpoint.
const OpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherProvider implements weather.Source for OpenWeatherMap. It only
// reports current cloudiness, so the "series" averaged is a single value.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(cfg HTTPClientConfig, baseURL, apiKey string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = OpenWeatherBaseURL
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, c weather.Coordinate) (weather.Sample, error) {
	if p.apiKey == "" {
		return weather.Sample{}, fmt.Errorf("openweather: %w", ErrMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		values.Set("lat", common.FormatFloat(c.Lat))
		values.Set("lon", common.FormatFloat(c.Lon))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, p.name, buildRequest)
	if err != nil {
		return weather.Sample{}, err
	}

	var payload struct {
		Main *struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
		Clouds *struct {
			All *float64 `json:"all"`
		} `json:"clouds"`
	}
	if err := decodeJSON(resp, p.name, &payload); err != nil {
		return weather.Sample{}, err
	}

	if payload.Main == nil || payload.Main.Temp == nil {
		return weather.Sample{}, malformed(p.name, "missing main.temp")
	}
	if payload.Clouds == nil {
		return weather.Sample{}, malformed(p.name, "missing clouds")
	}

	return weather.Sample{
		TemperatureC:  *payload.Main.Temp,
		CloudCoverPct: weather.AverageCloudCover([]*float64{payload.Clouds.All}),
	}, nil
}
