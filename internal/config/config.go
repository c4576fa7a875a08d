package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Weather provider identifiers accepted by WEATHER_PROVIDER.
const (
	ProviderOpenMeteo   = "openmeteo"
	ProviderOpenWeather = "openweather"
	ProviderWeatherAPI  = "weatherapi"
)

type AppConfig struct {
	Port string `envconfig:"PORT" default:"8080"`

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"8s" validate:"gt=0"`
	UserAgent   string        `envconfig:"USER_AGENT" default:"SolarEnergyApp/1.0" validate:"required"`

	// CacheSize is the capacity of each gateway's coordinate cache.
	CacheSize int `envconfig:"CACHE_SIZE" default:"512" validate:"gte=1"`

	WeatherProvider   string `envconfig:"WEATHER_PROVIDER" default:"openmeteo" validate:"oneof=openmeteo openweather weatherapi"`
	WeatherBaseURL    string `envconfig:"WEATHER_BASE_URL" validate:"omitempty,url"`
	OpenWeatherAPIKey string `envconfig:"OPENWEATHER_API_KEY" validate:"required_if=WeatherProvider openweather"`
	WeatherAPIKey     string `envconfig:"WEATHERAPI_API_KEY" validate:"required_if=WeatherProvider weatherapi"`

	GeocoderBaseURL string  `envconfig:"GEOCODER_BASE_URL" validate:"omitempty,url"`
	GeocoderRPS     float64 `envconfig:"GEOCODER_RPS" default:"1" validate:"gte=0"`
	// GoogleGeocoderAPIKey switches reverse geocoding from Nominatim to Google.
	GoogleGeocoderAPIKey string `envconfig:"GOOGLE_GEOCODER_API_KEY"`

	RegionFile      string `envconfig:"REGION_FILE" default:"csv/india_regions.csv" validate:"required"`
	TopRegionsFile  string `envconfig:"TOP_REGIONS_FILE" default:"csv/TOP_10_REGIONS.csv" validate:"required"`
	QueryLogFile    string `envconfig:"QUERY_LOG_FILE" default:"csv/User_Query.csv" validate:"required"`
	TopRegionsLimit int    `envconfig:"TOP_REGIONS_LIMIT" default:"10" validate:"gte=1"`

	// RankingInterval refreshes the top-regions snapshot in the background
	// (0 = only on query).
	RankingInterval time.Duration `envconfig:"RANKING_INTERVAL" default:"0s" validate:"gte=0"`

	// In-memory recent query retention.
	StoreMaxHistory int           `envconfig:"STORE_MAX_HISTORY" default:"100"` // 0 = unlimited
	StoreMaxAge     time.Duration `envconfig:"STORE_MAX_AGE" default:"24h"`     // 0 = unlimited

	LogDevelopment bool `envconfig:"LOG_DEVELOPMENT" default:"false"`
}

// Load reads optional dotenv files (default ".env"), then the environment,
// applies defaults and validates the result. Missing dotenv files are ignored.
func Load(files ...string) (*AppConfig, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load dotenv: %w", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// EnsureDataDirs creates the directories holding the CSV files.
func (c *AppConfig) EnsureDataDirs() error {
	seen := map[string]bool{}
	for _, p := range []string{c.RegionFile, c.TopRegionsFile, c.QueryLogFile} {
		dir := filepath.Dir(p)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}
	return nil
}
