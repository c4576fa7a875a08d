package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/solar-energy-estimator/internal/api/http"
	"github.com/i474232898/solar-energy-estimator/internal/config"
	"github.com/i474232898/solar-energy-estimator/internal/estimate"
	"github.com/i474232898/solar-energy-estimator/internal/scheduler"
	"github.com/i474232898/solar-energy-estimator/internal/store"
	"github.com/i474232898/solar-energy-estimator/internal/weather"
	"github.com/i474232898/solar-energy-estimator/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var zapLogger *zap.Logger
	if cfg.LogDevelopment {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "can't initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	if err := cfg.EnsureDataDirs(); err != nil {
		log.Fatalw("failed to prepare data directories", "error", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpCfg := providers.HTTPClientConfig{
		Client:    &http.Client{Timeout: cfg.HTTPTimeout},
		UserAgent: cfg.UserAgent,
	}

	weatherGateway, err := weather.NewWeatherGateway(newWeatherSource(cfg, httpCfg), cfg.CacheSize, log.Named("weather"))
	if err != nil {
		log.Fatalw("failed to create weather gateway", "error", err)
	}
	geocodingGateway, err := weather.NewGeocodingGateway(newReverseGeocoder(cfg, httpCfg), cfg.CacheSize, log.Named("geocoding"))
	if err != nil {
		log.Fatalw("failed to create geocoding gateway", "error", err)
	}

	// Core service orchestrating gateways and CSV stores. The service and the
	// recent-query store share one clock.
	clock := time.Now
	service := estimate.NewService(estimate.Dependencies{
		Weather:  weatherGateway,
		Names:    geocodingGateway,
		Regions:  store.NewCatalog(cfg.RegionFile),
		Snapshot: store.NewSnapshot(cfg.TopRegionsFile),
		Queries:  store.NewQueryLog(cfg.QueryLogFile),
		History:  store.NewRecentQueries(cfg.StoreMaxHistory, cfg.StoreMaxAge, clock),
		Limit:    cfg.TopRegionsLimit,
		Now:      clock,
		Logger:   log.Named("estimate"),
	})

	// Scheduler that periodically refreshes the top-regions snapshot.
	sched := scheduler.New(service, cfg.RankingInterval, 5*time.Minute, log.Named("scheduler"))
	if err := sched.Start(); err != nil {
		log.Fatalw("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "solar-energy-estimator",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// A query fans out to one forecast call per catalog region.
		WriteTimeout: 2 * time.Minute,
		ErrorHandler: httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":         "ok",
			"service":        "solar-energy-estimator",
			"weatherCached":  weatherGateway.Cached(),
			"regionsCached":  geocodingGateway.Cached(),
			"weatherSource":  cfg.WeatherProvider,
			"rankingRefresh": cfg.RankingInterval.String(),
		})
	})

	// Form and API routes.
	httpapi.RegisterRoutes(app, service, log.Named("http"))

	go func() {
		log.Infow("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorw("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("error during shutdown", "error", err)
	}
}

func newWeatherSource(cfg *config.AppConfig, httpCfg providers.HTTPClientConfig) weather.Source {
	switch cfg.WeatherProvider {
	case config.ProviderOpenWeather:
		return providers.NewOpenWeatherProvider(httpCfg, cfg.WeatherBaseURL, cfg.OpenWeatherAPIKey)
	case config.ProviderWeatherAPI:
		return providers.NewWeatherAPIProvider(httpCfg, cfg.WeatherBaseURL, cfg.WeatherAPIKey)
	default:
		return providers.NewOpenMeteoProvider(httpCfg, cfg.WeatherBaseURL)
	}
}

func newReverseGeocoder(cfg *config.AppConfig, httpCfg providers.HTTPClientConfig) weather.ReverseGeocoder {
	if cfg.GoogleGeocoderAPIKey != "" {
		return providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey)
	}
	return providers.NewNominatimGeocoder(httpCfg, cfg.GeocoderBaseURL, cfg.GeocoderRPS)
}
