package weather

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize bounds each gateway's memo of rounded coordinates.
const DefaultCacheSize = 512

// WeatherGateway fronts a Source with a bounded cache keyed by rounded
// coordinate and converts upstream failures into FallbackSample.
type WeatherGateway struct {
	source Source
	cache  *lru.Cache[string, Sample]
	group  singleflight.Group
	logger *zap.SugaredLogger
}

// NewWeatherGateway creates a WeatherGateway holding at most cacheSize samples.
func NewWeatherGateway(source Source, cacheSize int, logger *zap.SugaredLogger) (*WeatherGateway, error) {
	cache, err := lru.New[string, Sample](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("weather cache: %w", err)
	}
	return &WeatherGateway{
		source: source,
		cache:  cache,
		logger: logger,
	}, nil
}

// Weather returns the current temperature and mean cloud cover at lat/lon.
// Upstream failures yield FallbackSample and a nil error. Cancellation of ctx
// and errors that are not *UpstreamError are returned. Fallback values are
// not cached.
func (g *WeatherGateway) Weather(ctx context.Context, lat, lon float64) (Sample, error) {
	c := NewCoordinate(lat, lon)
	key := c.Key()

	if s, ok := g.cache.Get(key); ok {
		return s, nil
	}

	v, err, _ := g.group.Do(key, func() (interface{}, error) {
		s, err := g.source.Fetch(ctx, c)
		if err != nil {
			return nil, err
		}
		g.cache.Add(key, s)
		return s, nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Sample{}, ctxErr
		}
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			g.logger.Warnw("weather lookup failed, using fallback",
				"coord", key, "provider", upstream.Provider, "error", err)
			return FallbackSample, nil
		}
		return Sample{}, err
	}
	return v.(Sample), nil
}

// Cached reports how many coordinates currently have a cached sample.
func (g *WeatherGateway) Cached() int {
	return g.cache.Len()
}

// GeocodingGateway fronts a ReverseGeocoder with the same rounding, caching
// and fail-soft policy as WeatherGateway.
type GeocodingGateway struct {
	geocoder ReverseGeocoder
	cache    *lru.Cache[string, string]
	group    singleflight.Group
	logger   *zap.SugaredLogger
}

// NewGeocodingGateway creates a GeocodingGateway holding at most cacheSize names.
func NewGeocodingGateway(geocoder ReverseGeocoder, cacheSize int, logger *zap.SugaredLogger) (*GeocodingGateway, error) {
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("geocoding cache: %w", err)
	}
	return &GeocodingGateway{
		geocoder: geocoder,
		cache:    cache,
		logger:   logger,
	}, nil
}

// RegionName resolves lat/lon to a place name. Upstream failures yield
// UnknownRegion and a nil error; cancellation of ctx is returned.
func (g *GeocodingGateway) RegionName(ctx context.Context, lat, lon float64) (string, error) {
	c := NewCoordinate(lat, lon)
	key := c.Key()

	if name, ok := g.cache.Get(key); ok {
		return name, nil
	}

	v, err, _ := g.group.Do(key, func() (interface{}, error) {
		name, err := g.geocoder.Reverse(ctx, c)
		if err != nil {
			return nil, err
		}
		g.cache.Add(key, name)
		return name, nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			g.logger.Warnw("reverse geocoding failed, using fallback",
				"coord", key, "provider", upstream.Provider, "error", err)
			return UnknownRegion, nil
		}
		return "", err
	}
	return v.(string), nil
}

// Cached reports how many coordinates currently have a cached name.
func (g *GeocodingGateway) Cached() int {
	return g.cache.Len()
}
