package estimate

import (
	"context"
	"time"

	"github.com/i474232898/solar-energy-estimator/internal/weather"
)

// WeatherLookup returns current conditions for a coordinate.
type WeatherLookup interface {
	Weather(ctx context.Context, lat, lon float64) (weather.Sample, error)
}

// NameLookup resolves a coordinate to a place name.
type NameLookup interface {
	RegionName(ctx context.Context, lat, lon float64) (string, error)
}

// RegionSource yields the region catalog; it is consulted once per ranking run.
type RegionSource interface {
	Regions() ([]Region, error)
}

// SnapshotStore holds the most recent top-regions ranking.
type SnapshotStore interface {
	Replace(estimates []Estimate) error
	Load() ([]Estimate, error)
}

// QueryRecorder durably records single-point query results.
type QueryRecorder interface {
	Append(e Estimate) error
}

// History keeps a bounded, in-memory view of recent queries.
type History interface {
	Save(e Estimate, at time.Time)
	Recent() []Estimate
}
