package estimate

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/solar-energy-estimator/internal/common"
	"github.com/i474232898/solar-energy-estimator/internal/solar"
	"github.com/i474232898/solar-energy-estimator/internal/weather"
)

// DefaultTopRegions is the size of the ranking kept by ComputeTopRegions.
const DefaultTopRegions = 10

// Dependencies are the collaborators a Service is built from. Weather,
// Regions and Snapshot are required; the rest may be nil.
type Dependencies struct {
	Weather  WeatherLookup
	Names    NameLookup
	Regions  RegionSource
	Snapshot SnapshotStore
	Queries  QueryRecorder
	History  History

	// Limit caps the ranking size; <= 0 means DefaultTopRegions.
	Limit int
	// Now is the clock; nil means time.Now.
	Now func() time.Time

	Logger *zap.SugaredLogger
}

// Service computes single-point estimates and the top-regions ranking.
type Service struct {
	weather  WeatherLookup
	names    NameLookup
	regions  RegionSource
	snapshot SnapshotStore
	queries  QueryRecorder
	history  History
	limit    int
	now      func() time.Time
	logger   *zap.SugaredLogger

	// rankMu serializes ranking runs so snapshot writes never interleave.
	rankMu sync.Mutex
}

// NewService creates a new Service.
func NewService(d Dependencies) *Service {
	s := &Service{
		weather:  d.Weather,
		names:    d.Names,
		regions:  d.Regions,
		snapshot: d.Snapshot,
		queries:  d.Queries,
		history:  d.History,
		limit:    d.Limit,
		now:      d.Now,
		logger:   d.Logger,
	}
	if s.limit <= 0 {
		s.limit = DefaultTopRegions
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	return s
}

// QueryRequest is a validated single-point query.
type QueryRequest struct {
	Latitude  float64
	Longitude float64
	// Region overrides reverse geocoding when non-empty.
	Region string
}

// QueryResult is everything a query returns: the point estimate, the freshly
// recomputed ranking and the ranking's correlation matrix.
type QueryResult struct {
	Estimate    Estimate           `json:"result"`
	TopRegions  []Estimate         `json:"topRegions"`
	Correlation *CorrelationMatrix `json:"correlation,omitempty"`
}

// Query runs the full request flow: estimate the point, append it to the
// query log, then recompute and persist the ranking.
func (s *Service) Query(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	est, err := s.Estimate(ctx, req.Latitude, req.Longitude, req.Region)
	if err != nil {
		return nil, err
	}

	top, err := s.ComputeTopRegions(ctx)
	if err != nil {
		return nil, err
	}

	result := &QueryResult{
		Estimate:   est,
		TopRegions: top,
	}
	if len(top) > 0 {
		m := Correlate(top)
		result.Correlation = &m
	}
	return result, nil
}

// Estimate computes today's yield at lat/lon and records it in the query log
// and history. An empty region is resolved by reverse geocoding.
func (s *Service) Estimate(ctx context.Context, lat, lon float64, region string) (Estimate, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		region = weather.UnknownRegion
		if s.names != nil {
			name, err := s.names.RegionName(ctx, lat, lon)
			if err != nil {
				return Estimate{}, fmt.Errorf("resolve region name: %w", err)
			}
			region = name
		}
	}

	now := s.now()
	decl := solar.DeclinationAngle(solar.DayOfYear(now))

	est, err := s.compute(ctx, region, lat, lon, decl, now)
	if err != nil {
		return Estimate{}, err
	}

	if s.queries != nil {
		if err := s.queries.Append(est); err != nil {
			return Estimate{}, fmt.Errorf("append query log: %w", err)
		}
	}
	if s.history != nil {
		s.history.Save(est, now)
	}

	s.logger.Infow("estimate computed",
		"region", est.Region, "lat", lat, "lon", lon,
		"cloud", est.CloudCover, "energy", est.EnergyKWhPerM2)
	return est, nil
}

// ComputeTopRegions estimates every catalog region for today, keeps the
// best by energy (ties keep catalog order) and replaces the persisted
// snapshot with that list, even when it is empty.
func (s *Service) ComputeTopRegions(ctx context.Context) ([]Estimate, error) {
	s.rankMu.Lock()
	defer s.rankMu.Unlock()

	runID := uuid.NewString()
	started := time.Now()

	now := s.now()
	decl := solar.DeclinationAngle(solar.DayOfYear(now))

	regions, err := s.regions.Regions()
	if err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}

	results := make([]Estimate, 0, len(regions))
	for _, r := range regions {
		// Abandon the run rather than persist a ranking built from fallbacks.
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("ranking run %s: %w", runID, err)
		}
		est, err := s.compute(ctx, r.Name, r.Latitude, r.Longitude, decl, now)
		if err != nil {
			return nil, err
		}
		results = append(results, est)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ranking run %s: %w", runID, err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].EnergyKWhPerM2 > results[j].EnergyKWhPerM2
	})
	if len(results) > s.limit {
		results = results[:s.limit]
	}

	if err := s.snapshot.Replace(results); err != nil {
		return nil, fmt.Errorf("persist top regions: %w", err)
	}

	s.logger.Infow("top regions computed",
		"run", runID, "regions", len(regions), "kept", len(results),
		"declination", common.Round(decl, 2), "took", time.Since(started))
	return results, nil
}

// TopRegions returns the last persisted ranking without recomputing it.
func (s *Service) TopRegions() ([]Estimate, error) {
	return s.snapshot.Load()
}

// RecentQueries returns recently computed point estimates, newest first.
func (s *Service) RecentQueries() []Estimate {
	if s.history == nil {
		return nil
	}
	return s.history.Recent()
}

func (s *Service) compute(ctx context.Context, name string, lat, lon, decl float64, now time.Time) (Estimate, error) {
	sample, err := s.weather.Weather(ctx, lat, lon)
	if err != nil {
		return Estimate{}, fmt.Errorf("weather for %s: %w", name, err)
	}

	daylight := solar.DaylightHours(lat, decl)
	intensity := solar.SolarIntensity(sample.CloudCoverPct)

	return Estimate{
		Region:         name,
		Date:           now.Format(DateLayout),
		Time:           now.Format(TimeLayout),
		Temperature:    sample.TemperatureC,
		CloudCover:     common.Round(sample.CloudCoverPct, 2),
		Intensity:      intensity,
		DaylightHours:  common.Round(daylight, 2),
		EnergyKWhPerM2: solar.CalculateEnergy(intensity, daylight),
	}, nil
}

// Refresh recomputes the ranking and reports how many rows were kept.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	top, err := s.ComputeTopRegions(ctx)
	return len(top), err
}
