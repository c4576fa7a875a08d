package estimate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/i474232898/solar-energy-estimator/internal/weather"
	"github.com/i474232898/solar-energy-estimator/internal/weather/providers"
)

func TestComputeTopRegionsDeadlineDuringFetchKeepsSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	source := providers.NewOpenMeteoProvider(providers.HTTPClientConfig{
		Client:    &http.Client{Timeout: 5 * time.Second},
		UserAgent: "SolarEnergyApp/1.0",
	}, srv.URL)
	gw, err := weather.NewWeatherGateway(source, weather.DefaultCacheSize, zap.NewNop().Sugar())
	require.NoError(t, err)

	snap := &memSnapshot{}
	svc := NewService(Dependencies{
		Weather:  gw,
		Regions:  stubRegions{regions: []Region{{Name: "A", Latitude: 26.9, Longitude: 70.9}}},
		Snapshot: snap,
		Now:      func() time.Time { return fixedNow },
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = svc.ComputeTopRegions(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, snap.replaced)
	assert.Empty(t, snap.rows)
}

// cancellingWeather cancels the run while answering the last lookup, the way
// a deadline can expire between the final fetch returning and the snapshot
// being written.
type cancellingWeather struct {
	cancel context.CancelFunc
	left   int
}

func (c *cancellingWeather) Weather(context.Context, float64, float64) (weather.Sample, error) {
	c.left--
	if c.left == 0 {
		c.cancel()
	}
	return weather.FallbackSample, nil
}

func TestComputeTopRegionsCanceledAfterLastRegionKeepsSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snap := &memSnapshot{}
	svc := NewService(Dependencies{
		Weather: &cancellingWeather{cancel: cancel, left: 2},
		Regions: stubRegions{regions: []Region{
			{Name: "A", Latitude: 10, Longitude: 70},
			{Name: "B", Latitude: 11, Longitude: 71},
		}},
		Snapshot: snap,
		Now:      func() time.Time { return fixedNow },
	})

	_, err := svc.ComputeTopRegions(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, snap.replaced)
}
