package weather

import (
	"fmt"

	"github.com/i474232898/solar-energy-estimator/internal/common"
)

// UnknownRegion is the name reported when no place name can be resolved.
const UnknownRegion = "Unknown"

// FallbackSample is returned in place of live data when the forecast provider
// cannot be reached or returns something unusable.
var FallbackSample = Sample{TemperatureC: 25.0, CloudCoverPct: 0.0}

// Coordinate is a latitude/longitude pair rounded to common.CoordPrecision
// places. Nearby points that round to the same value share upstream lookups.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// NewCoordinate rounds lat and lon and returns the resulting Coordinate.
func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: common.RoundCoord(lat),
		Lon: common.RoundCoord(lon),
	}
}

// Key returns the canonical cache key for the coordinate.
func (c Coordinate) Key() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

// Sample is the current weather at a coordinate as far as the estimator
// cares: air temperature and mean cloud cover.
type Sample struct {
	TemperatureC  float64 `json:"temperatureC"`
	CloudCoverPct float64 `json:"cloudCoverPercent"`
}
