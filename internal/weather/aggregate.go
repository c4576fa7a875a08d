package weather

import (
	"strings"

	"gonum.org/v1/gonum/stat"
)

// AverageCloudCover returns the arithmetic mean of an hourly cloud cover
// series. Nil entries (missing hours) are skipped; an empty series averages
// to 0.
func AverageCloudCover(series []*float64) float64 {
	values := make([]float64, 0, len(series))
	for _, v := range series {
		if v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// FirstName returns the first non-blank candidate, or UnknownRegion.
func FirstName(candidates ...string) string {
	for _, c := range candidates {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return UnknownRegion
}
