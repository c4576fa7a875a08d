package estimate

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CorrelationFields are the estimate columns correlated by Correlate, in
// matrix order.
var CorrelationFields = []string{"temp", "cloud", "intensity", "daylight", "energy"}

// CorrelationMatrix is a symmetric Pearson correlation matrix over
// CorrelationFields. A nil cell means the coefficient is undefined (fewer
// than two rows, or a constant column).
type CorrelationMatrix struct {
	Fields []string     `json:"fields"`
	Values [][]*float64 `json:"values"`
}

// Correlate computes the pairwise correlation of the numeric columns.
func Correlate(estimates []Estimate) CorrelationMatrix {
	n := len(CorrelationFields)
	cols := make([][]float64, n)
	for i := range cols {
		cols[i] = make([]float64, 0, len(estimates))
	}
	for _, e := range estimates {
		cols[0] = append(cols[0], e.Temperature)
		cols[1] = append(cols[1], e.CloudCover)
		cols[2] = append(cols[2], e.Intensity)
		cols[3] = append(cols[3], e.DaylightHours)
		cols[4] = append(cols[4], e.EnergyKWhPerM2)
	}

	m := CorrelationMatrix{
		Fields: CorrelationFields,
		Values: make([][]*float64, n),
	}
	for i := range m.Values {
		m.Values[i] = make([]*float64, n)
	}
	if len(estimates) < 2 {
		return m
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := stat.Correlation(cols[i], cols[j], nil)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				continue
			}
			v := r
			m.Values[i][j] = &v
			m.Values[j][i] = &v
		}
	}
	return m
}
