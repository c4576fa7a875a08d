package common

import (
	"math"
	"strconv"
)

// CoordPrecision is the number of decimal places coordinates are rounded to
// before they are used as upstream query parameters or cache keys.
const CoordPrecision = 4

// Round rounds v to the given number of decimal places. Exact halves go to
// the even neighbour, so Round(0.125, 2) is 0.12.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}

// RoundCoord rounds a latitude or longitude to CoordPrecision places.
func RoundCoord(v float64) float64 {
	return Round(v, CoordPrecision)
}

// FormatFloat renders v without trailing zeros, e.g. 16.404 or 25.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
