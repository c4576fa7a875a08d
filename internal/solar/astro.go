// Package solar holds the closed-form astronomical and irradiance model used to
// estimate daily solar energy yield. All functions are pure.
package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// MaxDeclination is the amplitude of the declination approximation, in degrees.
const MaxDeclination = 23.45

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// DayOfYear returns the Gregorian ordinal day (1..366) of t's calendar date
// in t's own location.
func DayOfYear(t time.Time) int {
	return julian.DayOfYearGregorian(t.Year(), int(t.Month()), t.Day())
}

// DeclinationAngle approximates the solar declination in degrees for day n
// of the year (Cooper's equation).
func DeclinationAngle(n int) float64 {
	return MaxDeclination * math.Sin(degToRad(360*float64(284+n)/365))
}

// DaylightHours returns the sunrise-to-sunset duration for a latitude and
// declination, both in degrees.
//
// When the sun never crosses the horizon (polar day or polar night) the hour
// angle is undefined and 0 is returned for both cases. Polar day is therefore
// reported as zero daylight; callers relying on high latitudes should be aware.
func DaylightHours(latitude, declination float64) float64 {
	x := -math.Tan(degToRad(latitude)) * math.Tan(degToRad(declination))
	if x < -1 || x > 1 || math.IsNaN(x) {
		return 0
	}
	ha := radToDeg(math.Acos(x))
	return 2 * ha / 15
}
