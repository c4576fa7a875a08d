package solar

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOfYear(t *testing.T) {
	cases := []struct {
		date time.Time
		want int
	}{
		{time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC), 287},
		{time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC), 366},
		{time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), 60},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DayOfYear(tc.date), tc.date.Format(time.DateOnly))
	}
}

func TestDeclinationAngleBoundedAndPeriodic(t *testing.T) {
	for n := 1; n <= 366; n++ {
		d := DeclinationAngle(n)
		require.GreaterOrEqual(t, d, -MaxDeclination, "day %d", n)
		require.LessOrEqual(t, d, MaxDeclination, "day %d", n)
	}
	assert.InDelta(t, DeclinationAngle(1), DeclinationAngle(366), 1e-9)
	assert.InDelta(t, DeclinationAngle(10), DeclinationAngle(375), 1e-9)
}

func TestDeclinationAngleSolstices(t *testing.T) {
	// Around the June solstice declination is close to its maximum.
	assert.InDelta(t, MaxDeclination, DeclinationAngle(172), 0.05)
	// Around the December solstice it is close to its minimum.
	assert.InDelta(t, -MaxDeclination, DeclinationAngle(355), 0.05)
}

func TestDaylightHours(t *testing.T) {
	assert.InDelta(t, 12.0, DaylightHours(0, 0), 1e-9)
	// Any latitude sees twelve hours at equinox.
	assert.InDelta(t, 12.0, DaylightHours(51.5, 0), 1e-9)
	// Northern summer: more than twelve hours north of the equator, fewer south.
	assert.Greater(t, DaylightHours(28.6, 23), 12.0)
	assert.Less(t, DaylightHours(-28.6, 23), 12.0)
}

func TestDaylightHoursPolarFallback(t *testing.T) {
	cases := []struct {
		lat, decl float64
	}{
		{80, 23},   // polar day
		{80, -23},  // polar night
		{-75, 20},  // southern polar night
		{89.9, 10}, // near the pole
	}
	for _, tc := range cases {
		x := math.Tan(degToRad(tc.lat)) * math.Tan(degToRad(tc.decl))
		require.Greater(t, math.Abs(x), 1.0)
		assert.Equal(t, 0.0, DaylightHours(tc.lat, tc.decl))
	}
}

func TestDaylightHoursRange(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 7.5 {
		for n := 1; n <= 366; n += 15 {
			h := DaylightHours(lat, DeclinationAngle(n))
			require.GreaterOrEqual(t, h, 0.0)
			require.LessOrEqual(t, h, 24.0)
		}
	}
}

func TestSolarIntensity(t *testing.T) {
	assert.Equal(t, 1367.0, SolarIntensity(0))
	assert.Equal(t, 0.0, SolarIntensity(100))
	assert.Equal(t, 683.5, SolarIntensity(50))
	assert.Equal(t, 1367.0, SolarIntensity(-5))
	assert.Equal(t, 0.0, SolarIntensity(140))

	prev := SolarIntensity(0)
	for c := 1.0; c <= 100; c++ {
		cur := SolarIntensity(c)
		require.Less(t, cur, prev, "cloud %v", c)
		prev = cur
	}
}

func TestCalculateEnergy(t *testing.T) {
	assert.Equal(t, 16.404, CalculateEnergy(1367, 12))
	assert.Equal(t, 0.0, CalculateEnergy(0, 12))
	assert.Equal(t, 0.0, CalculateEnergy(1367, 0))
	assert.Equal(t, 8.202, CalculateEnergy(683.5, 12))
}
