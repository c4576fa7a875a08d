package solar

import "github.com/i474232898/solar-energy-estimator/internal/common"

// SolarConstant is the mean extraterrestrial irradiance in W/m².
const SolarConstant = 1367.0

// SolarIntensity attenuates the solar constant linearly by cloud cover
// (percent) and returns W/m² rounded to 2 decimals. Cloud cover outside
// [0,100] is clamped.
func SolarIntensity(cloudCoverPct float64) float64 {
	switch {
	case cloudCoverPct < 0:
		cloudCoverPct = 0
	case cloudCoverPct > 100:
		cloudCoverPct = 100
	}
	return common.Round(SolarConstant*(1-cloudCoverPct/100), 2)
}

// CalculateEnergy converts a constant intensity (W/m²) held over daylight
// hours into kWh/m²/day, rounded to 3 decimals.
func CalculateEnergy(intensity, daylightHours float64) float64 {
	wh := intensity * daylightHours
	if wh <= 0 {
		return 0
	}
	return common.Round(wh/1000, 3)
}
