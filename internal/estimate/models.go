package estimate

// DateLayout and TimeLayout format an Estimate's Date and Time fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Region is a named catalog point.
type Region struct {
	Name      string  `json:"region"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinates are within geographic bounds.
func (r Region) Valid() bool {
	return r.Latitude >= -90 && r.Latitude <= 90 &&
		r.Longitude >= -180 && r.Longitude <= 180
}

// Estimate is one daily solar yield estimate. Estimates are write-once: they
// are appended to the query log or written into the top-regions snapshot and
// never updated.
type Estimate struct {
	Region         string  `json:"region"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	Temperature    float64 `json:"temp"`
	CloudCover     float64 `json:"cloud"`
	Intensity      float64 `json:"intensity"`
	DaylightHours  float64 `json:"daylight"`
	EnergyKWhPerM2 float64 `json:"energy"`
}
