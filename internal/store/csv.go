package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/i474232898/solar-energy-estimator/internal/common"
	"github.com/i474232898/solar-energy-estimator/internal/estimate"
)

// Columns is the header shared by the query log and the top-regions snapshot.
var Columns = []string{"region", "date", "time", "temp", "cloud", "intensity", "daylight", "energy"}

func encodeEstimate(e estimate.Estimate) []string {
	return []string{
		e.Region,
		e.Date,
		e.Time,
		common.FormatFloat(e.Temperature),
		common.FormatFloat(e.CloudCover),
		common.FormatFloat(e.Intensity),
		common.FormatFloat(e.DaylightHours),
		common.FormatFloat(e.EnergyKWhPerM2),
	}
}

func decodeEstimate(record []string) (estimate.Estimate, error) {
	if len(record) != len(Columns) {
		return estimate.Estimate{}, fmt.Errorf("expected %d fields, got %d", len(Columns), len(record))
	}

	nums := make([]float64, 5)
	for i := range nums {
		v, err := strconv.ParseFloat(record[3+i], 64)
		if err != nil {
			return estimate.Estimate{}, fmt.Errorf("column %s: %w", Columns[3+i], err)
		}
		nums[i] = v
	}

	return estimate.Estimate{
		Region:         record[0],
		Date:           record[1],
		Time:           record[2],
		Temperature:    nums[0],
		CloudCover:     nums[1],
		Intensity:      nums[2],
		DaylightHours:  nums[3],
		EnergyKWhPerM2: nums[4],
	}, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
