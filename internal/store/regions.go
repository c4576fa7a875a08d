package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/i474232898/solar-energy-estimator/internal/estimate"
)

// LoadRegions reads a region catalog with header region,latitude,longitude.
// Columns are located by header name. Rows with a missing name, non-numeric
// or out-of-range coordinates, or a CSV syntax error are skipped. A missing
// file is an empty catalog.
func LoadRegions(path string) ([]estimate.Region, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open region catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read region catalog header: %w", err)
	}
	idx := headerIndex(header)
	nameCol, okName := idx["region"]
	latCol, okLat := idx["latitude"]
	lonCol, okLon := idx["longitude"]
	if !okName || !okLat || !okLon {
		return nil, nil
	}

	var regions []estimate.Region
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, fmt.Errorf("read region catalog: %w", err)
		}

		region, ok := parseRegion(record, nameCol, latCol, lonCol)
		if !ok {
			continue
		}
		regions = append(regions, region)
	}
	return regions, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

func parseRegion(record []string, nameCol, latCol, lonCol int) (estimate.Region, bool) {
	field := func(i int) (string, bool) {
		if i >= len(record) {
			return "", false
		}
		v := strings.TrimSpace(record[i])
		return v, v != ""
	}

	name, ok := field(nameCol)
	if !ok {
		return estimate.Region{}, false
	}
	latStr, ok := field(latCol)
	if !ok {
		return estimate.Region{}, false
	}
	lonStr, ok := field(lonCol)
	if !ok {
		return estimate.Region{}, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return estimate.Region{}, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return estimate.Region{}, false
	}

	region := estimate.Region{Name: name, Latitude: lat, Longitude: lon}
	if !region.Valid() {
		return estimate.Region{}, false
	}
	return region, true
}

// Catalog is a RegionSource that re-reads its file on every call.
type Catalog struct {
	path string
}

// NewCatalog returns a Catalog backed by the CSV file at path.
func NewCatalog(path string) *Catalog {
	return &Catalog{path: path}
}

// Regions loads the catalog from disk.
func (c *Catalog) Regions() ([]estimate.Region, error) {
	return LoadRegions(c.path)
}
