package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/i474232898/solar-energy-estimator/internal/estimate"
)

// Snapshot persists the latest top-regions ranking as a CSV file. Every
// Replace overwrites the file in full, so readers only ever see one
// complete ranking.
type Snapshot struct {
	mu   sync.RWMutex
	path string
}

// NewSnapshot returns a Snapshot stored at path.
func NewSnapshot(path string) *Snapshot {
	return &Snapshot{path: path}
}

// Replace discards the previous ranking and writes estimates in order. An
// empty slice leaves a header-only file.
func (s *Snapshot) Replace(estimates []estimate.Estimate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ensureDir(s.path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(Columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot header: %w", err)
	}
	for _, e := range estimates {
		if err := w.Write(encodeEstimate(e)); err != nil {
			tmp.Close()
			return fmt.Errorf("write snapshot row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads the current ranking. A missing file is an empty ranking.
func (s *Snapshot) Load() ([]estimate.Estimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}

	var out []estimate.Estimate
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
		e, err := decodeEstimate(record)
		if err != nil {
			return nil, fmt.Errorf("snapshot line %d: %w", line, err)
		}
		out = append(out, e)
	}
	return out, nil
}
