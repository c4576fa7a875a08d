package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/i474232898/solar-energy-estimator/internal/estimate"
)

// QueryLog appends single-point query results to a CSV file. The header is
// written once, when the file is created (or found empty). Rows are never
// rewritten, so the file grows without bound.
type QueryLog struct {
	mu   sync.Mutex
	path string
}

// NewQueryLog returns a QueryLog writing to path.
func NewQueryLog(path string) *QueryLog {
	return &QueryLog{path: path}
}

// Append writes one row for e.
func (l *QueryLog) Append(e estimate.Estimate) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ensureDir(l.path); err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open query log: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat query log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Columns); err != nil {
			f.Close()
			return fmt.Errorf("write query log header: %w", err)
		}
	}
	if err := w.Write(encodeEstimate(e)); err != nil {
		f.Close()
		return fmt.Errorf("write query log row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush query log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close query log: %w", err)
	}
	return nil
}
