package store

import (
	"sync"
	"time"

	"github.com/i474232898/solar-energy-estimator/internal/estimate"
)

type recentEntry struct {
	estimate   estimate.Estimate
	recordedAt time.Time
}

// RecentQueries is a concurrency-safe, in-memory history of the latest query
// estimates, trimmed by count and by age.
type RecentQueries struct {
	mu      sync.RWMutex
	entries []recentEntry

	// retention configuration
	maxHistory int           // max number of entries kept
	maxAge     time.Duration // optional max age for entries
	now        func() time.Time
}

// NewRecentQueries creates a RecentQueries with optional limits.
// If maxHistory or maxAge is <= 0, that limit is not applied. now must be the
// clock that stamps saved entries; nil means time.Now.
func NewRecentQueries(maxHistory int, maxAge time.Duration, now func() time.Time) *RecentQueries {
	if now == nil {
		now = time.Now
	}
	return &RecentQueries{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        now,
	}
}

// Save records e and enforces retention.
func (s *RecentQueries) Save(e estimate.Estimate, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, recentEntry{estimate: e, recordedAt: at})

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.entries) > s.maxHistory {
		over := len(s.entries) - s.maxHistory
		s.entries = append([]recentEntry(nil), s.entries[over:]...)
	}

	s.pruneLocked()
}

// Recent returns retained estimates, newest first.
func (s *RecentQueries) Recent() []estimate.Estimate {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	out := make([]estimate.Estimate, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		out = append(out, s.entries[i].estimate)
	}
	return out
}

// pruneLocked drops entries older than maxAge. Entries are kept in
// insertion order, which is assumed to be chronological.
func (s *RecentQueries) pruneLocked() {
	if s.maxAge <= 0 {
		return
	}
	cutoff := s.now().Add(-s.maxAge)
	i := 0
	for ; i < len(s.entries); i++ {
		if !s.entries[i].recordedAt.Before(cutoff) {
			break
		}
	}
	if i > 0 {
		s.entries = append([]recentEntry(nil), s.entries[i:]...)
	}
}
