package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Ranker recomputes and persists the top-regions ranking.
type Ranker interface {
	Refresh(ctx context.Context) (int, error)
}

// Scheduler periodically refreshes the top-regions snapshot so GET requests
// see a recent ranking even when no queries arrive.
type Scheduler struct {
	scheduler *gocron.Scheduler
	ranker    Ranker
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.SugaredLogger
}

// New creates a new Scheduler. timeout bounds each refresh run.
func New(ranker Ranker, interval, timeout time.Duration, logger *zap.SugaredLogger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		ranker:    ranker,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the refresh job and starts the underlying scheduler. A
// non-positive interval disables background refreshes.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("scheduler: ranking interval not set; background refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	s.logger.Debug("scheduler: refreshing top regions")

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	n, err := s.ranker.Refresh(ctx)
	if err != nil {
		s.logger.Errorw("scheduler: top regions refresh failed", "error", err)
		return
	}
	s.logger.Infow("scheduler: top regions refreshed", "kept", n)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
