package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher reloads data that is served from a cache.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	spec      string
	refresher Refresher
	timeout   time.Duration
	logger    *zap.Logger
}

// NewScheduler creates a scheduler that refreshes the reference table on the
// given standard 5-field cron expression.
func NewScheduler(spec string, refresher Refresher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(),
		spec:      spec,
		refresher: refresher,
		timeout:   2 * time.Minute,
		logger:    logger,
	}
}

// Start registers the recurring job, refreshes once right away and starts
// the cron loop. An invalid expression is returned as an error.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("starting scheduler", zap.String("reference_refresh", s.spec))

	if _, err := s.cron.AddFunc(s.spec, s.refreshReference); err != nil {
		return fmt.Errorf("schedule reference refresh %q: %w", s.spec, err)
	}

	s.runRefresh(ctx)
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refreshReference() {
	s.runRefresh(context.Background())
}

func (s *Scheduler) runRefresh(parent context.Context) {
	if s.refresher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Error("failed to refresh reference table", zap.Error(err))
		return
	}
	s.logger.Debug("reference table refresh completed")
}
