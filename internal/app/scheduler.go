package app

import (
	"context"
	"time"

	"github.com/NasaVasa/pricebot/internal/usecase"
	"go.uber.org/zap"
)

type monitorRunner interface {
	CheckAllAlerts(ctx context.Context) (usecase.RunReport, error)
	PurgeTriggered(ctx context.Context) (int64, error)
}

type runFailureRecorder interface {
	RunFailed()
}

// Scheduler drives the monitor on a fixed interval, starting with an
// immediate run, and purges old triggered alerts on a slower interval.
type Scheduler struct {
	monitor       monitorRunner
	failures      runFailureRecorder
	interval      time.Duration
	purgeInterval time.Duration
	logger        *zap.Logger
}

func NewScheduler(monitor monitorRunner, failures runFailureRecorder, interval, purgeInterval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		monitor:       monitor,
		failures:      failures,
		interval:      interval,
		purgeInterval: purgeInterval,
		logger:        logger,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started", zap.Duration("interval", s.interval), zap.Duration("purge_interval", s.purgeInterval))
	s.checkAlerts(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	purge := time.NewTicker(s.purgeInterval)
	defer purge.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.checkAlerts(ctx)
		case <-purge.C:
			s.purge(ctx)
		}
	}
}

func (s *Scheduler) checkAlerts(ctx context.Context) {
	if _, err := s.monitor.CheckAllAlerts(ctx); err != nil {
		s.failures.RunFailed()
		s.logger.Error("alert monitor run failed", zap.Error(err))
	}
}

func (s *Scheduler) purge(ctx context.Context) {
	if _, err := s.monitor.PurgeTriggered(ctx); err != nil {
		s.logger.Error("triggered alert purge failed", zap.Error(err))
	}
}
