package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives Engine.Tick from a real timer in production. Tests call
// Tick directly with synthetic instants instead.
type Scheduler struct {
	cron     *cron.Cron
	engine   *Engine
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler returns a Scheduler that ticks the engine every interval.
// Overlapping runs are skipped so ticks never run concurrently.
func NewScheduler(engine *Engine, interval time.Duration, logger *slog.Logger) (*Scheduler, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("poll interval must be at least one second, got %s", interval)
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		engine:   engine,
		interval: interval,
		logger:   logger,
	}, nil
}

// Start registers the periodic tick job and starts the timer.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %ds", int(s.interval.Seconds()))
	if _, err := s.cron.AddFunc(spec, s.runTick); err != nil {
		return fmt.Errorf("schedule tick: %w", err)
	}
	s.cron.Start()
	s.logger.Info("reminder scheduler started", "interval", s.interval.String())
	return nil
}

// Stop cancels the pending timer and waits for an in-flight tick to finish,
// so a restart cannot observe a half-applied tick.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("reminder scheduler stopped")
}

func (s *Scheduler) runTick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()
	fired := s.engine.Tick(ctx, time.Now())
	if fired > 0 {
		s.logger.Debug("reminder tick completed", "fired", fired)
	}
}
