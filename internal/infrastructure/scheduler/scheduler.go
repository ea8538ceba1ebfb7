// Package scheduler runs the ledger's periodic jobs: accrual, retention sweep
// and expired-code notification.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// JobFunc is one run of a periodic job.
type JobFunc func(ctx context.Context) error

// Scheduler wraps a cron runner. Runs of the same job never overlap: a tick
// that fires while the previous run is still going is skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  zerolog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

// New creates a scheduler. timeout bounds each job run; 0 means unbounded.
func New(logger zerolog.Logger, timeout time.Duration) *Scheduler {
	cronLogger := cronLogAdapter{logger: logger}
	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger),
		cron.SkipIfStillRunning(cronLogger),
	))

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:    c,
		logger:  logger.With().Str("component", "scheduler").Logger(),
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
	}
}

// Register adds job under name on the standard cron spec or a descriptor
// such as "@every 1h".
func (s *Scheduler) Register(name, spec string, job JobFunc) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}

	s.logger.Info().Str("job", name).Str("schedule", spec).Msg("job scheduled")
	return nil
}

func (s *Scheduler) run(name string, job JobFunc) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	log := s.logger.With().Str("job", name).Logger()
	log.Debug().Msg("job started")

	if err := job(ctx); err != nil {
		log.Error().Err(err).Dur("duration", time.Since(start)).Msg("job failed")
		return
	}

	log.Info().Dur("duration", time.Since(start)).Msg("job finished")
}

// Start starts the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling, cancels running jobs and waits for them to return
// or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	s.cancel()

	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("scheduler stop timed out with jobs still running")
	}
}

// cronLogAdapter implements cron.Logger on zerolog.
type cronLogAdapter struct {
	logger zerolog.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
