// Package scheduler runs the transaction reconciler on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/telemetry"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers Reconciler.Reconcile on a cron schedule. A run that is
// still busy when the next tick fires causes that tick to be skipped.
type Scheduler struct {
	cron       *cron.Cron
	reconciler payments.Reconciler
	metrics    *telemetry.Metrics
	logger     logger.Logger
	timeout    time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewScheduler registers the reconciler under schedule (standard cron syntax or
// descriptors such as "@every 5m"). Each run is bounded by timeout. metrics may be nil.
func NewScheduler(schedule string, reconciler payments.Reconciler, timeout time.Duration, metrics *telemetry.Metrics, log logger.Logger) (*Scheduler, error) {
	cronLog := &cronLogger{logger: log}
	c := cron.New(cron.WithChain(
		cron.Recover(cronLog),
		cron.SkipIfStillRunning(cronLog),
	))

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:       c,
		reconciler: reconciler,
		metrics:    metrics,
		logger:     log,
		timeout:    timeout,
		ctx:        ctx,
		cancel:     cancel,
	}

	if _, err := c.AddFunc(schedule, s.runOnce); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) runOnce() {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	updated, err := s.reconciler.Reconcile(ctx)
	if s.metrics != nil {
		s.metrics.Reconciled.Add(float64(updated))
		outcome := telemetry.OutcomeSuccess
		if err != nil {
			outcome = telemetry.OutcomeFailure
		}
		s.metrics.ReconcileRuns.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		s.logger.Error("Reconciliation run failed: ", err)
		return
	}
	if updated > 0 {
		s.logger.Info("Reconciliation updated ", updated, " transactions")
	}
}

// Start begins firing the schedule in a background goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Reconciliation scheduler started")
}

// Stop halts the schedule, cancels a running reconciliation and waits for it
// to return or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	var stopped context.Context
	s.once.Do(func() {
		s.cancel()
		stopped = s.cron.Stop()
	})
	if stopped == nil {
		return nil
	}

	select {
	case <-stopped.Done():
		s.logger.Info("Reconciliation scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler did not stop in time: %w", ctx.Err())
	}
}

// Run starts the scheduler and blocks until ctx is cancelled, then stops it
// within stopTimeout.
func (s *Scheduler) Run(ctx context.Context, stopTimeout time.Duration) error {
	s.Start()
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return s.Stop(stopCtx)
}

// cronLogger adapts logger.Logger to cron.Logger
type cronLogger struct {
	logger logger.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.With(keysAndValues...).Debug("cron: ", msg)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.With(keysAndValues...).Error("cron: ", msg, ": ", err)
}
