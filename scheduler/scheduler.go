// Package scheduler runs periodic background jobs. When several instances
// are deployed each run is guarded by a Redis lock so only one of them works.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/Faaz345/playsplit/redisstore"
	"github.com/Faaz345/playsplit/services"
)

const (
	jobPaymentReminders = "payment-reminders"
	jobExpirePayments   = "expire-stale-payments"

	jobTimeout = 2 * time.Minute
	lockTTL    = 5 * time.Minute
)

type Config struct {
	ReminderInterval time.Duration
	ExpiryInterval   time.Duration
}

type Scheduler struct {
	cron     gocron.Scheduler
	matches  services.MatchService
	payments services.PaymentService
	locks    *redisstore.Client
	logger   *slog.Logger
}

// New registers the jobs but does not start them. locks may be nil, then
// every instance runs the jobs itself.
func New(cfg Config, matches services.MatchService, payments services.PaymentService, locks *redisstore.Client, logger *slog.Logger) (*Scheduler, error) {
	cron, err := gocron.NewScheduler(gocron.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Scheduler{
		cron:     cron,
		matches:  matches,
		payments: payments,
		locks:    locks,
		logger:   logger,
	}

	jobs := []struct {
		name     string
		interval time.Duration
		run      func(ctx context.Context) error
	}{
		{jobPaymentReminders, cfg.ReminderInterval, s.SendPaymentReminders},
		{jobExpirePayments, cfg.ExpiryInterval, s.ExpireStalePayments},
	}
	for _, j := range jobs {
		if j.interval <= 0 {
			logger.Info("scheduled job disabled", slog.String("job", j.name))
			continue
		}
		_, err := cron.NewJob(
			gocron.DurationJob(j.interval),
			gocron.NewTask(s.task(j.name, j.run)),
			gocron.WithName(j.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = cron.Shutdown()
			return nil, fmt.Errorf("failed to register job %s: %w", j.name, err)
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", slog.Int("jobs", len(s.cron.Jobs())))
}

// Shutdown waits for running jobs to finish.
func (s *Scheduler) Shutdown() error {
	return s.cron.Shutdown()
}

// SendPaymentReminders broadcasts reminders for completed matches with
// unpaid players.
func (s *Scheduler) SendPaymentReminders(ctx context.Context) error {
	return s.withLock(ctx, jobPaymentReminders, func(ctx context.Context) error {
		sent, err := s.matches.SendPaymentReminders(ctx)
		if err != nil {
			return err
		}
		s.logger.InfoContext(ctx, "payment reminders sent", slog.Int("matches", sent))
		return nil
	})
}

// ExpireStalePayments cancels payments nobody completed in time.
func (s *Scheduler) ExpireStalePayments(ctx context.Context) error {
	return s.withLock(ctx, jobExpirePayments, func(ctx context.Context) error {
		n, err := s.payments.ExpireStalePayments(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			s.logger.InfoContext(ctx, "stale payments cancelled", slog.Int64("count", n))
		}
		return nil
	})
}

func (s *Scheduler) task(name string, run func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		started := time.Now()
		if err := run(ctx); err != nil {
			s.logger.ErrorContext(ctx, "scheduled job failed",
				slog.String("job", name),
				slog.Any("error", err))
			return
		}
		s.logger.DebugContext(ctx, "scheduled job finished",
			slog.String("job", name),
			slog.Duration("took", time.Since(started)))
	}
}

func (s *Scheduler) withLock(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if s.locks == nil {
		return fn(ctx)
	}

	lock, err := s.locks.AcquireLock(ctx, "job:"+name, lockTTL)
	if errors.Is(err, redisstore.ErrLockHeld) {
		s.logger.DebugContext(ctx, "job is running on another instance", slog.String("job", name))
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.WarnContext(ctx, "failed to release job lock", slog.String("job", name), slog.Any("error", err))
		}
	}()

	return fn(ctx)
}
