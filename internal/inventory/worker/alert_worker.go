package worker

import (
	"context"
	"errors"
	"time"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/usecase/command"
	"github.com/tair/smart-inventory/pkg/lock"
	"github.com/tair/smart-inventory/pkg/logger"
)

const alertLockKey = "inventory:alert-generation"

// AlertGenerator runs one full alert generation pass
type AlertGenerator interface {
	Handle(ctx context.Context, cmd command.GenerateAlertsCommand) ([]domain.StockAlert, error)
}

// Locker serializes scheduled runs across service instances
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (lock.ReleaseFunc, error)
}

// AlertWorker generates alerts on a fixed interval
type AlertWorker struct {
	generator   AlertGenerator
	locker      Locker
	interval    time.Duration
	horizonDays int
}

// NewAlertWorker creates a new alert worker. locker may be nil when only one
// instance runs.
func NewAlertWorker(generator AlertGenerator, locker Locker, interval time.Duration, horizonDays int) *AlertWorker {
	return &AlertWorker{
		generator:   generator,
		locker:      locker,
		interval:    interval,
		horizonDays: horizonDays,
	}
}

// Run blocks until ctx is cancelled. A non-positive interval disables the worker.
func (w *AlertWorker) Run(ctx context.Context) {
	if w.interval <= 0 {
		logger.Logger.Info().Msg("Alert worker disabled")
		return
	}

	logger.Logger.Info().
		Dur("interval", w.interval).
		Int("horizon_days", w.horizonDays).
		Msg("Alert worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Logger.Info().Msg("Alert worker stopped")
			return
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
				logger.Logger.Error().Err(err).Msg("Scheduled alert generation failed")
			}
		}
	}
}

// RunOnce performs one pass. It returns nil without generating when another
// instance holds the lock.
func (w *AlertWorker) RunOnce(ctx context.Context) error {
	if w.locker != nil {
		release, err := w.locker.Acquire(ctx, alertLockKey, w.lockTTL())
		if errors.Is(err, lock.ErrNotAcquired) {
			logger.Debug(ctx).Msg("Alert generation already running elsewhere")
			return nil
		}
		if err != nil {
			return err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn(ctx).Err(err).Msg("Failed to release alert lock")
			}
		}()
	}

	horizon := w.horizonDays
	alerts, err := w.generator.Handle(ctx, command.GenerateAlertsCommand{HorizonDays: &horizon})
	if err != nil {
		return err
	}

	logger.Info(ctx).
		Int("created", len(alerts)).
		Msg("Scheduled alert generation finished")
	return nil
}

func (w *AlertWorker) lockTTL() time.Duration {
	if w.interval > 0 && w.interval < time.Minute {
		return w.interval
	}
	return time.Minute
}
