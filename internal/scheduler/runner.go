// Package scheduler периодически запускает проход по очереди неназначенных заявок.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tokarboss/manager-ya/internal/metrics"
	"github.com/tokarboss/manager-ya/internal/service"
)

// Sweeper выполняет один проход.
type Sweeper interface {
	Sweep(ctx context.Context) service.SweepResult
}

// Runner запускает Sweeper по таймеру. Одновременно выполняется не больше одного прохода,
// тик во время идущего прохода пропускается.
type Runner struct {
	sweeper  Sweeper
	metrics  metrics.Recorder
	logger   *slog.Logger
	interval time.Duration
	running  sync.Mutex
	wg       sync.WaitGroup
}

// NewRunner создаёт Runner.
func NewRunner(sweeper Sweeper, interval time.Duration, rec metrics.Recorder, logger *slog.Logger) *Runner {
	return &Runner{sweeper: sweeper, interval: interval, metrics: rec, logger: logger}
}

// Tick выполняет проход, если предыдущий уже закончился. false - тик пропущен.
func (r *Runner) Tick(ctx context.Context) (service.SweepResult, bool) {
	if !r.running.TryLock() {
		r.metrics.SweepSkipped()
		r.logger.Debug("sweep still running, tick skipped")
		return service.SweepResult{}, false
	}
	defer r.running.Unlock()

	return r.sweeper.Sweep(ctx), true
}

// Run блокируется до отмены ctx и дожидается текущего прохода.
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("sweep scheduler started", slog.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.wg.Wait()
			r.logger.Info("sweep scheduler stopped")
			return
		case <-ticker.C:
			r.wg.Add(1)
			go func() {
				defer r.wg.Done()
				r.Tick(ctx)
			}()
		}
	}
}
