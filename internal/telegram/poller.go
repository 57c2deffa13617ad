package telegram

import (
	"context"
	"log/slog"
	"time"
)

// Updater - источник обновлений.
type Updater interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration, limit int) ([]Update, error)
	DeleteWebhook(ctx context.Context, dropPending bool) error
}

// UpdateHandler обрабатывает одно обновление.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update Update) error
}

// Poller забирает обновления long polling'ом и передаёт их боту по одному.
type Poller struct {
	updater Updater
	handler UpdateHandler
	logger  *slog.Logger
	timeout time.Duration
	backoff time.Duration
	limit   int
}

// NewPoller создаёт Poller.
func NewPoller(updater Updater, handler UpdateHandler, timeout time.Duration, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		updater: updater,
		handler: handler,
		logger:  logger,
		timeout: timeout,
		backoff: 2 * time.Second,
		limit:   50,
	}
}

// Run блокируется до отмены ctx.
func (p *Poller) Run(ctx context.Context) {
	if err := p.updater.DeleteWebhook(ctx, false); err != nil {
		p.logger.Warn("telegram delete webhook failed", slog.String("error", err.Error()))
	}

	var offset int64
	for ctx.Err() == nil {
		updates, err := p.updater.GetUpdates(ctx, offset, p.timeout, p.limit)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("telegram get updates failed", slog.String("error", err.Error()))
			p.sleep(ctx)
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			if err := p.handler.HandleUpdate(ctx, u); err != nil {
				p.logger.Error("failed to handle telegram update",
					slog.Int64("update_id", u.UpdateID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

func (p *Poller) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
