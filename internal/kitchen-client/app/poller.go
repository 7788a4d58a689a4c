package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jcmexdev/lanchonete-stations/internal/pkg/guard"
)

// DefaultPollInterval is how often the kitchen re-reads orders and stock.
const DefaultPollInterval = 10 * time.Second

// Poll refreshes once, then on every tick until ctx is done. Failures are
// logged and never stop the loop.
func (k *Kitchen) Poll(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	k.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "poller stopped")
			return nil
		case <-ticker.C:
			k.pollOnce(ctx)
		}
	}
}

func (k *Kitchen) pollOnce(ctx context.Context) {
	err := k.Refresh(ctx)
	switch {
	case err == nil:
	case errors.Is(err, guard.ErrBusy):
		slog.DebugContext(ctx, "refresh already in flight, skipping tick")
	case ctx.Err() != nil:
	default:
		slog.ErrorContext(ctx, "poll refresh failed", "error", err)
	}
}
