package jobs

import (
	"context"
	"log/slog"
	"time"

	"ems/internal/domain/attendance"
	"ems/internal/platform/config"
)

// StartStaleSessionSweeper periodically force-closes attendance sessions that
// have been open longer than the configured age. Disabled unless
// AUTO_CLOSE_OPEN_AFTER is set; the store guard already prevents new
// duplicates, this drains long-forgotten open shifts.
func StartStaleSessionSweeper(ctx context.Context, cfg config.Config, ledger *attendance.Service) {
	if cfg.AutoCloseOpenAfter <= 0 {
		return
	}
	interval := cfg.AutoCloseInterval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
				closed, err := ledger.CloseStaleOpen(tickCtx, cfg.AutoCloseOpenAfter)
				cancel()
				if err != nil {
					slog.Warn("stale session sweep failed", "err", err)
					continue
				}
				if closed > 0 {
					slog.Info("stale session sweep closed sessions", "count", closed)
				}
			}
		}
	}()
}
