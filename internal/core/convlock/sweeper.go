package convlock

import (
	"context"
	"log/slog"
	"time"

	"stayops/internal/pkg/clock"
)

// Sweeper reclaims stale conversation locks in the background.
type Sweeper struct {
	manager  *Manager
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
}

func NewSweeper(m *Manager, clk clock.Clock, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		manager:  m,
		clock:    clk,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.manager.Sweep(s.clock.Now()); n > 0 {
				s.logger.Info("lock sweep reclaimed stale locks", "count", n)
			}
		}
	}
}
