package ledger

import (
	"context"
	"log/slog"
	"time"

	"stayops/internal/pkg/clock"

	"github.com/google/uuid"
)

// ExpiredSessionHandler is told which sessions lost holds during a sweep so
// the session store can flip them to expired.
type ExpiredSessionHandler interface {
	HandleExpiredSessions(sessionIDs []uuid.UUID)
}

// Sweeper periodically reclaims expired holds. Forward progress never depends
// on a client coming back: an abandoned cart frees its rooms within one
// interval of the TTL elapsing.
type Sweeper struct {
	ledger   *Ledger
	clock    clock.Clock
	interval time.Duration
	handler  ExpiredSessionHandler
	logger   *slog.Logger
}

func NewSweeper(l *Ledger, clk clock.Clock, interval time.Duration, handler ExpiredSessionHandler, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		ledger:   l,
		clock:    clk,
		interval: interval,
		handler:  handler,
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
			expired := s.ledger.Sweep(s.clock.Now())
			if len(expired) > 0 {
				s.logger.Info("hold sweep reclaimed expired holds", "sessions", len(expired))
				if s.handler != nil {
					s.handler.HandleExpiredSessions(expired)
				}
			}
		}
	}
}
