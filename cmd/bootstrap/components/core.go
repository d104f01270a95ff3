package components

import (
	"context"
	"log/slog"

	"stayops/internal/client/readqueue"
	"stayops/internal/core/convlock"
	"stayops/internal/core/fanout"
	"stayops/internal/core/ledger"
	"stayops/internal/core/sessionstore"
	"stayops/internal/handler/api"
	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/config"
	"stayops/internal/usecase/commands"
	"stayops/internal/usecase/queries"

	"go.uber.org/fx"
)

// CoreModule wires the in-memory concurrency core: the fan-out hub, the room
// ledger, the conversation lock table, the session store and their sweepers.
// The sweepers and the read-confirmation worker run for the lifetime of the
// app; fx cancels their context on shutdown and the hub closes last so every
// subscriber channel is drained cleanly.
var CoreModule = fx.Module("core",
	fx.Provide(
		NewHub,
		func(hub *fanout.Hub) fanout.Publisher { return hub },
		NewLedger,
		func(l *ledger.Ledger) commands.RoomLedger { return l },
		func(l *ledger.Ledger) queries.CalendarReader { return l },
		NewLockManager,
		func(m *convlock.Manager) commands.ConversationLocks { return m },
		func(m *convlock.Manager) queries.LockOwnerReader { return m },
		NewSessionStore,
		func(s *sessionstore.Store) commands.SessionStore { return s },
		func(s *sessionstore.Store) queries.SessionReader { return s },
		NewReadQueue,
		func(r *readqueue.Registry) api.ReadConfirmer { return r },
	),
	fx.Invoke(
		runSweepers,
		runReadQueue,
		hookHubShutdown,
	),
)

func NewHub(clk clock.Clock, cfg config.Config) *fanout.Hub {
	return fanout.NewHub(clk, cfg.Core.FanoutBufferSize)
}

func NewLedger(clk clock.Clock, hub *fanout.Hub) *ledger.Ledger {
	return ledger.New(clk, hub)
}

func NewLockManager(clk clock.Clock, hub *fanout.Hub, cfg config.Config) *convlock.Manager {
	return convlock.NewManager(clk, hub, cfg.Core.LockInactivityLimit)
}

func NewSessionStore(clk clock.Clock) *sessionstore.Store {
	return sessionstore.New(clk)
}

func NewReadQueue(notifications commands.NotificationCommands, cfg config.Config, logger *slog.Logger) *readqueue.Registry {
	return readqueue.New(notifications, cfg.Core.ReadDebounce, cfg.Core.ReadQueueIdleTTL, logger)
}

func runSweepers(
	lc fx.Lifecycle,
	l *ledger.Ledger,
	m *convlock.Manager,
	store *sessionstore.Store,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) {
	holdSweeper := ledger.NewSweeper(l, clk, cfg.Core.HoldSweepInterval, store, logger)
	lockSweeper := convlock.NewSweeper(m, clk, cfg.Core.LockSweepInterval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go holdSweeper.Run(ctx)
			go lockSweeper.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}

func runReadQueue(lc fx.Lifecycle, r *readqueue.Registry) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go r.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}

func hookHubShutdown(lc fx.Lifecycle, hub *fanout.Hub) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			hub.Close()
			return nil
		},
	})
}
