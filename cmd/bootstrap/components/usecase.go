package components

import (
	"stayops/internal/domain/booking"
	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/config"
	"stayops/internal/usecase"
	"stayops/internal/usecase/commands"
	"stayops/internal/usecase/queries"

	"stayops/internal/core/fanout"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
	usecaseValidatorsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		booking.NewDefaultRatePlan,
		fx.As(new(booking.RatePlan)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewBookingCommands,
		NewConversationCommands,
		commands.NewNotificationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewConversationQueries,
		queries.NewNotificationQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewBookingCommands(
	ledger commands.RoomLedger,
	sessions commands.SessionStore,
	rewards commands.RewardStore,
	payments commands.PaymentGateway,
	bookings commands.BookingArchive,
	notifications commands.NotificationStore,
	pub fanout.Publisher,
	rates booking.RatePlan,
	clk clock.Clock,
	cfg config.Config,
) commands.BookingCommands {
	return commands.NewBookingCommands(
		ledger, sessions, rewards, payments, bookings, notifications,
		pub, rates, clk, cfg.Core.HoldTTL,
	)
}

func NewConversationCommands(
	locks commands.ConversationLocks,
	conversations commands.ConversationRepository,
	messages commands.MessageArchive,
	notifications commands.NotificationStore,
	pub fanout.Publisher,
	clk clock.Clock,
	cfg config.Config,
) commands.ConversationCommands {
	return commands.NewConversationCommands(
		locks, conversations, messages, notifications,
		pub, clk, cfg.Core.SupervisorKeyHash,
	)
}
