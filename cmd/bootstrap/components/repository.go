package components

import (
	"stayops/internal/infra/archive"
	"stayops/internal/infra/payment"
	"stayops/internal/usecase/commands"
	"stayops/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			archive.NewRewardRepository,
			fx.As(new(commands.RewardStore)),
		),
		fx.Annotate(
			archive.NewBookingRepository,
			fx.As(new(commands.BookingArchive)),
		),
		fx.Annotate(
			archive.NewConversationRepository,
			fx.As(new(commands.ConversationRepository)),
			fx.As(new(queries.ConversationReadStore)),
		),
		fx.Annotate(
			archive.NewMessageRepository,
			fx.As(new(commands.MessageArchive)),
		),
		fx.Annotate(
			archive.NewNotificationRepository,
			fx.As(new(commands.NotificationStore)),
			fx.As(new(queries.NotificationReadStore)),
		),
		fx.Annotate(
			payment.NewGateway,
			fx.As(new(commands.PaymentGateway)),
		),
	),
)
