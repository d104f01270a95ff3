package components

import (
	"stayops/internal/handler"
	"stayops/internal/handler/api"
	"stayops/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewConversationHandler,
		api.NewNotificationHandler,
		api.NewStreamHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
