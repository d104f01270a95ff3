package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"stayops/internal/domain/actor"
	"stayops/internal/handler/api"
	"stayops/internal/handler/middleware"
	"stayops/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	bookingHandler *api.BookingHandler,
	conversationHandler *api.ConversationHandler,
	notificationHandler *api.NotificationHandler,
	streamHandler *api.StreamHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, bookingHandler, conversationHandler, notificationHandler, streamHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	bookingHandler *api.BookingHandler,
	conversationHandler *api.ConversationHandler,
	notificationHandler *api.NotificationHandler,
	streamHandler *api.StreamHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		sessions := apiGroup.Group("/sessions")
		{
			addRoutes(sessions, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateSession},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetSession},
				{Method: http.MethodPost, Path: "/:id/touch", Handler: bookingHandler.Touch},
				{Method: http.MethodDelete, Path: "/:id/rooms/:roomId", Handler: bookingHandler.RemoveRoom},
				{Method: http.MethodPost, Path: "/:id/reward", Handler: bookingHandler.ApplyRewardCode},
				{Method: http.MethodPost, Path: "/:id/checkout", Handler: bookingHandler.Checkout},
			})
		}

		staffOnly := authMiddleware.RequireRoleAtLeast(actor.RoleAgent)
		supervisorOnly := authMiddleware.RequireRoleAtLeast(actor.RoleSupervisor)

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/calendar", Handler: bookingHandler.Calendar, Mw: []gin.HandlerFunc{staffOnly}},
		})

		conversations := apiGroup.Group("/conversations")
		{
			addRoutes(conversations, []route{
				{Method: http.MethodPost, Path: "", Handler: conversationHandler.Open},
				{Method: http.MethodGet, Path: "", Handler: conversationHandler.List, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodGet, Path: "/:id", Handler: conversationHandler.Get},
				{Method: http.MethodGet, Path: "/:id/lock", Handler: conversationHandler.LockOwner},
				{Method: http.MethodPost, Path: "/:id/lock", Handler: conversationHandler.AcquireLock, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodDelete, Path: "/:id/lock", Handler: conversationHandler.ReleaseLock, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodPost, Path: "/:id/lock/force", Handler: conversationHandler.ForceReleaseLock, Mw: []gin.HandlerFunc{supervisorOnly}},
				{Method: http.MethodGet, Path: "/:id/messages", Handler: conversationHandler.History},
				{Method: http.MethodPost, Path: "/:id/messages", Handler: conversationHandler.PostMessage},
				{Method: http.MethodPost, Path: "/:id/close", Handler: conversationHandler.Close, Mw: []gin.HandlerFunc{staffOnly}},
			})
		}

		notifications := apiGroup.Group("/notifications")
		{
			addRoutes(notifications, []route{
				{Method: http.MethodGet, Path: "", Handler: notificationHandler.ListUnread},
				{Method: http.MethodPost, Path: "/:id/read", Handler: notificationHandler.MarkRead},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/stream", Handler: streamHandler.Stream},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
