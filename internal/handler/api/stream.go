package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"stayops/internal/core/fanout"
	"stayops/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second
)

type StreamHandler struct {
	hub      *fanout.Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewStreamHandler(hub *fanout.Hub, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				// Cross-origin use is governed by the bearer token, not Origin.
				return true
			},
		},
	}
}

// @Summary Event stream
// @Description Subscribe to a topic over WebSocket; envelopes carry per-topic sequence numbers
// @Tags stream
// @Security BearerAuth
// @Param topic query string true "Topic name"
// @Success 101
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	topic := c.Query("topic")
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Topic required",
		})
		return
	}

	if !h.authorizeTopic(c, topic) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Not allowed to subscribe to this topic",
		})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}

	sub := h.hub.Subscribe(topic)
	defer sub.Close()

	// Reader goroutine: surfaces client disconnects and feeds pong deadlines.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case env, open := <-sub.C():
			if !open {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				_ = conn.Close()
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if writeErr := conn.WriteJSON(env); writeErr != nil {
				h.logger.Debug("stream write failed", "topic", topic, "error", writeErr)
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if pingErr := conn.WriteMessage(websocket.PingMessage, nil); pingErr != nil {
				_ = conn.Close()
				return
			}
		case <-done:
			_ = conn.Close()
			return
		}
	}
}

// authorizeTopic keeps guests on their own streams: a guest may follow their
// notification feed and individual conversations; the calendar and the
// conversation inbox are staff surfaces.
func (h *StreamHandler) authorizeTopic(c *gin.Context, topic string) bool {
	role, ok := middleware.GetActorRole(c)
	if !ok {
		return false
	}
	if role.IsStaff() {
		return true
	}

	actorID, ok := middleware.GetActorID(c)
	if !ok {
		return false
	}

	switch {
	case topic == fanout.NotificationTopic(actorID):
		return true
	case strings.HasPrefix(topic, "conversation:"):
		return true
	default:
		return false
	}
}
