package api

import (
	"net/http"
	"strconv"

	resdto "stayops/internal/handler/dto/response"
	"stayops/internal/handler/middleware"
	"stayops/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReadConfirmer accepts read confirmations without blocking the request.
// Confirmations are scoped to the viewing client so they land in that
// client's own queue.
type ReadConfirmer interface {
	Enqueue(clientID, notificationID uuid.UUID)
}

type NotificationHandler struct {
	notificationQueries queries.NotificationQueries
	readConfirmer       ReadConfirmer
}

func NewNotificationHandler(notificationQueries queries.NotificationQueries, readConfirmer ReadConfirmer) *NotificationHandler {
	return &NotificationHandler{
		notificationQueries: notificationQueries,
		readConfirmer:       readConfirmer,
	}
}

// @Summary List unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows"
// @Success 200 {array} resdto.NotificationResponse
// @Failure 401 {object} map[string]string
// @Router /notifications [get]
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	views, err := h.notificationQueries.ListUnread(c.Request.Context(), actorID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromNotificationViews(views))
}

// @Summary Mark notification read
// @Description Queue a read confirmation; duplicates while queued are collapsed
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 202
// @Failure 400 {object} map[string]string
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid notification ID format",
		})
		return
	}

	h.readConfirmer.Enqueue(actorID, notificationID)
	c.Status(http.StatusAccepted)
}
