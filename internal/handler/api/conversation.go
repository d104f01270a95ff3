package api

import (
	"errors"
	"net/http"
	"strconv"

	"stayops/internal/core/convlock"
	"stayops/internal/domain/conversation"
	reqdto "stayops/internal/handler/dto/request"
	resdto "stayops/internal/handler/dto/response"
	"stayops/internal/handler/middleware"
	"stayops/internal/pkg/errs"
	"stayops/internal/usecase/commands"
	"stayops/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConversationHandler struct {
	conversationCommands commands.ConversationCommands
	conversationQueries  queries.ConversationQueries
}

func NewConversationHandler(
	conversationCommands commands.ConversationCommands,
	conversationQueries queries.ConversationQueries,
) *ConversationHandler {
	return &ConversationHandler{
		conversationCommands: conversationCommands,
		conversationQueries:  conversationQueries,
	}
}

// @Summary Open conversation
// @Description Open a support conversation for a participant
// @Tags conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.OpenConversationRequest true "Conversation request"
// @Success 201 {object} resdto.ConversationResponse
// @Failure 400 {object} map[string]string
// @Router /conversations [post]
func (h *ConversationHandler) Open(c *gin.Context) {
	var req reqdto.OpenConversationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	conv, err := h.conversationCommands.Open(c.Request.Context(), req.ParticipantCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusCreated, resdto.FromConversationEntity(conv))
}

// @Summary List conversations
// @Description List conversations for the support inbox, live lock state included
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows"
// @Success 200 {array} resdto.ConversationResponse
// @Router /conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	views, err := h.conversationQueries.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromConversationViews(views))
}

// @Summary Get conversation
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} resdto.ConversationResponse
// @Failure 404 {object} map[string]string
// @Router /conversations/{id} [get]
func (h *ConversationHandler) Get(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}

	view, err := h.conversationQueries.Get(c.Request.Context(), conversationID)
	if err != nil {
		h.respondConversationError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromConversationView(view))
}

// @Summary Acquire conversation lock
// @Description Claim exclusive reply ownership of a conversation
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /conversations/{id}/lock [post]
func (h *ConversationHandler) AcquireLock(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}
	agentID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	if err := h.conversationCommands.AcquireLock(c.Request.Context(), conversationID, agentID); err != nil {
		var held *convlock.HeldError
		if errors.As(err, &held) {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "Conversation is locked by another agent",
				"locked_by": held.By,
			})
			return
		}
		h.respondConversationError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Release conversation lock
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /conversations/{id}/lock [delete]
func (h *ConversationHandler) ReleaseLock(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}
	agentID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	if err := h.conversationCommands.ReleaseLock(c.Request.Context(), conversationID, agentID); err != nil {
		h.respondConversationError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Force-release conversation lock
// @Description Supervisor override: break another agent's lock
// @Tags conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param request body reqdto.ForceReleaseLockRequest true "Override key"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /conversations/{id}/lock/force [post]
func (h *ConversationHandler) ForceReleaseLock(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}
	supervisorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ForceReleaseLockRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	err := h.conversationCommands.ForceReleaseLock(c.Request.Context(), conversationID, supervisorID, req.TrimmedKey())
	if err != nil {
		if errors.Is(err, commands.ErrOverrideKeyRejected) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Override key rejected",
			})
			return
		}
		h.respondConversationError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Lock owner
// @Description Current holder of the conversation lock, if any
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} resdto.LockOwnerResponse
// @Router /conversations/{id}/lock [get]
func (h *ConversationHandler) LockOwner(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}

	view, err := h.conversationQueries.LockOwner(c.Request.Context(), conversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromLockOwnerView(view))
}

// @Summary Post message
// @Description Append a message; staff senders must hold the conversation lock
// @Tags conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param request body reqdto.PostMessageRequest true "Message"
// @Success 201 {object} resdto.MessageResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /conversations/{id}/messages [post]
func (h *ConversationHandler) PostMessage(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}
	senderID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	role, _ := middleware.GetActorRole(c)

	var req reqdto.PostMessageRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	msg, err := h.conversationCommands.PostMessage(c.Request.Context(), conversationID, senderID, role, req.Content)
	if err != nil {
		h.respondConversationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromMessageEntity(msg))
}

// @Summary Message history
// @Description Messages after a sequence number, for reconnection catch-up
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param after_seq query int false "Return messages with seq greater than this"
// @Param limit query int false "Maximum rows"
// @Success 200 {array} resdto.MessageResponse
// @Router /conversations/{id}/messages [get]
func (h *ConversationHandler) History(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}

	afterSeq, _ := strconv.ParseInt(c.DefaultQuery("after_seq", "0"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	msgs, err := h.conversationQueries.History(c.Request.Context(), conversationID, afterSeq, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromMessageViews(msgs))
}

// @Summary Close conversation
// @Description Close the conversation; requires holding its lock
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /conversations/{id}/close [post]
func (h *ConversationHandler) Close(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}
	agentID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	if err := h.conversationCommands.Close(c.Request.Context(), conversationID, agentID); err != nil {
		h.respondConversationError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ConversationHandler) conversationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid conversation ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

func (h *ConversationHandler) respondConversationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Conversation not found",
		})
	case errors.Is(err, errs.ErrConversationClosed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Conversation is closed",
		})
	case errors.Is(err, errs.ErrConversationLocked):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Conversation is locked by another agent",
		})
	case errors.Is(err, errs.ErrNotLockOwner):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Conversation lock is held by someone else or not held",
		})
	case errors.Is(err, conversation.ErrEmptyContent), errors.Is(err, conversation.ErrContentTooLong):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid message content",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
