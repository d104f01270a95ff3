package api

import (
	"errors"
	"net/http"

	"stayops/internal/domain/actor"
	reqdto "stayops/internal/handler/dto/request"
	resdto "stayops/internal/handler/dto/response"
	"stayops/internal/handler/middleware"
	"stayops/internal/pkg/errs"
	"stayops/internal/usecase/commands"
	"stayops/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking session
// @Description Open a booking session holding the requested rooms for the stay
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSessionRequest true "Session request"
// @Success 201 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /sessions [post]
func (h *BookingHandler) CreateSession(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateSessionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := commands.CreateSessionParams{
		RoomIDs:           req.RoomIDs,
		CheckIn:           req.CheckIn,
		CheckOut:          req.CheckOut,
		TotalGuests:       req.TotalGuests,
		BreakfastIncluded: req.BreakfastIncluded,
	}

	session, err := h.bookingCommands.CreateSession(c.Request.Context(), actorID, params)
	if err != nil {
		var conflict *commands.RoomConflictError
		switch {
		case errors.As(err, &conflict):
			c.JSON(http.StatusConflict, gin.H{
				"error":         "One or more rooms are not available for the stay",
				"blocked_rooms": conflict.Rooms,
			})
		case errors.Is(err, errs.ErrInvalidStayRange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid stay range",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromSessionView(queries.NewSessionView(session)))
}

// @Summary Get booking session
// @Description Get a live booking session by ID
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [get]
func (h *BookingHandler) GetSession(c *gin.Context) {
	sessionID, actorID, role, ok := h.sessionRequest(c)
	if !ok {
		return
	}

	view, err := h.bookingQueries.GetSession(c.Request.Context(), sessionID, actorID, role)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSessionView(view))
}

// @Summary Touch booking session
// @Description Renew the session TTL and its room holds
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/{id}/touch [post]
func (h *BookingHandler) Touch(c *gin.Context) {
	sessionID, actorID, _, ok := h.sessionRequest(c)
	if !ok {
		return
	}

	if err := h.bookingCommands.Touch(c.Request.Context(), sessionID, actorID); err != nil {
		h.respondSessionError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Remove room from session
// @Description Release one room's hold; removing the last room releases the session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param roomId path string true "Room ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/{id}/rooms/{roomId} [delete]
func (h *BookingHandler) RemoveRoom(c *gin.Context) {
	sessionID, actorID, _, ok := h.sessionRequest(c)
	if !ok {
		return
	}

	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid room ID format",
		})
		return
	}

	session, err := h.bookingCommands.RemoveRoom(c.Request.Context(), sessionID, actorID, roomID)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSessionView(queries.NewSessionView(session)))
}

// @Summary Apply reward code
// @Description Apply a reward code to the session; reapplying the same code is a no-op
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body reqdto.ApplyRewardCodeRequest true "Reward code"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/{id}/reward [post]
func (h *BookingHandler) ApplyRewardCode(c *gin.Context) {
	sessionID, actorID, _, ok := h.sessionRequest(c)
	if !ok {
		return
	}

	var req reqdto.ApplyRewardCodeRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	session, err := h.bookingCommands.ApplyRewardCode(c.Request.Context(), sessionID, actorID, req.TrimmedCode())
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSessionView(queries.NewSessionView(session)))
}

// @Summary Checkout
// @Description Confirm payment and commit the session's holds into bookings
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body reqdto.CheckoutRequest true "Payment confirmation"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 402 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/{id}/checkout [post]
func (h *BookingHandler) Checkout(c *gin.Context) {
	sessionID, actorID, _, ok := h.sessionRequest(c)
	if !ok {
		return
	}

	var req reqdto.CheckoutRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.bookingCommands.Checkout(c.Request.Context(), sessionID, actorID, req.PaymentConfirmation)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCheckoutResult(result))
}

// @Summary Availability calendar
// @Description Snapshot of current holds and bookings across all rooms
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.CalendarEntryResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /calendar [get]
func (h *BookingHandler) Calendar(c *gin.Context) {
	entries, err := h.bookingQueries.Calendar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCalendarEntries(entries))
}

func (h *BookingHandler) sessionRequest(c *gin.Context) (sessionID, actorID uuid.UUID, role actor.Role, ok bool) {
	actorID, found := middleware.GetActorID(c)
	if !found {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return uuid.Nil, uuid.Nil, "", false
	}
	role, _ = middleware.GetActorRole(c)

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID format",
		})
		return uuid.Nil, uuid.Nil, "", false
	}
	return sessionID, actorID, role, true
}

func (h *BookingHandler) respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Session not found or expired",
		})
	case errors.Is(err, errs.ErrNotSessionOwner):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Session belongs to another guest",
		})
	case errors.Is(err, errs.ErrSessionNotHolding):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Session is no longer holding rooms",
		})
	case errors.Is(err, errs.ErrRoomNotInSession):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Room is not part of this session",
		})
	case errors.Is(err, errs.ErrHoldStale):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Room holds have expired",
		})
	case errors.Is(err, errs.ErrRewardInvalid):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or expired reward code",
		})
	case errors.Is(err, errs.ErrRewardAlreadyApplied):
		c.JSON(http.StatusConflict, gin.H{
			"error": "A different reward code is already applied",
		})
	case errors.Is(err, errs.ErrPaymentFailed):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error": "Payment was not confirmed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
