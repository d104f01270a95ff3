//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"stayops/internal/domain/actor"
	"stayops/internal/handler/api"
	"stayops/internal/pkg/errs"
	"stayops/internal/usecase/commands"
	"stayops/internal/usecase/queries"
	"stayops/tests/common/builder"
	"stayops/tests/common/httptest"
	"stayops/tests/common/testutil"
	commandsmock "stayops/tests/mock/commands"
	queriesmock "stayops/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	actorID      uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.actorID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("actor_id", s.actorID)
		c.Set("actor_role", actor.RoleGuest)
		c.Next()
	}

	s.router.POST("/sessions", authMiddleware, s.handler.CreateSession)
	s.router.GET("/sessions/:id", authMiddleware, s.handler.GetSession)
	s.router.POST("/sessions/:id/touch", authMiddleware, s.handler.Touch)
	s.router.DELETE("/sessions/:id/rooms/:roomId", authMiddleware, s.handler.RemoveRoom)
	s.router.POST("/sessions/:id/reward", authMiddleware, s.handler.ApplyRewardCode)
	s.router.POST("/sessions/:id/checkout", authMiddleware, s.handler.Checkout)
	s.router.GET("/calendar", authMiddleware, s.handler.Calendar)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

type testCaseBooking struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreateSession
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreateSession() {
	url := "/sessions"

	reqBody := builder.NewSessionBuilder().WithOwner(s.actorID).BuildCreateRequestDTO()

	s.Run("success: returns 201 Created for valid request", func() {
		session, err := builder.NewSessionBuilder().WithOwner(s.actorID).BuildDomain()
		s.Require().NoError(err)

		s.mockCommands.EXPECT().CreateSession(gomock.Any(), s.actorID, gomock.Any()).
			Return(session, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		s.Equal(http.StatusCreated, rec.Code)
		var body map[string]any
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Equal(session.ID().String(), body["id"])
		s.Equal("holding", body["status"])
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseBooking{
			{name: "missing field: room_ids", mutate: testutil.Field("room_ids", nil), expectCode: http.StatusBadRequest},
			{name: "empty room_ids", mutate: testutil.Field("room_ids", []string{}), expectCode: http.StatusBadRequest},
			{name: "missing field: check_in", mutate: testutil.Field("check_in", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: check_out", mutate: testutil.Field("check_out", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: total_guests", mutate: testutil.Field("total_guests", nil), expectCode: http.StatusBadRequest},
			{name: "zero total_guests", mutate: testutil.Field("total_guests", 0), expectCode: http.StatusBadRequest},
			{name: "malformed room id", mutate: testutil.Field("room_ids", []string{"not-a-uuid"}), expectCode: http.StatusBadRequest},
		}
		for _, c := range cases {
			s.Run(c.name, func() {
				body := testutil.DtoMap(s.T(), builder.NewSessionBuilder().BuildCreateRequestDTO(), c.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
				s.Equal(c.expectCode, rec.Code)
			})
		}
	})

	s.Run("error: 400 Bad Request on invalid stay range", func() {
		s.mockCommands.EXPECT().CreateSession(gomock.Any(), s.actorID, gomock.Any()).
			Return(nil, errs.ErrInvalidStayRange).Times(1)

		checkIn := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
		body := builder.NewSessionBuilder().WithStay(checkIn, checkIn.AddDate(0, 0, -2)).BuildCreateRequestDTO()
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")

		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 409 Conflict names the blocked rooms", func() {
		blockedRoom := uuid.New()
		s.mockCommands.EXPECT().CreateSession(gomock.Any(), s.actorID, gomock.Any()).
			Return(nil, &commands.RoomConflictError{Rooms: []uuid.UUID{blockedRoom}}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		s.Equal(http.StatusConflict, rec.Code)
		var body map[string]any
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		blocked, ok := body["blocked_rooms"].([]any)
		s.Require().True(ok)
		s.Equal(blockedRoom.String(), blocked[0])
	})

	s.Run("error: 401 Unauthorized without token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

// ================================================================================
// TestGetSession
// ================================================================================

func (s *BookingHandlerTestSuite) TestGetSession() {
	session, err := builder.NewSessionBuilder().WithOwner(s.actorID).BuildDomain()
	s.Require().NoError(err)

	s.Run("success: returns 200 OK with the session view", func() {
		session, err := builder.NewSessionBuilder().WithOwner(s.actorID).BuildDomain()
		s.Require().NoError(err)

		s.mockQueries.EXPECT().GetSession(gomock.Any(), session.ID(), s.actorID, actor.RoleGuest).
			Return(queries.NewSessionView(session), nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions/"+session.ID().String(), nil, "bearer-token")

		s.Equal(http.StatusOK, rec.Code)
		var body map[string]any
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Equal(session.ID().String(), body["id"])
		s.Equal(float64(session.TotalPrice().Cents()), body["total_price_cents"])
	})

	s.Run("error: 400 Bad Request on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions/not-a-uuid", nil, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 404 Not Found when session is gone", func() {
		s.mockQueries.EXPECT().GetSession(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrSessionNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions/"+uuid.NewString(), nil, "bearer-token")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("error: 403 Forbidden for another guest's session", func() {
		s.mockQueries.EXPECT().GetSession(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrNotSessionOwner).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions/"+session.ID().String(), nil, "bearer-token")
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

// ================================================================================
// TestTouch
// ================================================================================

func (s *BookingHandlerTestSuite) TestTouch() {
	sessionID := uuid.New()
	url := "/sessions/" + sessionID.String() + "/touch"

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().Touch(gomock.Any(), sessionID, s.actorID).
			Return(nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 409 Conflict when the session stopped holding", func() {
		s.mockCommands.EXPECT().Touch(gomock.Any(), sessionID, s.actorID).
			Return(errs.ErrSessionNotHolding).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("error: 404 Not Found after expiry sweep dropped it", func() {
		s.mockCommands.EXPECT().Touch(gomock.Any(), sessionID, s.actorID).
			Return(errs.ErrSessionNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

// ================================================================================
// TestRemoveRoom
// ================================================================================

func (s *BookingHandlerTestSuite) TestRemoveRoom() {
	sessionID := uuid.New()
	roomID := uuid.New()
	url := "/sessions/" + sessionID.String() + "/rooms/" + roomID.String()

	s.Run("success: returns 200 OK with the repriced session", func() {
		remaining, err := builder.NewSessionBuilder().WithOwner(s.actorID).BuildDomain()
		s.Require().NoError(err)

		s.mockCommands.EXPECT().RemoveRoom(gomock.Any(), sessionID, s.actorID, roomID).
			Return(remaining, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")

		s.Equal(http.StatusOK, rec.Code)
		var body map[string]any
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Equal("holding", body["status"])
	})

	s.Run("error: 400 Bad Request on malformed room id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete,
			"/sessions/"+sessionID.String()+"/rooms/not-a-uuid", nil, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 404 Not Found when the room is not in the session", func() {
		s.mockCommands.EXPECT().RemoveRoom(gomock.Any(), sessionID, s.actorID, roomID).
			Return(nil, errs.ErrRoomNotInSession).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

// ================================================================================
// TestApplyRewardCode
// ================================================================================

func (s *BookingHandlerTestSuite) TestApplyRewardCode() {
	sessionID := uuid.New()
	url := "/sessions/" + sessionID.String() + "/reward"
	reqBody := map[string]any{"code": "WELCOME10"}

	s.Run("success: returns 200 OK with the discounted session", func() {
		session, err := builder.NewSessionBuilder().WithOwner(s.actorID).BuildDomain()
		s.Require().NoError(err)

		s.mockCommands.EXPECT().ApplyRewardCode(gomock.Any(), sessionID, s.actorID, "WELCOME10").
			Return(session, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("success: surrounding whitespace is trimmed", func() {
		session, err := builder.NewSessionBuilder().WithOwner(s.actorID).BuildDomain()
		s.Require().NoError(err)

		s.mockCommands.EXPECT().ApplyRewardCode(gomock.Any(), sessionID, s.actorID, "WELCOME10").
			Return(session, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"code": "  WELCOME10  "}, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 400 Bad Request on missing code", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 400 Bad Request on unknown code", func() {
		s.mockCommands.EXPECT().ApplyRewardCode(gomock.Any(), sessionID, s.actorID, "BOGUS").
			Return(nil, errs.ErrRewardInvalid).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"code": "BOGUS"}, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 409 Conflict when a different code is applied", func() {
		s.mockCommands.EXPECT().ApplyRewardCode(gomock.Any(), sessionID, s.actorID, "SPRING15").
			Return(nil, errs.ErrRewardAlreadyApplied).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"code": "SPRING15"}, "bearer-token")
		s.Equal(http.StatusConflict, rec.Code)
	})
}

// ================================================================================
// TestCheckout
// ================================================================================

func (s *BookingHandlerTestSuite) TestCheckout() {
	sessionID := uuid.New()
	url := "/sessions/" + sessionID.String() + "/checkout"
	reqBody := map[string]any{"payment_confirmation": "tok-confirmed"}

	s.Run("success: returns 200 OK with booking ids", func() {
		result := &commands.CheckoutResult{
			SessionID:  sessionID,
			BookingIDs: []uuid.UUID{uuid.New(), uuid.New()},
			TotalCents: 46000,
		}
		s.mockCommands.EXPECT().Checkout(gomock.Any(), sessionID, s.actorID, "tok-confirmed").
			Return(result, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		s.Equal(http.StatusOK, rec.Code)
		var body map[string]any
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Equal(sessionID.String(), body["session_id"])
		s.Len(body["booking_ids"], 2)
		s.Equal(float64(46000), body["total_cents"])
	})

	s.Run("error: 400 Bad Request on missing confirmation", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 402 Payment Required when payment is declined", func() {
		s.mockCommands.EXPECT().Checkout(gomock.Any(), sessionID, s.actorID, gomock.Any()).
			Return(nil, errs.ErrPaymentFailed).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		s.Equal(http.StatusPaymentRequired, rec.Code)
	})

	s.Run("error: 409 Conflict when holds went stale", func() {
		s.mockCommands.EXPECT().Checkout(gomock.Any(), sessionID, s.actorID, gomock.Any()).
			Return(nil, errs.ErrHoldStale).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		s.Equal(http.StatusConflict, rec.Code)
	})
}

// ================================================================================
// TestCalendar
// ================================================================================

func (s *BookingHandlerTestSuite) TestCalendar() {
	s.Run("success: returns 200 OK with entries", func() {
		sessionID := uuid.New()
		entries := []*queries.CalendarEntryView{{
			RoomID:    uuid.New(),
			Kind:      "hold",
			SessionID: sessionID,
			Stay:      "2026-09-10..2026-09-12",
		}}

		s.mockQueries.EXPECT().Calendar(gomock.Any()).Return(entries, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/calendar", nil, "bearer-token")

		s.Equal(http.StatusOK, rec.Code)
		var body []map[string]any
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Require().Len(body, 1)
		s.Equal("hold", body[0]["kind"])
		s.Equal(sessionID.String(), body[0]["session_id"])
	})
}
