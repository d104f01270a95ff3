//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"stayops/internal/domain/actor"
	"stayops/internal/handler/api"
	"stayops/internal/usecase/queries"
	"stayops/tests/common/httptest"
	queriesmock "stayops/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// fakeReadConfirmer records enqueued confirmations with the client they
// arrived from.
type fakeReadConfirmer struct {
	enqueued []confirmation
}

type confirmation struct {
	clientID       uuid.UUID
	notificationID uuid.UUID
}

func (f *fakeReadConfirmer) Enqueue(clientID, notificationID uuid.UUID) {
	f.enqueued = append(f.enqueued, confirmation{clientID: clientID, notificationID: notificationID})
}

type NotificationHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockNotificationQueries
	confirmer   *fakeReadConfirmer
	handler     *api.NotificationHandler
	actorID     uuid.UUID
}

func (s *NotificationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockNotificationQueries(s.mockCtrl)
	s.confirmer = &fakeReadConfirmer{}
	s.handler = api.NewNotificationHandler(s.mockQueries, s.confirmer)
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

	s.router.GET("/notifications", authMiddleware, s.handler.ListUnread)
	s.router.POST("/notifications/:id/read", authMiddleware, s.handler.MarkRead)
}

func (s *NotificationHandlerTestSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *NotificationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestNotificationHandlerSuite(t *testing.T) {
	suite.Run(t, new(NotificationHandlerTestSuite))
}

// ================================================================================
// TestListUnread
// ================================================================================

func (s *NotificationHandlerTestSuite) TestListUnread() {
	s.Run("success: returns 200 OK with unread notifications", func() {
		views := []*queries.NotificationView{{
			ID:          uuid.New(),
			RecipientID: s.actorID,
			Kind:        "booking_confirmed",
			Body:        "Booking confirmed for 2026-09-10..2026-09-12",
			CreatedAt:   time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		}}

		s.mockQueries.EXPECT().ListUnread(gomock.Any(), s.actorID, 50).
			Return(views, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/notifications", nil, "bearer-token")

		s.Equal(http.StatusOK, rec.Code)
		var body []map[string]any
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Require().Len(body, 1)
		s.Equal("booking_confirmed", body[0]["kind"])
		s.Equal(false, body[0]["is_read"])
	})

	s.Run("success: limit query is forwarded", func() {
		s.mockQueries.EXPECT().ListUnread(gomock.Any(), s.actorID, 10).
			Return([]*queries.NotificationView{}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/notifications?limit=10", nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 401 Unauthorized without token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/notifications", nil, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

// ================================================================================
// TestMarkRead
// ================================================================================

func (s *NotificationHandlerTestSuite) TestMarkRead() {
	s.Run("success: returns 202 Accepted and enqueues under the caller", func() {
		notificationID := uuid.New()
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
			"/notifications/"+notificationID.String()+"/read", nil, "bearer-token")

		s.Equal(http.StatusAccepted, rec.Code)
		s.Require().Len(s.confirmer.enqueued, 1)
		s.Equal(notificationID, s.confirmer.enqueued[0].notificationID)
		// The confirmation is attributed to the authenticated caller, never
		// to whoever the notification belongs to.
		s.Equal(s.actorID, s.confirmer.enqueued[0].clientID)
	})

	s.Run("success: duplicate requests each reach the queue", func() {
		notificationID := uuid.New()
		for range 2 {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
				"/notifications/"+notificationID.String()+"/read", nil, "bearer-token")
			s.Equal(http.StatusAccepted, rec.Code)
		}
		// The queue itself collapses duplicates; the handler just forwards.
		s.Len(s.confirmer.enqueued, 2)
	})

	s.Run("error: 400 Bad Request on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
			"/notifications/not-a-uuid/read", nil, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Empty(s.confirmer.enqueued)
	})
}
