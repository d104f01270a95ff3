//go:build e2e

package notification_test

import (
	"net/http"
	"testing"
	"time"

	"stayops/internal/domain/actor"
	"stayops/internal/handler/dto/response"
	"stayops/tests/common/authtest"
	"stayops/tests/common/dbtest"
	"stayops/tests/common/httptest"
	"stayops/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const notificationsURL = "/api/notifications"

type NotificationSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *NotificationSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func TestNotificationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(NotificationSuite))
}

// =============================================================================
// TestListUnread
// =============================================================================

func (s *NotificationSuite) TestListUnread() {
	s.Run("Normal case: only the recipient's unread notifications are listed", func() {
		t := s.T()

		recipientID := uuid.New()
		otherID := uuid.New()
		token := s.jwt.GenerateToken(t, recipientID, actor.RoleAgent)

		mine := dbtest.CreateTestNotification(t, s.DB, recipientID, "message", "A guest is waiting")
		dbtest.CreateTestNotification(t, s.DB, otherID, "message", "Not yours")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, notificationsURL, nil, token)
		httptest.AssertHeaders(t, w, map[string]string{"Content-Type": "application/json; charset=utf-8"})

		var list []response.NotificationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &list)
		require.Len(t, list, 1)
		require.Equal(t, mine, list[0].ID)
		require.Equal(t, "message", list[0].Kind)
		require.False(t, list[0].IsRead)
	})

	s.Run("Normal case: empty list when everything is read", func() {
		t := s.T()

		recipientID := uuid.New()
		token := s.jwt.GenerateToken(t, recipientID, actor.RoleAgent)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, notificationsURL, nil, token)

		var list []response.NotificationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &list)
		require.Empty(t, list)
	})
}

// =============================================================================
// TestMarkRead - confirmation is queued, debounced and applied
// =============================================================================

func (s *NotificationSuite) TestMarkRead() {
	s.Run("Normal case: 202 Accepted, then the row flips to read", func() {
		t := s.T()

		recipientID := uuid.New()
		token := s.jwt.GenerateToken(t, recipientID, actor.RoleAgent)
		notificationID := dbtest.CreateTestNotification(t, s.DB, recipientID, "booking_confirmed", "Booking confirmed")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			notificationsURL+"/"+notificationID.String()+"/read", nil, token)
		require.Equal(t, http.StatusAccepted, w.Code)

		// The queue marks asynchronously after its debounce interval
		require.Eventually(t, func() bool {
			var isRead bool
			if err := s.DB.QueryRow(t.Context(),
				"SELECT is_read FROM notifications WHERE id = $1", notificationID).Scan(&isRead); err != nil {
				return false
			}
			return isRead
		}, 5*time.Second, 100*time.Millisecond, "notification should be marked read")
	})

	s.Run("Normal case: repeated confirmations stay idempotent", func() {
		t := s.T()

		recipientID := uuid.New()
		token := s.jwt.GenerateToken(t, recipientID, actor.RoleAgent)
		notificationID := dbtest.CreateTestNotification(t, s.DB, recipientID, "message", "Ping")

		url := notificationsURL + "/" + notificationID.String() + "/read"
		for range 3 {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, token)
			require.Equal(t, http.StatusAccepted, w.Code)
		}

		require.Eventually(t, func() bool {
			var isRead bool
			if err := s.DB.QueryRow(t.Context(),
				"SELECT is_read FROM notifications WHERE id = $1", notificationID).Scan(&isRead); err != nil {
				return false
			}
			return isRead
		}, 5*time.Second, 100*time.Millisecond)

		lw := httptest.PerformRequest(t, s.Router, http.MethodGet, notificationsURL, nil, token)
		var list []response.NotificationResponse
		httptest.AssertSuccessResponse(t, lw, http.StatusOK, &list)
		require.Empty(t, list)
	})

	s.Run("Error case: another user's confirmation leaves the row unread", func() {
		t := s.T()

		recipientID := uuid.New()
		intruderID := uuid.New()
		intruderToken := s.jwt.GenerateToken(t, intruderID, actor.RoleAgent)
		notificationID := dbtest.CreateTestNotification(t, s.DB, recipientID, "message", "Private ping")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			notificationsURL+"/"+notificationID.String()+"/read", nil, intruderToken)
		require.Equal(t, http.StatusAccepted, w.Code, "acceptance says queued, not marked")

		require.Never(t, func() bool {
			var isRead bool
			if err := s.DB.QueryRow(t.Context(),
				"SELECT is_read FROM notifications WHERE id = $1", notificationID).Scan(&isRead); err != nil {
				return false
			}
			return isRead
		}, 2*time.Second, 100*time.Millisecond, "only the recipient can flip the row")

		// The real recipient still can.
		ownerToken := s.jwt.GenerateToken(t, recipientID, actor.RoleAgent)
		w = httptest.PerformRequest(t, s.Router, http.MethodPost,
			notificationsURL+"/"+notificationID.String()+"/read", nil, ownerToken)
		require.Equal(t, http.StatusAccepted, w.Code)

		require.Eventually(t, func() bool {
			var isRead bool
			if err := s.DB.QueryRow(t.Context(),
				"SELECT is_read FROM notifications WHERE id = $1", notificationID).Scan(&isRead); err != nil {
				return false
			}
			return isRead
		}, 5*time.Second, 100*time.Millisecond)
	})

	s.Run("Error case: malformed id is rejected", func() {
		t := s.T()

		token := s.jwt.GenerateToken(t, uuid.New(), actor.RoleAgent)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			notificationsURL+"/not-a-uuid/read", nil, token)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
