package queries

import (
	"context"
	"time"

	"stayops/internal/core/ledger"
	"stayops/internal/domain/actor"
	"stayops/internal/domain/booking"
	"stayops/internal/pkg/errs"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type SessionView struct {
	ID                uuid.UUID   `json:"id"`
	OwnerID           uuid.UUID   `json:"owner_id"`
	RoomIDs           []uuid.UUID `json:"room_ids"`
	CheckIn           time.Time   `json:"check_in"`
	CheckOut          time.Time   `json:"check_out"`
	Stay              string      `json:"stay"`
	TotalGuests       int         `json:"total_guests"`
	BreakfastIncluded bool        `json:"breakfast_included"`
	RewardCode        *string     `json:"reward_code,omitempty"`
	TotalPriceCents   int64       `json:"total_price_cents"`
	Status            string      `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	ExpiresAt         time.Time   `json:"expires_at"`
}

type CalendarEntryView struct {
	RoomID    uuid.UUID  `json:"room_id"`
	Kind      string     `json:"kind"`
	SessionID uuid.UUID  `json:"session_id"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	Stay      string     `json:"stay"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type SessionReader interface {
	Get(sessionID uuid.UUID) (*booking.Session, error)
}

type CalendarReader interface {
	Calendar() []ledger.CalendarEntry
}

type BookingQueries interface {
	GetSession(ctx context.Context, sessionID, actorID uuid.UUID, role actor.Role) (*SessionView, error)
	// Calendar is the admin view of current holds and bookings per room.
	Calendar(ctx context.Context) ([]*CalendarEntryView, error)
}

type bookingQueriesImpl struct {
	sessions SessionReader
	calendar CalendarReader
}

func NewBookingQueries(sessions SessionReader, calendar CalendarReader) BookingQueries {
	return &bookingQueriesImpl{sessions: sessions, calendar: calendar}
}

func (q *bookingQueriesImpl) GetSession(_ context.Context, sessionID, actorID uuid.UUID, role actor.Role) (*SessionView, error) {
	session, err := q.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	// Owners see their own session; staff see any.
	if !session.IsOwnedBy(actorID) && !role.IsStaff() {
		return nil, errs.ErrNotSessionOwner
	}

	return NewSessionView(session), nil
}

func NewSessionView(session *booking.Session) *SessionView {
	var rewardCode *string
	if applied := session.AppliedReward(); applied != nil {
		code := applied.Code
		rewardCode = &code
	}

	return &SessionView{
		ID:                session.ID(),
		OwnerID:           session.OwnerID(),
		RoomIDs:           session.RoomIDs(),
		CheckIn:           session.Stay().CheckIn(),
		CheckOut:          session.Stay().CheckOut(),
		Stay:              session.Stay().String(),
		TotalGuests:       session.TotalGuests(),
		BreakfastIncluded: session.BreakfastIncluded(),
		RewardCode:        rewardCode,
		TotalPriceCents:   session.TotalPrice().Cents(),
		Status:            session.Status().String(),
		CreatedAt:         session.CreatedAt(),
		ExpiresAt:         session.ExpiresAt(),
	}
}

func (q *bookingQueriesImpl) Calendar(_ context.Context) ([]*CalendarEntryView, error) {
	entries := q.calendar.Calendar()
	views := make([]*CalendarEntryView, len(entries))
	for i, e := range entries {
		views[i] = &CalendarEntryView{
			RoomID:    e.RoomID,
			Kind:      e.Kind,
			SessionID: e.SessionID,
			BookingID: e.BookingID,
			Stay:      e.Stay,
			ExpiresAt: e.ExpiresAt,
		}
	}
	return views, nil
}
