package response

import (
	"time"

	"stayops/internal/usecase/commands"
	"stayops/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SessionResponse struct {
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

type CheckoutResponse struct {
	SessionID  uuid.UUID   `json:"session_id"`
	BookingIDs []uuid.UUID `json:"booking_ids"`
	TotalCents int64       `json:"total_cents"`
}

type CalendarEntryResponse struct {
	RoomID    uuid.UUID  `json:"room_id"`
	Kind      string     `json:"kind"`
	SessionID uuid.UUID  `json:"session_id"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	Stay      string     `json:"stay"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func FromSessionView(view *queries.SessionView) *SessionResponse {
	var resp SessionResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromCheckoutResult(result *commands.CheckoutResult) *CheckoutResponse {
	var resp CheckoutResponse
	_ = copier.Copy(&resp, result)
	return &resp
}

func FromCalendarEntries(entries []*queries.CalendarEntryView) []*CalendarEntryResponse {
	resp := make([]*CalendarEntryResponse, len(entries))
	for i, entry := range entries {
		resp[i] = &CalendarEntryResponse{}
		_ = copier.Copy(resp[i], entry)
	}
	return resp
}
