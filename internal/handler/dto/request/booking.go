package request

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	RoomIDs           []uuid.UUID `json:"room_ids" binding:"required,min=1"`
	CheckIn           time.Time   `json:"check_in" binding:"required"`
	CheckOut          time.Time   `json:"check_out" binding:"required"`
	TotalGuests       int         `json:"total_guests" binding:"required,min=1"`
	BreakfastIncluded bool        `json:"breakfast_included"`
}

type ApplyRewardCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

func (r ApplyRewardCodeRequest) TrimmedCode() string {
	return strings.TrimSpace(r.Code)
}

type CheckoutRequest struct {
	PaymentConfirmation string `json:"payment_confirmation" binding:"required"`
}
