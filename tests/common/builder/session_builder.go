//go:build unit || e2e

package builder

import (
	"time"

	"stayops/internal/domain/booking"
	"stayops/internal/pkg/clock"

	"github.com/google/uuid"
)

// SessionBuilder assembles booking sessions with sensible defaults so tests
// only state what they care about.
type SessionBuilder struct {
	ownerID           uuid.UUID
	roomIDs           []uuid.UUID
	checkIn           time.Time
	checkOut          time.Time
	totalGuests       int
	breakfastIncluded bool
	ttl               time.Duration
	clock             clock.Clock
	rates             booking.RatePlan
}

func NewSessionBuilder() *SessionBuilder {
	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return &SessionBuilder{
		ownerID:     uuid.New(),
		roomIDs:     []uuid.UUID{uuid.New()},
		checkIn:     checkIn,
		checkOut:    checkIn.AddDate(0, 0, 2),
		totalGuests: 2,
		ttl:         10 * time.Minute,
		clock:       clock.NewRealClock(),
		rates:       booking.NewDefaultRatePlan(),
	}
}

func (b *SessionBuilder) With(mutate func(*SessionBuilder)) *SessionBuilder {
	if mutate != nil {
		mutate(b)
	}
	return b
}

func (b *SessionBuilder) WithOwner(ownerID uuid.UUID) *SessionBuilder {
	b.ownerID = ownerID
	return b
}

func (b *SessionBuilder) WithRooms(roomIDs ...uuid.UUID) *SessionBuilder {
	b.roomIDs = roomIDs
	return b
}

func (b *SessionBuilder) WithStay(checkIn, checkOut time.Time) *SessionBuilder {
	b.checkIn = checkIn
	b.checkOut = checkOut
	return b
}

func (b *SessionBuilder) WithGuests(totalGuests int) *SessionBuilder {
	b.totalGuests = totalGuests
	return b
}

func (b *SessionBuilder) WithBreakfast(included bool) *SessionBuilder {
	b.breakfastIncluded = included
	return b
}

func (b *SessionBuilder) WithTTL(ttl time.Duration) *SessionBuilder {
	b.ttl = ttl
	return b
}

func (b *SessionBuilder) WithClock(clk clock.Clock) *SessionBuilder {
	b.clock = clk
	return b
}

func (b *SessionBuilder) BuildStay() (booking.StayRange, error) {
	return booking.NewStayRange(b.checkIn, b.checkOut)
}

func (b *SessionBuilder) BuildDomain() (*booking.Session, error) {
	stay, err := b.BuildStay()
	if err != nil {
		return nil, err
	}
	services := &booking.Services{Clock: b.clock, Rates: b.rates}
	return booking.NewSession(services, b.ownerID, b.roomIDs, stay, b.totalGuests, b.breakfastIncluded, b.ttl)
}

func (b *SessionBuilder) BuildCreateRequestDTO() map[string]any {
	roomIDs := make([]string, len(b.roomIDs))
	for i, id := range b.roomIDs {
		roomIDs[i] = id.String()
	}
	return map[string]any{
		"room_ids":           roomIDs,
		"check_in":           b.checkIn.Format(time.RFC3339),
		"check_out":          b.checkOut.Format(time.RFC3339),
		"total_guests":       b.totalGuests,
		"breakfast_included": b.breakfastIncluded,
	}
}
