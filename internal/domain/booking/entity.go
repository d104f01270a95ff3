package booking

import (
	"errors"
	"slices"
	"time"

	"stayops/internal/domain/reward"
	"stayops/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrNoRooms              = errors.New("session must hold at least one room")
	ErrNoGuests             = errors.New("session must have at least one guest")
	ErrRoomNotInSession     = errors.New("room is not part of the session")
	ErrSessionNotHolding    = errors.New("session is no longer holding")
	ErrRewardAlreadyApplied = errors.New("a different reward code is already applied")
	ErrInvalidReward        = errors.New("invalid reward code")
)

// RatePlan resolves the nightly room rate. Room pricing is owned by an
// external catalog; the session only needs the numbers.
type RatePlan interface {
	NightlyRateCents(roomID uuid.UUID) int64
	BreakfastRateCents() int64
}

type Services struct {
	Clock clock.Clock
	Rates RatePlan
}

type AppliedReward struct {
	ID   uuid.UUID
	Code string
}

// Session is a guest's temporary multi-room hold. It is mutated only by its
// owner while holding, and reaches exactly one terminal status.
type Session struct {
	id                uuid.UUID
	ownerID           uuid.UUID
	roomIDs           []uuid.UUID
	stay              StayRange
	totalGuests       int
	breakfastIncluded bool
	appliedReward     *AppliedReward
	basePrice         Money
	totalPrice        Money
	status            Status
	createdAt         time.Time
	expiresAt         time.Time
}

func NewSession(
	services *Services,
	ownerID uuid.UUID,
	roomIDs []uuid.UUID,
	stay StayRange,
	totalGuests int,
	breakfastIncluded bool,
	ttl time.Duration,
) (*Session, error) {
	if len(roomIDs) == 0 {
		return nil, ErrNoRooms
	}
	if totalGuests < 1 {
		return nil, ErrNoGuests
	}

	now := services.Clock.Now()
	s := &Session{
		id:                uuid.New(),
		ownerID:           ownerID,
		roomIDs:           slices.Clone(roomIDs),
		stay:              stay,
		totalGuests:       totalGuests,
		breakfastIncluded: breakfastIncluded,
		status:            StatusHolding,
		createdAt:         now,
		expiresAt:         now.Add(ttl),
	}
	s.reprice(services.Rates)
	return s, nil
}

func ReconstructSession(
	id, ownerID uuid.UUID,
	roomIDs []uuid.UUID,
	stay StayRange,
	totalGuests int,
	breakfastIncluded bool,
	appliedReward *AppliedReward,
	basePrice, totalPrice Money,
	status Status,
	createdAt, expiresAt time.Time,
) *Session {
	return &Session{
		id:                id,
		ownerID:           ownerID,
		roomIDs:           slices.Clone(roomIDs),
		stay:              stay,
		totalGuests:       totalGuests,
		breakfastIncluded: breakfastIncluded,
		appliedReward:     appliedReward,
		basePrice:         basePrice,
		totalPrice:        totalPrice,
		status:            status,
		createdAt:         createdAt,
		expiresAt:         expiresAt,
	}
}

// reprice recomputes base price from current rooms, keeping any discount.
// Discounts are re-applied to the new base so removing a room never leaves a
// total computed from rooms the session no longer holds.
func (s *Session) reprice(rates RatePlan) {
	nights := s.stay.Nights()
	var base int64
	for _, roomID := range s.roomIDs {
		base += rates.NightlyRateCents(roomID) * int64(nights)
	}
	if s.breakfastIncluded {
		base += rates.BreakfastRateCents() * int64(s.totalGuests) * int64(nights)
	}
	s.basePrice = NewMoney(base)
	s.totalPrice = s.basePrice
}

// RemoveRoom drops one room from the hold. The last removed room releases the
// whole session. The caller re-applies any reward discount afterwards.
func (s *Session) RemoveRoom(roomID uuid.UUID, rates RatePlan) error {
	if s.status != StatusHolding {
		return ErrSessionNotHolding
	}

	idx := slices.Index(s.roomIDs, roomID)
	if idx < 0 {
		return ErrRoomNotInSession
	}

	s.roomIDs = slices.Delete(s.roomIDs, idx, idx+1)
	if len(s.roomIDs) == 0 {
		s.status = StatusReleased
		s.basePrice = NewMoney(0)
		s.totalPrice = NewMoney(0)
		return nil
	}

	s.reprice(rates)
	return nil
}

// ApplyReward is idempotent for the same code; a second distinct code is
// rejected while one is active.
func (s *Session) ApplyReward(code *reward.Code, now time.Time) error {
	if s.status != StatusHolding {
		return ErrSessionNotHolding
	}

	if s.appliedReward != nil {
		if s.appliedReward.Code == code.Value() {
			return nil
		}
		return ErrRewardAlreadyApplied
	}

	if err := code.ValidateUsage(now); err != nil {
		return ErrInvalidReward
	}

	s.appliedReward = &AppliedReward{ID: code.ID(), Code: code.Value()}
	s.totalPrice = NewMoney(code.ApplyDiscount(s.basePrice.Cents()))
	return nil
}

// ReapplyDiscount recomputes the total after a reprice, using the discount of
// the already-applied code.
func (s *Session) ReapplyDiscount(code *reward.Code) {
	if s.appliedReward == nil || code == nil {
		return
	}
	s.totalPrice = NewMoney(code.ApplyDiscount(s.basePrice.Cents()))
}

func (s *Session) ExtendExpiry(until time.Time) error {
	if s.status != StatusHolding {
		return ErrSessionNotHolding
	}
	s.expiresAt = until
	return nil
}

func (s *Session) MarkCommitted() error {
	if s.status != StatusHolding {
		return ErrSessionNotHolding
	}
	s.status = StatusCommitted
	return nil
}

func (s *Session) MarkExpired() error {
	if s.status != StatusHolding {
		return ErrSessionNotHolding
	}
	s.status = StatusExpired
	return nil
}

func (s *Session) MarkReleased() error {
	if s.status != StatusHolding {
		return ErrSessionNotHolding
	}
	s.status = StatusReleased
	return nil
}

func (s *Session) IsOwnedBy(actorID uuid.UUID) bool {
	return s.ownerID == actorID
}

func (s *Session) HasExpired(now time.Time) bool {
	return now.After(s.expiresAt)
}

func (s *Session) ID() uuid.UUID                { return s.id }
func (s *Session) OwnerID() uuid.UUID           { return s.ownerID }
func (s *Session) RoomIDs() []uuid.UUID         { return slices.Clone(s.roomIDs) }
func (s *Session) Stay() StayRange              { return s.stay }
func (s *Session) TotalGuests() int             { return s.totalGuests }
func (s *Session) BreakfastIncluded() bool      { return s.breakfastIncluded }
func (s *Session) AppliedReward() *AppliedReward {
	if s.appliedReward == nil {
		return nil
	}
	r := *s.appliedReward
	return &r
}
func (s *Session) BasePrice() Money     { return s.basePrice }
func (s *Session) TotalPrice() Money    { return s.totalPrice }
func (s *Session) Status() Status       { return s.status }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

type DefaultRatePlan struct {
	NightlyCents   int64
	BreakfastCents int64
}

func NewDefaultRatePlan() *DefaultRatePlan {
	return &DefaultRatePlan{
		NightlyCents:   12000, // $120/night flat rate
		BreakfastCents: 1500,
	}
}

func (p *DefaultRatePlan) NightlyRateCents(_ uuid.UUID) int64 {
	return p.NightlyCents
}

func (p *DefaultRatePlan) BreakfastRateCents() int64 {
	return p.BreakfastCents
}
