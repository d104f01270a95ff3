package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stayops/internal/core/fanout"
	"stayops/internal/core/ledger"
	"stayops/internal/domain/booking"
	"stayops/internal/domain/reward"
	"stayops/internal/infra"
	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/errs"

	"github.com/google/uuid"
)

// RoomConflictError names the room(s) that blocked a create call. Matches
// errs.ErrRoomConflict under errors.Is.
type RoomConflictError struct {
	Rooms []uuid.UUID
}

func (e *RoomConflictError) Error() string {
	return fmt.Sprintf("rooms unavailable for the requested dates: %v", e.Rooms)
}

func (e *RoomConflictError) Is(target error) bool {
	return errors.Is(errs.ErrRoomConflict, target)
}

type CreateSessionParams struct {
	RoomIDs           []uuid.UUID
	CheckIn           time.Time
	CheckOut          time.Time
	TotalGuests       int
	BreakfastIncluded bool
}

type CheckoutResult struct {
	SessionID  uuid.UUID
	BookingIDs []uuid.UUID
	TotalCents int64
}

type BookingCommands interface {
	CreateSession(ctx context.Context, ownerID uuid.UUID, params CreateSessionParams) (*booking.Session, error)
	Touch(ctx context.Context, sessionID, actorID uuid.UUID) error
	RemoveRoom(ctx context.Context, sessionID, actorID, roomID uuid.UUID) (*booking.Session, error)
	ApplyRewardCode(ctx context.Context, sessionID, actorID uuid.UUID, code string) (*booking.Session, error)
	Checkout(ctx context.Context, sessionID, actorID uuid.UUID, paymentConfirmation string) (*CheckoutResult, error)
}

type bookingCommandsImpl struct {
	ledger        RoomLedger
	sessions      SessionStore
	rewards       RewardStore
	payments      PaymentGateway
	archive       BookingArchive
	notifications NotificationStore
	pub           fanout.Publisher
	rates         booking.RatePlan
	clock         clock.Clock
	holdTTL       time.Duration
}

func NewBookingCommands(
	ledger RoomLedger,
	sessions SessionStore,
	rewards RewardStore,
	payments PaymentGateway,
	archive BookingArchive,
	notifications NotificationStore,
	pub fanout.Publisher,
	rates booking.RatePlan,
	clk clock.Clock,
	holdTTL time.Duration,
) BookingCommands {
	return &bookingCommandsImpl{
		ledger:        ledger,
		sessions:      sessions,
		rewards:       rewards,
		payments:      payments,
		archive:       archive,
		notifications: notifications,
		pub:           pub,
		rates:         rates,
		clock:         clk,
		holdTTL:       holdTTL,
	}
}

// CreateSession holds every requested room or none of them. Holds acquired
// before a conflict are rolled back, and the error names every blocking room
// so the guest can adjust the whole selection at once.
func (b *bookingCommandsImpl) CreateSession(_ context.Context, ownerID uuid.UUID, params CreateSessionParams) (*booking.Session, error) {
	stay, err := booking.NewStayRange(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidStayRange)
	}

	services := &booking.Services{Clock: b.clock, Rates: b.rates}
	session, err := booking.NewSession(services, ownerID, params.RoomIDs, stay, params.TotalGuests, params.BreakfastIncluded, b.holdTTL)
	if err != nil {
		return nil, err
	}

	var blocked []uuid.UUID
	var held []uuid.UUID
	for _, roomID := range params.RoomIDs {
		if holdErr := b.ledger.TryHold(roomID, stay, session.ID(), b.holdTTL); holdErr != nil {
			blocked = append(blocked, roomID)
			continue
		}
		held = append(held, roomID)
	}

	if len(blocked) > 0 {
		for _, roomID := range held {
			b.ledger.ReleaseRoom(session.ID(), roomID)
		}
		return nil, &RoomConflictError{Rooms: blocked}
	}

	b.sessions.Save(session)
	return session, nil
}

// Touch renews the hold TTL on any user interaction with the session.
func (b *bookingCommandsImpl) Touch(_ context.Context, sessionID, actorID uuid.UUID) error {
	return b.sessions.Update(sessionID, func(session *booking.Session) error {
		if !session.IsOwnedBy(actorID) {
			return errs.ErrNotSessionOwner
		}
		return b.extend(session)
	})
}

func (b *bookingCommandsImpl) extend(session *booking.Session) error {
	if session.Status() != booking.StatusHolding {
		return errs.ErrSessionNotHolding
	}
	if err := b.ledger.ExtendHold(session.ID(), b.holdTTL); err != nil {
		return err
	}
	return session.ExtendExpiry(b.clock.Now().Add(b.holdTTL))
}

// RemoveRoom releases a single room's hold; the session keeps holding the
// rest. Removing the last room releases the whole session.
func (b *bookingCommandsImpl) RemoveRoom(ctx context.Context, sessionID, actorID, roomID uuid.UUID) (*booking.Session, error) {
	var result *booking.Session
	err := b.sessions.Update(sessionID, func(session *booking.Session) error {
		if !session.IsOwnedBy(actorID) {
			return errs.ErrNotSessionOwner
		}

		if err := session.RemoveRoom(roomID, b.rates); err != nil {
			switch {
			case errors.Is(err, booking.ErrRoomNotInSession):
				return errs.ErrRoomNotInSession
			case errors.Is(err, booking.ErrSessionNotHolding):
				return errs.ErrSessionNotHolding
			default:
				return err
			}
		}
		b.ledger.ReleaseRoom(sessionID, roomID)

		if session.Status() == booking.StatusReleased {
			// Last room removed: the whole hold is gone.
			b.ledger.Release(sessionID)
			result = session
			return nil
		}

		if session.AppliedReward() != nil {
			b.reapplyDiscount(ctx, session)
		}
		result = session
		return b.extend(session)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (b *bookingCommandsImpl) reapplyDiscount(ctx context.Context, session *booking.Session) {
	applied := session.AppliedReward()
	if applied == nil {
		return
	}
	snapshot, err := b.rewards.FindByCode(ctx, applied.Code)
	if err != nil {
		return
	}
	code, err := reward.NewCode(snapshot.ID, snapshot.Code, snapshot.AmountOffCents, snapshot.PercentOff, snapshot.ValidFrom, snapshot.ValidTo)
	if err != nil {
		return
	}
	session.ReapplyDiscount(code)
}

// ApplyRewardCode validates the code against the rewards store and recomputes
// the total. Re-applying the same code is a no-op; a second distinct code is
// rejected while one is active.
func (b *bookingCommandsImpl) ApplyRewardCode(ctx context.Context, sessionID, actorID uuid.UUID, codeValue string) (*booking.Session, error) {
	snapshot, err := b.rewards.FindByCode(ctx, codeValue)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrRewardInvalid
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	code, err := reward.NewCode(snapshot.ID, snapshot.Code, snapshot.AmountOffCents, snapshot.PercentOff, snapshot.ValidFrom, snapshot.ValidTo)
	if err != nil {
		return nil, errs.ErrRewardInvalid
	}

	var result *booking.Session
	err = b.sessions.Update(sessionID, func(session *booking.Session) error {
		if !session.IsOwnedBy(actorID) {
			return errs.ErrNotSessionOwner
		}

		if applyErr := session.ApplyReward(code, b.clock.Now()); applyErr != nil {
			switch {
			case errors.Is(applyErr, booking.ErrRewardAlreadyApplied):
				return errs.ErrRewardAlreadyApplied
			case errors.Is(applyErr, booking.ErrInvalidReward):
				return errs.ErrRewardInvalid
			case errors.Is(applyErr, booking.ErrSessionNotHolding):
				return errs.ErrSessionNotHolding
			default:
				return applyErr
			}
		}
		result = session
		return b.extend(session)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Checkout converts the session's holds into permanent bookings. A Stale
// outcome means some hold expired between selection and payment; the caller
// surfaces "rooms no longer available" and restarts, never silently rebooks
// different rooms.
func (b *bookingCommandsImpl) Checkout(ctx context.Context, sessionID, actorID uuid.UUID, paymentConfirmation string) (*CheckoutResult, error) {
	var result *CheckoutResult
	err := b.sessions.Update(sessionID, func(session *booking.Session) error {
		if !session.IsOwnedBy(actorID) {
			return errs.ErrNotSessionOwner
		}
		if session.Status() != booking.StatusHolding {
			if session.Status() == booking.StatusExpired {
				return errs.ErrHoldStale
			}
			return errs.ErrSessionNotHolding
		}

		if err := b.payments.Confirm(ctx, paymentConfirmation, session.TotalPrice().Cents()); err != nil {
			return errs.Mark(err, errs.ErrPaymentFailed)
		}

		committed, err := b.ledger.Commit(sessionID)
		if err != nil {
			// Refunding the confirmed payment is the gateway's concern.
			_ = session.MarkExpired()
			return errs.ErrHoldStale
		}

		if err := session.MarkCommitted(); err != nil {
			return err
		}

		rows := b.archiveRows(session, committed)
		if err := b.archive.ArchiveCommitted(ctx, rows); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		b.notifyCommitted(ctx, session)

		bookingIDs := make([]uuid.UUID, 0, len(committed))
		for _, room := range committed {
			bookingIDs = append(bookingIDs, room.BookingID)
		}
		result = &CheckoutResult{
			SessionID:  sessionID,
			BookingIDs: bookingIDs,
			TotalCents: session.TotalPrice().Cents(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// archiveRows takes the room/booking pairing straight from the commit, so a
// row's booking id always belongs to that row's room no matter what order the
// rooms were added in.
func (b *bookingCommandsImpl) archiveRows(session *booking.Session, committed []ledger.CommittedRoom) []ArchivedBooking {
	var rewardCode *string
	if applied := session.AppliedReward(); applied != nil {
		code := applied.Code
		rewardCode = &code
	}

	rows := make([]ArchivedBooking, 0, len(committed))
	for _, room := range committed {
		rows = append(rows, ArchivedBooking{
			BookingID:       room.BookingID,
			SessionID:       session.ID(),
			OwnerID:         session.OwnerID(),
			RoomID:          room.RoomID,
			CheckIn:         session.Stay().CheckIn(),
			CheckOut:        session.Stay().CheckOut(),
			TotalGuests:     session.TotalGuests(),
			Breakfast:       session.BreakfastIncluded(),
			RewardCode:      rewardCode,
			TotalPriceCents: session.TotalPrice().Cents(),
		})
	}
	return rows
}

func (b *bookingCommandsImpl) notifyCommitted(ctx context.Context, session *booking.Session) {
	body := fmt.Sprintf("Booking confirmed for %s", session.Stay())
	notificationID, err := b.notifications.Create(ctx, session.OwnerID(), "booking_confirmed", body)
	if err != nil {
		return
	}
	b.pub.Publish(fanout.NotificationTopic(session.OwnerID()), fanout.NotificationCreated{
		NotificationID: notificationID,
		RecipientID:    session.OwnerID(),
		Kind:           "booking_confirmed",
		Body:           body,
	})
}
