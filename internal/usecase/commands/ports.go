package commands

import (
	"context"
	"time"

	"stayops/internal/core/ledger"
	"stayops/internal/domain/booking"
	"stayops/internal/domain/conversation"

	"github.com/google/uuid"
)

// Ports to external collaborators. The concurrency core owns only the
// transient, contended state; everything durable lives behind these.

// RewardSnapshot mirrors one row of the rewards store.
type RewardSnapshot struct {
	ID             uuid.UUID
	Code           string
	AmountOffCents *int32
	PercentOff     *float64
	ValidFrom      *time.Time
	ValidTo        *time.Time
}

type RewardStore interface {
	FindByCode(ctx context.Context, code string) (*RewardSnapshot, error)
}

// PaymentGateway confirms a checkout payment. Payment processing itself is an
// external collaborator; the core only needs the yes/no.
type PaymentGateway interface {
	Confirm(ctx context.Context, confirmationToken string, amountCents int64) error
}

// ArchivedBooking is one committed room-stay row headed for durable storage.
type ArchivedBooking struct {
	BookingID       uuid.UUID
	SessionID       uuid.UUID
	OwnerID         uuid.UUID
	RoomID          uuid.UUID
	CheckIn         time.Time
	CheckOut        time.Time
	TotalGuests     int
	Breakfast       bool
	RewardCode      *string
	TotalPriceCents int64
}

type BookingArchive interface {
	ArchiveCommitted(ctx context.Context, rows []ArchivedBooking) error
}

type ConversationRepository interface {
	Create(ctx context.Context, conv *conversation.Conversation) error
	FindByID(ctx context.Context, id uuid.UUID) (*conversation.Conversation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status conversation.Status) error
	UpdateLock(ctx context.Context, id uuid.UUID, lockedBy *uuid.UUID, lockedAt *time.Time) error
}

type MessageArchive interface {
	// Append persists the message and returns it with its per-conversation
	// sequence number assigned.
	Append(ctx context.Context, msg *conversation.Message) (*conversation.Message, error)
}

type NotificationStore interface {
	Create(ctx context.Context, recipientID uuid.UUID, kind, body string) (uuid.UUID, error)
	// MarkRead is idempotent: marking an already-read notification succeeds.
	// Only the notification's own recipient can flip it; a mismatched
	// recipient is a no-op. The bool reports whether this call flipped the
	// row.
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) (bool, error)
}

// SessionStore is the in-memory working set of live booking sessions.
type SessionStore interface {
	Save(session *booking.Session)
	Get(sessionID uuid.UUID) (*booking.Session, error)
	Update(sessionID uuid.UUID, fn func(*booking.Session) error) error
	Drop(sessionID uuid.UUID)
}

// RoomLedger is the command-side surface of the reservation ledger. Commit
// returns the room/booking pairing so downstream rows attribute each booking
// to the room it actually covers.
type RoomLedger interface {
	TryHold(roomID uuid.UUID, stay booking.StayRange, sessionID uuid.UUID, ttl time.Duration) error
	ExtendHold(sessionID uuid.UUID, ttl time.Duration) error
	Commit(sessionID uuid.UUID) ([]ledger.CommittedRoom, error)
	Release(sessionID uuid.UUID)
	ReleaseRoom(sessionID, roomID uuid.UUID)
}

// ConversationLocks is the command-side surface of the lock manager.
type ConversationLocks interface {
	Acquire(conversationID, agentID uuid.UUID) error
	Release(conversationID, agentID uuid.UUID) error
	ForceRelease(conversationID uuid.UUID)
	Refresh(conversationID, agentID uuid.UUID) error
	Owner(conversationID uuid.UUID) (*uuid.UUID, *time.Time)
}
