package fanout

import (
	"time"

	"github.com/google/uuid"
)

// Events form a closed set of tagged variants. Everything that crosses the
// hub is one of these; subscribers switch on Type rather than duck-typing
// payloads.
type EventType string

const (
	TypeRoomHeld             EventType = "room_held"
	TypeRoomReleased         EventType = "room_released"
	TypeRoomBooked           EventType = "room_booked"
	TypeHoldExpired          EventType = "hold_expired"
	TypeConversationLocked   EventType = "conversation_locked"
	TypeConversationUnlocked EventType = "conversation_unlocked"
	TypeConversationClosed   EventType = "conversation_closed"
	TypeMessageAppended      EventType = "message_appended"
	TypeNotificationCreated  EventType = "notification_created"
	TypeNotificationRead     EventType = "notification_read"
)

type Event interface {
	Type() EventType
}

type RoomHeld struct {
	SessionID uuid.UUID `json:"session_id"`
	RoomID    uuid.UUID `json:"room_id"`
	Stay      string    `json:"stay"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (RoomHeld) Type() EventType { return TypeRoomHeld }

type RoomReleased struct {
	SessionID uuid.UUID `json:"session_id"`
	RoomID    uuid.UUID `json:"room_id"`
	Stay      string    `json:"stay"`
}

func (RoomReleased) Type() EventType { return TypeRoomReleased }

type RoomBooked struct {
	SessionID uuid.UUID `json:"session_id"`
	BookingID uuid.UUID `json:"booking_id"`
	RoomID    uuid.UUID `json:"room_id"`
	Stay      string    `json:"stay"`
}

func (RoomBooked) Type() EventType { return TypeRoomBooked }

type HoldExpired struct {
	SessionID uuid.UUID `json:"session_id"`
	RoomID    uuid.UUID `json:"room_id"`
	Stay      string    `json:"stay"`
}

func (HoldExpired) Type() EventType { return TypeHoldExpired }

type ConversationLocked struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	AgentID        uuid.UUID `json:"agent_id"`
	LockedAt       time.Time `json:"locked_at"`
}

func (ConversationLocked) Type() EventType { return TypeConversationLocked }

// UnlockReason distinguishes a voluntary release from a sweep reclaim and a
// supervisor override.
type UnlockReason string

const (
	UnlockReleased UnlockReason = "released"
	UnlockExpired  UnlockReason = "expired"
	UnlockForced   UnlockReason = "forced"
)

type ConversationUnlocked struct {
	ConversationID uuid.UUID    `json:"conversation_id"`
	AgentID        uuid.UUID    `json:"agent_id"`
	Reason         UnlockReason `json:"reason"`
}

func (ConversationUnlocked) Type() EventType { return TypeConversationUnlocked }

type ConversationClosed struct {
	ConversationID uuid.UUID `json:"conversation_id"`
}

func (ConversationClosed) Type() EventType { return TypeConversationClosed }

type MessageAppended struct {
	MessageID      uuid.UUID `json:"message_id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	SenderRole     string    `json:"sender_role"`
	Content        string    `json:"content"`
	Seq            int64     `json:"seq"`
	CreatedAt      time.Time `json:"created_at"`
}

func (MessageAppended) Type() EventType { return TypeMessageAppended }

type NotificationCreated struct {
	NotificationID uuid.UUID `json:"notification_id"`
	RecipientID    uuid.UUID `json:"recipient_id"`
	Kind           string    `json:"kind"`
	Body           string    `json:"body"`
}

func (NotificationCreated) Type() EventType { return TypeNotificationCreated }

type NotificationRead struct {
	NotificationID uuid.UUID `json:"notification_id"`
	RecipientID    uuid.UUID `json:"recipient_id"`
}

func (NotificationRead) Type() EventType { return TypeNotificationRead }

// Envelope is what subscribers actually receive. Seq is per-topic and strictly
// increasing; Resync is set on the first event delivered after the subscriber's
// buffer overflowed, telling the client to refetch state it may have missed.
type Envelope struct {
	Topic      string    `json:"topic"`
	Seq        uint64    `json:"seq"`
	EventType  EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Resync     bool      `json:"resync,omitempty"`
	Event      Event     `json:"event"`
}

// Topic name helpers. These are the only topic shapes the core publishes on.
func ConversationTopic(id uuid.UUID) string {
	return "conversation:" + id.String()
}

func NotificationTopic(recipientID uuid.UUID) string {
	return "notifications:" + recipientID.String()
}

const (
	// CalendarTopic carries room hold/booking events for the admin calendar.
	CalendarTopic = "calendar"
	// ConversationListTopic carries lock/close events for the agent sidebar.
	ConversationListTopic = "conversations"
)
