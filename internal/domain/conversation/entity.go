package conversation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrClosed         = errors.New("conversation is closed")
	ErrEmptyContent   = errors.New("message content cannot be empty")
	ErrContentTooLong = errors.New("message content too long")
	ErrInvalidSender  = errors.New("invalid message sender")
)

const MaxContentLength = 4000

type Status string

const (
	// StatusOpen: no agent has picked the conversation up yet.
	StatusOpen Status = "open"
	// StatusOngoing: an agent is (or has been) actively handling it.
	StatusOngoing Status = "ongoing"
	StatusClosed  Status = "closed"
)

func (s Status) String() string {
	return string(s)
}

// Conversation is a guest support thread. lockedBy is a weak reference to an
// agent owned elsewhere; the lock table, not this struct, arbitrates it.
type Conversation struct {
	id              uuid.UUID
	participantCode string
	status          Status
	lockedBy        *uuid.UUID
	lockedAt        *time.Time
	lastMessageAt   *time.Time
	unreadCount     int
	createdAt       time.Time
}

func NewConversation(participantCode string) *Conversation {
	return &Conversation{
		id:              uuid.New(),
		participantCode: participantCode,
		status:          StatusOpen,
		createdAt:       time.Now(),
	}
}

func ReconstructConversation(
	id uuid.UUID,
	participantCode string,
	status Status,
	lockedBy *uuid.UUID,
	lockedAt, lastMessageAt *time.Time,
	unreadCount int,
	createdAt time.Time,
) *Conversation {
	return &Conversation{
		id:              id,
		participantCode: participantCode,
		status:          status,
		lockedBy:        lockedBy,
		lockedAt:        lockedAt,
		lastMessageAt:   lastMessageAt,
		unreadCount:     unreadCount,
		createdAt:       createdAt,
	}
}

func (c *Conversation) MarkOngoing() error {
	if c.status == StatusClosed {
		return ErrClosed
	}
	c.status = StatusOngoing
	return nil
}

func (c *Conversation) Close() error {
	if c.status == StatusClosed {
		return ErrClosed
	}
	c.status = StatusClosed
	return nil
}

func (c *Conversation) IsClosed() bool {
	return c.status == StatusClosed
}

func (c *Conversation) ID() uuid.UUID             { return c.id }
func (c *Conversation) ParticipantCode() string   { return c.participantCode }
func (c *Conversation) Status() Status            { return c.status }
func (c *Conversation) LockedBy() *uuid.UUID      { return c.lockedBy }
func (c *Conversation) LockedAt() *time.Time      { return c.lockedAt }
func (c *Conversation) LastMessageAt() *time.Time { return c.lastMessageAt }
func (c *Conversation) UnreadCount() int          { return c.unreadCount }
func (c *Conversation) CreatedAt() time.Time      { return c.createdAt }
