package conversation

import (
	"strings"
	"time"

	"stayops/internal/domain/actor"

	"github.com/google/uuid"
)

// Message is immutable once created. Seq is assigned by the archive in strict
// per-conversation order; subscribers rely on it never going backwards.
type Message struct {
	id             uuid.UUID
	conversationID uuid.UUID
	senderID       uuid.UUID
	senderRole     actor.Role
	content        string
	seq            int64
	createdAt      time.Time
}

// NewMessage validates and stamps a fresh message. now comes from the
// caller's clock so entity time stays testable.
func NewMessage(conversationID, senderID uuid.UUID, senderRole actor.Role, content string, now time.Time) (*Message, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyContent
	}
	if len(trimmed) > MaxContentLength {
		return nil, ErrContentTooLong
	}
	if !senderRole.IsValid() {
		return nil, ErrInvalidSender
	}

	return &Message{
		id:             uuid.New(),
		conversationID: conversationID,
		senderID:       senderID,
		senderRole:     senderRole,
		content:        trimmed,
		createdAt:      now,
	}, nil
}

func ReconstructMessage(
	id, conversationID, senderID uuid.UUID,
	senderRole actor.Role,
	content string,
	seq int64,
	createdAt time.Time,
) *Message {
	return &Message{
		id:             id,
		conversationID: conversationID,
		senderID:       senderID,
		senderRole:     senderRole,
		content:        content,
		seq:            seq,
		createdAt:      createdAt,
	}
}

func (m *Message) ID() uuid.UUID             { return m.id }
func (m *Message) ConversationID() uuid.UUID { return m.conversationID }
func (m *Message) SenderID() uuid.UUID       { return m.senderID }
func (m *Message) SenderRole() actor.Role    { return m.senderRole }
func (m *Message) Content() string           { return m.content }
func (m *Message) Seq() int64                { return m.seq }
func (m *Message) CreatedAt() time.Time      { return m.createdAt }
