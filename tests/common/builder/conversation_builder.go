//go:build unit || e2e

package builder

import (
	"time"

	"stayops/internal/domain/actor"
	"stayops/internal/domain/conversation"

	"github.com/google/uuid"
)

type ConversationBuilder struct {
	participantCode string
}

func NewConversationBuilder() *ConversationBuilder {
	return &ConversationBuilder{
		participantCode: "GUEST-1042",
	}
}

func (b *ConversationBuilder) WithParticipantCode(code string) *ConversationBuilder {
	b.participantCode = code
	return b
}

func (b *ConversationBuilder) BuildDomain() *conversation.Conversation {
	return conversation.NewConversation(b.participantCode)
}

func (b *ConversationBuilder) BuildOpenRequestDTO() map[string]any {
	return map[string]any{
		"participant_code": b.participantCode,
	}
}

type MessageBuilder struct {
	conversationID uuid.UUID
	senderID       uuid.UUID
	senderRole     actor.Role
	content        string
	createdAt      time.Time
}

func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{
		conversationID: uuid.New(),
		senderID:       uuid.New(),
		senderRole:     actor.RoleGuest,
		content:        "Is a late checkout possible on Sunday?",
		createdAt:      time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (b *MessageBuilder) With(mutate func(*MessageBuilder)) *MessageBuilder {
	if mutate != nil {
		mutate(b)
	}
	return b
}

func (b *MessageBuilder) WithConversation(conversationID uuid.UUID) *MessageBuilder {
	b.conversationID = conversationID
	return b
}

func (b *MessageBuilder) WithSender(senderID uuid.UUID, role actor.Role) *MessageBuilder {
	b.senderID = senderID
	b.senderRole = role
	return b
}

func (b *MessageBuilder) WithContent(content string) *MessageBuilder {
	b.content = content
	return b
}

func (b *MessageBuilder) WithCreatedAt(createdAt time.Time) *MessageBuilder {
	b.createdAt = createdAt
	return b
}

func (b *MessageBuilder) BuildDomain() (*conversation.Message, error) {
	return conversation.NewMessage(b.conversationID, b.senderID, b.senderRole, b.content, b.createdAt)
}

func (b *MessageBuilder) BuildPostRequestDTO() map[string]any {
	return map[string]any{
		"content": b.content,
	}
}
