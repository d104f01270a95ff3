package response

import (
	"time"

	"stayops/internal/domain/conversation"
	"stayops/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ConversationResponse struct {
	ID              uuid.UUID  `json:"id"`
	ParticipantCode string     `json:"participant_code"`
	Status          string     `json:"status"`
	LockedBy        *uuid.UUID `json:"locked_by,omitempty"`
	LockedAt        *time.Time `json:"locked_at,omitempty"`
	LastMessageAt   *time.Time `json:"last_message_at,omitempty"`
	UnreadCount     int        `json:"unread_count"`
	CreatedAt       time.Time  `json:"created_at"`
}

type MessageResponse struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	SenderRole     string    `json:"sender_role"`
	Content        string    `json:"content"`
	Seq            int64     `json:"seq"`
	CreatedAt      time.Time `json:"created_at"`
}

type LockOwnerResponse struct {
	ConversationID uuid.UUID  `json:"conversation_id"`
	LockedBy       *uuid.UUID `json:"locked_by,omitempty"`
	LockedAt       *time.Time `json:"locked_at,omitempty"`
}

func FromConversationView(view *queries.ConversationView) *ConversationResponse {
	var resp ConversationResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromConversationViews(views []*queries.ConversationView) []*ConversationResponse {
	resp := make([]*ConversationResponse, len(views))
	for i, view := range views {
		resp[i] = FromConversationView(view)
	}
	return resp
}

func FromConversationEntity(conv *conversation.Conversation) *ConversationResponse {
	return &ConversationResponse{
		ID:              conv.ID(),
		ParticipantCode: conv.ParticipantCode(),
		Status:          string(conv.Status()),
		LockedBy:        conv.LockedBy(),
		LockedAt:        conv.LockedAt(),
		LastMessageAt:   conv.LastMessageAt(),
		UnreadCount:     conv.UnreadCount(),
		CreatedAt:       conv.CreatedAt(),
	}
}

func FromMessageView(view *queries.MessageView) *MessageResponse {
	var resp MessageResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromMessageViews(views []*queries.MessageView) []*MessageResponse {
	resp := make([]*MessageResponse, len(views))
	for i, view := range views {
		resp[i] = FromMessageView(view)
	}
	return resp
}

func FromMessageEntity(msg *conversation.Message) *MessageResponse {
	return &MessageResponse{
		ID:             msg.ID(),
		ConversationID: msg.ConversationID(),
		SenderID:       msg.SenderID(),
		SenderRole:     string(msg.SenderRole()),
		Content:        msg.Content(),
		Seq:            msg.Seq(),
		CreatedAt:      msg.CreatedAt(),
	}
}

func FromLockOwnerView(view *queries.LockOwnerView) *LockOwnerResponse {
	var resp LockOwnerResponse
	_ = copier.Copy(&resp, view)
	return &resp
}
