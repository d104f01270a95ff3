package queries

import (
	"context"
	"time"

	"stayops/internal/infra"
	"stayops/internal/pkg/errs"

	"github.com/google/uuid"
)

type ConversationView struct {
	ID              uuid.UUID  `json:"id"`
	ParticipantCode string     `json:"participant_code"`
	Status          string     `json:"status"`
	LockedBy        *uuid.UUID `json:"locked_by,omitempty"`
	LockedAt        *time.Time `json:"locked_at,omitempty"`
	LastMessageAt   *time.Time `json:"last_message_at,omitempty"`
	UnreadCount     int        `json:"unread_count"`
	CreatedAt       time.Time  `json:"created_at"`
}

type MessageView struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	SenderRole     string    `json:"sender_role"`
	Content        string    `json:"content"`
	Seq            int64     `json:"seq"`
	CreatedAt      time.Time `json:"created_at"`
}

type LockOwnerView struct {
	ConversationID uuid.UUID  `json:"conversation_id"`
	LockedBy       *uuid.UUID `json:"locked_by,omitempty"`
	LockedAt       *time.Time `json:"locked_at,omitempty"`
}

type ConversationReadStore interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*ConversationView, error)
	ListViews(ctx context.Context, limit int) ([]*ConversationView, error)
	// History returns messages after seq, in strictly increasing seq order.
	// Reconnecting subscribers reconcile through this: the channel keeps no
	// replay buffer.
	History(ctx context.Context, conversationID uuid.UUID, afterSeq int64, limit int) ([]*MessageView, error)
}

type LockOwnerReader interface {
	Owner(conversationID uuid.UUID) (*uuid.UUID, *time.Time)
}

type ConversationQueries interface {
	Get(ctx context.Context, id uuid.UUID) (*ConversationView, error)
	List(ctx context.Context, limit int) ([]*ConversationView, error)
	History(ctx context.Context, conversationID uuid.UUID, afterSeq int64, limit int) ([]*MessageView, error)
	LockOwner(ctx context.Context, conversationID uuid.UUID) (*LockOwnerView, error)
}

type conversationQueriesImpl struct {
	store ConversationReadStore
	locks LockOwnerReader
}

func NewConversationQueries(store ConversationReadStore, locks LockOwnerReader) ConversationQueries {
	return &conversationQueriesImpl{store: store, locks: locks}
}

// Get overlays the live lock table onto the durable row: the table is
// authoritative for lockedBy, the row only trails it.
func (q *conversationQueriesImpl) Get(ctx context.Context, id uuid.UUID) (*ConversationView, error) {
	view, err := q.store.FindViewByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrConversationNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	q.overlayLock(view)
	return view, nil
}

func (q *conversationQueriesImpl) List(ctx context.Context, limit int) ([]*ConversationView, error) {
	if limit <= 0 {
		limit = 50
	}
	views, err := q.store.ListViews(ctx, limit)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	for _, v := range views {
		q.overlayLock(v)
	}
	return views, nil
}

func (q *conversationQueriesImpl) overlayLock(view *ConversationView) {
	holder, lockedAt := q.locks.Owner(view.ID)
	view.LockedBy = holder
	view.LockedAt = lockedAt
}

func (q *conversationQueriesImpl) History(ctx context.Context, conversationID uuid.UUID, afterSeq int64, limit int) ([]*MessageView, error) {
	if limit <= 0 {
		limit = 100
	}
	msgs, err := q.store.History(ctx, conversationID, afterSeq, limit)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return msgs, nil
}

func (q *conversationQueriesImpl) LockOwner(_ context.Context, conversationID uuid.UUID) (*LockOwnerView, error) {
	holder, lockedAt := q.locks.Owner(conversationID)
	return &LockOwnerView{
		ConversationID: conversationID,
		LockedBy:       holder,
		LockedAt:       lockedAt,
	}, nil
}
