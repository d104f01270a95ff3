package queries

import (
	"context"
	"time"

	"stayops/internal/pkg/errs"

	"github.com/google/uuid"
)

type NotificationView struct {
	ID          uuid.UUID `json:"id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Kind        string    `json:"kind"`
	Body        string    `json:"body"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

type NotificationReadStore interface {
	ListUnread(ctx context.Context, recipientID uuid.UUID, limit int) ([]*NotificationView, error)
}

type NotificationQueries interface {
	ListUnread(ctx context.Context, recipientID uuid.UUID, limit int) ([]*NotificationView, error)
}

type notificationQueriesImpl struct {
	store NotificationReadStore
}

func NewNotificationQueries(store NotificationReadStore) NotificationQueries {
	return &notificationQueriesImpl{store: store}
}

func (q *notificationQueriesImpl) ListUnread(ctx context.Context, recipientID uuid.UUID, limit int) ([]*NotificationView, error) {
	if limit <= 0 {
		limit = 50
	}
	views, err := q.store.ListUnread(ctx, recipientID, limit)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return views, nil
}
