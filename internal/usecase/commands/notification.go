package commands

import (
	"context"

	"stayops/internal/core/fanout"
	"stayops/internal/pkg/errs"

	"github.com/google/uuid"
)

type NotificationCommands interface {
	// MarkRead confirms a notification as read on behalf of recipientID.
	// A confirmation for somebody else's notification is a silent no-op.
	// Idempotent; the read event is fanned out only on the transition so
	// other tabs of the same recipient clear their badge exactly once.
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
}

type notificationCommandsImpl struct {
	notifications NotificationStore
	pub           fanout.Publisher
}

func NewNotificationCommands(notifications NotificationStore, pub fanout.Publisher) NotificationCommands {
	return &notificationCommandsImpl{
		notifications: notifications,
		pub:           pub,
	}
}

func (n *notificationCommandsImpl) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	flipped, err := n.notifications.MarkRead(ctx, recipientID, notificationID)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if flipped {
		n.pub.Publish(fanout.NotificationTopic(recipientID), fanout.NotificationRead{
			NotificationID: notificationID,
			RecipientID:    recipientID,
		})
	}
	return nil
}
