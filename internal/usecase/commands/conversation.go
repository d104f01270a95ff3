package commands

import (
	"context"
	"errors"

	"stayops/internal/core/fanout"
	"stayops/internal/domain/actor"
	"stayops/internal/domain/conversation"
	"stayops/internal/infra"
	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/errs"
	"stayops/internal/pkg/password"

	"github.com/google/uuid"
)

var ErrOverrideKeyRejected = errors.New("supervisor override key rejected")

type ConversationCommands interface {
	Open(ctx context.Context, participantCode string) (*conversation.Conversation, error)
	AcquireLock(ctx context.Context, conversationID, agentID uuid.UUID) error
	ReleaseLock(ctx context.Context, conversationID, agentID uuid.UUID) error
	ForceReleaseLock(ctx context.Context, conversationID, supervisorID uuid.UUID, overrideKey string) error
	PostMessage(ctx context.Context, conversationID, senderID uuid.UUID, senderRole actor.Role, content string) (*conversation.Message, error)
	Close(ctx context.Context, conversationID, agentID uuid.UUID) error
}

type conversationCommandsImpl struct {
	locks             ConversationLocks
	conversations     ConversationRepository
	messages          MessageArchive
	notifications     NotificationStore
	pub               fanout.Publisher
	clock             clock.Clock
	supervisorKeyHash string
}

func NewConversationCommands(
	locks ConversationLocks,
	conversations ConversationRepository,
	messages MessageArchive,
	notifications NotificationStore,
	pub fanout.Publisher,
	clk clock.Clock,
	supervisorKeyHash string,
) ConversationCommands {
	return &conversationCommandsImpl{
		locks:             locks,
		conversations:     conversations,
		messages:          messages,
		notifications:     notifications,
		pub:               pub,
		clock:             clk,
		supervisorKeyHash: supervisorKeyHash,
	}
}

func (c *conversationCommandsImpl) Open(ctx context.Context, participantCode string) (*conversation.Conversation, error) {
	conv := conversation.NewConversation(participantCode)
	if err := c.conversations.Create(ctx, conv); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return conv, nil
}

func (c *conversationCommandsImpl) findOpen(ctx context.Context, conversationID uuid.UUID) (*conversation.Conversation, error) {
	conv, err := c.conversations.FindByID(ctx, conversationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrConversationNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if conv.IsClosed() {
		return nil, errs.ErrConversationClosed
	}
	return conv, nil
}

// AcquireLock grants exclusive handling of the conversation to one agent. The
// durable lockedBy column trails the in-memory lock table; the table is
// authoritative, the column is for display after restarts.
func (c *conversationCommandsImpl) AcquireLock(ctx context.Context, conversationID, agentID uuid.UUID) error {
	if _, err := c.findOpen(ctx, conversationID); err != nil {
		return err
	}

	if err := c.locks.Acquire(conversationID, agentID); err != nil {
		return err
	}

	now := c.clock.Now()
	if err := c.conversations.UpdateLock(ctx, conversationID, &agentID, &now); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return c.markOngoing(ctx, conversationID)
}

func (c *conversationCommandsImpl) markOngoing(ctx context.Context, conversationID uuid.UUID) error {
	if err := c.conversations.UpdateStatus(ctx, conversationID, conversation.StatusOngoing); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *conversationCommandsImpl) ReleaseLock(ctx context.Context, conversationID, agentID uuid.UUID) error {
	if err := c.locks.Release(conversationID, agentID); err != nil {
		return err
	}
	if err := c.conversations.UpdateLock(ctx, conversationID, nil, nil); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

// ForceReleaseLock is the supervisor override: an explicit privileged action,
// gated by role at the handler and by the capability key here.
func (c *conversationCommandsImpl) ForceReleaseLock(ctx context.Context, conversationID, _ uuid.UUID, overrideKey string) error {
	if c.supervisorKeyHash == "" {
		return ErrOverrideKeyRejected
	}
	if err := password.VerifyKey(c.supervisorKeyHash, overrideKey); err != nil {
		return ErrOverrideKeyRejected
	}

	c.locks.ForceRelease(conversationID)
	if err := c.conversations.UpdateLock(ctx, conversationID, nil, nil); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

// PostMessage appends to the archive and fans the message out to every
// subscriber of the conversation topic. Agents must hold the lock; posting
// also refreshes it. Guests post freely to their own conversation.
func (c *conversationCommandsImpl) PostMessage(ctx context.Context, conversationID, senderID uuid.UUID, senderRole actor.Role, content string) (*conversation.Message, error) {
	conv, err := c.findOpen(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if senderRole.IsStaff() {
		if refreshErr := c.locks.Refresh(conversationID, senderID); refreshErr != nil {
			return nil, errs.ErrNotLockOwner
		}
	}

	msg, err := conversation.NewMessage(conversationID, senderID, senderRole, content, c.clock.Now())
	if err != nil {
		return nil, err
	}

	stored, err := c.messages.Append(ctx, msg)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.pub.Publish(fanout.ConversationTopic(conversationID), fanout.MessageAppended{
		MessageID:      stored.ID(),
		ConversationID: conversationID,
		SenderID:       senderID,
		SenderRole:     senderRole.String(),
		Content:        stored.Content(),
		Seq:            stored.Seq(),
		CreatedAt:      stored.CreatedAt(),
	})

	c.notifyRecipients(ctx, conv, stored)
	return stored, nil
}

// notifyRecipients pushes an unread notification at whoever is on the other
// side of the message: the locking agent for guest messages, nobody when the
// conversation is unlocked (the open-queue dashboard already shows it).
func (c *conversationCommandsImpl) notifyRecipients(ctx context.Context, conv *conversation.Conversation, msg *conversation.Message) {
	if msg.SenderRole().IsStaff() {
		return
	}

	holder, _ := c.locks.Owner(conv.ID())
	if holder == nil {
		return
	}

	notificationID, err := c.notifications.Create(ctx, *holder, "message", msg.Content())
	if err != nil {
		return
	}
	c.pub.Publish(fanout.NotificationTopic(*holder), fanout.NotificationCreated{
		NotificationID: notificationID,
		RecipientID:    *holder,
		Kind:           "message",
		Body:           msg.Content(),
	})
}

// Close ends the conversation. Holder-only, and the lock is released as part
// of closing.
func (c *conversationCommandsImpl) Close(ctx context.Context, conversationID, agentID uuid.UUID) error {
	if _, err := c.findOpen(ctx, conversationID); err != nil {
		return err
	}

	if err := c.locks.Release(conversationID, agentID); err != nil {
		return err
	}

	if err := c.conversations.UpdateStatus(ctx, conversationID, conversation.StatusClosed); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if err := c.conversations.UpdateLock(ctx, conversationID, nil, nil); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	ev := fanout.ConversationClosed{ConversationID: conversationID}
	c.pub.Publish(fanout.ConversationListTopic, ev)
	c.pub.Publish(fanout.ConversationTopic(conversationID), ev)
	return nil
}
