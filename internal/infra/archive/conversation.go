package archive

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stayops/internal/domain/conversation"
	"stayops/internal/infra"
	"stayops/internal/usecase/commands"
	"stayops/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConversationRepository is both the command-side repository and the read
// store. The lock columns it persists only trail the in-memory lock table;
// readers overlay the live table on top.
type ConversationRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewConversationRepository(pool *pgxpool.Pool, logger *slog.Logger) *ConversationRepository {
	return &ConversationRepository{pool: pool, logger: logger}
}

var (
	_ commands.ConversationRepository = (*ConversationRepository)(nil)
	_ queries.ConversationReadStore   = (*ConversationRepository)(nil)
)

func (r *ConversationRepository) Create(ctx context.Context, conv *conversation.Conversation) error {
	const query = `
		INSERT INTO conversations (id, participant_code, status, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query,
		conv.ID(), conv.ParticipantCode(), string(conv.Status()), conv.CreatedAt())
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to create conversation", err)
	}
	return nil
}

func (r *ConversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*conversation.Conversation, error) {
	const query = `
		SELECT id, participant_code, status, locked_by, locked_at,
		       last_message_at, unread_count, created_at
		FROM conversations
		WHERE id = $1`

	var (
		convID          uuid.UUID
		participantCode string
		status          string
		lockedBy        *uuid.UUID
		lockedAt        *time.Time
		lastMessageAt   *time.Time
		unreadCount     int
		createdAt       time.Time
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&convID, &participantCode, &status, &lockedBy, &lockedAt,
		&lastMessageAt, &unreadCount, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "conversation not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find conversation", err)
	}

	return conversation.ReconstructConversation(
		convID, participantCode, conversation.Status(status),
		lockedBy, lockedAt, lastMessageAt, unreadCount, createdAt,
	), nil
}

func (r *ConversationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status conversation.Status) error {
	const query = `UPDATE conversations SET status = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, string(status))
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to update conversation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "conversation not found", nil)
	}
	return nil
}

func (r *ConversationRepository) UpdateLock(ctx context.Context, id uuid.UUID, lockedBy *uuid.UUID, lockedAt *time.Time) error {
	const query = `UPDATE conversations SET locked_by = $2, locked_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, lockedBy, lockedAt)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to update conversation lock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "conversation not found", nil)
	}
	return nil
}

func (r *ConversationRepository) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.ConversationView, error) {
	const query = `
		SELECT id, participant_code, status, locked_by, locked_at,
		       last_message_at, unread_count, created_at
		FROM conversations
		WHERE id = $1`

	var view queries.ConversationView
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.ParticipantCode, &view.Status, &view.LockedBy,
		&view.LockedAt, &view.LastMessageAt, &view.UnreadCount, &view.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "conversation not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find conversation view", err)
	}
	return &view, nil
}

func (r *ConversationRepository) ListViews(ctx context.Context, limit int) ([]*queries.ConversationView, error) {
	const query = `
		SELECT id, participant_code, status, locked_by, locked_at,
		       last_message_at, unread_count, created_at
		FROM conversations
		ORDER BY COALESCE(last_message_at, created_at) DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list conversations", err)
	}
	defer rows.Close()

	views := make([]*queries.ConversationView, 0, limit)
	for rows.Next() {
		var view queries.ConversationView
		if err := rows.Scan(
			&view.ID, &view.ParticipantCode, &view.Status, &view.LockedBy,
			&view.LockedAt, &view.LastMessageAt, &view.UnreadCount, &view.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan conversation row", err)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate conversation rows", err)
	}
	return views, nil
}

func (r *ConversationRepository) History(ctx context.Context, conversationID uuid.UUID, afterSeq int64, limit int) ([]*queries.MessageView, error) {
	const query = `
		SELECT id, conversation_id, sender_id, sender_role, content, seq, created_at
		FROM messages
		WHERE conversation_id = $1 AND seq > $2
		ORDER BY seq ASC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, conversationID, afterSeq, limit)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load message history", err)
	}
	defer rows.Close()

	msgs := make([]*queries.MessageView, 0, limit)
	for rows.Next() {
		var msg queries.MessageView
		if err := rows.Scan(
			&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.SenderRole,
			&msg.Content, &msg.Seq, &msg.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan message row", err)
		}
		msgs = append(msgs, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate message rows", err)
	}
	return msgs, nil
}
