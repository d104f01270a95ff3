package archive

import (
	"context"
	"errors"
	"log/slog"

	"stayops/internal/domain/conversation"
	"stayops/internal/infra"
	"stayops/internal/usecase/commands"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeUniqueViolation = "23505"

	// Two writers racing on the same conversation collide on the seq unique
	// constraint; the loser just re-reads MAX(seq). Contention is per
	// conversation and human-paced, so a couple of retries is plenty.
	seqRetryLimit = 3
)

type MessageRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewMessageRepository(pool *pgxpool.Pool, logger *slog.Logger) *MessageRepository {
	return &MessageRepository{pool: pool, logger: logger}
}

var _ commands.MessageArchive = (*MessageRepository)(nil)

// Append assigns the per-conversation sequence number inside the insert so
// concurrent writers to the same conversation cannot take the same seq. The
// unique constraint backstops the read-then-insert; a collision retries with
// a fresh MAX(seq) instead of surfacing as a failure.
func (r *MessageRepository) Append(ctx context.Context, msg *conversation.Message) (*conversation.Message, error) {
	var lastErr error
	for attempt := 0; attempt < seqRetryLimit; attempt++ {
		saved, err := r.tryAppend(ctx, msg)
		if err == nil {
			return saved, nil
		}
		if !isSeqCollision(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to append message", err)
		}
		lastErr = err
	}
	return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to append message after seq retries", lastErr)
}

func (r *MessageRepository) tryAppend(ctx context.Context, msg *conversation.Message) (*conversation.Message, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertQuery = `
		INSERT INTO messages (id, conversation_id, sender_id, sender_role, content, seq, created_at)
		SELECT $1, $2, $3, $4, $5,
		       COALESCE(MAX(seq), 0) + 1, $6
		FROM messages
		WHERE conversation_id = $2
		RETURNING seq`

	var seq int64
	err = tx.QueryRow(ctx, insertQuery,
		msg.ID(), msg.ConversationID(), msg.SenderID(),
		string(msg.SenderRole()), msg.Content(), msg.CreatedAt(),
	).Scan(&seq)
	if err != nil {
		return nil, err
	}

	const bumpQuery = `
		UPDATE conversations
		SET last_message_at = $2, unread_count = unread_count + 1
		WHERE id = $1`

	if _, err := tx.Exec(ctx, bumpQuery, msg.ConversationID(), msg.CreatedAt()); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return conversation.ReconstructMessage(
		msg.ID(), msg.ConversationID(), msg.SenderID(),
		msg.SenderRole(), msg.Content(), seq, msg.CreatedAt(),
	), nil
}

func isSeqCollision(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation
}
