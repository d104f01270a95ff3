package archive

import (
	"context"
	"log/slog"
	"time"

	"stayops/internal/infra"
	"stayops/internal/usecase/commands"
	"stayops/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewNotificationRepository(pool *pgxpool.Pool, logger *slog.Logger) *NotificationRepository {
	return &NotificationRepository{pool: pool, logger: logger}
}

var (
	_ commands.NotificationStore    = (*NotificationRepository)(nil)
	_ queries.NotificationReadStore = (*NotificationRepository)(nil)
)

func (r *NotificationRepository) Create(ctx context.Context, recipientID uuid.UUID, kind, body string) (uuid.UUID, error) {
	const query = `
		INSERT INTO notifications (id, recipient_id, kind, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)`

	id := uuid.New()
	if _, err := r.pool.Exec(ctx, query, id, recipientID, kind, body, time.Now()); err != nil {
		return uuid.Nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to create notification", err)
	}
	return id, nil
}

// MarkRead is idempotent. Marking an already-read or already-deleted
// notification is not an error; read-confirmation retries depend on that.
// The recipient predicate keeps one user's confirmation from flipping
// another user's notification.
func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) (bool, error) {
	const query = `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND recipient_id = $2 AND is_read = FALSE`

	tag, err := r.pool.Exec(ctx, query, notificationID, recipientID)
	if err != nil {
		return false, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to mark notification read", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *NotificationRepository) ListUnread(ctx context.Context, recipientID uuid.UUID, limit int) ([]*queries.NotificationView, error) {
	const query = `
		SELECT id, recipient_id, kind, body, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1 AND is_read = FALSE
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list unread notifications", err)
	}
	defer rows.Close()

	views := make([]*queries.NotificationView, 0, limit)
	for rows.Next() {
		var view queries.NotificationView
		if err := rows.Scan(
			&view.ID, &view.RecipientID, &view.Kind, &view.Body,
			&view.IsRead, &view.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan notification row", err)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate notification rows", err)
	}
	return views, nil
}
