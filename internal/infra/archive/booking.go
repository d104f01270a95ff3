package archive

import (
	"context"
	"log/slog"

	"stayops/internal/infra"
	"stayops/internal/usecase/commands"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewBookingRepository(pool *pgxpool.Pool, logger *slog.Logger) *BookingRepository {
	return &BookingRepository{pool: pool, logger: logger}
}

var _ commands.BookingArchive = (*BookingRepository)(nil)

// ArchiveCommitted writes all rows of a checkout in one transaction. The rows
// are already final; this is durable record-keeping, not a second commit.
func (r *BookingRepository) ArchiveCommitted(ctx context.Context, rows []commands.ArchivedBooking) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
		INSERT INTO bookings (
			id, session_id, owner_id, room_id,
			check_in, check_out, total_guests, breakfast,
			reward_code, total_price_cents
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query,
			row.BookingID, row.SessionID, row.OwnerID, row.RoomID,
			row.CheckIn, row.CheckOut, row.TotalGuests, row.Breakfast,
			row.RewardCode, row.TotalPriceCents,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to archive booking row", err)
		}
	}
	if err := results.Close(); err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to close batch", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to commit transaction", err)
	}
	return nil
}
