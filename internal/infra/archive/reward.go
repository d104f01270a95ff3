package archive

import (
	"context"
	"errors"
	"log/slog"

	"stayops/internal/infra"
	"stayops/internal/usecase/commands"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RewardRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewRewardRepository(pool *pgxpool.Pool, logger *slog.Logger) *RewardRepository {
	return &RewardRepository{pool: pool, logger: logger}
}

var _ commands.RewardStore = (*RewardRepository)(nil)

func (r *RewardRepository) FindByCode(ctx context.Context, code string) (*commands.RewardSnapshot, error) {
	const query = `
		SELECT id, code, amount_off_cents, percent_off, valid_from, valid_to
		FROM reward_codes
		WHERE code = $1`

	var snap commands.RewardSnapshot
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&snap.ID,
		&snap.Code,
		&snap.AmountOffCents,
		&snap.PercentOff,
		&snap.ValidFrom,
		&snap.ValidTo,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "reward code not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find reward code", err)
	}
	return &snap, nil
}
