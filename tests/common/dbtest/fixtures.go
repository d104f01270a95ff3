//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Reward codes every e2e suite can rely on.
const (
	SeedRewardFlat    = "WELCOME10"
	SeedRewardPercent = "SPRING15"
)

func CreateTestConversation(t *testing.T, db DBLike, participantCode string) uuid.UUID {
	t.Helper()

	conversationID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO conversations (id, participant_code, status) VALUES ($1, $2, 'open')",
		conversationID, participantCode)
	require.NoError(t, err)

	return conversationID
}

func CreateTestNotification(t *testing.T, db DBLike, recipientID uuid.UUID, kind, body string) uuid.UUID {
	t.Helper()

	notificationID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO notifications (id, recipient_id, kind, body, is_read) VALUES ($1, $2, $3, $4, FALSE)",
		notificationID, recipientID, kind, body)
	require.NoError(t, err)

	return notificationID
}

func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO reward_codes (code, amount_off_cents, valid_from, valid_to) VALUES
		    ('`+SeedRewardFlat+`', 1000, now() - interval '1 day', now() + interval '30 days')
		ON CONFLICT (code) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO reward_codes (code, percent_off, valid_from, valid_to) VALUES
		    ('`+SeedRewardPercent+`', 15.0, now() - interval '1 day', now() + interval '30 days')
		ON CONFLICT (code) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
