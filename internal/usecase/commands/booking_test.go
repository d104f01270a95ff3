//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"stayops/internal/core/fanout"
	"stayops/internal/core/ledger"
	"stayops/internal/core/sessionstore"
	"stayops/internal/domain/booking"
	"stayops/internal/pkg/clock"
	"stayops/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []fanout.Event
}

func (p *recordingPublisher) Publish(_ string, event fanout.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

type stubRewards struct{}

func (stubRewards) FindByCode(context.Context, string) (*commands.RewardSnapshot, error) {
	return nil, nil
}

type okPayments struct{}

func (okPayments) Confirm(context.Context, string, int64) error { return nil }

type capturingArchive struct {
	rows []commands.ArchivedBooking
}

func (a *capturingArchive) ArchiveCommitted(_ context.Context, rows []commands.ArchivedBooking) error {
	a.rows = append(a.rows, rows...)
	return nil
}

type stubNotifications struct{}

func (stubNotifications) Create(context.Context, uuid.UUID, string, string) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (stubNotifications) MarkRead(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

func newCheckoutFixture(t *testing.T) (commands.BookingCommands, *capturingArchive, *recordingPublisher) {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))
	pub := &recordingPublisher{}
	arch := &capturingArchive{}
	cmd := commands.NewBookingCommands(
		ledger.New(clk, pub),
		sessionstore.New(clk),
		stubRewards{},
		okPayments{},
		arch,
		stubNotifications{},
		pub,
		booking.NewDefaultRatePlan(),
		clk,
		10*time.Minute,
	)
	return cmd, arch, pub
}

// Archived rows must carry the booking id the ledger minted for that exact
// room, regardless of the order the guest added the rooms in.
func TestCheckoutArchivesCommittedRoomPairs(t *testing.T) {
	cmd, arch, pub := newCheckoutFixture(t)
	ctx := context.Background()
	ownerID := uuid.New()

	// Descending byte order on purpose: the guest's insertion order and the
	// ledger's lock-acquisition order disagree.
	roomHigh := uuid.MustParse("ffffffff-0000-0000-0000-000000000001")
	roomLow := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	session, err := cmd.CreateSession(ctx, ownerID, commands.CreateSessionParams{
		RoomIDs:     []uuid.UUID{roomHigh, roomLow},
		CheckIn:     time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		TotalGuests: 2,
	})
	require.NoError(t, err)

	result, err := cmd.Checkout(ctx, session.ID(), ownerID, "tok-ok")
	require.NoError(t, err)
	require.Len(t, arch.rows, 2)

	booked := map[uuid.UUID]uuid.UUID{}
	pub.mu.Lock()
	for _, ev := range pub.events {
		if rb, ok := ev.(fanout.RoomBooked); ok {
			booked[rb.RoomID] = rb.BookingID
		}
	}
	pub.mu.Unlock()
	require.Len(t, booked, 2)

	for _, row := range arch.rows {
		assert.Equal(t, booked[row.RoomID], row.BookingID)
		assert.Equal(t, session.ID(), row.SessionID)
		assert.Equal(t, ownerID, row.OwnerID)
	}
	assert.ElementsMatch(t, result.BookingIDs, []uuid.UUID{booked[roomHigh], booked[roomLow]})
}
