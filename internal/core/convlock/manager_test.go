//go:build unit

package convlock_test

import (
	"sync"
	"testing"
	"time"

	"stayops/internal/core/convlock"
	"stayops/internal/core/fanout"
	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inactivity = 5 * time.Minute

type recordingPublisher struct {
	mu     sync.Mutex
	events []fanout.Event
}

func (p *recordingPublisher) Publish(_ string, event fanout.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) unlockReasons() []fanout.UnlockReason {
	p.mu.Lock()
	defer p.mu.Unlock()
	var reasons []fanout.UnlockReason
	for _, ev := range p.events {
		if unlocked, ok := ev.(fanout.ConversationUnlocked); ok {
			reasons = append(reasons, unlocked.Reason)
		}
	}
	return reasons
}

func newManager(t *testing.T) (*convlock.Manager, *clock.MockClock, *recordingPublisher) {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))
	pub := &recordingPublisher{}
	return convlock.NewManager(clk, pub, inactivity), clk, pub
}

func TestAcquire(t *testing.T) {
	t.Run("grants from unlocked", func(t *testing.T) {
		m, clk, _ := newManager(t)
		conversationID := uuid.New()
		agentID := uuid.New()

		require.NoError(t, m.Acquire(conversationID, agentID))

		holder, lockedAt := m.Owner(conversationID)
		require.NotNil(t, holder)
		assert.Equal(t, agentID, *holder)
		require.NotNil(t, lockedAt)
		assert.Equal(t, clk.Now(), *lockedAt)
	})

	t.Run("second agent is told who holds it", func(t *testing.T) {
		m, _, _ := newManager(t)
		conversationID := uuid.New()
		holderID := uuid.New()

		require.NoError(t, m.Acquire(conversationID, holderID))
		err := m.Acquire(conversationID, uuid.New())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConversationLocked)

		var held *convlock.HeldError
		require.ErrorAs(t, err, &held)
		assert.Equal(t, holderID, held.By)
	})

	t.Run("re-acquire by holder is idempotent and refreshes", func(t *testing.T) {
		m, clk, pub := newManager(t)
		conversationID := uuid.New()
		agentID := uuid.New()

		require.NoError(t, m.Acquire(conversationID, agentID))
		clk.Add(inactivity - time.Minute)
		require.NoError(t, m.Acquire(conversationID, agentID))

		// Refreshed above, so the original window no longer applies.
		clk.Add(inactivity - time.Minute)
		holder, _ := m.Owner(conversationID)
		require.NotNil(t, holder)
		assert.Equal(t, agentID, *holder)

		// Only the first acquire published a lock event.
		pub.mu.Lock()
		lockEvents := len(pub.events)
		pub.mu.Unlock()
		assert.Equal(t, 2, lockEvents, "list topic and conversation topic, once each")
	})

	t.Run("stale lock counts as unlocked", func(t *testing.T) {
		m, clk, _ := newManager(t)
		conversationID := uuid.New()
		secondAgent := uuid.New()

		require.NoError(t, m.Acquire(conversationID, uuid.New()))
		clk.Add(inactivity + time.Second)

		require.NoError(t, m.Acquire(conversationID, secondAgent))
		holder, _ := m.Owner(conversationID)
		require.NotNil(t, holder)
		assert.Equal(t, secondAgent, *holder)
	})

	t.Run("nil agent rejected", func(t *testing.T) {
		m, _, _ := newManager(t)
		assert.ErrorIs(t, m.Acquire(uuid.New(), uuid.Nil), errs.ErrNotLockOwner)
	})

	t.Run("at most one winner under contention", func(t *testing.T) {
		m, _, _ := newManager(t)
		conversationID := uuid.New()

		const contenders = 32
		var wg sync.WaitGroup
		results := make([]error, contenders)

		for i := range contenders {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = m.Acquire(conversationID, uuid.New())
			}()
		}
		wg.Wait()

		wins := 0
		for _, err := range results {
			if err == nil {
				wins++
			}
		}
		assert.Equal(t, 1, wins)
	})
}

func TestRelease(t *testing.T) {
	t.Run("holder releases", func(t *testing.T) {
		m, _, pub := newManager(t)
		conversationID := uuid.New()
		agentID := uuid.New()

		require.NoError(t, m.Acquire(conversationID, agentID))
		require.NoError(t, m.Release(conversationID, agentID))

		holder, _ := m.Owner(conversationID)
		assert.Nil(t, holder)
		assert.Equal(t, []fanout.UnlockReason{fanout.UnlockReleased, fanout.UnlockReleased}, pub.unlockReasons())
	})

	t.Run("non-holder cannot release", func(t *testing.T) {
		m, _, _ := newManager(t)
		conversationID := uuid.New()
		agentID := uuid.New()

		require.NoError(t, m.Acquire(conversationID, agentID))
		assert.ErrorIs(t, m.Release(conversationID, uuid.New()), errs.ErrNotLockOwner)

		holder, _ := m.Owner(conversationID)
		require.NotNil(t, holder)
		assert.Equal(t, agentID, *holder)
	})

	t.Run("stale holder cannot release", func(t *testing.T) {
		m, clk, _ := newManager(t)
		conversationID := uuid.New()
		agentID := uuid.New()

		require.NoError(t, m.Acquire(conversationID, agentID))
		clk.Add(inactivity + time.Second)
		assert.ErrorIs(t, m.Release(conversationID, agentID), errs.ErrNotLockOwner)
	})
}

func TestForceRelease(t *testing.T) {
	t.Run("unlocks regardless of holder", func(t *testing.T) {
		m, _, pub := newManager(t)
		conversationID := uuid.New()

		require.NoError(t, m.Acquire(conversationID, uuid.New()))
		m.ForceRelease(conversationID)

		holder, _ := m.Owner(conversationID)
		assert.Nil(t, holder)
		assert.Equal(t, []fanout.UnlockReason{fanout.UnlockForced, fanout.UnlockForced}, pub.unlockReasons())
	})

	t.Run("already unlocked is silent", func(t *testing.T) {
		m, _, pub := newManager(t)
		m.ForceRelease(uuid.New())
		assert.Empty(t, pub.unlockReasons())
	})
}

func TestRefresh(t *testing.T) {
	t.Run("holder activity extends the lock", func(t *testing.T) {
		m, clk, _ := newManager(t)
		conversationID := uuid.New()
		agentID := uuid.New()

		require.NoError(t, m.Acquire(conversationID, agentID))
		clk.Add(inactivity - time.Minute)
		require.NoError(t, m.Refresh(conversationID, agentID))

		clk.Add(inactivity - time.Minute)
		holder, _ := m.Owner(conversationID)
		require.NotNil(t, holder)
	})

	t.Run("non-holder cannot refresh", func(t *testing.T) {
		m, _, _ := newManager(t)
		conversationID := uuid.New()

		require.NoError(t, m.Acquire(conversationID, uuid.New()))
		assert.ErrorIs(t, m.Refresh(conversationID, uuid.New()), errs.ErrNotLockOwner)
	})
}

func TestSweep(t *testing.T) {
	m, clk, pub := newManager(t)
	staleConv := uuid.New()
	liveConv := uuid.New()

	require.NoError(t, m.Acquire(staleConv, uuid.New()))
	clk.Add(inactivity - time.Minute)
	require.NoError(t, m.Acquire(liveConv, uuid.New()))
	clk.Add(2 * time.Minute)

	reclaimed := m.Sweep(clk.Now())

	assert.Equal(t, 1, reclaimed)
	assert.Equal(t, []fanout.UnlockReason{fanout.UnlockExpired, fanout.UnlockExpired}, pub.unlockReasons())

	holder, _ := m.Owner(staleConv)
	assert.Nil(t, holder)
	holder, _ = m.Owner(liveConv)
	assert.NotNil(t, holder)

	// Idempotent: a second pass finds nothing.
	assert.Zero(t, m.Sweep(clk.Now()))
}
