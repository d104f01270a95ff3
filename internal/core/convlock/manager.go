package convlock

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"stayops/internal/core/fanout"
	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/errs"

	"github.com/google/uuid"
)

// HeldError carries who currently owns the lock. It matches
// errs.ErrConversationLocked under errors.Is so handlers can map it without
// losing the holder.
type HeldError struct {
	By uuid.UUID
}

func (e *HeldError) Error() string {
	return fmt.Sprintf("conversation locked by agent %s", e.By)
}

func (e *HeldError) Is(target error) bool {
	return errors.Is(errs.ErrConversationLocked, target)
}

// Manager arbitrates exclusive agent ownership of support conversations.
// State machine per conversation: unlocked -> locked(agent) -> unlocked. At
// most one unexpired lock exists per conversation; a lock not refreshed
// within the inactivity window is reclaimed by the sweep, so an agent's
// dropped connection never blocks a conversation for good.
//
// Each entry has its own mutex; operations on different conversations never
// block each other. The top-level mutex guards only the map.
type Manager struct {
	clock      clock.Clock
	pub        fanout.Publisher
	inactivity time.Duration

	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

type entry struct {
	mu          sync.Mutex
	holder      uuid.UUID // uuid.Nil when unlocked
	lockedAt    time.Time
	refreshedAt time.Time
}

func NewManager(clk clock.Clock, pub fanout.Publisher, inactivity time.Duration) *Manager {
	return &Manager{
		clock:      clk,
		pub:        pub,
		inactivity: inactivity,
		entries:    make(map[uuid.UUID]*entry),
	}
}

func (m *Manager) entry(conversationID uuid.UUID) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entries[conversationID]
	if e == nil {
		e = &entry{}
		m.entries[conversationID] = e
	}
	return e
}

func (e *entry) liveHolder(now time.Time, inactivity time.Duration) uuid.UUID {
	if e.holder == uuid.Nil {
		return uuid.Nil
	}
	if now.Sub(e.refreshedAt) > inactivity {
		return uuid.Nil
	}
	return e.holder
}

// Acquire grants the lock from unlocked (or from a stale lock, which counts
// as unlocked). Re-acquiring by the current holder succeeds idempotently and
// refreshes the lock.
func (m *Manager) Acquire(conversationID, agentID uuid.UUID) error {
	if agentID == uuid.Nil {
		return errs.ErrNotLockOwner
	}

	now := m.clock.Now()
	e := m.entry(conversationID)

	e.mu.Lock()
	defer e.mu.Unlock()

	switch holder := e.liveHolder(now, m.inactivity); holder {
	case uuid.Nil:
		e.holder = agentID
		e.lockedAt = now
		e.refreshedAt = now
	case agentID:
		e.refreshedAt = now
		return nil
	default:
		return &HeldError{By: holder}
	}

	m.publishLocked(conversationID, agentID, now)
	return nil
}

// Release unlocks, holder-only.
func (m *Manager) Release(conversationID, agentID uuid.UUID) error {
	now := m.clock.Now()
	e := m.entry(conversationID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.liveHolder(now, m.inactivity) != agentID || agentID == uuid.Nil {
		return errs.ErrNotLockOwner
	}

	e.holder = uuid.Nil
	m.publishUnlocked(conversationID, agentID, fanout.UnlockReleased)
	return nil
}

// ForceRelease unlocks regardless of holder. The caller is responsible for
// having checked the supervisor capability; this layer only flips state.
func (m *Manager) ForceRelease(conversationID uuid.UUID) {
	now := m.clock.Now()
	e := m.entry(conversationID)

	e.mu.Lock()
	defer e.mu.Unlock()

	holder := e.liveHolder(now, m.inactivity)
	if holder == uuid.Nil {
		e.holder = uuid.Nil
		return
	}

	e.holder = uuid.Nil
	m.publishUnlocked(conversationID, holder, fanout.UnlockForced)
}

// Refresh extends the lock on holder activity (posting, typing, heartbeat).
func (m *Manager) Refresh(conversationID, agentID uuid.UUID) error {
	now := m.clock.Now()
	e := m.entry(conversationID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.liveHolder(now, m.inactivity) != agentID || agentID == uuid.Nil {
		return errs.ErrNotLockOwner
	}

	e.refreshedAt = now
	return nil
}

// Owner reports the live holder, or nil when unlocked.
func (m *Manager) Owner(conversationID uuid.UUID) (*uuid.UUID, *time.Time) {
	now := m.clock.Now()
	e := m.entry(conversationID)

	e.mu.Lock()
	defer e.mu.Unlock()

	holder := e.liveHolder(now, m.inactivity)
	if holder == uuid.Nil {
		return nil, nil
	}
	h := holder
	at := e.lockedAt
	return &h, &at
}

// Sweep force-releases locks idle past the inactivity window. Identical in
// spirit to the ledger's hold sweep.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	ids := make([]uuid.UUID, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	reclaimed := 0
	for _, id := range ids {
		e := m.entry(id)
		e.mu.Lock()
		if e.holder != uuid.Nil && now.Sub(e.refreshedAt) > m.inactivity {
			holder := e.holder
			e.holder = uuid.Nil
			reclaimed++
			m.publishUnlocked(id, holder, fanout.UnlockExpired)
		}
		e.mu.Unlock()
	}
	return reclaimed
}

func (m *Manager) publishLocked(conversationID, agentID uuid.UUID, at time.Time) {
	ev := fanout.ConversationLocked{
		ConversationID: conversationID,
		AgentID:        agentID,
		LockedAt:       at,
	}
	m.pub.Publish(fanout.ConversationListTopic, ev)
	m.pub.Publish(fanout.ConversationTopic(conversationID), ev)
}

func (m *Manager) publishUnlocked(conversationID, agentID uuid.UUID, reason fanout.UnlockReason) {
	ev := fanout.ConversationUnlocked{
		ConversationID: conversationID,
		AgentID:        agentID,
		Reason:         reason,
	}
	m.pub.Publish(fanout.ConversationListTopic, ev)
	m.pub.Publish(fanout.ConversationTopic(conversationID), ev)
}
