package sessionstore

import (
	"sync"

	"stayops/internal/domain/booking"
	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/errs"

	"github.com/google/uuid"
)

// Store keeps live booking sessions in memory. Sessions are the transient,
// contended slice of state; committed bookings are archived durably
// elsewhere. Mutation goes through Update, which serializes per session so a
// guest's parallel tabs cannot interleave mid-edit. Expiry is applied lazily
// on read and eagerly by the hold sweeper's callback, whichever comes first.
type Store struct {
	clock clock.Clock

	mu      sync.RWMutex
	records map[uuid.UUID]*record
}

type record struct {
	mu      sync.Mutex
	session *booking.Session
}

func New(clk clock.Clock) *Store {
	return &Store{
		clock:   clk,
		records: make(map[uuid.UUID]*record),
	}
}

func (s *Store) Save(session *booking.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[session.ID()] = &record{session: session}
}

func (s *Store) record(sessionID uuid.UUID) (*record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[sessionID]
	if !ok {
		return nil, errs.ErrSessionNotFound
	}
	return rec, nil
}

// Get returns the session, flipping it to expired first when its TTL lapsed
// while still holding.
func (s *Store) Get(sessionID uuid.UUID) (*booking.Session, error) {
	rec, err := s.record(sessionID)
	if err != nil {
		return nil, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	s.applyLazyExpiry(rec.session)
	return rec.session, nil
}

// Update runs fn with the session's per-key mutex held. fn sees a session
// with lazy expiry already applied.
func (s *Store) Update(sessionID uuid.UUID, fn func(*booking.Session) error) error {
	rec, err := s.record(sessionID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	s.applyLazyExpiry(rec.session)
	return fn(rec.session)
}

func (s *Store) applyLazyExpiry(session *booking.Session) {
	if session.Status() == booking.StatusHolding && session.HasExpired(s.clock.Now()) {
		_ = session.MarkExpired()
	}
}

// HandleExpiredSessions is the ledger sweeper callback: sessions that lost
// holds to expiry are flipped so later reads see a terminal status.
func (s *Store) HandleExpiredSessions(sessionIDs []uuid.UUID) {
	for _, id := range sessionIDs {
		rec, err := s.record(id)
		if err != nil {
			continue
		}
		rec.mu.Lock()
		if rec.session.Status() == booking.StatusHolding {
			_ = rec.session.MarkExpired()
		}
		rec.mu.Unlock()
	}
}

// Drop removes a terminal session from the working set.
func (s *Store) Drop(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sessionID)
}
