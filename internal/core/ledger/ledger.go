package ledger

import (
	"slices"
	"sync"
	"time"

	"stayops/internal/core/fanout"
	"stayops/internal/domain/booking"
	"stayops/internal/pkg/clock"
	"stayops/internal/pkg/errs"

	"github.com/google/uuid"
)

// Ledger is the only writer of "is room R free on dates D". It tracks both
// unexpired holds and committed bookings in one interval set per room, so a
// successful TryHold rules out double booking by construction.
//
// Locking: each room has its own mutex; unrelated rooms never serialize
// against each other. The top-level mutex guards only the two maps and is
// always innermost: room mutexes are never acquired while it is held. Commit
// is the one operation that touches several rooms; it takes their mutexes in
// sorted key order.
type Ledger struct {
	clock clock.Clock
	pub   fanout.Publisher

	mu       sync.Mutex
	rooms    map[uuid.UUID]*roomState
	sessions map[uuid.UUID][]uuid.UUID // sessionID -> rooms it holds
}

type roomState struct {
	mu       sync.Mutex
	holds    map[uuid.UUID]*hold // keyed by owning sessionID
	bookings []bookingRecord
}

type hold struct {
	sessionID uuid.UUID
	stay      booking.StayRange
	expiresAt time.Time
}

type bookingRecord struct {
	bookingID uuid.UUID
	sessionID uuid.UUID
	stay      booking.StayRange
}

func New(clk clock.Clock, pub fanout.Publisher) *Ledger {
	return &Ledger{
		clock:    clk,
		pub:      pub,
		rooms:    make(map[uuid.UUID]*roomState),
		sessions: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (l *Ledger) room(roomID uuid.UUID) *roomState {
	l.mu.Lock()
	defer l.mu.Unlock()
	rs := l.rooms[roomID]
	if rs == nil {
		rs = &roomState{holds: make(map[uuid.UUID]*hold)}
		l.rooms[roomID] = rs
	}
	return rs
}

func (l *Ledger) indexHold(sessionID, roomID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !slices.Contains(l.sessions[sessionID], roomID) {
		l.sessions[sessionID] = append(l.sessions[sessionID], roomID)
	}
}

func (l *Ledger) unindexHold(sessionID, roomID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rooms := l.sessions[sessionID]
	if idx := slices.Index(rooms, roomID); idx >= 0 {
		rooms = slices.Delete(rooms, idx, idx+1)
	}
	if len(rooms) == 0 {
		delete(l.sessions, sessionID)
	} else {
		l.sessions[sessionID] = rooms
	}
}

func (l *Ledger) sessionRooms(sessionID uuid.UUID) []uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.sessions[sessionID])
}

// TryHold records an expiring claim on a room for a stay range. The first
// successful caller wins; concurrent callers for an overlapping range get
// ErrRoomConflict and must pick another room or wait for expiry.
func (l *Ledger) TryHold(roomID uuid.UUID, stay booking.StayRange, sessionID uuid.UUID, ttl time.Duration) error {
	now := l.clock.Now()
	rs := l.room(roomID)

	rs.mu.Lock()
	defer rs.mu.Unlock()

	for _, b := range rs.bookings {
		if b.stay.Overlaps(stay) {
			return errs.ErrRoomConflict
		}
	}
	for owner, h := range rs.holds {
		if owner == sessionID {
			continue
		}
		if h.expiresAt.After(now) && h.stay.Overlaps(stay) {
			return errs.ErrRoomConflict
		}
	}

	rs.holds[sessionID] = &hold{
		sessionID: sessionID,
		stay:      stay,
		expiresAt: now.Add(ttl),
	}
	l.indexHold(sessionID, roomID)

	l.pub.Publish(fanout.CalendarTopic, fanout.RoomHeld{
		SessionID: sessionID,
		RoomID:    roomID,
		Stay:      stay.String(),
		ExpiresAt: now.Add(ttl),
	})
	return nil
}

// ExtendHold resets expiry for every live hold of the session. A session
// whose holds have all expired or been converted gets ErrSessionNotFound.
func (l *Ledger) ExtendHold(sessionID uuid.UUID, ttl time.Duration) error {
	now := l.clock.Now()
	extended := 0

	for _, roomID := range l.sessionRooms(sessionID) {
		rs := l.room(roomID)
		rs.mu.Lock()
		if h, ok := rs.holds[sessionID]; ok && h.expiresAt.After(now) {
			h.expiresAt = now.Add(ttl)
			extended++
		}
		rs.mu.Unlock()
	}

	if extended == 0 {
		return errs.ErrSessionNotFound
	}
	return nil
}

// CommittedRoom pairs a room with the booking that replaced its hold, so
// callers never have to guess which booking belongs to which room.
type CommittedRoom struct {
	RoomID    uuid.UUID
	BookingID uuid.UUID
}

// Commit converts every hold of the session into a permanent booking,
// all-or-nothing. If any hold has already expired the whole commit fails with
// ErrHoldStale and the caller must restart with fresh holds.
func (l *Ledger) Commit(sessionID uuid.UUID) ([]CommittedRoom, error) {
	now := l.clock.Now()
	roomIDs := l.sessionRooms(sessionID)
	if len(roomIDs) == 0 {
		return nil, errs.ErrHoldStale
	}

	// Sorted key order keeps multi-room acquisition deadlock-free.
	slices.SortFunc(roomIDs, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})

	states := make([]*roomState, len(roomIDs))
	for i, roomID := range roomIDs {
		states[i] = l.room(roomID)
		states[i].mu.Lock()
	}
	defer func() {
		for _, rs := range states {
			rs.mu.Unlock()
		}
	}()

	for _, rs := range states {
		h, ok := rs.holds[sessionID]
		if !ok || !h.expiresAt.After(now) {
			return nil, errs.ErrHoldStale
		}
	}

	committed := make([]CommittedRoom, 0, len(roomIDs))
	for i, rs := range states {
		h := rs.holds[sessionID]
		delete(rs.holds, sessionID)

		bookingID := uuid.New()
		rs.bookings = append(rs.bookings, bookingRecord{
			bookingID: bookingID,
			sessionID: sessionID,
			stay:      h.stay,
		})
		committed = append(committed, CommittedRoom{RoomID: roomIDs[i], BookingID: bookingID})

		l.unindexHold(sessionID, roomIDs[i])
		l.pub.Publish(fanout.CalendarTopic, fanout.RoomBooked{
			SessionID: sessionID,
			BookingID: bookingID,
			RoomID:    roomIDs[i],
			Stay:      h.stay.String(),
		})
	}

	return committed, nil
}

// Release drops every hold of the session without committing.
func (l *Ledger) Release(sessionID uuid.UUID) {
	for _, roomID := range l.sessionRooms(sessionID) {
		l.ReleaseRoom(sessionID, roomID)
	}
}

// ReleaseRoom drops the session's hold on a single room, e.g. when the guest
// removes one room from the cart.
func (l *Ledger) ReleaseRoom(sessionID, roomID uuid.UUID) {
	rs := l.room(roomID)

	rs.mu.Lock()
	h, ok := rs.holds[sessionID]
	if ok {
		delete(rs.holds, sessionID)
	}
	rs.mu.Unlock()

	if !ok {
		return
	}

	l.unindexHold(sessionID, roomID)
	l.pub.Publish(fanout.CalendarTopic, fanout.RoomReleased{
		SessionID: sessionID,
		RoomID:    roomID,
		Stay:      h.stay.String(),
	})
}

// Sweep removes holds whose expiry has passed and reports the sessions that
// lost at least one hold. Run by the background sweeper; the interval must
// stay at or below the smallest TTL granted to bound worst-case staleness.
func (l *Ledger) Sweep(now time.Time) []uuid.UUID {
	l.mu.Lock()
	roomIDs := make([]uuid.UUID, 0, len(l.rooms))
	for roomID := range l.rooms {
		roomIDs = append(roomIDs, roomID)
	}
	l.mu.Unlock()

	var expiredSessions []uuid.UUID
	for _, roomID := range roomIDs {
		rs := l.room(roomID)

		rs.mu.Lock()
		var expired []*hold
		for owner, h := range rs.holds {
			if !h.expiresAt.After(now) {
				expired = append(expired, h)
				delete(rs.holds, owner)
			}
		}
		rs.mu.Unlock()

		for _, h := range expired {
			l.unindexHold(h.sessionID, roomID)
			if !slices.Contains(expiredSessions, h.sessionID) {
				expiredSessions = append(expiredSessions, h.sessionID)
			}
			l.pub.Publish(fanout.CalendarTopic, fanout.HoldExpired{
				SessionID: h.sessionID,
				RoomID:    roomID,
				Stay:      h.stay.String(),
			})
		}
	}
	return expiredSessions
}

// CalendarEntry is one row of the admin calendar snapshot.
type CalendarEntry struct {
	RoomID    uuid.UUID
	Kind      string // "hold" or "booking"
	SessionID uuid.UUID
	BookingID *uuid.UUID
	Stay      string
	ExpiresAt *time.Time
}

// Calendar returns a point-in-time snapshot of live holds and bookings for
// the admin calendar view. Expired holds are filtered, not mutated; the sweep
// owns reclamation.
func (l *Ledger) Calendar() []CalendarEntry {
	now := l.clock.Now()

	l.mu.Lock()
	roomIDs := make([]uuid.UUID, 0, len(l.rooms))
	for roomID := range l.rooms {
		roomIDs = append(roomIDs, roomID)
	}
	l.mu.Unlock()

	slices.SortFunc(roomIDs, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})

	var entries []CalendarEntry
	for _, roomID := range roomIDs {
		rs := l.room(roomID)
		rs.mu.Lock()
		for _, h := range rs.holds {
			if !h.expiresAt.After(now) {
				continue
			}
			expiresAt := h.expiresAt
			entries = append(entries, CalendarEntry{
				RoomID:    roomID,
				Kind:      "hold",
				SessionID: h.sessionID,
				Stay:      h.stay.String(),
				ExpiresAt: &expiresAt,
			})
		}
		for _, b := range rs.bookings {
			bookingID := b.bookingID
			entries = append(entries, CalendarEntry{
				RoomID:    roomID,
				Kind:      "booking",
				SessionID: b.sessionID,
				BookingID: &bookingID,
				Stay:      b.stay.String(),
			})
		}
		rs.mu.Unlock()
	}
	return entries
}
