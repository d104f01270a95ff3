//go:build unit

package readqueue_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"stayops/internal/client/readqueue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type markCall struct {
	recipientID    uuid.UUID
	notificationID uuid.UUID
}

type fakeMarkReader struct {
	mu       sync.Mutex
	calls    []markCall
	inFlight map[uuid.UUID]int // per recipient
	maxSeen  map[uuid.UUID]int
	failFor  map[uuid.UUID]error
}

func newFakeMarkReader() *fakeMarkReader {
	return &fakeMarkReader{
		inFlight: make(map[uuid.UUID]int),
		maxSeen:  make(map[uuid.UUID]int),
		failFor:  make(map[uuid.UUID]error),
	}
}

func (f *fakeMarkReader) MarkRead(_ context.Context, recipientID, notificationID uuid.UUID) error {
	f.mu.Lock()
	f.calls = append(f.calls, markCall{recipientID: recipientID, notificationID: notificationID})
	f.inFlight[recipientID]++
	if f.inFlight[recipientID] > f.maxSeen[recipientID] {
		f.maxSeen[recipientID] = f.inFlight[recipientID]
	}
	err := f.failFor[notificationID]
	f.mu.Unlock()

	// Give concurrent dispatches, if the queue ever made any, time to pile up.
	time.Sleep(2 * time.Millisecond)

	f.mu.Lock()
	f.inFlight[recipientID]--
	f.mu.Unlock()
	return err
}

func (f *fakeMarkReader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeMarkReader) callsFor(recipientID, notificationID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.recipientID == recipientID && c.notificationID == notificationID {
			n++
		}
	}
	return n
}

func (f *fakeMarkReader) maxInFlightFor(recipientID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxSeen[recipientID]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func runRegistry(t *testing.T, r *readqueue.Registry) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestEnqueue(t *testing.T) {
	idleTTL := time.Minute

	t.Run("dispatches each id once with its recipient", func(t *testing.T) {
		reader := newFakeMarkReader()
		r := readqueue.New(reader, time.Millisecond, idleTTL, discardLogger())
		runRegistry(t, r)

		clientID := uuid.New()
		ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		for _, id := range ids {
			r.Enqueue(clientID, id)
		}

		require.Eventually(t, func() bool { return reader.callCount() == len(ids) },
			time.Second, 5*time.Millisecond)
		for _, id := range ids {
			assert.Equal(t, 1, reader.callsFor(clientID, id))
		}
	})

	t.Run("duplicate while queued collapses", func(t *testing.T) {
		reader := newFakeMarkReader()
		r := readqueue.New(reader, 20*time.Millisecond, idleTTL, discardLogger())

		clientID := uuid.New()
		id := uuid.New()
		r.Enqueue(clientID, id)
		r.Enqueue(clientID, id)
		r.Enqueue(clientID, id)
		assert.Equal(t, 1, r.Len(clientID))

		runRegistry(t, r)

		require.Eventually(t, func() bool { return reader.callCount() == 1 },
			time.Second, 5*time.Millisecond)
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, 1, reader.callsFor(clientID, id), "no extra dispatch after the burst")
	})

	t.Run("confirmed ids are never re-dispatched", func(t *testing.T) {
		reader := newFakeMarkReader()
		r := readqueue.New(reader, time.Millisecond, idleTTL, discardLogger())
		runRegistry(t, r)

		clientID := uuid.New()
		id := uuid.New()
		r.Enqueue(clientID, id)
		require.Eventually(t, func() bool { return reader.callCount() == 1 },
			time.Second, 5*time.Millisecond)

		// The notification scrolls into view again.
		r.Enqueue(clientID, id)
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, 1, reader.callsFor(clientID, id))
	})

	t.Run("failed dispatch is dropped and can be retried by re-enqueue", func(t *testing.T) {
		reader := newFakeMarkReader()
		clientID := uuid.New()
		id := uuid.New()
		reader.failFor[id] = errors.New("backend unavailable")

		r := readqueue.New(reader, time.Millisecond, idleTTL, discardLogger())
		runRegistry(t, r)

		r.Enqueue(clientID, id)
		require.Eventually(t, func() bool { return reader.callsFor(clientID, id) == 1 },
			time.Second, 5*time.Millisecond)

		// Not retried on its own.
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, 1, reader.callsFor(clientID, id))

		// Visible again after the failure: eligible once more.
		reader.mu.Lock()
		delete(reader.failFor, id)
		reader.mu.Unlock()
		r.Enqueue(clientID, id)
		require.Eventually(t, func() bool { return reader.callsFor(clientID, id) == 2 },
			time.Second, 5*time.Millisecond)
	})
}

func TestSingleFlightPerClient(t *testing.T) {
	reader := newFakeMarkReader()
	r := readqueue.New(reader, time.Millisecond, time.Minute, discardLogger())

	clientA := uuid.New()
	clientB := uuid.New()
	const burst = 10
	for range burst {
		r.Enqueue(clientA, uuid.New())
		r.Enqueue(clientB, uuid.New())
	}
	runRegistry(t, r)

	require.Eventually(t, func() bool { return reader.callCount() == 2*burst },
		2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, reader.maxInFlightFor(clientA), "at most one mark-as-read in flight per client")
	assert.Equal(t, 1, reader.maxInFlightFor(clientB))
}

func TestClientIsolation(t *testing.T) {
	t.Run("one client's debounce does not throttle another", func(t *testing.T) {
		reader := newFakeMarkReader()
		// Debounce long enough that a shared queue could not possibly drain
		// the second client in time.
		r := readqueue.New(reader, 400*time.Millisecond, time.Minute, discardLogger())
		runRegistry(t, r)

		busy := uuid.New()
		for range 5 {
			r.Enqueue(busy, uuid.New())
		}

		quiet := uuid.New()
		id := uuid.New()
		r.Enqueue(quiet, id)

		require.Eventually(t, func() bool { return reader.callsFor(quiet, id) == 1 },
			200*time.Millisecond, 5*time.Millisecond,
			"a fresh client dispatches without waiting behind another client's backlog")
	})

	t.Run("the same notification id is tracked per client", func(t *testing.T) {
		reader := newFakeMarkReader()
		r := readqueue.New(reader, time.Millisecond, time.Minute, discardLogger())
		runRegistry(t, r)

		clientA := uuid.New()
		clientB := uuid.New()
		id := uuid.New()
		r.Enqueue(clientA, id)
		r.Enqueue(clientB, id)

		require.Eventually(t, func() bool {
			return reader.callsFor(clientA, id) == 1 && reader.callsFor(clientB, id) == 1
		}, time.Second, 5*time.Millisecond)
	})
}

func TestIdleEviction(t *testing.T) {
	reader := newFakeMarkReader()
	r := readqueue.New(reader, time.Millisecond, 30*time.Millisecond, discardLogger())
	runRegistry(t, r)

	clientID := uuid.New()
	id := uuid.New()
	r.Enqueue(clientID, id)
	require.Eventually(t, func() bool { return reader.callCount() == 1 },
		time.Second, 5*time.Millisecond)
	require.Equal(t, 1, r.Clients())

	// The idle queue goes away along with its confirmed-id memory.
	require.Eventually(t, func() bool { return r.Clients() == 0 },
		time.Second, 5*time.Millisecond)

	// A later enqueue builds a fresh queue; the server-side call is
	// idempotent, so re-dispatching the forgotten id is harmless.
	r.Enqueue(clientID, id)
	require.Eventually(t, func() bool { return reader.callsFor(clientID, id) == 2 },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, r.Clients())
}
