// Package readqueue serializes a viewing client's "mark as read" effects.
// When a burst of notifications becomes visible at once, the queue keeps at
// most one mark-as-read request in flight per client and spaces dispatches by
// a debounce interval, trading a little latency for not stampeding the
// backend. Each authenticated client gets its own queue, created on first use
// and evicted after sitting idle, so one client's burst never delays another
// and the confirmed-id memory stays bounded.
package readqueue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MarkReader is the notification store endpoint the queue drives. MarkRead
// must be idempotent server-side; the queue never retries. The recipient is
// the client the confirmation came from, so the store can refuse to flip
// somebody else's notification.
type MarkReader interface {
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
}

// Registry owns one queue per viewing client. Producers call Enqueue from
// visibility callbacks; Run supervises a worker goroutine per active client
// and tears each one down once its client goes quiet.
type Registry struct {
	reader   MarkReader
	debounce time.Duration
	idleTTL  time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[uuid.UUID]*clientQueue
	ctx     context.Context
	wg      sync.WaitGroup
}

type clientQueue struct {
	clientID uuid.UUID

	mu      sync.Mutex
	closed  bool
	pending []uuid.UUID
	queued  map[uuid.UUID]struct{} // pending or in flight
	marked  map[uuid.UUID]struct{} // already confirmed read
	wake    chan struct{}
}

func New(reader MarkReader, debounce, idleTTL time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		reader:   reader,
		debounce: debounce,
		idleTTL:  idleTTL,
		logger:   logger,
		clients:  make(map[uuid.UUID]*clientQueue),
	}
}

func newClientQueue(clientID uuid.UUID) *clientQueue {
	return &clientQueue{
		clientID: clientID,
		queued:   make(map[uuid.UUID]struct{}),
		marked:   make(map[uuid.UUID]struct{}),
		wake:     make(chan struct{}, 1),
	}
}

// Enqueue adds the notification to the client's own queue unless it is
// already queued, in flight, or confirmed read. Safe to call from any
// goroutine.
func (r *Registry) Enqueue(clientID, notificationID uuid.UUID) {
	for {
		if r.client(clientID).enqueue(notificationID) {
			return
		}
		// Lost a race with idle eviction; the registry no longer holds that
		// queue. Look it up again.
	}
}

func (r *Registry) client(clientID uuid.UUID) *clientQueue {
	r.mu.Lock()
	defer r.mu.Unlock()
	cq, ok := r.clients[clientID]
	if !ok {
		cq = newClientQueue(clientID)
		r.clients[clientID] = cq
		if r.ctx != nil {
			r.startWorker(cq)
		}
	}
	return cq
}

// enqueue reports false when the queue has been evicted and the caller must
// re-resolve it.
func (q *clientQueue) enqueue(notificationID uuid.UUID) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	if _, done := q.marked[notificationID]; done {
		q.mu.Unlock()
		return true
	}
	if _, exists := q.queued[notificationID]; exists {
		q.mu.Unlock()
		return true
	}
	q.queued[notificationID] = struct{}{}
	q.pending = append(q.pending, notificationID)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

func (q *clientQueue) pop() (uuid.UUID, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return uuid.Nil, false
	}
	id := q.pending[0]
	q.pending = q.pending[1:]
	return id, true
}

// Run supervises the per-client workers until ctx is canceled. Clients that
// enqueued before Run get their workers started here.
func (r *Registry) Run(ctx context.Context) {
	r.mu.Lock()
	r.ctx = ctx
	for _, cq := range r.clients {
		r.startWorker(cq)
	}
	r.mu.Unlock()

	<-ctx.Done()
	r.wg.Wait()
}

// startWorker is called with r.mu held, exactly once per clientQueue.
func (r *Registry) startWorker(cq *clientQueue) {
	r.wg.Add(1)
	go r.runClient(cq)
}

// runClient drains one client's queue. It dispatches one mark-as-read at a
// time and sleeps the debounce interval between dispatches. A failed dispatch
// is dropped, not retried: the server call is idempotent and the id re-enters
// the queue only if the notification becomes visible again. A queue that
// stays empty for idleTTL is evicted together with its confirmed-id set.
func (r *Registry) runClient(cq *clientQueue) {
	defer r.wg.Done()
	for {
		id, ok := cq.pop()
		if !ok {
			select {
			case <-r.ctx.Done():
				return
			case <-cq.wake:
				continue
			case <-time.After(r.idleTTL):
				if r.evict(cq) {
					return
				}
				continue
			}
		}

		err := r.reader.MarkRead(r.ctx, cq.clientID, id)

		cq.mu.Lock()
		delete(cq.queued, id)
		if err == nil {
			cq.marked[id] = struct{}{}
		}
		cq.mu.Unlock()

		if err != nil {
			r.logger.Warn("mark-as-read dispatch failed, dropping",
				"client_id", cq.clientID, "notification_id", id, "error", err)
		}

		select {
		case <-r.ctx.Done():
			return
		case <-time.After(r.debounce):
		}
	}
}

// evict removes the client from the registry if its queue is still empty.
// A false return means new work arrived while the worker slept.
func (r *Registry) evict(cq *clientQueue) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cq.mu.Lock()
	defer cq.mu.Unlock()
	if len(cq.pending) > 0 {
		return false
	}
	cq.closed = true
	delete(r.clients, cq.clientID)
	return true
}

// Len reports how many ids are waiting for the client (not counting one in
// flight).
func (r *Registry) Len(clientID uuid.UUID) int {
	r.mu.Lock()
	cq, ok := r.clients[clientID]
	r.mu.Unlock()
	if !ok {
		return 0
	}
	cq.mu.Lock()
	defer cq.mu.Unlock()
	return len(cq.pending)
}

// Clients reports how many client queues are currently alive.
func (r *Registry) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
