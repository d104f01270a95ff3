package fanout

import (
	"sync"

	"stayops/internal/pkg/clock"
)

// Publisher is the side of the hub the core components see.
type Publisher interface {
	Publish(topic string, event Event)
}

// Subscription is one subscriber's ordered view of a topic. Events arrive on
// C in publish order; the channel is closed on Close or hub shutdown.
type Subscription struct {
	topic string
	ch    chan Envelope
	hub   *Hub

	mu      sync.Mutex
	dropped bool // buffer overflowed; next delivery carries Resync
	closed  bool
}

func (s *Subscription) C() <-chan Envelope {
	return s.ch
}

func (s *Subscription) Topic() string {
	return s.topic
}

func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
}

// Hub delivers every published event to all current subscribers of its topic,
// in publish order. Delivery is fire-and-forget: a slow subscriber loses its
// oldest buffered event and gets flagged for resync, it never blocks the
// publisher or its peers. There is no replay buffer; reconnecting clients
// reconcile through the query side.
type Hub struct {
	clock   clock.Clock
	bufSize int

	mu     sync.RWMutex
	topics map[string]*topicState
	closed bool
}

type topicState struct {
	mu   sync.Mutex
	seq  uint64
	subs map[*Subscription]struct{}
}

func NewHub(clk clock.Clock, bufSize int) *Hub {
	if bufSize < 1 {
		bufSize = 1
	}
	return &Hub{
		clock:   clk,
		bufSize: bufSize,
		topics:  make(map[string]*topicState),
	}
}

func (h *Hub) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		topic: topic,
		ch:    make(chan Envelope, h.bufSize),
		hub:   h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
		sub.closed = true
		return sub
	}

	ts := h.topics[topic]
	if ts == nil {
		ts = &topicState{subs: make(map[*Subscription]struct{})}
		h.topics[topic] = ts
	}
	ts.mu.Lock()
	ts.subs[sub] = struct{}{}
	ts.mu.Unlock()

	return sub
}

func (h *Hub) Publish(topic string, event Event) {
	h.mu.RLock()
	ts := h.topics[topic]
	closed := h.closed
	h.mu.RUnlock()
	if closed || ts == nil {
		return
	}

	// The topic mutex makes the seq assignment and the per-subscriber sends
	// one atomic step, which is what keeps per-topic publish order intact for
	// every subscriber.
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.seq++
	env := Envelope{
		Topic:      topic,
		Seq:        ts.seq,
		EventType:  event.Type(),
		OccurredAt: h.clock.Now(),
		Event:      event,
	}

	for sub := range ts.subs {
		sub.deliver(env)
	}
}

func (s *Subscription) deliver(env Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if s.dropped {
		env.Resync = true
	}

	select {
	case s.ch <- env:
		s.dropped = false
	default:
		// Buffer full: drop the oldest event to make room. The subscriber is
		// flagged so its next delivery tells it to refetch missed state.
		select {
		case <-s.ch:
		default:
		}
		env.Resync = true
		select {
		case s.ch <- env:
		default:
		}
		s.dropped = true
	}
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.RLock()
	ts := h.topics[sub.topic]
	h.mu.RUnlock()

	if ts != nil {
		ts.mu.Lock()
		delete(ts.subs, sub)
		ts.mu.Unlock()
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()
	if !sub.closed {
		sub.closed = true
		close(sub.ch)
	}
}

// Close shuts down the hub and closes every subscription channel.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	topics := h.topics
	h.topics = make(map[string]*topicState)
	h.mu.Unlock()

	for _, ts := range topics {
		ts.mu.Lock()
		for sub := range ts.subs {
			sub.mu.Lock()
			if !sub.closed {
				sub.closed = true
				close(sub.ch)
			}
			sub.mu.Unlock()
		}
		ts.subs = make(map[*Subscription]struct{})
		ts.mu.Unlock()
	}
}

// SubscriberCount is a test and diagnostics helper.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	ts := h.topics[topic]
	h.mu.RUnlock()
	if ts == nil {
		return 0
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.subs)
}

var _ Publisher = (*Hub)(nil)
