// Package pubsub fans order events out to everyone watching: the owning
// customer, the restaurant's staff dashboard, and any open order detail
// page. Delivery is at-least-once and payloads are signals — clients
// re-fetch on receipt rather than trusting the payload as the source of
// truth.
package pubsub

import (
	"encoding/json"
	"sync"
)

// Event is what subscribers receive. Topic is one of
// "order.<reference>", "user.<customerID>", "restaurant.<restaurantID>".
type Event struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

type subscriber struct {
	topics map[string]bool
	ch     chan Event
}

// Hub is the in-process broker behind the SSE endpoint.
type Hub struct {
	mu   sync.RWMutex
	subs map[*subscriber]bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]bool)}
}

// Subscribe registers interest in a set of topics. The returned cancel
// func must be called when the client disconnects.
func (h *Hub) Subscribe(topics []string) (<-chan Event, func()) {
	s := &subscriber{topics: make(map[string]bool, len(topics)), ch: make(chan Event, 16)}
	for _, t := range topics {
		s.topics[t] = true
	}
	h.mu.Lock()
	h.subs[s] = true
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if h.subs[s] {
			delete(h.subs, s)
			close(s.ch)
		}
		h.mu.Unlock()
	}
	return s.ch, cancel
}

// Publish delivers the event to every subscriber of its topic. A slow
// subscriber with a full buffer is skipped; the client re-syncs on its
// next event or reconnect.
func (h *Hub) Publish(topic string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	ev := Event{Topic: topic, Payload: raw}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		if !s.topics[topic] {
			continue
		}
		select {
		case s.ch <- ev:
		default:
		}
	}
}

// Publisher is what the order aggregate publishes through.
type Publisher interface {
	Publish(topic string, payload any)
}

// Default is the hub the HTTP layer subscribes against. Publish goes
// through Broadcast so an AMQP tee can be attached at startup.
var Default = NewHub()

var (
	teeMu sync.RWMutex
	tees  []Publisher
)

// AttachTee adds an extra publisher (e.g. AMQP) that receives every
// event alongside the in-process hub.
func AttachTee(p Publisher) {
	teeMu.Lock()
	tees = append(tees, p)
	teeMu.Unlock()
}

// Broadcast publishes to the in-process hub and every attached tee.
func Broadcast(topic string, payload any) {
	Default.Publish(topic, payload)
	teeMu.RLock()
	defer teeMu.RUnlock()
	for _, t := range tees {
		t.Publish(topic, payload)
	}
}
