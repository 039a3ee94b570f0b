// Package monitor provides the processing agent's dashboard: a small web
// server exposing session status, runtime mode switching and a live preview
// of processed frames over websocket.
//
// The dashboard sits beside the relay, never on its data path; a slow or
// absent preview client cannot stall the frame loop.
package monitor

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/edgecv/go-framecast/internal/log"
)

// MessageKind indicates the websocket message format.
type MessageKind int

const (
	// JSONMessage is a JSON-encoded message.
	JSONMessage MessageKind = iota
	// BinaryMessage is raw binary data (JPEG frames).
	BinaryMessage
)

// Message is one broadcast payload.
type Message struct {
	Kind MessageKind
	Data []byte
}

// subscriberBuffer is the per-subscriber send queue depth.
const subscriberBuffer = 32

// Subscriber receives broadcast messages on its channel.
type Subscriber struct {
	send chan Message
}

// C returns the subscriber's receive channel. It is closed when the
// subscriber is dropped or unsubscribed.
func (s *Subscriber) C() <-chan Message {
	return s.send
}

// Hub fans broadcast messages out to subscribers using the channel-based
// pattern: one goroutine owns the subscriber set, everyone else talks to it
// through channels. Subscribers that cannot keep up are dropped rather than
// allowed to back up the broadcaster.
type Hub struct {
	name string

	subscribe   chan *Subscriber
	unsubscribe chan *Subscriber
	broadcast   chan Message

	mu   sync.RWMutex
	subs map[*Subscriber]bool
}

// NewHub creates a hub. The name only appears in logs.
func NewHub(name string) *Hub {
	return &Hub{
		name:        name,
		subscribe:   make(chan *Subscriber),
		unsubscribe: make(chan *Subscriber),
		broadcast:   make(chan Message, 256),
		subs:        make(map[*Subscriber]bool),
	}
}

// Run owns the subscriber set until the context is cancelled. Call in a
// goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for sub := range h.subs {
				close(sub.send)
				delete(h.subs, sub)
			}
			h.mu.Unlock()
			return

		case sub := <-h.subscribe:
			h.mu.Lock()
			h.subs[sub] = true
			count := len(h.subs)
			h.mu.Unlock()
			log.Debug("preview client connected", "hub", h.name, "total", count)

		case sub := <-h.unsubscribe:
			h.mu.Lock()
			if _, ok := h.subs[sub]; ok {
				delete(h.subs, sub)
				close(sub.send)
			}
			count := len(h.subs)
			h.mu.Unlock()
			log.Debug("preview client disconnected", "hub", h.name, "remaining", count)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for sub := range h.subs {
				select {
				case sub.send <- msg:
				default:
					// Too slow to matter. Drop them.
					close(sub.send)
					delete(h.subs, sub)
					log.Warn("dropped slow preview client", "hub", h.name)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Subscribe registers a new subscriber.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{send: make(chan Message, subscriberBuffer)}
	h.subscribe <- sub
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.unsubscribe <- sub
}

// Broadcast queues a message for all subscribers. Messages are dropped when
// the hub itself is saturated; the preview is best-effort.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		log.Warn("broadcast queue full, dropping message", "hub", h.name)
	}
}

// BroadcastJSON encodes and broadcasts a JSON message.
func (h *Hub) BroadcastJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(Message{Kind: JSONMessage, Data: data})
	return nil
}

// BroadcastBinary broadcasts binary data, e.g. a JPEG frame.
func (h *Hub) BroadcastBinary(data []byte) {
	h.Broadcast(Message{Kind: BinaryMessage, Data: data})
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
