package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"go.uber.org/atomic"

	"url-shortener-api/internal/cache"
)

// Client is one event subscriber. Send is only ever called from the
// subscriber's own delivery goroutine, so it may block.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event types broadcast to subscribers.
const (
	EventShortened = "link.shortened"
	EventEvicted   = "link.evicted"
)

// Event describes a change to the set of live links.
type Event struct {
	Type   string `json:"type"`
	Token  string `json:"token"`
	URL    string `json:"url,omitempty"`
	Reason string `json:"reason,omitempty"`
	At     string `json:"at"`
}

// QueueSize is how many undelivered events a subscriber may lag behind before
// further events to it are dropped.
const QueueSize = 64

// subscriber owns the outbound queue of one client. Only its run goroutine
// calls client.Send, so a slow client never holds up a broadcaster.
type subscriber struct {
	client Client
	queue  chan []byte
	quit   chan struct{}
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.quit:
			return
		case msg := <-s.queue:
			// a failed write is cleaned up by the ws handler's reader loop
			_ = s.client.Send(msg)
		}
	}
}

// Hub maintains active subscriber connections and broadcasts link events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[Client]*subscriber
	dropped atomic.Uint64
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[Client]*subscriber)}
}

// Register adds a subscriber and starts its delivery goroutine.
func (h *Hub) Register(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		return
	}
	s := &subscriber{
		client: client,
		queue:  make(chan []byte, QueueSize),
		quit:   make(chan struct{}),
	}
	h.clients[client] = s
	go s.run()
}

// Unregister removes a subscriber and stops its delivery goroutine. Queued
// events are discarded.
func (h *Hub) Unregister(client Client) {
	h.mu.Lock()
	s, ok := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()
	if ok {
		close(s.quit)
	}
}

// Close unregisters every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.clients
	h.clients = make(map[Client]*subscriber)
	h.mu.Unlock()
	for _, s := range subs {
		close(s.quit)
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many events were discarded because a subscriber's queue was full.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Broadcast queues a message for all subscribers. It never blocks; a
// subscriber whose queue is full misses the message.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.clients {
		select {
		case s.queue <- message:
		default:
			h.dropped.Inc()
		}
	}
}

// Publish encodes evt and broadcasts it. Nothing is encoded without subscribers.
func (h *Hub) Publish(evt Event) {
	if h.Len() == 0 {
		return
	}
	if evt.At == "" {
		evt.At = time.Now().UTC().Format(time.RFC3339Nano)
	}
	bytes, err := json.Marshal(evt)
	if err != nil {
		log.Println("encode link event:", err)
		return
	}
	h.Broadcast(bytes)
}

// Shortened implements shortener.Observer.
func (h *Hub) Shortened(token, url string) {
	h.Publish(Event{Type: EventShortened, Token: token, URL: url})
}

// Recovered implements shortener.Observer. Lookups are not broadcast.
func (h *Hub) Recovered(string, bool) {}

// Exhausted implements shortener.Observer.
func (h *Hub) Exhausted(uint64) {}

// Evicted publishes the removal of a link from the cache.
func (h *Hub) Evicted(token string, reason cache.EvictionReason) {
	h.Publish(Event{Type: EventEvicted, Token: token, Reason: string(reason)})
}
