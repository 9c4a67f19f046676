// Package realtime is the best-effort fan-out channel for live UI
// updates. It is not a system of record: the persisted order and
// payment rows stay authoritative, and delivery is never guaranteed.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	EventCountdownUpdate = "countdownUpdate"

	// Per-subscriber buffer; a subscriber that falls this far behind
	// starts losing messages rather than blocking the broadcaster.
	subscriberBuffer = 16
)

type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	origin  string
}

type Hub struct {
	mu     sync.RWMutex
	subs   map[string]chan Message
	closed bool

	instanceID string
	rdb        *redis.Client
	channel    string
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subs:       make(map[string]chan Message),
		instanceID: uuid.NewString(),
		log:        log,
	}
}

// AttachRedis bridges broadcasts over a pub/sub channel so every
// instance behind a load balancer fans out the same events. The
// listener runs until ctx is cancelled.
func (h *Hub) AttachRedis(ctx context.Context, rdb *redis.Client, channel string) {
	h.rdb = rdb
	h.channel = channel
	go h.listen(ctx)
}

func (h *Hub) listen(ctx context.Context) {
	sub := h.rdb.Subscribe(ctx, h.channel)
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-sub.Channel():
			if !ok {
				return
			}
			var env struct {
				Origin  string          `json:"origin"`
				Event   string          `json:"event"`
				Payload json.RawMessage `json:"payload"`
			}
			if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
				h.log.Warn().Err(err).Msg("realtime: bad bridge message")
				continue
			}
			if env.Origin == h.instanceID {
				continue // already delivered locally
			}
			h.deliver(Message{Event: env.Event, Payload: env.Payload})
		}
	}
}

// Subscribe registers a receiver. The returned cancel func must be
// called when the client goes away.
func (h *Hub) Subscribe() (<-chan Message, func()) {
	id := uuid.NewString()
	ch := make(chan Message, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[id] = ch
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
		h.mu.Unlock()
	}
}

// Broadcast fans out to every local subscriber and, when bridged, to
// the other instances. Failures are logged and swallowed.
func (h *Hub) Broadcast(event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn().Err(err).Str("event", event).Msg("realtime: marshal payload")
		return
	}
	h.deliver(Message{Event: event, Payload: raw, origin: h.instanceID})

	if h.rdb != nil {
		env, _ := json.Marshal(map[string]any{
			"origin":  h.instanceID,
			"event":   event,
			"payload": json.RawMessage(raw),
		})
		if err := h.rdb.Publish(context.Background(), h.channel, env).Err(); err != nil {
			h.log.Warn().Err(err).Str("event", event).Msg("realtime: bridge publish")
		}
	}
}

func (h *Hub) deliver(m Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- m:
		default:
			// Slow subscriber; drop rather than block.
		}
	}
}

// Close drops every subscriber. Pending bridge messages are discarded.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

// SubscriberCount is used by tests and the health endpoint.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
