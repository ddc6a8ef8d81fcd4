package realtime

import (
	"encoding/json"
	"sync"

	"github.com/blazevtc/blazeride/internal/pkg/logger"
)

// Event is any broadcastable payload with a stable name.
type Event interface {
	EventName() string
}

// Subscriber is a live connection handle. Send must not block: it
// returns false when the message was dropped (full buffer or closed
// connection). Kick asks the connection to close itself.
type Subscriber interface {
	ID() string
	Send(data []byte) bool
	Kick(reason string)
}

// topic holds one subscriber set under its own lock so unrelated
// topics never contend.
type topic struct {
	mu   sync.RWMutex
	subs map[string]Subscriber
}

func (t *topic) add(sub Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs[sub.ID()] = sub
}

func (t *topic) remove(id string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.subs, id)
	return len(t.subs)
}

func (t *topic) snapshot() []Subscriber {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Subscriber, 0, len(t.subs))
	for _, sub := range t.subs {
		out = append(out, sub)
	}
	return out
}

// Router maps topic names to subscriber sets and fans events out to
// them. It knows nothing about ride semantics.
type Router struct {
	mu     sync.RWMutex
	topics map[string]*topic
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{topics: make(map[string]*topic)}
}

// Subscribe attaches sub to the named topic, creating it on first use.
func (r *Router) Subscribe(name string, sub Subscriber) {
	r.mu.Lock()
	t, ok := r.topics[name]
	if !ok {
		t = &topic{subs: make(map[string]Subscriber)}
		r.topics[name] = t
	}
	r.mu.Unlock()

	t.add(sub)
}

// Unsubscribe detaches sub from the named topic. Empty topics are
// dropped so the map does not grow without bound.
func (r *Router) Unsubscribe(name string, sub Subscriber) {
	r.mu.Lock()
	t, ok := r.topics[name]
	r.mu.Unlock()
	if !ok {
		return
	}

	if t.remove(sub.ID()) == 0 {
		r.mu.Lock()
		if t2, ok := r.topics[name]; ok && t2 == t {
			t2.mu.RLock()
			empty := len(t2.subs) == 0
			t2.mu.RUnlock()
			if empty {
				delete(r.topics, name)
			}
		}
		r.mu.Unlock()
	}
}

// UnsubscribeAll detaches sub from every topic it is attached to.
func (r *Router) UnsubscribeAll(sub Subscriber) {
	r.mu.RLock()
	names := make([]string, 0, len(r.topics))
	for name := range r.topics {
		names = append(names, name)
	}
	r.mu.RUnlock()

	for _, name := range names {
		r.Unsubscribe(name, sub)
	}
}

// Subscribers reports how many connections are attached to a topic.
func (r *Router) Subscribers(name string) int {
	r.mu.RLock()
	t, ok := r.topics[name]
	r.mu.RUnlock()
	if !ok {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subs)
}

// envelope is the generic wire shape. Older clients match on the
// flattened direct shape instead, so every event is sent in both.
type envelope struct {
	Type    string `json:"type"`
	Event   string `json:"event"`
	Payload Event  `json:"payload"`
}

// Publish delivers event to every connection currently subscribed to
// the topic, once per recipient per shape, fire-and-forget. A full
// subscriber buffer drops that subscriber's copy with a diagnostic
// rather than stalling the topic.
func (r *Router) Publish(name string, event Event) {
	r.mu.RLock()
	t, ok := r.topics[name]
	r.mu.RUnlock()
	if !ok {
		return
	}

	generic, err := json.Marshal(envelope{Type: "evt", Event: event.EventName(), Payload: event})
	if err != nil {
		logger.Error("failed to marshal event",
			logger.String("event", event.EventName()),
			logger.Err(err))
		return
	}

	direct, err := directShape(event)
	if err != nil {
		logger.Error("failed to flatten event",
			logger.String("event", event.EventName()),
			logger.Err(err))
		return
	}

	for _, sub := range t.snapshot() {
		if !sub.Send(generic) {
			logger.Warn("dropped event for slow subscriber",
				logger.String("topic", name),
				logger.String("subscriber", sub.ID()),
				logger.String("event", event.EventName()))
			continue
		}
		if !sub.Send(direct) {
			logger.Warn("dropped direct event for slow subscriber",
				logger.String("topic", name),
				logger.String("subscriber", sub.ID()),
				logger.String("event", event.EventName()))
		}
	}
}

// PublishAll publishes event to several topics, e.g. both aliases of a
// customer channel.
func (r *Router) PublishAll(names []string, event Event) {
	for _, name := range names {
		r.Publish(name, event)
	}
}

// directShape flattens the event fields to the top level next to a
// "type" discriminator.
func directShape(event Event) ([]byte, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	flat := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	flat["type"] = json.RawMessage(`"` + event.EventName() + `"`)

	return json.Marshal(flat)
}
