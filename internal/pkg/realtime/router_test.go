package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSub records everything delivered to it.
type fakeSub struct {
	mu     sync.Mutex
	id     string
	msgs   [][]byte
	kicks  []string
	refuse bool
}

func newFakeSub(id string) *fakeSub {
	return &fakeSub{id: id}
}

func (f *fakeSub) ID() string { return f.id }

func (f *fakeSub) Send(data []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refuse {
		return false
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.msgs = append(f.msgs, cp)
	return true
}

func (f *fakeSub) Kick(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kicks = append(f.kicks, reason)
}

func (f *fakeSub) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.msgs))
	copy(out, f.msgs)
	return out
}

func (f *fakeSub) kicked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.kicks))
	copy(out, f.kicks)
	return out
}

type testEvent struct {
	RequestID int64  `json:"requestId"`
	Note      string `json:"note,omitempty"`
}

func (testEvent) EventName() string { return "ride.requested" }

func TestRouter_PublishReachesExactSubscribers(t *testing.T) {
	r := NewRouter()

	inPool := newFakeSub("a")
	alsoInPool := newFakeSub("b")
	otherPool := newFakeSub("c")

	r.Subscribe(PoolTopic("eco", "city-default"), inPool)
	r.Subscribe(PoolTopic("eco", "city-default"), alsoInPool)
	r.Subscribe(PoolTopic("vip", "city-default"), otherPool)

	r.Publish(PoolTopic("eco", "city-default"), testEvent{RequestID: 42})

	// one generic plus one direct frame per subscriber
	assert.Len(t, inPool.received(), 2)
	assert.Len(t, alsoInPool.received(), 2)
	assert.Empty(t, otherPool.received())
}

func TestRouter_DualFormat(t *testing.T) {
	r := NewRouter()
	sub := newFakeSub("a")
	r.Subscribe("driver.1", sub)

	r.Publish("driver.1", testEvent{RequestID: 7, Note: "hello"})

	msgs := sub.received()
	require.Len(t, msgs, 2)

	var generic struct {
		Type    string `json:"type"`
		Event   string `json:"event"`
		Payload struct {
			RequestID int64  `json:"requestId"`
			Note      string `json:"note"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msgs[0], &generic))
	assert.Equal(t, "evt", generic.Type)
	assert.Equal(t, "ride.requested", generic.Event)
	assert.Equal(t, int64(7), generic.Payload.RequestID)
	assert.Equal(t, "hello", generic.Payload.Note)

	var direct struct {
		Type      string `json:"type"`
		RequestID int64  `json:"requestId"`
		Note      string `json:"note"`
	}
	require.NoError(t, json.Unmarshal(msgs[1], &direct))
	assert.Equal(t, "ride.requested", direct.Type)
	assert.Equal(t, int64(7), direct.RequestID)
	assert.Equal(t, "hello", direct.Note)
}

func TestRouter_SlowSubscriberDoesNotStallTopic(t *testing.T) {
	r := NewRouter()
	slow := newFakeSub("slow")
	slow.refuse = true
	healthy := newFakeSub("healthy")

	r.Subscribe("customer.1", slow)
	r.Subscribe("customer.1", healthy)

	r.Publish("customer.1", testEvent{RequestID: 1})

	assert.Empty(t, slow.received())
	assert.Len(t, healthy.received(), 2)
}

func TestRouter_UnsubscribeStopsDelivery(t *testing.T) {
	r := NewRouter()
	sub := newFakeSub("a")

	r.Subscribe("customer.9", sub)
	r.Unsubscribe("customer.9", sub)
	r.Publish("customer.9", testEvent{RequestID: 9})

	assert.Empty(t, sub.received())
	assert.Equal(t, 0, r.Subscribers("customer.9"))
}

func TestRouter_UnsubscribeAll(t *testing.T) {
	r := NewRouter()
	sub := newFakeSub("a")
	keep := newFakeSub("b")

	r.Subscribe("driver.1", sub)
	r.Subscribe("pool.eco.north", sub)
	r.Subscribe("pool.eco.north", keep)

	r.UnsubscribeAll(sub)

	assert.Equal(t, 0, r.Subscribers("driver.1"))
	assert.Equal(t, 1, r.Subscribers("pool.eco.north"))
}

func TestRouter_PublishToUnknownTopicIsNoop(t *testing.T) {
	r := NewRouter()
	// must not panic
	r.Publish("pool.eco.nowhere", testEvent{RequestID: 1})
}

func TestRouter_ConcurrentSubscribePublish(t *testing.T) {
	r := NewRouter()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		sub := newFakeSub(string(rune('a' + i)))
		go func() {
			defer wg.Done()
			r.Subscribe("pool.eco.city", sub)
			r.Unsubscribe("pool.eco.city", sub)
		}()
		go func() {
			defer wg.Done()
			r.Publish("pool.eco.city", testEvent{RequestID: 1})
		}()
	}
	wg.Wait()
}
