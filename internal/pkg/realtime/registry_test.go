package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blazevtc/blazeride/internal/pkg/constants"
)

func driverSession(sub Subscriber, driverID int64) *Session {
	return &Session{
		Sub:         sub,
		PoolTopic:   PoolTopic("eco", "city-default"),
		DriverTopic: DriverTopic(driverID),
	}
}

func TestRegistry_RegisterSubscribesBothTopics(t *testing.T) {
	router := NewRouter()
	reg := NewRegistry(router)

	sub := newFakeSub("conn-1")
	reg.Register(7, driverSession(sub, 7))

	assert.Equal(t, 1, router.Subscribers(PoolTopic("eco", "city-default")))
	assert.Equal(t, 1, router.Subscribers(DriverTopic(7)))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_DuplicateConnectionKicksOld(t *testing.T) {
	router := NewRouter()
	reg := NewRegistry(router)

	first := newFakeSub("conn-1")
	second := newFakeSub("conn-2")

	reg.Register(7, driverSession(first, 7))
	reg.Register(7, driverSession(second, 7))

	require.Equal(t, []string{constants.KickReasonDuplicate}, first.kicked())
	assert.Empty(t, second.kicked())

	// old handle no longer attached to the personal topic
	assert.Equal(t, 1, router.Subscribers(DriverTopic(7)))
	assert.Equal(t, 1, reg.Len())

	sess, ok := reg.Session(7)
	require.True(t, ok)
	assert.Equal(t, "conn-2", sess.Sub.ID())
}

func TestRegistry_ReRegisterSameHandleDoesNotKick(t *testing.T) {
	router := NewRouter()
	reg := NewRegistry(router)

	sub := newFakeSub("conn-1")
	reg.Register(7, driverSession(sub, 7))
	reg.Register(7, driverSession(sub, 7))

	assert.Empty(t, sub.kicked())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_UnregisterIgnoresSupersededHandle(t *testing.T) {
	router := NewRouter()
	reg := NewRegistry(router)

	first := newFakeSub("conn-1")
	second := newFakeSub("conn-2")

	reg.Register(7, driverSession(first, 7))
	reg.Register(7, driverSession(second, 7))

	// the evicted socket's disconnect arrives late
	reg.Unregister(7, first)

	sess, ok := reg.Session(7)
	require.True(t, ok)
	assert.Equal(t, "conn-2", sess.Sub.ID())
	assert.Equal(t, 1, router.Subscribers(DriverTopic(7)))
}

func TestRegistry_UnregisterRemovesSubscriptions(t *testing.T) {
	router := NewRouter()
	reg := NewRegistry(router)

	sub := newFakeSub("conn-1")
	reg.Register(7, driverSession(sub, 7))
	reg.Unregister(7, sub)

	assert.Equal(t, 0, router.Subscribers(DriverTopic(7)))
	assert.Equal(t, 0, router.Subscribers(PoolTopic("eco", "city-default")))
	assert.Equal(t, 0, reg.Len())

	_, ok := reg.Session(7)
	assert.False(t, ok)
}
