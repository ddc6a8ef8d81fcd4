package realtime

import (
	"sync"

	"github.com/blazevtc/blazeride/internal/pkg/constants"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
)

// Session is a driver's live connection handle plus the two topic
// subscriptions it holds. Never persisted.
type Session struct {
	Sub         Subscriber
	PoolTopic   string
	DriverTopic string
}

// Registry guarantees at most one live session per driver. A new
// registration for an already-registered driver evicts the previous
// handle: the old connection is detached from its topics and kicked
// before the new handle becomes canonical.
type Registry struct {
	mu       sync.Mutex
	router   *Router
	sessions map[int64]*Session
}

// NewRegistry creates a registry bound to the router it detaches
// evicted sessions from.
func NewRegistry(router *Router) *Registry {
	return &Registry{
		router:   router,
		sessions: make(map[int64]*Session),
	}
}

// Register installs sess as the driver's only live session and
// subscribes it to its pool and personal topics. Kicking a dead old
// socket is a no-op, not an error.
func (reg *Registry) Register(driverID int64, sess *Session) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if old, ok := reg.sessions[driverID]; ok && old.Sub.ID() != sess.Sub.ID() {
		reg.router.Unsubscribe(old.PoolTopic, old.Sub)
		reg.router.Unsubscribe(old.DriverTopic, old.Sub)
		old.Sub.Kick(constants.KickReasonDuplicate)
		logger.Info("kicked previous socket for driver",
			logger.Int64("driver_id", driverID),
			logger.String("old_conn", old.Sub.ID()))
	}

	reg.sessions[driverID] = sess
	reg.router.Subscribe(sess.PoolTopic, sess.Sub)
	reg.router.Subscribe(sess.DriverTopic, sess.Sub)
}

// Unregister removes the driver's session only if it still belongs to
// sub, so a late disconnect of a superseded connection cannot erase a
// newer one.
func (reg *Registry) Unregister(driverID int64, sub Subscriber) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	cur, ok := reg.sessions[driverID]
	if !ok || cur.Sub.ID() != sub.ID() {
		return
	}

	reg.router.Unsubscribe(cur.PoolTopic, cur.Sub)
	reg.router.Unsubscribe(cur.DriverTopic, cur.Sub)
	delete(reg.sessions, driverID)
}

// Session returns the driver's current session, if any.
func (reg *Registry) Session(driverID int64) (*Session, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	sess, ok := reg.sessions[driverID]
	return sess, ok
}

// Len reports the number of registered sessions.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.sessions)
}
