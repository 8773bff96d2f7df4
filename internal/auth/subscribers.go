package auth

import (
	"sync"

	"github.com/mesh-intelligence/localbase/pkg/types"
)

// Listener receives session transitions. session is nil when signed out.
type Listener func(event types.AuthEvent, session *types.Session)

// Subscription is the handle returned by OnAuthStateChange.
type Subscription struct {
	id       uint64
	registry *registry
}

// Unsubscribe removes the listener. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.registry == nil {
		return
	}
	s.registry.remove(s.id)
}

// registry holds listeners in subscription order.
type registry struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []entry
}

type entry struct {
	id uint64
	fn Listener
}

func (r *registry) add(fn Listener) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.listeners = append(r.listeners, entry{id: r.nextID, fn: fn})
	return &Subscription{id: r.nextID, registry: r}
}

func (r *registry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.listeners {
		if e.id == id {
			r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
			return
		}
	}
}

func (r *registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

// notify hands every listener to call synchronously, in subscription
// order. The listener list is copied first so listeners may unsubscribe
// while being notified.
func (r *registry) notify(event types.AuthEvent, session *types.Session, call func(Listener, types.AuthEvent, *types.Session)) {
	r.mu.Lock()
	listeners := make([]entry, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, e := range listeners {
		call(e.fn, event, session)
	}
}
