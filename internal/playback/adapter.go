// Package playback unifies position reporting and seeking across the two
// player backends: a native media element and an embedded third-party
// widget. Each backend gets its own adapter behind one capability
// interface; the view controller selects the adapter by video source kind.
package playback

import "sync"

// Adapter is the capability surface shared by both playback backends.
type Adapter interface {
	// CurrentPosition returns the last known playback position in seconds.
	CurrentPosition() float64
	// Seek moves playback to the given position in seconds, dispatching to
	// the backend's underlying primitive.
	Seek(seconds float64) error
	// OnPosition registers fn to be called on every position update. The
	// returned function removes the subscription.
	OnPosition(fn func(seconds float64)) (cancel func())
	// Close releases the underlying player handle and stops any background
	// work. Safe to call more than once.
	Close()
}

// notifier manages position subscriptions for an adapter. Callbacks are
// invoked without holding the adapter's own lock so that a subscriber may
// call back into the adapter.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(float64)
}

func (n *notifier) OnPosition(fn func(seconds float64)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(float64))
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

func (n *notifier) notify(seconds float64) {
	n.mu.Lock()
	fns := make([]func(float64), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(seconds)
	}
}
