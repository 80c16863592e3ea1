package playback

import "sync"

// Bootstrap tracks the one-time load of the external widget API script.
// The load is asynchronous and out of the gateway's control: the API
// becomes usable only when the host page announces it. Until then, widget
// construction must be deferred behind OnReady.
type Bootstrap struct {
	mu        sync.Mutex
	api       WidgetAPI
	ready     bool
	callbacks []func(WidgetAPI)
}

// NewBootstrap returns a bootstrap in the not-ready state.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// SetAPI marks the external API as loaded and fires all pending one-shot
// callbacks in registration order. Subsequent calls replace the API handle
// but callbacks only ever fire once each.
func (b *Bootstrap) SetAPI(api WidgetAPI) {
	b.mu.Lock()
	b.api = api
	b.ready = true
	pending := b.callbacks
	b.callbacks = nil
	b.mu.Unlock()

	for _, fn := range pending {
		fn(api)
	}
}

// Ready reports whether the external API has loaded.
func (b *Bootstrap) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// API returns the loaded API handle, if any.
func (b *Bootstrap) API() (WidgetAPI, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.api, b.ready
}

// OnReady registers a one-shot callback for when the external API loads.
// If it is already loaded the callback runs immediately on the caller's
// goroutine.
func (b *Bootstrap) OnReady(fn func(WidgetAPI)) {
	b.mu.Lock()
	if b.ready {
		api := b.api
		b.mu.Unlock()
		fn(api)
		return
	}
	b.callbacks = append(b.callbacks, fn)
	b.mu.Unlock()
}
