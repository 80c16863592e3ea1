package playback

import "sync"

// MediaElement is the native media playback collaborator: a currentTime
// property that can be read and written. Time-update notifications from the
// element arrive through LocalAdapter.ReportTimeUpdate.
type MediaElement interface {
	CurrentTime() float64
	SetCurrentTime(seconds float64)
}

// LocalAdapter drives playback position from a native media element. The
// element pushes time-update notifications, so this variant is purely
// event-driven and needs no polling.
type LocalAdapter struct {
	notifier

	mu       sync.Mutex
	media    MediaElement
	position float64
}

// NewLocalAdapter wraps a native media element.
func NewLocalAdapter(media MediaElement) *LocalAdapter {
	return &LocalAdapter{media: media}
}

// ReportTimeUpdate handles the native "time update" notification: it reads
// the element's current time and fans it out to subscribers.
func (a *LocalAdapter) ReportTimeUpdate() {
	a.mu.Lock()
	pos := a.media.CurrentTime()
	a.position = pos
	a.mu.Unlock()

	a.notify(pos)
}

// CurrentPosition returns the last reported position in seconds.
func (a *LocalAdapter) CurrentPosition() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position
}

// Seek assigns the element's currentTime and updates subscribers so the
// active segment recomputes without waiting for the next time update.
func (a *LocalAdapter) Seek(seconds float64) error {
	a.mu.Lock()
	a.media.SetCurrentTime(seconds)
	a.position = seconds
	a.mu.Unlock()

	a.notify(seconds)
	return nil
}

// Close is a no-op for the local variant; the media element outlives the
// adapter and holds no gateway-side resources.
func (a *LocalAdapter) Close() {}
