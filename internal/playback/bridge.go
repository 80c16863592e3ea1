package playback

import (
	"fmt"
	"sync"
)

// The bridge types relay the browser-side players across the HTTP boundary.
// The page reports current time and state changes through the gateway's
// playback endpoints; seeks issued gateway-side are parked until the page
// polls them off and applies them to the real player.

// BridgeMedia is the HTTP-relay implementation of MediaElement.
type BridgeMedia struct {
	mu          sync.Mutex
	current     float64
	pendingSeek *float64
}

// NewBridgeMedia returns a media bridge at position zero.
func NewBridgeMedia() *BridgeMedia {
	return &BridgeMedia{}
}

// CurrentTime returns the last time reported by the page.
func (m *BridgeMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// SetCurrentTime records a seek for the page to apply. The local position
// moves immediately so highlighting tracks the seek without a round trip.
func (m *BridgeMedia) SetCurrentTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := seconds
	m.pendingSeek = &s
	m.current = seconds
}

// ReportTime ingests a time-update notification from the page.
func (m *BridgeMedia) ReportTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = seconds
}

// ConsumePendingSeek pops the parked seek target, if one exists.
func (m *BridgeMedia) ConsumePendingSeek() (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pendingSeek == nil {
		return 0, false
	}
	s := *m.pendingSeek
	m.pendingSeek = nil
	return s, true
}

// BridgeWidgetAPI is the HTTP-relay implementation of WidgetAPI. It hands
// out BridgeWidget players and keeps a reference to the most recent one so
// the playback endpoints can route reports to it.
type BridgeWidgetAPI struct {
	mu      sync.Mutex
	current *BridgeWidget
}

// NewBridgeWidgetAPI returns an empty widget API bridge.
func NewBridgeWidgetAPI() *BridgeWidgetAPI {
	return &BridgeWidgetAPI{}
}

// NewPlayer creates a bridge player for the given video ID.
func (api *BridgeWidgetAPI) NewPlayer(containerID, videoID string, vars PlayerVars) (WidgetPlayer, error) {
	if videoID == "" {
		return nil, fmt.Errorf("widget player requires a video ID")
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	api.current = &BridgeWidget{containerID: containerID, videoID: videoID, vars: vars}
	return api.current, nil
}

// Current returns the most recently constructed player, if it has not been
// destroyed.
func (api *BridgeWidgetAPI) Current() (*BridgeWidget, bool) {
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.current == nil || api.current.destroyed() {
		return nil, false
	}
	return api.current, true
}

// BridgeWidget is the HTTP-relay implementation of WidgetPlayer.
type BridgeWidget struct {
	mu          sync.Mutex
	containerID string
	videoID     string
	vars        PlayerVars
	current     float64
	pendingSeek *float64
	dead        bool
}

// VideoID returns the hosting-platform ID this player was constructed for.
func (w *BridgeWidget) VideoID() string {
	return w.videoID
}

// GetCurrentTime returns the last time reported by the page's widget.
func (w *BridgeWidget) GetCurrentTime() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// SeekTo parks a seek for the page to apply to the real widget.
func (w *BridgeWidget) SeekTo(seconds float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := seconds
	w.pendingSeek = &s
	w.current = seconds
}

// Destroy marks the player dead; further reports are dropped.
func (w *BridgeWidget) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dead = true
}

func (w *BridgeWidget) destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dead
}

// ReportTime ingests the widget time relayed by the page.
func (w *BridgeWidget) ReportTime(seconds float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dead {
		return
	}
	w.current = seconds
}

// ConsumePendingSeek pops the parked seek target, if one exists.
func (w *BridgeWidget) ConsumePendingSeek() (float64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pendingSeek == nil {
		return 0, false
	}
	s := *w.pendingSeek
	w.pendingSeek = nil
	return s, true
}
