package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPollInterval is how often the widget adapter samples the player's
// position while it reports a playing state. The widget API exposes no
// fine-grained time-update event, so polling stands in for one.
const DefaultPollInterval = 500 * time.Millisecond

// PlayerState is the state-change discriminator reported by the embedded
// widget.
type PlayerState string

const (
	StateUnstarted PlayerState = "unstarted"
	StatePlaying   PlayerState = "playing"
	StatePaused    PlayerState = "paused"
	StateBuffering PlayerState = "buffering"
	StateEnded     PlayerState = "ended"
	StateCued      PlayerState = "cued"
)

// WidgetPlayer is the handle to an embedded third-party player instance.
type WidgetPlayer interface {
	GetCurrentTime() float64
	SeekTo(seconds float64)
	Destroy()
}

// PlayerVars carries the construction parameters for an embedded player.
type PlayerVars struct {
	Autoplay       int    `json:"autoplay"`
	ModestBranding int    `json:"modestbranding"`
	Rel            int    `json:"rel"`
	EnableJSAPI    int    `json:"enablejsapi"`
	Origin         string `json:"origin,omitempty"`
}

// WidgetAPI constructs embedded players. It only exists once the external
// API script has loaded; see Bootstrap.
type WidgetAPI interface {
	NewPlayer(containerID, videoID string, vars PlayerVars) (WidgetPlayer, error)
}

// WidgetAdapter drives playback position from an embedded widget by polling
// GetCurrentTime at a fixed interval, but only while the widget reports a
// playing state. The poll timer is tied to the adapter instance: it stops
// on pause/stop/end and is cancelled for good on Close, so a torn-down
// widget can never be touched by a stale tick.
type WidgetAdapter struct {
	notifier

	mu       sync.Mutex
	player   WidgetPlayer
	position float64
	closed   bool

	interval   time.Duration
	pollCancel context.CancelFunc

	logger *logrus.Logger
}

// NewWidgetAdapter constructs the embedded player and wraps it. If the
// widget construction fails the error is returned as-is and no timer is
// left running. A non-positive interval falls back to DefaultPollInterval.
func NewWidgetAdapter(api WidgetAPI, containerID, videoID string, vars PlayerVars, interval time.Duration, logger *logrus.Logger) (*WidgetAdapter, error) {
	player, err := api.NewPlayer(containerID, videoID, vars)
	if err != nil {
		return nil, fmt.Errorf("widget player construction failed: %w", err)
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &WidgetAdapter{
		player:   player,
		interval: interval,
		logger:   logger,
	}, nil
}

// HandleStateChange reacts to the widget's state-change notification.
// Entering the playing state starts the poll timer; every other state stops
// it immediately so no timer outlives playback.
func (a *WidgetAdapter) HandleStateChange(state PlayerState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	if state == StatePlaying {
		a.startPollingLocked()
	} else {
		a.stopPollingLocked()
	}
}

// startPollingLocked replaces any running poll loop; two loops must never
// run for the same adapter.
func (a *WidgetAdapter) startPollingLocked() {
	a.stopPollingLocked()

	ctx, cancel := context.WithCancel(context.Background())
	a.pollCancel = cancel
	go a.pollLoop(ctx)
	a.logger.Debugf("widget adapter: polling started (every %v)", a.interval)
}

func (a *WidgetAdapter) stopPollingLocked() {
	if a.pollCancel != nil {
		a.pollCancel()
		a.pollCancel = nil
		a.logger.Debugf("widget adapter: polling stopped")
	}
}

func (a *WidgetAdapter) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.mu.Lock()
			if a.closed {
				a.mu.Unlock()
				return
			}
			pos := a.player.GetCurrentTime()
			a.position = pos
			a.mu.Unlock()

			a.notify(pos)
		}
	}
}

// CurrentPosition returns the last polled position in seconds.
func (a *WidgetAdapter) CurrentPosition() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position
}

// Seek dispatches to the widget's seekTo primitive.
func (a *WidgetAdapter) Seek(seconds float64) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return fmt.Errorf("widget adapter is closed")
	}
	a.player.SeekTo(seconds)
	a.position = seconds
	a.mu.Unlock()

	a.notify(seconds)
	return nil
}

// Close cancels any poll timer and destroys the widget instance. It must be
// called before constructing a replacement adapter so that two timers never
// coexist.
func (a *WidgetAdapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.stopPollingLocked()
	a.closed = true
	a.player.Destroy()
}
