// Package session implements the view-controller state of the gateway: the
// single active video source, its transcript, and the playback adapter that
// tracks it. The original interaction model is event-driven with one writer
// at a time; here a mutex stands in for the event loop's sequencing.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"translatetube/config"
	"translatetube/internal/playback"
	"translatetube/internal/transcript"
	"translatetube/models"
)

// widgetContainerID is the DOM element the host page reserves for the
// embedded player.
const widgetContainerID = "yt-player"

var (
	// ErrNoSource is returned when analysis or playback is requested before
	// any video source has been selected.
	ErrNoSource = errors.New("no video source selected")
	// ErrAnalysisInFlight gates re-entry while an analysis call is running.
	ErrAnalysisInFlight = errors.New("an analysis is already in progress")
	// ErrSourceChanged marks an analysis whose result arrived after the
	// video source it was started for had been replaced.
	ErrSourceChanged = errors.New("video source changed during analysis; results discarded")
	// ErrNoTranscript is returned for segment operations before a
	// successful analysis.
	ErrNoTranscript = errors.New("no transcript available")
	// ErrNoPlayer is returned when a playback operation arrives before an
	// adapter exists (e.g. the embedded player has not settled yet).
	ErrNoPlayer = errors.New("no active player")
)

// Analyzer is the analysis capability the controller drives.
type Analyzer interface {
	Analyze(ctx context.Context, src models.VideoSource, sourceLang, targetLang string) (*models.AnalysisResult, error)
}

// Controller owns the mutable application state. All of it is invalidated
// together when the video source changes: the transcript store is cleared,
// the previous adapter is closed (cancelling any poll timer), and a
// previously uploaded file is removed from gateway storage.
type Controller struct {
	mu sync.Mutex

	logger    *logrus.Logger
	analyzer  Analyzer
	bootstrap *playback.Bootstrap

	pollInterval time.Duration
	settleDelay  time.Duration

	store       *transcript.Store
	source      *models.VideoSource
	adapter     playback.Adapter
	local       *playback.LocalAdapter
	widget      *playback.WidgetAdapter
	media       *playback.BridgeMedia
	unsubscribe func()
	settleTimer *time.Timer

	analyzing    bool
	generation   uuid.UUID
	notice       string
	lastPosition float64
}

// New creates a controller with an empty store and no active source.
func New(analyzer Analyzer, bootstrap *playback.Bootstrap, cfg config.PlaybackConfig, logger *logrus.Logger) *Controller {
	pollInterval := time.Duration(cfg.PollIntervalMs) * time.Millisecond
	if pollInterval <= 0 {
		pollInterval = playback.DefaultPollInterval
	}
	settleDelay := time.Duration(cfg.SettleDelayMs) * time.Millisecond
	if settleDelay <= 0 {
		settleDelay = 200 * time.Millisecond
	}

	return &Controller{
		logger:       logger,
		analyzer:     analyzer,
		bootstrap:    bootstrap,
		pollInterval: pollInterval,
		settleDelay:  settleDelay,
		store:        transcript.NewStore(),
		generation:   uuid.New(),
	}
}

// SetSource makes src the active video source. Everything belonging to the
// previous source is torn down first: poll timer, widget handle, stored
// upload, transcript.
func (c *Controller) SetSource(src models.VideoSource) error {
	switch src.Kind {
	case models.SourceFile, models.SourceRemoteURL, models.SourceEmbedded:
	default:
		return fmt.Errorf("unknown video source kind %q", src.Kind)
	}

	c.mu.Lock()
	c.teardownLocked()
	c.store.Clear()
	c.notice = ""
	c.lastPosition = 0
	c.generation = uuid.New()
	gen := c.generation
	s := src
	c.source = &s

	if src.Kind != models.SourceEmbedded {
		media := playback.NewBridgeMedia()
		adapter := playback.NewLocalAdapter(media)
		c.media = media
		c.local = adapter
		c.attachLocked(adapter, gen)
	}
	c.mu.Unlock()

	if src.Kind == models.SourceEmbedded {
		// Construction waits on the external API load plus a settle delay;
		// the generation check drops the callback if the source has moved on.
		c.bootstrap.OnReady(func(api playback.WidgetAPI) {
			c.scheduleWidget(gen, api, src.EmbeddedID)
		})
	}

	c.logger.WithFields(logrus.Fields{
		"kind":        src.Kind,
		"embedded_id": src.EmbeddedID,
	}).Info("Video source selected")
	return nil
}

// ClearSource drops the active source and all derived state.
func (c *Controller) ClearSource() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
	c.store.Clear()
	c.notice = ""
	c.lastPosition = 0
	c.generation = uuid.New()
}

// attachLocked wires an adapter's position stream into the controller.
// Callers hold c.mu.
func (c *Controller) attachLocked(adapter playback.Adapter, gen uuid.UUID) {
	c.adapter = adapter
	c.unsubscribe = adapter.OnPosition(func(seconds float64) {
		c.mu.Lock()
		if c.generation == gen {
			c.lastPosition = seconds
		}
		c.mu.Unlock()
	})
}

func (c *Controller) scheduleWidget(gen uuid.UUID, api playback.WidgetAPI, videoID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}
	c.settleTimer = time.AfterFunc(c.settleDelay, func() {
		c.constructWidget(gen, api, videoID)
	})
}

func (c *Controller) constructWidget(gen uuid.UUID, api playback.WidgetAPI, videoID string) {
	vars := playback.PlayerVars{Autoplay: 0, ModestBranding: 1, Rel: 0, EnableJSAPI: 1}
	adapter, err := playback.NewWidgetAdapter(api, widgetContainerID, videoID, vars, c.pollInterval, c.logger)

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		if err == nil {
			adapter.Close()
		}
		return
	}
	if err != nil {
		c.notice = "Embedded player initialization error."
		c.mu.Unlock()
		c.logger.WithError(err).Error("Failed to construct embedded player")
		return
	}
	c.widget = adapter
	c.attachLocked(adapter, gen)
	c.mu.Unlock()

	c.logger.WithField("embedded_id", videoID).Info("Embedded player ready")
}

// teardownLocked releases everything owned on behalf of the current source.
// Callers hold c.mu.
func (c *Controller) teardownLocked() {
	if c.settleTimer != nil {
		c.settleTimer.Stop()
		c.settleTimer = nil
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	if c.adapter != nil {
		c.adapter.Close()
		c.adapter = nil
	}
	c.local = nil
	c.widget = nil
	c.media = nil

	if c.source != nil && c.source.Kind == models.SourceFile && c.source.LocalPath != "" {
		if err := os.Remove(c.source.LocalPath); err != nil && !os.IsNotExist(err) {
			c.logger.WithError(err).Warn("Failed to remove stored upload")
		}
	}
	c.source = nil
}

// Analyze runs one analysis call for the active source. Only one call may
// be outstanding; re-entry is refused rather than queued. A result that
// lands after the source has changed is discarded — the in-flight call
// itself is never aborted.
func (c *Controller) Analyze(ctx context.Context, sourceLang, targetLang string) (*models.AnalysisResult, error) {
	c.mu.Lock()
	if c.source == nil {
		c.mu.Unlock()
		return nil, ErrNoSource
	}
	if c.analyzing {
		c.mu.Unlock()
		return nil, ErrAnalysisInFlight
	}
	src := *c.source
	gen := c.generation
	c.analyzing = true
	c.notice = ""
	c.mu.Unlock()

	result, err := c.analyzer.Analyze(ctx, src, sourceLang, targetLang)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.analyzing = false

	if err != nil {
		c.notice = err.Error()
		return nil, err
	}
	if c.generation != gen {
		c.logger.Warn("Discarding analysis result for a superseded video source")
		return nil, ErrSourceChanged
	}

	c.store.Replace(*result)
	return result, nil
}

// Transcript returns the current analysis result, if one exists.
func (c *Controller) Transcript() (models.AnalysisResult, bool) {
	return c.store.Result()
}

// ReportMediaTime handles a native time-update notification for a local or
// direct-URL source.
func (c *Controller) ReportMediaTime(seconds float64) error {
	c.mu.Lock()
	media := c.media
	local := c.local
	c.mu.Unlock()

	if media == nil || local == nil {
		return ErrNoPlayer
	}
	media.ReportTime(seconds)
	local.ReportTimeUpdate()
	return nil
}

// HandleWidgetState forwards an embedded-player state change to the widget
// adapter, starting or stopping its poll timer.
func (c *Controller) HandleWidgetState(state playback.PlayerState) error {
	c.mu.Lock()
	widget := c.widget
	c.mu.Unlock()

	if widget == nil {
		return ErrNoPlayer
	}
	widget.HandleStateChange(state)
	return nil
}

// WidgetAPIReady marks the external widget API as loaded. Any deferred
// player construction proceeds from here.
func (c *Controller) WidgetAPIReady(api playback.WidgetAPI) {
	c.bootstrap.SetAPI(api)
}

// SeekToSegment jumps playback to the start of the indexed segment
// (click-to-seek).
func (c *Controller) SeekToSegment(index int) error {
	segments := c.store.Segments()
	if len(segments) == 0 {
		return ErrNoTranscript
	}
	if index < 0 || index >= len(segments) {
		return fmt.Errorf("segment index %d out of range [0, %d)", index, len(segments))
	}

	c.mu.Lock()
	adapter := c.adapter
	c.mu.Unlock()
	if adapter == nil {
		return ErrNoPlayer
	}
	return adapter.Seek(segments[index].Start)
}

// ConsumePendingSeek pops a seek parked for the native media element. Seeks
// destined for the embedded widget live on its bridge player instead.
func (c *Controller) ConsumePendingSeek() (float64, bool) {
	c.mu.Lock()
	media := c.media
	c.mu.Unlock()
	if media == nil {
		return 0, false
	}
	return media.ConsumePendingSeek()
}

// DismissNotice clears the user-visible notice.
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = ""
}

// State is a snapshot of the controller for the UI.
type State struct {
	SourceKind    models.SourceKind `json:"source_kind,omitempty"`
	EmbeddedID    string            `json:"embedded_id,omitempty"`
	VideoURL      string            `json:"video_url,omitempty"`
	Analyzing     bool              `json:"analyzing"`
	Notice        string            `json:"notice,omitempty"`
	Position      float64           `json:"position"`
	ActiveSegment int               `json:"active_segment"`
	SegmentCount  int               `json:"segment_count"`
	WidgetReady   bool              `json:"widget_ready"`
	PlayerActive  bool              `json:"player_active"`
	PendingSeek   *float64          `json:"pending_seek,omitempty"`
}

// State returns the current snapshot. The active segment is recomputed from
// the freshest position on every call; it is a pure function of position
// and transcript, never cached.
func (c *Controller) State() State {
	c.mu.Lock()
	st := State{
		Analyzing:    c.analyzing,
		Notice:       c.notice,
		Position:     c.lastPosition,
		WidgetReady:  c.bootstrap.Ready(),
		PlayerActive: c.adapter != nil,
	}
	if c.source != nil {
		st.SourceKind = c.source.Kind
		st.EmbeddedID = c.source.EmbeddedID
		st.VideoURL = c.source.URL
	}
	adapter := c.adapter
	c.mu.Unlock()

	if adapter != nil {
		st.Position = adapter.CurrentPosition()
	}
	segments := c.store.Segments()
	st.SegmentCount = len(segments)
	st.ActiveSegment = transcript.ActiveSegment(st.Position, segments)
	return st
}

// Close tears down the active source; used on shutdown.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardownLocked()
	c.store.Clear()
}
