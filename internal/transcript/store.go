// Package transcript holds the ordered segment list for the active video
// and resolves which segment is current for a playback position.
package transcript

import (
	"sync"

	"translatetube/models"
)

// Store is the ordered, immutable-once-fetched transcript of the active
// video. A whole AnalysisResult is swapped in atomically; there is no merge
// or append path. Read access returns the sequence in producer order — the
// store never re-sorts.
type Store struct {
	mu     sync.RWMutex
	result *models.AnalysisResult
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a new analysis result, discarding all previous contents.
func (s *Store) Replace(result models.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = &result
}

// Clear empties the store. Invoked when the video source changes.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = nil
}

// Segments returns the ordered segment sequence, or nil when no analysis
// has completed. Callers must not mutate the returned slice.
func (s *Store) Segments() []models.Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return nil
	}
	return s.result.Segments
}

// Result returns the full analysis result and whether one is present.
func (s *Store) Result() (models.AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return models.AnalysisResult{}, false
	}
	return *s.result, true
}

// Len returns the number of segments currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return 0
	}
	return len(s.result.Segments)
}
