package transcript_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"translatetube/internal/transcript"
	"translatetube/models"
)

func contiguousSegments() []models.Segment {
	return []models.Segment{
		{Start: 0, End: 5, OriginalText: "first"},
		{Start: 5, End: 10, OriginalText: "second"},
		{Start: 10, End: 15, OriginalText: "third"},
	}
}

func TestActiveSegment(t *testing.T) {
	segs := contiguousSegments()

	t.Run("inside a segment", func(t *testing.T) {
		assert.Equal(t, 1, transcript.ActiveSegment(7, segs))
	})

	t.Run("start of first segment", func(t *testing.T) {
		assert.Equal(t, 0, transcript.ActiveSegment(0, segs))
	})

	// At a shared boundary both the ending and the starting segment qualify;
	// the earlier one wins because the scan picks the first match.
	t.Run("boundary tie goes to the earlier segment", func(t *testing.T) {
		assert.Equal(t, 0, transcript.ActiveSegment(5, segs))
		assert.Equal(t, 1, transcript.ActiveSegment(10, segs))
	})

	t.Run("past all segments", func(t *testing.T) {
		assert.Equal(t, -1, transcript.ActiveSegment(16, segs))
	})

	t.Run("before all segments", func(t *testing.T) {
		assert.Equal(t, -1, transcript.ActiveSegment(-1, segs))
	})

	t.Run("empty list", func(t *testing.T) {
		assert.Equal(t, -1, transcript.ActiveSegment(3, nil))
	})
}

func TestActiveSegmentDefensive(t *testing.T) {
	t.Run("zero-width segment matches at its point", func(t *testing.T) {
		segs := []models.Segment{{Start: 4, End: 4}}
		assert.Equal(t, 0, transcript.ActiveSegment(4, segs))
		assert.Equal(t, -1, transcript.ActiveSegment(4.5, segs))
	})

	t.Run("inverted range never matches", func(t *testing.T) {
		segs := []models.Segment{
			{Start: 10, End: 5},
			{Start: 5, End: 20},
		}
		assert.Equal(t, 1, transcript.ActiveSegment(7, segs))
	})

	t.Run("overlapping ranges pick the first in list order", func(t *testing.T) {
		segs := []models.Segment{
			{Start: 0, End: 10},
			{Start: 5, End: 15},
		}
		assert.Equal(t, 0, transcript.ActiveSegment(7, segs))
		assert.Equal(t, 1, transcript.ActiveSegment(12, segs))
	})
}
