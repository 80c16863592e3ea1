package transcript

import "translatetube/models"

// ActiveSegment returns the index of the first segment (in list order) whose
// time range contains t, or -1 when none does.
//
// The scan is a plain O(n) pass: transcripts run to a few hundred segments
// at most, so no interval index is warranted. First-match order doubles as
// the tie-break when ranges spuriously overlap — if t equals one segment's
// end and the next segment's start, the earlier segment wins. Inverted or
// zero-width ranges from imperfect upstream data simply never match (or
// match only at their single point) instead of causing a failure.
func ActiveSegment(t float64, segments []models.Segment) int {
	for i := range segments {
		if t >= segments[i].Start && t <= segments[i].End {
			return i
		}
	}
	return -1
}
