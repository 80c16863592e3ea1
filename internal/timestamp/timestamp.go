// Package timestamp converts between the textual MM:SS / HH:MM:SS form used
// by the analysis service and numeric seconds.
package timestamp

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts an MM:SS or HH:MM:SS string into seconds. Malformed input
// (wrong number of parts, non-numeric or negative parts) yields 0 rather
// than an error; upstream text is imperfect and playback must keep working.
func Parse(text string) float64 {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0
		}
		nums[i] = n
	}

	if len(nums) == 2 {
		return float64(nums[0]*60 + nums[1])
	}
	return float64(nums[0]*3600 + nums[1]*60 + nums[2])
}

// Format renders seconds as MM:SS, or HH:MM:SS at one hour and above. The
// producer only emits MM:SS, but the codec round-trips longer values so that
// Parse(Format(s)) == s holds for any non-negative integer s.
func Format(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)

	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
