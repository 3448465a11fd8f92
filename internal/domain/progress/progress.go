// Package progress computes plan completion percentages.
package progress

import "math"

// Percent returns round(100*completed/total), clamped to 0..100.
// An empty plan is 0% complete.
func Percent(completed, total int64) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
