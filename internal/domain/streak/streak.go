// Package streak implements the day-gap streak policy.
//
// Days are calendar days in a configured location:
//   - first completion ever: 1
//   - previous completion earlier the same day: unchanged (at least 1)
//   - previous completion on the previous day: +1
//   - any larger gap, or a previous completion dated after now: reset to 1
package streak

import "time"

// Advance returns the streak after a completion at now.
func Advance(current int, last *time.Time, now time.Time, loc *time.Location) int {
	if last == nil {
		return 1
	}
	switch DaysBetween(*last, now, loc) {
	case 0:
		return max(current, 1)
	case 1:
		return current + 1
	default:
		return 1
	}
}

// Longest returns the longer of the recorded best and the current streak.
func Longest(longest, current int) int {
	return max(longest, current)
}

// DaysBetween counts calendar-day boundaries from a to b in loc. It is
// negative when b falls on an earlier day than a.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	da := day(a.In(loc))
	db := day(b.In(loc))
	return int(db.Sub(da).Hours() / 24)
}

// day returns midnight UTC of t's calendar date so DST shifts do not skew
// the day arithmetic.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
