// Package timerange implements wall-clock "HH:MM" interval arithmetic.
// Times are zero-padded 24h strings, so lexicographic and chronological
// ordering agree. Dates never enter into it - callers compare ISO date
// strings on their own.
package timerange

import (
	"fmt"
	"time"
)

// Overlaps returns true if the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Adjacent intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// Valid returns true if start and end are well-formed and start is strictly
// before end.
func Valid(start, end string) bool {
	s, e := Minutes(start), Minutes(end)
	return s >= 0 && e >= 0 && s < e
}

// Minutes converts an "HH:MM" string to a minute-of-day offset.
// Malformed input returns -1, as do non-canonical forms like "9:00": every
// comparison in this package is lexicographic, so unpadded times must never
// get past validation.
func Minutes(t string) int {
	parsed, err := time.Parse("15:04", t)
	if err != nil || parsed.Format("15:04") != t {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// Format is the inverse of Minutes.
func Format(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Duration returns the length of [start, end) in minutes, or zero when either
// bound is malformed.
func Duration(start, end string) int {
	s, e := Minutes(start), Minutes(end)
	if s < 0 || e < 0 {
		return 0
	}
	return e - s
}
