// Package suggestions proposes alternative free time slots when a booking
// request conflicts with existing reservations. Suggestions come from a
// chat-completions API when one is configured, with a deterministic local
// generator as the fallback.
package suggestions

import (
	"github.com/atrium-hq/atrium/internal/timerange"
)

// maxSuggestions bounds every suggestion list, AI-sourced or generated.
const maxSuggestions = 3

// Slot is a proposed alternative interval on the same date as the request.
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Window is an occupied interval the suggestions must avoid.
type Window struct {
	Start   string
	End     string
	Purpose string
}

// Generator enumerates open slots inside business hours. It is pure: no
// clock, no network, no randomness.
type Generator struct {
	OpenTime    string // e.g. "08:00"
	CloseTime   string // e.g. "22:00"
	SlotMinutes int    // start-time granularity
}

// Slots returns up to three non-conflicting slots of the given duration, in
// chronological order. Candidate starts advance by SlotMinutes from opening
// time; slots that would extend past closing time are discarded.
func (g *Generator) Slots(durationMinutes int, busy []Window) []Slot {
	if durationMinutes <= 0 {
		return nil
	}
	opening := timerange.Minutes(g.OpenTime)
	closing := timerange.Minutes(g.CloseTime)
	if opening < 0 || closing < 0 {
		return nil
	}
	step := g.SlotMinutes
	if step <= 0 {
		step = 30
	}

	var slots []Slot
	for start := opening; start+durationMinutes <= closing; start += step {
		s := timerange.Format(start)
		e := timerange.Format(start + durationMinutes)
		if conflictsAny(s, e, busy) {
			continue
		}
		slots = append(slots, Slot{StartTime: s, EndTime: e})
		if len(slots) == maxSuggestions {
			break
		}
	}
	return slots
}

func conflictsAny(start, end string, busy []Window) bool {
	for _, w := range busy {
		if timerange.Overlaps(start, end, w.Start, w.End) {
			return true
		}
	}
	return false
}
