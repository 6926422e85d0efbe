package bookings

import (
	"context"

	"github.com/atrium-hq/atrium/internal/timerange"
	"github.com/atrium-hq/atrium/modules/suggestions"
)

// Conflict check statuses. "idle" means the request was too incomplete to
// check and is not an error.
const (
	StatusIdle      = "idle"
	StatusAvailable = "available"
	StatusConflict  = "conflict"
	StatusError     = "error"
)

// Suggester produces alternative slots for a conflicting request. It must
// absorb its own failures; the conflict checker treats its answer as final.
type Suggester interface {
	Suggest(ctx context.Context, venue, date, startTime, endTime string, busy []suggestions.Window) []suggestions.Slot
}

// ConflictCheck is a conflict-detection request. Either Dates or the legacy
// single Date field may be set.
type ConflictCheck struct {
	Venue     string   `json:"venue"`
	Dates     []string `json:"dates"`
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
}

type ConflictResult struct {
	Status      string             `json:"status"`
	Conflicts   []Booking          `json:"conflicts"`
	Suggestions []suggestions.Slot `json:"suggestions,omitempty"`
}

// CheckConflicts loads all stored bookings for the requested venue and dates
// in one query and tests each requested date's interval against them. It is
// read-only. When conflicts exist, the suggestion step runs anchored on the
// first requested date only.
func (m *Module) CheckConflicts(ctx context.Context, req *ConflictCheck) (*ConflictResult, error) {
	dates := req.Dates
	if len(dates) == 0 && req.Date != "" {
		dates = []string{req.Date}
	}

	result := &ConflictResult{Status: StatusIdle, Conflicts: []Booking{}}
	if len(dates) == 0 || req.StartTime == "" || req.EndTime == "" {
		return result, nil
	}
	if !timerange.Valid(req.StartTime, req.EndTime) {
		return result, nil
	}

	stored, err := m.store.FindByVenueAndDates(ctx, req.Venue, dates)
	if err != nil {
		return nil, err
	}

	for _, date := range dates {
		for _, b := range stored {
			if b.BookingDate != date {
				continue
			}
			if timerange.Overlaps(req.StartTime, req.EndTime, b.StartTime, b.EndTime) {
				result.Conflicts = append(result.Conflicts, b)
			}
		}
	}

	if len(result.Conflicts) == 0 {
		result.Status = StatusAvailable
		return result, nil
	}

	result.Status = StatusConflict
	result.Suggestions = m.suggester.Suggest(ctx, req.Venue, dates[0], req.StartTime, req.EndTime, busyWindows(result.Conflicts))
	return result, nil
}

func busyWindows(conflicts []Booking) []suggestions.Window {
	windows := make([]suggestions.Window, len(conflicts))
	for i, b := range conflicts {
		windows[i] = suggestions.Window{Start: b.StartTime, End: b.EndTime, Purpose: b.Purpose}
	}
	return windows
}
