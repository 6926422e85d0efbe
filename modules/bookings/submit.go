package bookings

import (
	"context"
	"log/slog"
	"strings"

	"github.com/atrium-hq/atrium/internal/timerange"
	"github.com/atrium-hq/atrium/modules/auth"
)

// Per-date failure reasons surfaced to clients.
const (
	ReasonConflict = "conflict"
	ReasonError    = "error"
)

// ValidationError rejects a submission before any store access.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// SubmitRequest is a multi-date booking submission. One row is created per
// accepted date; the dates share all other fields.
type SubmitRequest struct {
	Venue          string   `json:"venue"`
	Dates          []string `json:"dates"`
	StartTime      string   `json:"startTime"`
	EndTime        string   `json:"endTime"`
	PersonInCharge string   `json:"personInCharge"`
	Purpose        string   `json:"purpose"`
	EventName      string   `json:"eventName"`
	ClassType      string   `json:"classType"`
	Pax            string   `json:"pax"`
	Remarks        string   `json:"remarks"`
}

// DateResult records the outcome of one per-date unit.
type DateResult struct {
	Date      string `json:"date"`
	Success   bool   `json:"success"`
	BookingID int64  `json:"bookingId,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// SubmitResult aggregates per-date outcomes. Callers can distinguish full
// success, full failure, and partial success, and always see every date.
type SubmitResult struct {
	Succeeded []DateResult `json:"success"`
	Failed    []DateResult `json:"failed"`
}

func (r *SubmitResult) AllSucceeded() bool { return len(r.Failed) == 0 }
func (r *SubmitResult) AllFailed() bool    { return len(r.Succeeded) == 0 }

func (r *SubmitResult) FailedDates() []string {
	dates := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		dates[i] = f.Date
	}
	return dates
}

// Submit validates the request and then attempts one atomic check-then-insert
// per date. Dates are independent units: a conflict or store failure on one
// never rolls back or blocks another. A ValidationError means nothing was
// attempted.
func (m *Module) Submit(ctx context.Context, req *SubmitRequest, actor *auth.Identity) (*SubmitResult, error) {
	if err := m.validateSubmit(req); err != nil {
		return nil, err
	}
	if actor == nil {
		actor = auth.Anonymous()
	}

	result := &SubmitResult{Succeeded: []DateResult{}, Failed: []DateResult{}}
	for _, date := range req.Dates {
		id, conflicted, err := m.store.CreateIfFree(ctx, &Booking{
			UserID:         actor.ID,
			Username:       actor.Username,
			PersonInCharge: req.PersonInCharge,
			Venue:          req.Venue,
			Purpose:        req.Purpose,
			EventName:      req.EventName,
			ClassType:      req.ClassType,
			Pax:            req.Pax,
			Remarks:        req.Remarks,
			BookingDate:    date,
			StartTime:      req.StartTime,
			EndTime:        req.EndTime,
		})
		switch {
		case err != nil:
			slog.Error("booking unit failed", "venue", req.Venue, "date", date, "error", err)
			result.Failed = append(result.Failed, DateResult{Date: date, Reason: ReasonError})
		case conflicted:
			result.Failed = append(result.Failed, DateResult{Date: date, Reason: ReasonConflict})
		default:
			result.Succeeded = append(result.Succeeded, DateResult{Date: date, Success: true, BookingID: id})
		}
	}
	return result, nil
}

func (m *Module) validateSubmit(req *SubmitRequest) error {
	if len(req.Dates) == 0 {
		return ValidationError("at least one booking date is required")
	}
	seen := map[string]bool{}
	for _, date := range req.Dates {
		if strings.TrimSpace(date) == "" {
			return ValidationError("booking dates must be non-empty")
		}
		if seen[date] {
			return ValidationError("duplicate booking date: " + date)
		}
		seen[date] = true
	}
	if !timerange.Valid(req.StartTime, req.EndTime) {
		return ValidationError("startTime must be before endTime")
	}
	if strings.TrimSpace(req.PersonInCharge) == "" {
		return ValidationError("personInCharge is required")
	}
	if !m.venues.Valid(req.Venue) {
		return ValidationError("unknown venue: " + req.Venue)
	}
	return nil
}
