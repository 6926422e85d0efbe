// Package bookings implements the reservation core of Atrium: the booking
// store, the conflict checker, and the multi-date transactional submission
// flow.
package bookings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/atrium-hq/atrium/engine"
	"github.com/atrium-hq/atrium/engine/db"
	"github.com/atrium-hq/atrium/modules/auth"
	"github.com/atrium-hq/atrium/modules/venues"
)

const migration = `
CREATE TABLE IF NOT EXISTS bookings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
    user_id TEXT NOT NULL DEFAULT 'anonymous',
    username TEXT NOT NULL DEFAULT 'guest',
    person_in_charge TEXT NOT NULL,
    venue TEXT NOT NULL,
    purpose TEXT NOT NULL DEFAULT '',
    event_name TEXT NOT NULL DEFAULT '',
    class_type TEXT NOT NULL DEFAULT '',
    pax TEXT NOT NULL DEFAULT '',
    remarks TEXT NOT NULL DEFAULT '',
    booking_date TEXT NOT NULL,
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL
) STRICT;

CREATE INDEX IF NOT EXISTS bookings_venue_date_idx ON bookings(venue, booking_date);
CREATE INDEX IF NOT EXISTS bookings_date_idx ON bookings(booking_date);
`

// defaultTTL is how long booking rows are retained. 2 years in seconds.
const defaultTTL = 2 * 365 * 24 * 60 * 60

type Module struct {
	store     Store
	venues    *venues.Module
	suggester Suggester
}

func New(d *sql.DB, venues *venues.Module, suggester Suggester) *Module {
	db.MustMigrate(d, migration)
	return &Module{
		store:     newStore(d),
		venues:    venues,
		suggester: suggester,
	}
}

func (m *Module) AttachRoutes(router *engine.Router) {
	router.Handle("POST", "/api/check-conflicts", m.handleCheckConflicts)
	router.Handle("POST", "/api/bookings", router.WithAuthn(m.handleSubmit))
	router.Handle("GET", "/api/bookings", m.handleList)
	router.Handle("DELETE", "/api/bookings/:id", m.handleDelete)
	router.Handle("DELETE", "/api/bookings", router.WithAdmin(m.handlePurge))
}

func (m *Module) AttachWorkers(mgr *engine.ProcMgr) {
	mgr.Add(engine.Poll(time.Hour, m.cleanupOldBookings))
}

func (m *Module) handleCheckConflicts(r *http.Request, _ httprouter.Params) engine.Response {
	req := &ConflictCheck{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return engine.ClientErrorf("invalid json")
	}

	result, err := m.CheckConflicts(r.Context(), req)
	if err != nil {
		slog.Error("conflict check failed", "venue", req.Venue, "error", err)
		return engine.JSONStatus(http.StatusInternalServerError, &ConflictResult{Status: StatusError, Conflicts: []Booking{}})
	}
	return engine.JSON(result)
}

type submitResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Details *SubmitResult `json:"details"`
}

func (m *Module) handleSubmit(r *http.Request, _ httprouter.Params) engine.Response {
	req := &SubmitRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return engine.ClientErrorf("invalid json")
	}

	result, err := m.Submit(r.Context(), req, auth.From(r.Context()))
	if verr, ok := err.(ValidationError); ok {
		return engine.ClientErrorf("%s", verr)
	}
	if err != nil {
		return engine.Error(err)
	}

	switch {
	case result.AllSucceeded():
		return engine.JSONStatus(http.StatusCreated, &submitResponse{
			Success: true,
			Message: "all bookings were created",
			Details: result,
		})
	case result.AllFailed():
		return engine.JSONStatus(http.StatusConflict, &submitResponse{
			Message: "no bookings were created",
			Details: result,
		})
	default:
		return engine.JSONStatus(http.StatusMultiStatus, &submitResponse{
			Message: fmt.Sprintf("bookings for %s failed; the rest were created", strings.Join(result.FailedDates(), ", ")),
			Details: result,
		})
	}
}

func (m *Module) handleList(r *http.Request, _ httprouter.Params) engine.Response {
	query := r.URL.Query()
	rows, err := m.store.FindByDateRange(r.Context(), query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		return engine.Error(err)
	}
	return engine.JSON(rows)
}

func (m *Module) handleDelete(r *http.Request, ps httprouter.Params) engine.Response {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil {
		return engine.ClientErrorf("invalid booking id")
	}

	changed, err := m.store.DeleteByID(r.Context(), id)
	if err != nil {
		return engine.Error(err)
	}
	if changed == 0 {
		return engine.NotFoundf("booking not found")
	}
	return engine.JSON(map[string]bool{"success": true})
}

func (m *Module) handlePurge(r *http.Request, _ httprouter.Params) engine.Response {
	if err := m.store.DeleteAll(r.Context()); err != nil {
		return engine.Error(err)
	}
	return engine.Empty()
}

func (m *Module) cleanupOldBookings(ctx context.Context) bool {
	start := time.Now()
	changed, err := m.store.DeleteCreatedBefore(ctx, time.Now().Unix()-defaultTTL)
	if err != nil {
		slog.Error("failed to cleanup old bookings", "error", err)
		return false
	}
	if changed > 0 {
		slog.Info("cleaned up old bookings", "duration", time.Since(start), "rows", changed)
	}
	return false
}
