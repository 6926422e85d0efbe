package bookings

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Booking is one reserved interval of one venue on one calendar date.
// A multi-date reservation is stored as independent rows sharing metadata.
type Booking struct {
	ID             int64  `json:"id"`
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	PersonInCharge string `json:"person_in_charge"`
	Venue          string `json:"venue"`
	Purpose        string `json:"purpose"`
	EventName      string `json:"event_name"`
	ClassType      string `json:"class_type"`
	Pax            string `json:"pax"`
	Remarks        string `json:"remarks"`
	BookingDate    string `json:"booking_date"` // YYYY-MM-DD
	StartTime      string `json:"start_time"`   // HH:MM
	EndTime        string `json:"end_time"`     // HH:MM
	Created        int64  `json:"created_at"`
}

// Store is the persistence boundary of the bookings module. The conflict and
// submission logic depend only on this contract, so tests can substitute any
// implementation that honors it.
type Store interface {
	// CreateIfFree atomically re-checks for overlapping rows on the booking's
	// (venue, date) and inserts only when none exist. It reports a conflict
	// instead of inserting when the window is taken.
	CreateIfFree(ctx context.Context, b *Booking) (id int64, conflicted bool, err error)

	FindOverlapping(ctx context.Context, venue, date, startTime, endTime string) ([]Booking, error)
	FindByVenueAndDates(ctx context.Context, venue string, dates []string) ([]Booking, error)
	// FindByDateRange returns rows ordered by date then start time. Empty
	// bounds are unbounded.
	FindByDateRange(ctx context.Context, startDate, endDate string) ([]Booking, error)
	DeleteByID(ctx context.Context, id int64) (changed int64, err error)
	DeleteAll(ctx context.Context) error
	DeleteCreatedBefore(ctx context.Context, epoch int64) (changed int64, err error)
}

const bookingColumns = "id, created, user_id, username, person_in_charge, venue, purpose, event_name, class_type, pax, remarks, booking_date, start_time, end_time"

// sqliteStore implements Store on the shared sqlite handle. The handle is
// limited to a single connection, so the transaction in CreateIfFree
// serializes every check-then-insert pair.
type sqliteStore struct {
	db *sql.DB
}

func newStore(db *sql.DB) *sqliteStore { return &sqliteStore{db: db} }

func (s *sqliteStore) CreateIfFree(ctx context.Context, b *Booking) (int64, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("starting txn: %w", err)
	}
	defer tx.Rollback()

	var n int64
	err = tx.QueryRowContext(ctx, "SELECT count(*) FROM bookings WHERE venue = ? AND booking_date = ? AND start_time < ? AND end_time > ?",
		b.Venue, b.BookingDate, b.EndTime, b.StartTime).Scan(&n)
	if err != nil {
		return 0, false, fmt.Errorf("checking for overlap: %w", err)
	}
	if n > 0 {
		return 0, true, nil
	}

	result, err := tx.ExecContext(ctx, "INSERT INTO bookings (user_id, username, person_in_charge, venue, purpose, event_name, class_type, pax, remarks, booking_date, start_time, end_time) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		b.UserID, b.Username, b.PersonInCharge, b.Venue, b.Purpose, b.EventName, b.ClassType, b.Pax, b.Remarks, b.BookingDate, b.StartTime, b.EndTime)
	if err != nil {
		return 0, false, fmt.Errorf("inserting booking: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, false, err
	}
	return id, false, tx.Commit()
}

func (s *sqliteStore) FindOverlapping(ctx context.Context, venue, date, startTime, endTime string) ([]Booking, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE venue = ? AND booking_date = ? AND start_time < ? AND end_time > ? ORDER BY start_time",
		venue, date, endTime, startTime)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

func (s *sqliteStore) FindByVenueAndDates(ctx context.Context, venue string, dates []string) ([]Booking, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(dates)), ",")
	args := make([]any, 0, len(dates)+1)
	args = append(args, venue)
	for _, date := range dates {
		args = append(args, date)
	}

	query := fmt.Sprintf("SELECT %s FROM bookings WHERE venue = ? AND booking_date IN (%s) ORDER BY booking_date, start_time", bookingColumns, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

func (s *sqliteStore) FindByDateRange(ctx context.Context, startDate, endDate string) ([]Booking, error) {
	query := "SELECT " + bookingColumns + " FROM bookings"
	var args []any
	switch {
	case startDate != "" && endDate != "":
		query += " WHERE booking_date BETWEEN ? AND ?"
		args = append(args, startDate, endDate)
	case startDate != "":
		query += " WHERE booking_date >= ?"
		args = append(args, startDate)
	case endDate != "":
		query += " WHERE booking_date <= ?"
		args = append(args, endDate)
	}
	query += " ORDER BY booking_date ASC, start_time ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

func (s *sqliteStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *sqliteStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM bookings")
	return err
}

func (s *sqliteStore) DeleteCreatedBefore(ctx context.Context, epoch int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM bookings WHERE created < ?", epoch)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanBookings(rows *sql.Rows) ([]Booking, error) {
	defer rows.Close()

	bookings := []Booking{}
	for rows.Next() {
		var b Booking
		err := rows.Scan(&b.ID, &b.Created, &b.UserID, &b.Username, &b.PersonInCharge, &b.Venue, &b.Purpose, &b.EventName, &b.ClassType, &b.Pax, &b.Remarks, &b.BookingDate, &b.StartTime, &b.EndTime)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
