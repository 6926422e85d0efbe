package bookings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atrium-hq/atrium/engine/db"
)

func newTestStore(t *testing.T) *sqliteStore {
	d := db.OpenTest(t)
	db.MustMigrate(d, migration)
	return newStore(d)
}

func testBooking(venue, date, start, end string) *Booking {
	return &Booking{
		UserID:         "anonymous",
		Username:       "guest",
		PersonInCharge: "Laura",
		Venue:          venue,
		Purpose:        "team meeting",
		BookingDate:    date,
		StartTime:      start,
		EndTime:        end,
	}
}

func mustCreate(t *testing.T, s Store, b *Booking) int64 {
	id, conflicted, err := s.CreateIfFree(context.Background(), b)
	require.NoError(t, err)
	require.False(t, conflicted)
	return id
}

func TestStoreCreateIfFree(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	id := mustCreate(t, s, testBooking("101", "2025-07-01", "09:00", "10:30"))
	assert.Greater(t, id, int64(0))

	// Overlapping window on the same venue/date conflicts
	_, conflicted, err := s.CreateIfFree(ctx, testBooking("101", "2025-07-01", "10:00", "11:00"))
	require.NoError(t, err)
	assert.True(t, conflicted)

	// Adjacent window does not
	id2, conflicted, err := s.CreateIfFree(ctx, testBooking("101", "2025-07-01", "10:30", "11:00"))
	require.NoError(t, err)
	assert.False(t, conflicted)
	assert.Greater(t, id2, id)

	// Same window on another venue or date is free
	mustCreate(t, s, testBooking("102", "2025-07-01", "09:00", "10:30"))
	mustCreate(t, s, testBooking("101", "2025-07-02", "09:00", "10:30"))

	// The conflicted attempt must not have left a row behind
	rows, err := s.FindByDateRange(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestStoreFindOverlapping(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	mustCreate(t, s, testBooking("101", "2025-07-01", "09:00", "10:30"))
	mustCreate(t, s, testBooking("101", "2025-07-01", "13:00", "14:00"))

	rows, err := s.FindOverlapping(ctx, "101", "2025-07-01", "10:00", "13:30")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "09:00", rows[0].StartTime)
	assert.Equal(t, "13:00", rows[1].StartTime)

	rows, err = s.FindOverlapping(ctx, "101", "2025-07-01", "10:30", "13:00")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStoreFindByVenueAndDates(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	mustCreate(t, s, testBooking("101", "2025-07-01", "09:00", "10:00"))
	mustCreate(t, s, testBooking("101", "2025-07-02", "09:00", "10:00"))
	mustCreate(t, s, testBooking("101", "2025-07-03", "09:00", "10:00"))
	mustCreate(t, s, testBooking("102", "2025-07-01", "09:00", "10:00"))

	rows, err := s.FindByVenueAndDates(ctx, "101", []string{"2025-07-01", "2025-07-03"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-07-01", rows[0].BookingDate)
	assert.Equal(t, "2025-07-03", rows[1].BookingDate)

	rows, err = s.FindByVenueAndDates(ctx, "101", nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStoreFindByDateRange(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	mustCreate(t, s, testBooking("101", "2025-07-02", "09:00", "10:00"))
	mustCreate(t, s, testBooking("101", "2025-07-01", "14:00", "15:00"))
	mustCreate(t, s, testBooking("102", "2025-07-01", "08:00", "09:00"))
	mustCreate(t, s, testBooking("101", "2025-07-04", "09:00", "10:00"))

	// Ordered by date then start time
	rows, err := s.FindByDateRange(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "08:00", rows[0].StartTime)
	assert.Equal(t, "14:00", rows[1].StartTime)
	assert.Equal(t, "2025-07-02", rows[2].BookingDate)
	assert.Equal(t, "2025-07-04", rows[3].BookingDate)

	rows, err = s.FindByDateRange(ctx, "2025-07-02", "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = s.FindByDateRange(ctx, "", "2025-07-01")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = s.FindByDateRange(ctx, "2025-07-02", "2025-07-03")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStoreDelete(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	id := mustCreate(t, s, testBooking("101", "2025-07-01", "09:00", "10:00"))
	mustCreate(t, s, testBooking("101", "2025-07-02", "09:00", "10:00"))

	changed, err := s.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	changed, err = s.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, changed)

	require.NoError(t, s.DeleteAll(ctx))
	rows, err := s.FindByDateRange(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStoreRetention(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	mustCreate(t, s, testBooking("101", "2020-01-01", "09:00", "10:00"))

	// Rows created just now survive a sweep with any past cutoff
	changed, err := s.DeleteCreatedBefore(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, changed)

	_, err = s.db.ExecContext(ctx, "UPDATE bookings SET created = 1000")
	require.NoError(t, err)

	changed, err = s.DeleteCreatedBefore(ctx, 2000)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)
}
