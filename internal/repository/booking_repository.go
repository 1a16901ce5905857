package repository

import (
	"context"
	"fmt"

	"jharkhand-tourism/internal/model"

	"github.com/jmoiron/sqlx"
)

// BookingRepository stores hotel, flight and bus reservations.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateHotelBooking inserts a hotel reservation and returns its ID.
func (r *BookingRepository) CreateHotelBooking(ctx context.Context, b *model.HotelBooking) (int, error) {
	query := `INSERT INTO hotel_bookings (reference, user_id, hotel_id, room_id, check_in, check_out, rooms, guests,
	          guest_name, guest_email, guest_phone, nights, total_amount, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	var id int
	err := conn(ctx, r.db).QueryRowxContext(ctx, query, b.Reference, b.UserID, b.HotelID, b.RoomID, b.CheckIn, b.CheckOut,
		b.Rooms, b.Guests, b.GuestName, b.GuestEmail, b.GuestPhone, b.Nights, b.TotalAmount, b.Status).Scan(&id)
	if err != nil {
		return 0, wrapErr("create hotel booking", err)
	}
	return id, nil
}

// GetHotelBooking returns a hotel reservation by ID; inside a transaction the row is locked.
func (r *BookingRepository) GetHotelBooking(ctx context.Context, id int) (*model.HotelBooking, error) {
	var b model.HotelBooking
	if err := conn(ctx, r.db).GetContext(ctx, &b, "SELECT * FROM hotel_bookings WHERE id=$1"+lockClause(ctx), id); err != nil {
		return nil, wrapErr("get hotel booking", err)
	}
	return &b, nil
}

// CreateSeatBooking inserts a flight or bus reservation.
func (r *BookingRepository) CreateSeatBooking(ctx context.Context, kind string, b *model.SeatBooking) (int, error) {
	table, fk, err := seatTable(kind)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`INSERT INTO %s (reference, user_id, %s, passengers, seats, contact_email, contact_phone, total_amount, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`, table, fk)
	var id int
	err = conn(ctx, r.db).QueryRowxContext(ctx, query, b.Reference, b.UserID, b.ServiceID, b.Passengers, b.Seats,
		b.ContactEmail, b.ContactPhone, b.TotalAmount, b.Status).Scan(&id)
	if err != nil {
		return 0, wrapErr("create "+kind+" booking", err)
	}
	return id, nil
}

// GetSeatBooking returns a flight or bus reservation by ID; inside a transaction the row is locked.
func (r *BookingRepository) GetSeatBooking(ctx context.Context, kind string, id int) (*model.SeatBooking, error) {
	table, fk, err := seatTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, reference, user_id, %s AS service_id, passengers, seats, contact_email, contact_phone,
	          total_amount, status, created_at FROM %s WHERE id=$1`, fk, table) + lockClause(ctx)
	var b model.SeatBooking
	if err := conn(ctx, r.db).GetContext(ctx, &b, query, id); err != nil {
		return nil, wrapErr("get "+kind+" booking", err)
	}
	return &b, nil
}

// UpdateStatus changes the status of a booking of any kind.
func (r *BookingRepository) UpdateStatus(ctx context.Context, kind string, id int, status string) error {
	table, err := bookingTable(kind)
	if err != nil {
		return err
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE "+table+" SET status=$1 WHERE id=$2", status, id)
	if err != nil {
		return wrapErr("update booking status", err)
	}
	return expectRow("update booking status", res)
}

// Summary returns the kind-agnostic view of one booking.
func (r *BookingRepository) Summary(ctx context.Context, kind string, id int) (*model.BookingSummary, error) {
	table, err := bookingTable(kind)
	if err != nil {
		return nil, err
	}
	var s model.BookingSummary
	query := "SELECT $1::text AS kind, id, reference, user_id, total_amount, status, created_at FROM " + table + " WHERE id=$2" + lockClause(ctx)
	if err := conn(ctx, r.db).GetContext(ctx, &s, query, kind, id); err != nil {
		return nil, wrapErr("get booking", err)
	}
	return &s, nil
}

const summaryUnion = `
	SELECT 'hotel' AS kind, id, reference, user_id, total_amount, status, created_at FROM hotel_bookings
	UNION ALL
	SELECT 'flight' AS kind, id, reference, user_id, total_amount, status, created_at FROM flight_bookings
	UNION ALL
	SELECT 'bus' AS kind, id, reference, user_id, total_amount, status, created_at FROM bus_bookings`

// ListByUser returns every booking of a user, newest first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int) ([]model.BookingSummary, error) {
	list := []model.BookingSummary{}
	query := "SELECT * FROM (" + summaryUnion + ") b WHERE user_id=$1 ORDER BY created_at DESC"
	if err := conn(ctx, r.db).SelectContext(ctx, &list, query, userID); err != nil {
		return nil, wrapErr("list user bookings", err)
	}
	return list, nil
}

// List returns bookings for the admin console, filtered by kind and status.
func (r *BookingRepository) List(ctx context.Context, kind, status string) ([]model.BookingSummary, error) {
	query := "SELECT * FROM (" + summaryUnion + ") b WHERE 1=1"
	args := []interface{}{}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"
	list := []model.BookingSummary{}
	if err := conn(ctx, r.db).SelectContext(ctx, &list, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, wrapErr("list bookings", err)
	}
	return list, nil
}

// FindByReference locates a booking of any kind by its public reference.
func (r *BookingRepository) FindByReference(ctx context.Context, reference string) (*model.BookingSummary, error) {
	var s model.BookingSummary
	query := "SELECT * FROM (" + summaryUnion + ") b WHERE reference=$1"
	if err := conn(ctx, r.db).GetContext(ctx, &s, query, reference); err != nil {
		return nil, wrapErr("find booking by reference", err)
	}
	return &s, nil
}

// Stats aggregates booking counts per kind and confirmed revenue.
func (r *BookingRepository) Stats(ctx context.Context) (map[string]int64, float64, error) {
	rows := []struct {
		Kind    string  `db:"kind"`
		Count   int64   `db:"count"`
		Revenue float64 `db:"revenue"`
	}{}
	query := `SELECT kind, COUNT(*) AS count,
	          COALESCE(SUM(CASE WHEN status='confirmed' THEN total_amount ELSE 0 END), 0) AS revenue
	          FROM (` + summaryUnion + `) b GROUP BY kind`
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, 0, wrapErr("booking stats", err)
	}
	counts := map[string]int64{model.KindHotel: 0, model.KindFlight: 0, model.KindBus: 0}
	var revenue float64
	for _, row := range rows {
		counts[row.Kind] = row.Count
		revenue += row.Revenue
	}
	return counts, revenue, nil
}

func bookingTable(kind string) (string, error) {
	switch kind {
	case model.KindHotel:
		return "hotel_bookings", nil
	case model.KindFlight:
		return "flight_bookings", nil
	case model.KindBus:
		return "bus_bookings", nil
	}
	return "", fmt.Errorf("unknown booking kind %q", kind)
}

func seatTable(kind string) (table, fk string, err error) {
	switch kind {
	case model.KindFlight:
		return "flight_bookings", "flight_id", nil
	case model.KindBus:
		return "bus_bookings", "bus_id", nil
	}
	return "", "", fmt.Errorf("no seat bookings for kind %q", kind)
}
