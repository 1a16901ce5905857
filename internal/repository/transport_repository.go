package repository

import (
	"context"
	"fmt"
	"time"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/model"

	"github.com/jmoiron/sqlx"
)

// FlightRepository provides access to flight schedules and seats.
type FlightRepository struct {
	db *sqlx.DB
}

// NewFlightRepository creates a new flight repository.
func NewFlightRepository(db *sqlx.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// Search lists flights on a route with at least f.Passengers free seats.
func (r *FlightRepository) Search(ctx context.Context, f model.RouteFilter) ([]model.Flight, error) {
	query, args := routeQuery("flights", f)
	flights := []model.Flight{}
	if err := conn(ctx, r.db).SelectContext(ctx, &flights, query, args...); err != nil {
		return nil, wrapErr("search flights", err)
	}
	return flights, nil
}

func (r *FlightRepository) GetByID(ctx context.Context, id int) (*model.Flight, error) {
	var f model.Flight
	if err := conn(ctx, r.db).GetContext(ctx, &f, "SELECT * FROM flights WHERE id=$1", id); err != nil {
		return nil, wrapErr("get flight", err)
	}
	return &f, nil
}

func (r *FlightRepository) Create(ctx context.Context, f *model.Flight) (int, error) {
	var id int
	err := conn(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO flights (airline, flight_number, origin, destination, departure_time, arrival_time, price, total_seats, available_seats)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		f.Airline, f.FlightNumber, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime, f.Price, f.TotalSeats, f.AvailableSeats).Scan(&id)
	if err != nil {
		return 0, wrapErr("create flight", err)
	}
	return id, nil
}

// ReserveSeats takes n seats if that many are free.
func (r *FlightRepository) ReserveSeats(ctx context.Context, id, n int) error {
	return reserveSeats(ctx, conn(ctx, r.db), "flights", id, n)
}

// ReleaseSeats returns n seats to the inventory.
func (r *FlightRepository) ReleaseSeats(ctx context.Context, id, n int) error {
	return releaseSeats(ctx, conn(ctx, r.db), "flights", id, n)
}

// BusRepository provides access to bus schedules and seats.
type BusRepository struct {
	db *sqlx.DB
}

// NewBusRepository creates a new bus repository.
func NewBusRepository(db *sqlx.DB) *BusRepository {
	return &BusRepository{db: db}
}

func (r *BusRepository) Search(ctx context.Context, f model.RouteFilter) ([]model.Bus, error) {
	query, args := routeQuery("buses", f)
	buses := []model.Bus{}
	if err := conn(ctx, r.db).SelectContext(ctx, &buses, query, args...); err != nil {
		return nil, wrapErr("search buses", err)
	}
	return buses, nil
}

func (r *BusRepository) GetByID(ctx context.Context, id int) (*model.Bus, error) {
	var b model.Bus
	if err := conn(ctx, r.db).GetContext(ctx, &b, "SELECT * FROM buses WHERE id=$1", id); err != nil {
		return nil, wrapErr("get bus", err)
	}
	return &b, nil
}

func (r *BusRepository) Create(ctx context.Context, b *model.Bus) (int, error) {
	var id int
	err := conn(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO buses (operator, bus_type, origin, destination, departure_time, arrival_time, price, total_seats, available_seats)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		b.Operator, b.BusType, b.Origin, b.Destination, b.DepartureTime, b.ArrivalTime, b.Price, b.TotalSeats, b.AvailableSeats).Scan(&id)
	if err != nil {
		return 0, wrapErr("create bus", err)
	}
	return id, nil
}

func (r *BusRepository) ReserveSeats(ctx context.Context, id, n int) error {
	return reserveSeats(ctx, conn(ctx, r.db), "buses", id, n)
}

func (r *BusRepository) ReleaseSeats(ctx context.Context, id, n int) error {
	return releaseSeats(ctx, conn(ctx, r.db), "buses", id, n)
}

func routeQuery(table string, f model.RouteFilter) (string, []interface{}) {
	query := "SELECT * FROM " + table + " WHERE available_seats >= ?"
	passengers := f.Passengers
	if passengers < 1 {
		passengers = 1
	}
	args := []interface{}{passengers}
	if f.Origin != "" {
		query += " AND LOWER(origin)=LOWER(?)"
		args = append(args, f.Origin)
	}
	if f.Destination != "" {
		query += " AND LOWER(destination)=LOWER(?)"
		args = append(args, f.Destination)
	}
	if f.Date.IsZero() {
		query += " AND departure_time > NOW()"
	} else {
		day := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, f.Date.Location())
		query += " AND departure_time >= ? AND departure_time < ?"
		args = append(args, day, day.AddDate(0, 0, 1))
	}
	query += " ORDER BY departure_time"
	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

// reserveSeats decrements the free seat count in a single statement so two
// bookings can never both take the last seat.
func reserveSeats(ctx context.Context, q queryer, table string, id, n int) error {
	res, err := q.ExecContext(ctx,
		"UPDATE "+table+" SET available_seats = available_seats - $1 WHERE id=$2 AND available_seats >= $1", n, id)
	if err != nil {
		return wrapErr("reserve seats", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve seats: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("reserve %d seats on %s %d: %w", n, table, id, apperr.ErrNoAvailability)
	}
	return nil
}

func releaseSeats(ctx context.Context, q queryer, table string, id, n int) error {
	res, err := q.ExecContext(ctx,
		"UPDATE "+table+" SET available_seats = LEAST(total_seats, available_seats + $1) WHERE id=$2", n, id)
	if err != nil {
		return wrapErr("release seats", err)
	}
	return expectRow("release seats", res)
}
