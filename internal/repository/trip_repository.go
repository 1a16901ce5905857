package repository

import (
	"context"
	"fmt"

	"jharkhand-tourism/internal/model"

	"github.com/jmoiron/sqlx"
)

// TripRepository provides access to itineraries and their stops.
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a new trip repository.
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create creates a draft trip for a user.
func (r *TripRepository) Create(ctx context.Context, userID int, name string) (int, error) {
	query := `INSERT INTO trips (user_id, name, status) VALUES ($1, $2, $3) RETURNING id`
	var id int
	err := conn(ctx, r.db).QueryRowxContext(ctx, query, userID, name, "draft").Scan(&id)
	if err != nil {
		return 0, wrapErr("create trip", err)
	}
	return id, nil
}

func (r *TripRepository) GetByID(ctx context.Context, id int) (*model.Trip, error) {
	var trip model.Trip
	if err := conn(ctx, r.db).GetContext(ctx, &trip, "SELECT * FROM trips WHERE id=$1", id); err != nil {
		return nil, wrapErr("get trip", err)
	}
	return &trip, nil
}

// AddDestination appends a destination to the end of the trip. Inside a
// transaction the trip row is locked first so concurrent appends get
// distinct positions.
func (r *TripRepository) AddDestination(ctx context.Context, tripID, destinationID int) error {
	q := conn(ctx, r.db)
	var locked int
	if err := q.GetContext(ctx, &locked, "SELECT id FROM trips WHERE id=$1"+lockClause(ctx), tripID); err != nil {
		return wrapErr("lock trip", err)
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO trip_destinations (trip_id, destination_id, order_index)
		 SELECT $1, $2, COALESCE(MAX(order_index), 0) + 1 FROM trip_destinations WHERE trip_id=$1`,
		tripID, destinationID)
	return wrapErr("add destination to trip", err)
}

// UpdateOrder rewrites the stop order; run it inside a transaction.
func (r *TripRepository) UpdateOrder(ctx context.Context, tripID int, destinationOrder []int) error {
	q := conn(ctx, r.db)
	for idx, destID := range destinationOrder {
		_, err := q.ExecContext(ctx,
			"UPDATE trip_destinations SET order_index=$1 WHERE trip_id=$2 AND destination_id=$3", idx+1, tripID, destID)
		if err != nil {
			return fmt.Errorf("update trip order: %w", err)
		}
	}
	return nil
}

// SetStatus updates the trip status.
func (r *TripRepository) SetStatus(ctx context.Context, tripID int, status string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE trips SET status=$1 WHERE id=$2", status, tripID)
	return wrapErr("set trip status", err)
}

// GetDestinations returns the stops of a trip in their current order.
func (r *TripRepository) GetDestinations(ctx context.Context, tripID int) ([]model.Destination, error) {
	destinations := []model.Destination{}
	err := conn(ctx, r.db).SelectContext(ctx, &destinations,
		`SELECT d.* FROM trip_destinations td
		 JOIN destinations d ON td.destination_id = d.id
		 WHERE td.trip_id=$1
		 ORDER BY td.order_index`, tripID)
	if err != nil {
		return nil, wrapErr("get trip destinations", err)
	}
	return destinations, nil
}
