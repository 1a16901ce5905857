package repository

import (
	"context"

	"jharkhand-tourism/internal/model"

	"github.com/jmoiron/sqlx"
)

// ReviewRepository stores destination reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review; a second review by the same user is a conflict.
func (r *ReviewRepository) Create(ctx context.Context, rv *model.Review) (int, error) {
	var id int
	err := conn(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO reviews (user_id, destination_id, rating, title, comment) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		rv.UserID, rv.DestinationID, rv.Rating, rv.Title, rv.Comment).Scan(&id)
	if err != nil {
		return 0, wrapErr("create review", err)
	}
	return id, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int) (*model.Review, error) {
	var rv model.Review
	err := conn(ctx, r.db).GetContext(ctx, &rv,
		`SELECT r.*, u.full_name AS author_name FROM reviews r JOIN users u ON u.id = r.user_id WHERE r.id=$1`, id)
	if err != nil {
		return nil, wrapErr("get review", err)
	}
	return &rv, nil
}

// ListByDestination returns reviews newest first.
func (r *ReviewRepository) ListByDestination(ctx context.Context, destinationID, limit, offset int) ([]model.Review, error) {
	reviews := []model.Review{}
	err := conn(ctx, r.db).SelectContext(ctx, &reviews,
		`SELECT r.*, u.full_name AS author_name FROM reviews r JOIN users u ON u.id = r.user_id
		 WHERE r.destination_id=$1 ORDER BY r.created_at DESC, r.id DESC LIMIT $2 OFFSET $3`,
		destinationID, limit, offset)
	if err != nil {
		return nil, wrapErr("list reviews", err)
	}
	return reviews, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM reviews WHERE id=$1", id)
	if err != nil {
		return wrapErr("delete review", err)
	}
	return expectRow("delete review", res)
}

// Aggregate returns the average rating (one decimal) and count for a destination.
func (r *ReviewRepository) Aggregate(ctx context.Context, destinationID int) (float64, int, error) {
	var agg struct {
		Avg   float64 `db:"avg"`
		Count int     `db:"count"`
	}
	err := conn(ctx, r.db).GetContext(ctx, &agg,
		"SELECT COALESCE(ROUND(AVG(rating)::numeric, 1), 0) AS avg, COUNT(*) AS count FROM reviews WHERE destination_id=$1",
		destinationID)
	if err != nil {
		return 0, 0, wrapErr("aggregate reviews", err)
	}
	return agg.Avg, agg.Count, nil
}
