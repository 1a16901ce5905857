package repository

import (
	"context"
	"time"

	"jharkhand-tourism/internal/model"

	"github.com/jmoiron/sqlx"
)

// FestivalRepository provides access to the cultural calendar.
type FestivalRepository struct {
	db *sqlx.DB
}

// NewFestivalRepository creates a new festival repository.
func NewFestivalRepository(db *sqlx.DB) *FestivalRepository {
	return &FestivalRepository{db: db}
}

// FindOverlapping returns festivals that touch [from, to], optionally in one district.
func (r *FestivalRepository) FindOverlapping(ctx context.Context, from, to time.Time, district string) ([]model.Festival, error) {
	query := "SELECT * FROM festivals WHERE start_date <= ? AND end_date >= ?"
	args := []interface{}{to, from}
	if district != "" {
		query += " AND (LOWER(district)=LOWER(?) OR district='')"
		args = append(args, district)
	}
	query += " ORDER BY start_date, name"
	festivals := []model.Festival{}
	if err := conn(ctx, r.db).SelectContext(ctx, &festivals, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, wrapErr("find festivals", err)
	}
	return festivals, nil
}

// FindUpcoming returns festivals still running on or after from.
func (r *FestivalRepository) FindUpcoming(ctx context.Context, from time.Time, limit int) ([]model.Festival, error) {
	festivals := []model.Festival{}
	err := conn(ctx, r.db).SelectContext(ctx, &festivals,
		"SELECT * FROM festivals WHERE end_date >= $1 ORDER BY start_date, name LIMIT $2", from, limit)
	if err != nil {
		return nil, wrapErr("find upcoming festivals", err)
	}
	return festivals, nil
}

func (r *FestivalRepository) GetByID(ctx context.Context, id int) (*model.Festival, error) {
	var f model.Festival
	if err := conn(ctx, r.db).GetContext(ctx, &f, "SELECT * FROM festivals WHERE id=$1", id); err != nil {
		return nil, wrapErr("get festival", err)
	}
	return &f, nil
}

func (r *FestivalRepository) Create(ctx context.Context, f *model.Festival) (int, error) {
	var id int
	err := conn(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO festivals (name, description, community, district, start_date, end_date, highlights, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		f.Name, f.Description, f.Community, f.District, f.StartDate, f.EndDate, f.Highlights, f.ImageURL).Scan(&id)
	if err != nil {
		return 0, wrapErr("create festival", err)
	}
	return id, nil
}

func (r *FestivalRepository) Update(ctx context.Context, f *model.Festival) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE festivals SET name=$1, description=$2, community=$3, district=$4, start_date=$5, end_date=$6,
		 highlights=$7, image_url=$8 WHERE id=$9`,
		f.Name, f.Description, f.Community, f.District, f.StartDate, f.EndDate, f.Highlights, f.ImageURL, f.ID)
	if err != nil {
		return wrapErr("update festival", err)
	}
	return expectRow("update festival", res)
}

func (r *FestivalRepository) Delete(ctx context.Context, id int) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM festivals WHERE id=$1", id)
	if err != nil {
		return wrapErr("delete festival", err)
	}
	return expectRow("delete festival", res)
}
