package repository

import (
	"context"
	"strings"

	"jharkhand-tourism/internal/model"

	"github.com/jmoiron/sqlx"
)

// DestinationRepository provides access to destinations and their photos.
type DestinationRepository struct {
	db *sqlx.DB
}

// NewDestinationRepository creates a new destination repository.
func NewDestinationRepository(db *sqlx.DB) *DestinationRepository {
	return &DestinationRepository{db: db}
}

// FindAll returns every destination ordered by name.
func (r *DestinationRepository) FindAll(ctx context.Context) ([]model.Destination, error) {
	destinations := []model.Destination{}
	err := conn(ctx, r.db).SelectContext(ctx, &destinations, "SELECT * FROM destinations ORDER BY name")
	if err != nil {
		return nil, wrapErr("list destinations", err)
	}
	return destinations, nil
}

// FindByFilters searches destinations by category, district, minimum rating
// and keyword. Empty and "any" values do not filter.
func (r *DestinationRepository) FindByFilters(ctx context.Context, f model.DestinationFilter) ([]model.Destination, error) {
	query := "SELECT * FROM destinations WHERE 1=1"
	args := []interface{}{}
	if f.Category != "" && strings.ToLower(f.Category) != "any" {
		query += " AND LOWER(category)=LOWER(?)"
		args = append(args, f.Category)
	}
	if f.District != "" && strings.ToLower(f.District) != "any" {
		query += " AND LOWER(district)=LOWER(?)"
		args = append(args, f.District)
	}
	if f.MinRating > 0 {
		query += " AND rating >= ?"
		args = append(args, f.MinRating)
	}
	if f.Keyword != "" {
		kw := "%" + strings.ToLower(f.Keyword) + "%"
		query += " AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)"
		args = append(args, kw, kw)
	}
	switch f.Sort {
	case "rating":
		query += " ORDER BY rating ASC, name"
	case "-rating":
		query += " ORDER BY rating DESC, name"
	default:
		query += " ORDER BY name"
	}
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)
	destinations := []model.Destination{}
	if err := conn(ctx, r.db).SelectContext(ctx, &destinations, query, args...); err != nil {
		return nil, wrapErr("search destinations", err)
	}
	return destinations, nil
}

// GetByID returns a destination by ID.
func (r *DestinationRepository) GetByID(ctx context.Context, id int) (*model.Destination, error) {
	var d model.Destination
	err := conn(ctx, r.db).GetContext(ctx, &d, "SELECT * FROM destinations WHERE id=$1", id)
	if err != nil {
		return nil, wrapErr("get destination", err)
	}
	return &d, nil
}

// GetBySlug returns a destination by its URL slug.
func (r *DestinationRepository) GetBySlug(ctx context.Context, slug string) (*model.Destination, error) {
	var d model.Destination
	err := conn(ctx, r.db).GetContext(ctx, &d, "SELECT * FROM destinations WHERE slug=$1", slug)
	if err != nil {
		return nil, wrapErr("get destination by slug", err)
	}
	return &d, nil
}

// Create inserts a destination and returns its ID.
func (r *DestinationRepository) Create(ctx context.Context, d *model.Destination) (int, error) {
	query := `INSERT INTO destinations (slug, name, description, category, district, latitude, longitude, best_time, entry_fee, image_url)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	var id int
	err := conn(ctx, r.db).QueryRowxContext(ctx, query, d.Slug, d.Name, d.Description, d.Category, d.District,
		d.Latitude, d.Longitude, d.BestTime, d.EntryFee, d.ImageURL).Scan(&id)
	if err != nil {
		return 0, wrapErr("create destination", err)
	}
	return id, nil
}

// Update overwrites the editable fields of a destination.
func (r *DestinationRepository) Update(ctx context.Context, d *model.Destination) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE destinations SET slug=$1, name=$2, description=$3, category=$4, district=$5,
		 latitude=$6, longitude=$7, best_time=$8, entry_fee=$9, image_url=$10 WHERE id=$11`,
		d.Slug, d.Name, d.Description, d.Category, d.District, d.Latitude, d.Longitude, d.BestTime, d.EntryFee, d.ImageURL, d.ID)
	if err != nil {
		return wrapErr("update destination", err)
	}
	return expectRow("update destination", res)
}

// Delete removes a destination.
func (r *DestinationRepository) Delete(ctx context.Context, id int) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM destinations WHERE id=$1", id)
	if err != nil {
		return wrapErr("delete destination", err)
	}
	return expectRow("delete destination", res)
}

// LockDestination holds the destination row until the transaction ends so
// rating recomputations for the same destination run one after another.
func (r *DestinationRepository) LockDestination(ctx context.Context, id int) error {
	var locked int
	err := conn(ctx, r.db).GetContext(ctx, &locked, "SELECT id FROM destinations WHERE id=$1 FOR UPDATE", id)
	return wrapErr("lock destination", err)
}

// UpdateRating stores the review aggregate of a destination.
func (r *DestinationRepository) UpdateRating(ctx context.Context, id int, rating float64, count int) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE destinations SET rating=$1, review_count=$2 WHERE id=$3", rating, count, id)
	return wrapErr("update destination rating", err)
}

// Count returns the number of destinations.
func (r *DestinationRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := conn(ctx, r.db).GetContext(ctx, &n, "SELECT COUNT(*) FROM destinations")
	return n, wrapErr("count destinations", err)
}

// AddPhoto attaches a gallery image to a destination.
func (r *DestinationRepository) AddPhoto(ctx context.Context, photo *model.DestinationPhoto) (int, error) {
	var id int
	err := conn(ctx, r.db).QueryRowxContext(ctx,
		"INSERT INTO destination_photos (destination_id, url, caption) VALUES ($1, $2, $3) RETURNING id",
		photo.DestinationID, photo.URL, photo.Caption).Scan(&id)
	if err != nil {
		return 0, wrapErr("add destination photo", err)
	}
	return id, nil
}

// GetPhotos returns the gallery of a destination.
func (r *DestinationRepository) GetPhotos(ctx context.Context, destinationID int) ([]model.DestinationPhoto, error) {
	photos := []model.DestinationPhoto{}
	err := conn(ctx, r.db).SelectContext(ctx, &photos, "SELECT * FROM destination_photos WHERE destination_id=$1 ORDER BY id", destinationID)
	if err != nil {
		return nil, wrapErr("get destination photos", err)
	}
	return photos, nil
}
