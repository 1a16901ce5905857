package repository

import (
	"context"

	"jharkhand-tourism/internal/model"

	"github.com/jmoiron/sqlx"
)

// EnquiryRepository stores contact-form messages.
type EnquiryRepository struct {
	db *sqlx.DB
}

// NewEnquiryRepository creates a new enquiry repository.
func NewEnquiryRepository(db *sqlx.DB) *EnquiryRepository {
	return &EnquiryRepository{db: db}
}

// Save stores a new enquiry.
func (r *EnquiryRepository) Save(ctx context.Context, e *model.Enquiry) (int, error) {
	var id int
	err := conn(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO enquiries (name, email, subject, message) VALUES ($1, $2, $3, $4) RETURNING id`,
		e.Name, e.Email, e.Subject, e.Message).Scan(&id)
	if err != nil {
		return 0, wrapErr("save enquiry", err)
	}
	return id, nil
}

// List returns enquiries, newest first.
func (r *EnquiryRepository) List(ctx context.Context) ([]model.Enquiry, error) {
	enquiries := []model.Enquiry{}
	if err := conn(ctx, r.db).SelectContext(ctx, &enquiries, "SELECT * FROM enquiries ORDER BY id DESC"); err != nil {
		return nil, wrapErr("list enquiries", err)
	}
	return enquiries, nil
}
