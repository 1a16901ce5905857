package repository

import (
	"context"

	"jharkhand-tourism/internal/model"

	"github.com/jmoiron/sqlx"
)

// PaymentRepository stores hosted-checkout payments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) (int, error) {
	var id int
	err := conn(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO payments (reference, booking_kind, booking_id, user_id, amount, currency, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		p.Reference, p.BookingKind, p.BookingID, p.UserID, p.Amount, p.Currency, p.Status).Scan(&id)
	if err != nil {
		return 0, wrapErr("create payment", err)
	}
	return id, nil
}

// GetByReference reads a payment; inside a transaction the row is locked.
func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (*model.Payment, error) {
	query := "SELECT * FROM payments WHERE reference=$1" + lockClause(ctx)
	var p model.Payment
	if err := conn(ctx, r.db).GetContext(ctx, &p, query, reference); err != nil {
		return nil, wrapErr("get payment", err)
	}
	return &p, nil
}

// UpdateStatus records the gateway outcome of a payment.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int, status, providerRef string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE payments SET status=$1, provider_ref=$2, updated_at=NOW() WHERE id=$3", status, providerRef, id)
	if err != nil {
		return wrapErr("update payment", err)
	}
	return expectRow("update payment", res)
}
