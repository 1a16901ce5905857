package model

import "time"

const (
	PaymentInitiated = "initiated"
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
)

// Payment tracks a hosted checkout for a booking.
type Payment struct {
	ID          int       `db:"id" json:"id"`
	Reference   string    `db:"reference" json:"reference"`
	BookingKind string    `db:"booking_kind" json:"booking_kind"`
	BookingID   int       `db:"booking_id" json:"booking_id"`
	UserID      int       `db:"user_id" json:"user_id"`
	Amount      float64   `db:"amount" json:"amount"`
	Currency    string    `db:"currency" json:"currency"`
	Status      string    `db:"status" json:"status"`
	ProviderRef string    `db:"provider_ref" json:"provider_ref,omitempty"` // gateway transaction id
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
