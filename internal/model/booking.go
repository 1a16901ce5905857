package model

import "time"

// Booking kinds.
const (
	KindHotel  = "hotel"
	KindFlight = "flight"
	KindBus    = "bus"
)

// Booking statuses: pending -> confirmed -> cancelled, pending -> cancelled.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// ValidKind reports whether kind names a booking table.
func ValidKind(kind string) bool {
	return kind == KindHotel || kind == KindFlight || kind == KindBus
}

// BookingSummary is the kind-agnostic view used in listings and lookups.
type BookingSummary struct {
	Kind        string    `db:"kind" json:"kind"`
	ID          int       `db:"id" json:"id"`
	Reference   string    `db:"reference" json:"reference"`
	UserID      int       `db:"user_id" json:"user_id"`
	TotalAmount float64   `db:"total_amount" json:"total_amount"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DashboardStats feeds the admin dashboard.
type DashboardStats struct {
	Users          int64            `json:"total_users"`
	Destinations   int64            `json:"total_destinations"`
	BookingsByKind map[string]int64 `json:"bookings_by_kind"`
	Revenue        float64          `json:"confirmed_revenue"`
}
