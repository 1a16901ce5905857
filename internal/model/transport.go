package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Flight is a scheduled flight with seat inventory.
type Flight struct {
	ID             int       `db:"id" json:"id"`
	Airline        string    `db:"airline" json:"airline"`
	FlightNumber   string    `db:"flight_number" json:"flight_number"`
	Origin         string    `db:"origin" json:"origin"`
	Destination    string    `db:"destination" json:"destination"`
	DepartureTime  time.Time `db:"departure_time" json:"departure_time"`
	ArrivalTime    time.Time `db:"arrival_time" json:"arrival_time"`
	Price          float64   `db:"price" json:"price"`
	TotalSeats     int       `db:"total_seats" json:"total_seats"`
	AvailableSeats int       `db:"available_seats" json:"available_seats"`
}

// Bus is a scheduled bus service with seat inventory.
type Bus struct {
	ID             int       `db:"id" json:"id"`
	Operator       string    `db:"operator" json:"operator"`
	BusType        string    `db:"bus_type" json:"bus_type"` // AC Sleeper, Volvo, Seater...
	Origin         string    `db:"origin" json:"origin"`
	Destination    string    `db:"destination" json:"destination"`
	DepartureTime  time.Time `db:"departure_time" json:"departure_time"`
	ArrivalTime    time.Time `db:"arrival_time" json:"arrival_time"`
	Price          float64   `db:"price" json:"price"`
	TotalSeats     int       `db:"total_seats" json:"total_seats"`
	AvailableSeats int       `db:"available_seats" json:"available_seats"`
}

// RouteFilter is a search for flights or buses on a day.
type RouteFilter struct {
	Origin      string
	Destination string
	Date        time.Time // zero means any day from now on
	Passengers  int
}

// Passenger is one traveller on a flight or bus booking.
type Passenger struct {
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// SeatBooking is a flight or bus reservation; ServiceID points at flights.id or buses.id.
type SeatBooking struct {
	ID           int            `db:"id" json:"id"`
	Reference    string         `db:"reference" json:"reference"`
	UserID       int            `db:"user_id" json:"user_id"`
	ServiceID    int            `db:"service_id" json:"service_id"`
	Passengers   types.JSONText `db:"passengers" json:"passengers"`
	Seats        int            `db:"seats" json:"seats"`
	ContactEmail string         `db:"contact_email" json:"contact_email"`
	ContactPhone string         `db:"contact_phone" json:"contact_phone"`
	TotalAmount  float64        `db:"total_amount" json:"total_amount"`
	Status       string         `db:"status" json:"status"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}
