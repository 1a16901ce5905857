package model

// Trip is an itinerary planned by a user.
type Trip struct {
	ID     int    `db:"id" json:"id"`
	UserID int    `db:"user_id" json:"user_id"`
	Name   string `db:"name" json:"name"`
	Status string `db:"status" json:"status"` // draft, planned
}

// TripDetails is a trip with its ordered stops.
type TripDetails struct {
	Trip
	Destinations []Destination `json:"destinations"`
	DistanceKm   float64       `json:"distance_km"`
}
