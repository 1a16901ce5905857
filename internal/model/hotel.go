package model

import (
	"time"

	"github.com/lib/pq"
)

// Hotel is a property that can be booked through the site.
type Hotel struct {
	ID            int            `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	DestinationID *int           `db:"destination_id" json:"destination_id,omitempty"`
	District      string         `db:"district" json:"district"`
	Address       string         `db:"address" json:"address"`
	Stars         int            `db:"stars" json:"stars"`
	Amenities     pq.StringArray `db:"amenities" json:"amenities"`
	Latitude      float64        `db:"latitude" json:"latitude"`
	Longitude     float64        `db:"longitude" json:"longitude"`
	Description   string         `db:"description" json:"description"`
	ImageURL      string         `db:"image_url" json:"image_url,omitempty"`
}

// Room is a room type of a hotel with its inventory.
type Room struct {
	ID            int     `db:"id" json:"id"`
	HotelID       int     `db:"hotel_id" json:"hotel_id"`
	Name          string  `db:"name" json:"name"`
	PricePerNight float64 `db:"price_per_night" json:"price_per_night"`
	MaxOccupancy  int     `db:"max_occupancy" json:"max_occupancy"` // guests per room
	TotalRooms    int     `db:"total_rooms" json:"total_rooms"`
}

// HotelFilter narrows a hotel listing.
type HotelFilter struct {
	District      string
	DestinationID int
	MinStars      int
	Keyword       string
}

// HotelDetails is a hotel with its rooms.
type HotelDetails struct {
	Hotel
	Rooms []Room `json:"rooms"`
}

// RoomAvailability is the availability of one room type for a date range.
type RoomAvailability struct {
	Room
	Available int     `json:"available"`
	Nights    int     `json:"nights"`
	Total     float64 `json:"total"`
}

// HotelBooking is a reservation of rooms for a date range.
type HotelBooking struct {
	ID          int       `db:"id" json:"id"`
	Reference   string    `db:"reference" json:"reference"`
	UserID      int       `db:"user_id" json:"user_id"`
	HotelID     int       `db:"hotel_id" json:"hotel_id"`
	RoomID      int       `db:"room_id" json:"room_id"`
	CheckIn     time.Time `db:"check_in" json:"check_in"`
	CheckOut    time.Time `db:"check_out" json:"check_out"`
	Rooms       int       `db:"rooms" json:"rooms"`
	Guests      int       `db:"guests" json:"guests"`
	GuestName   string    `db:"guest_name" json:"guest_name"`
	GuestEmail  string    `db:"guest_email" json:"guest_email"`
	GuestPhone  string    `db:"guest_phone" json:"guest_phone"`
	Nights      int       `db:"nights" json:"nights"`
	TotalAmount float64   `db:"total_amount" json:"total_amount"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Quote is a price preview for a stay.
type Quote struct {
	Nights int     `json:"nights"`
	Rate   float64 `json:"rate"`
	Rooms  int     `json:"rooms"`
	Total  float64 `json:"total"`
}
