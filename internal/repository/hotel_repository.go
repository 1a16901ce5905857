package repository

import (
	"context"
	"strings"
	"time"

	"jharkhand-tourism/internal/model"

	"github.com/jmoiron/sqlx"
)

// HotelRepository provides access to hotels and their room inventory.
type HotelRepository struct {
	db *sqlx.DB
}

// NewHotelRepository creates a new hotel repository.
func NewHotelRepository(db *sqlx.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

// FindByFilters lists hotels by district, destination, minimum stars and keyword.
func (r *HotelRepository) FindByFilters(ctx context.Context, f model.HotelFilter) ([]model.Hotel, error) {
	query := "SELECT * FROM hotels WHERE 1=1"
	args := []interface{}{}
	if f.District != "" && strings.ToLower(f.District) != "any" {
		query += " AND LOWER(district)=LOWER(?)"
		args = append(args, f.District)
	}
	if f.DestinationID > 0 {
		query += " AND destination_id = ?"
		args = append(args, f.DestinationID)
	}
	if f.MinStars > 0 {
		query += " AND stars >= ?"
		args = append(args, f.MinStars)
	}
	if f.Keyword != "" {
		kw := "%" + strings.ToLower(f.Keyword) + "%"
		query += " AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)"
		args = append(args, kw, kw)
	}
	query += " ORDER BY stars DESC, name"
	hotels := []model.Hotel{}
	if err := conn(ctx, r.db).SelectContext(ctx, &hotels, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, wrapErr("search hotels", err)
	}
	return hotels, nil
}

func (r *HotelRepository) GetByID(ctx context.Context, id int) (*model.Hotel, error) {
	var h model.Hotel
	if err := conn(ctx, r.db).GetContext(ctx, &h, "SELECT * FROM hotels WHERE id=$1", id); err != nil {
		return nil, wrapErr("get hotel", err)
	}
	return &h, nil
}

func (r *HotelRepository) Create(ctx context.Context, h *model.Hotel) (int, error) {
	var id int
	err := conn(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO hotels (name, destination_id, district, address, stars, amenities, latitude, longitude, description, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		h.Name, h.DestinationID, h.District, h.Address, h.Stars, h.Amenities, h.Latitude, h.Longitude, h.Description, h.ImageURL).Scan(&id)
	if err != nil {
		return 0, wrapErr("create hotel", err)
	}
	return id, nil
}

// Rooms returns the room types of a hotel, cheapest first.
func (r *HotelRepository) Rooms(ctx context.Context, hotelID int) ([]model.Room, error) {
	rooms := []model.Room{}
	err := conn(ctx, r.db).SelectContext(ctx, &rooms, "SELECT * FROM rooms WHERE hotel_id=$1 ORDER BY price_per_night, id", hotelID)
	if err != nil {
		return nil, wrapErr("list rooms", err)
	}
	return rooms, nil
}

func (r *HotelRepository) GetRoom(ctx context.Context, roomID int) (*model.Room, error) {
	var room model.Room
	if err := conn(ctx, r.db).GetContext(ctx, &room, "SELECT * FROM rooms WHERE id=$1", roomID); err != nil {
		return nil, wrapErr("get room", err)
	}
	return &room, nil
}

// LockRoom reads a room with a row lock; call it inside a transaction so
// concurrent bookings of the same room type serialise.
func (r *HotelRepository) LockRoom(ctx context.Context, roomID int) (*model.Room, error) {
	var room model.Room
	if err := conn(ctx, r.db).GetContext(ctx, &room, "SELECT * FROM rooms WHERE id=$1 FOR UPDATE", roomID); err != nil {
		return nil, wrapErr("lock room", err)
	}
	return &room, nil
}

func (r *HotelRepository) CreateRoom(ctx context.Context, room *model.Room) (int, error) {
	var id int
	err := conn(ctx, r.db).QueryRowxContext(ctx,
		`INSERT INTO rooms (hotel_id, name, price_per_night, max_occupancy, total_rooms)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		room.HotelID, room.Name, room.PricePerNight, room.MaxOccupancy, room.TotalRooms).Scan(&id)
	if err != nil {
		return 0, wrapErr("create room", err)
	}
	return id, nil
}

// ReservedRooms counts rooms held by pending or confirmed bookings whose
// stay overlaps [checkIn, checkOut).
func (r *HotelRepository) ReservedRooms(ctx context.Context, roomID int, checkIn, checkOut time.Time) (int, error) {
	var n int
	err := conn(ctx, r.db).GetContext(ctx, &n,
		`SELECT COALESCE(SUM(rooms), 0) FROM hotel_bookings
		 WHERE room_id=$1 AND status IN ('pending', 'confirmed') AND check_in < $3 AND check_out > $2`,
		roomID, checkIn, checkOut)
	if err != nil {
		return 0, wrapErr("count reserved rooms", err)
	}
	return n, nil
}
