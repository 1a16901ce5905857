package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/events"
	"jharkhand-tourism/internal/metrics"
	"jharkhand-tourism/internal/model"
)

type HotelStore interface {
	FindByFilters(ctx context.Context, f model.HotelFilter) ([]model.Hotel, error)
	GetByID(ctx context.Context, id int) (*model.Hotel, error)
	Create(ctx context.Context, h *model.Hotel) (int, error)
	Rooms(ctx context.Context, hotelID int) ([]model.Room, error)
	GetRoom(ctx context.Context, roomID int) (*model.Room, error)
	LockRoom(ctx context.Context, roomID int) (*model.Room, error)
	CreateRoom(ctx context.Context, room *model.Room) (int, error)
	ReservedRooms(ctx context.Context, roomID int, checkIn, checkOut time.Time) (int, error)
}

type HotelBookingWriter interface {
	CreateHotelBooking(ctx context.Context, b *model.HotelBooking) (int, error)
}

const maxNights = 30

// Stay is a requested date range and room count.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
	Rooms    int
}

// Nights is the number of whole days between check-in and check-out.
func (s Stay) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}

type HotelBookingInput struct {
	HotelID    int    `json:"hotel_id"`
	RoomID     int    `json:"room_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Rooms      int    `json:"rooms"`
	Guests     int    `json:"guests"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
}

// HotelService lists hotels, quotes stays and books rooms.
type HotelService struct {
	clock
	hotels    HotelStore
	bookings  HotelBookingWriter
	tx        Transactor
	announcer *Announcer
}

func NewHotelService(hotels HotelStore, bookings HotelBookingWriter, tx Transactor, announcer *Announcer) *HotelService {
	return &HotelService{hotels: hotels, bookings: bookings, tx: tx, announcer: announcer}
}

func (s *HotelService) List(ctx context.Context, f model.HotelFilter) ([]model.Hotel, error) {
	if f.MinStars < 0 || f.MinStars > 5 {
		return nil, apperr.Invalid("min_stars", "must be between 0 and 5")
	}
	return s.hotels.FindByFilters(ctx, f)
}

func (s *HotelService) Details(ctx context.Context, id int) (*model.HotelDetails, error) {
	h, err := s.hotels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rooms, err := s.hotels.Rooms(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.HotelDetails{Hotel: *h, Rooms: rooms}, nil
}

// checkStay validates dates and the room count, defaulting rooms to 1.
func (s *HotelService) checkStay(stay *Stay) error {
	if stay.Rooms == 0 {
		stay.Rooms = 1
	}
	if stay.Rooms < 1 {
		return apperr.Invalid("rooms", "must be at least 1")
	}
	if stay.CheckIn.Before(s.today()) {
		return apperr.Invalid("check_in", "must not be in the past")
	}
	if !stay.CheckOut.After(stay.CheckIn) {
		return apperr.Invalid("check_out", "must be after check_in")
	}
	if stay.Nights() > maxNights {
		return apperr.Invalid("check_out", "stay must not exceed %d nights", maxNights)
	}
	return nil
}

func quote(room *model.Room, stay Stay) model.Quote {
	nights := stay.Nights()
	return model.Quote{
		Nights: nights,
		Rate:   room.PricePerNight,
		Rooms:  stay.Rooms,
		Total:  round2(float64(nights) * room.PricePerNight * float64(stay.Rooms)),
	}
}

// Quote prices a stay without booking it.
func (s *HotelService) Quote(ctx context.Context, roomID int, stay Stay) (*model.Quote, error) {
	if err := s.checkStay(&stay); err != nil {
		return nil, err
	}
	room, err := s.hotels.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	q := quote(room, stay)
	return &q, nil
}

// Availability reports, per room type, how many rooms are free for the stay.
func (s *HotelService) Availability(ctx context.Context, hotelID int, stay Stay) ([]model.RoomAvailability, error) {
	if err := s.checkStay(&stay); err != nil {
		return nil, err
	}
	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		return nil, err
	}
	rooms, err := s.hotels.Rooms(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	out := make([]model.RoomAvailability, 0, len(rooms))
	for i := range rooms {
		reserved, err := s.hotels.ReservedRooms(ctx, rooms[i].ID, stay.CheckIn, stay.CheckOut)
		if err != nil {
			return nil, err
		}
		q := quote(&rooms[i], stay)
		out = append(out, model.RoomAvailability{
			Room:      rooms[i],
			Available: max(0, rooms[i].TotalRooms-reserved),
			Nights:    q.Nights,
			Total:     q.Total,
		})
	}
	return out, nil
}

// Book reserves rooms. The room row is locked while free inventory is counted
// and the booking inserted, so concurrent requests cannot overbook.
func (s *HotelService) Book(ctx context.Context, userID int, in HotelBookingInput) (*model.HotelBooking, error) {
	in.GuestName = strings.TrimSpace(in.GuestName)
	if in.GuestName == "" {
		return nil, apperr.Invalid("guest_name", "is required")
	}
	if err := checkContact("guest_email", in.GuestEmail, "guest_phone", in.GuestPhone); err != nil {
		return nil, err
	}
	checkIn, err := ParseDate("check_in", in.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := ParseDate("check_out", in.CheckOut)
	if err != nil {
		return nil, err
	}
	stay := Stay{CheckIn: checkIn, CheckOut: checkOut, Rooms: in.Rooms}
	if err := s.checkStay(&stay); err != nil {
		return nil, err
	}
	if in.Guests < 1 {
		return nil, apperr.Invalid("guests", "must be at least 1")
	}

	var booking *model.HotelBooking
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		room, err := s.hotels.LockRoom(ctx, in.RoomID)
		if err != nil {
			return err
		}
		if room.HotelID != in.HotelID {
			return apperr.Invalid("room_id", "room does not belong to hotel %d", in.HotelID)
		}
		if in.Guests > stay.Rooms*room.MaxOccupancy {
			return apperr.Invalid("guests", "at most %d guests fit in %d room(s)", stay.Rooms*room.MaxOccupancy, stay.Rooms)
		}
		reserved, err := s.hotels.ReservedRooms(ctx, room.ID, stay.CheckIn, stay.CheckOut)
		if err != nil {
			return err
		}
		if free := room.TotalRooms - reserved; free < stay.Rooms {
			return fmt.Errorf("only %d room(s) left for these dates: %w", max(0, free), apperr.ErrNoAvailability)
		}

		q := quote(room, stay)
		booking = &model.HotelBooking{
			Reference:   newReference("JH-H-"),
			UserID:      userID,
			HotelID:     in.HotelID,
			RoomID:      room.ID,
			CheckIn:     stay.CheckIn,
			CheckOut:    stay.CheckOut,
			Rooms:       stay.Rooms,
			Guests:      in.Guests,
			GuestName:   in.GuestName,
			GuestEmail:  in.GuestEmail,
			GuestPhone:  in.GuestPhone,
			Nights:      q.Nights,
			TotalAmount: q.Total,
			Status:      model.StatusPending,
			CreatedAt:   s.Now(),
		}
		booking.ID, err = s.bookings.CreateHotelBooking(ctx, booking)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsCreated.WithLabelValues(model.KindHotel).Inc()
	s.announcer.Booking(ctx, events.TypeBookingCreated, model.BookingSummary{
		Kind: model.KindHotel, ID: booking.ID, Reference: booking.Reference, UserID: userID,
		TotalAmount: booking.TotalAmount, Status: booking.Status, CreatedAt: booking.CreatedAt,
	})
	return booking, nil
}

func (s *HotelService) CreateHotel(ctx context.Context, h *model.Hotel) (*model.Hotel, error) {
	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" {
		return nil, apperr.Invalid("name", "is required")
	}
	if h.Stars < 1 || h.Stars > 5 {
		return nil, apperr.Invalid("stars", "must be between 1 and 5")
	}
	if h.Amenities == nil {
		h.Amenities = []string{}
	}
	id, err := s.hotels.Create(ctx, h)
	if err != nil {
		return nil, err
	}
	h.ID = id
	return h, nil
}

func (s *HotelService) CreateRoom(ctx context.Context, hotelID int, room *model.Room) (*model.Room, error) {
	if strings.TrimSpace(room.Name) == "" {
		return nil, apperr.Invalid("name", "is required")
	}
	if room.PricePerNight <= 0 {
		return nil, apperr.Invalid("price_per_night", "must be positive")
	}
	if room.MaxOccupancy < 1 {
		return nil, apperr.Invalid("max_occupancy", "must be at least 1")
	}
	if room.TotalRooms < 1 {
		return nil, apperr.Invalid("total_rooms", "must be at least 1")
	}
	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		return nil, err
	}
	room.HotelID = hotelID
	id, err := s.hotels.CreateRoom(ctx, room)
	if err != nil {
		return nil, err
	}
	room.ID = id
	return room, nil
}
