package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/events"
	"jharkhand-tourism/internal/metrics"
	"jharkhand-tourism/internal/model"

	"github.com/jmoiron/sqlx/types"
)

type FlightStore interface {
	Search(ctx context.Context, f model.RouteFilter) ([]model.Flight, error)
	GetByID(ctx context.Context, id int) (*model.Flight, error)
	Create(ctx context.Context, f *model.Flight) (int, error)
	ReserveSeats(ctx context.Context, id, n int) error
	ReleaseSeats(ctx context.Context, id, n int) error
}

type BusStore interface {
	Search(ctx context.Context, f model.RouteFilter) ([]model.Bus, error)
	GetByID(ctx context.Context, id int) (*model.Bus, error)
	Create(ctx context.Context, b *model.Bus) (int, error)
	ReserveSeats(ctx context.Context, id, n int) error
	ReleaseSeats(ctx context.Context, id, n int) error
}

type SeatBookingWriter interface {
	CreateSeatBooking(ctx context.Context, kind string, b *model.SeatBooking) (int, error)
}

const (
	maxFlightPassengers = 9
	maxBusPassengers    = 6
)

type SeatBookingInput struct {
	Passengers   []model.Passenger `json:"passengers"`
	ContactEmail string            `json:"contact_email"`
	ContactPhone string            `json:"contact_phone"`
}

// Schedule is the admin input for a new flight or bus departure.
type Schedule struct {
	Origin        string
	Destination   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	Price         float64
	TotalSeats    int
}

// TransportService searches and books flights and buses.
type TransportService struct {
	clock
	flights   FlightStore
	buses     BusStore
	bookings  SeatBookingWriter
	tx        Transactor
	announcer *Announcer
}

func NewTransportService(flights FlightStore, buses BusStore, bookings SeatBookingWriter, tx Transactor, announcer *Announcer) *TransportService {
	return &TransportService{flights: flights, buses: buses, bookings: bookings, tx: tx, announcer: announcer}
}

func checkRouteFilter(f *model.RouteFilter, maxPassengers int) error {
	if f.Passengers == 0 {
		f.Passengers = 1
	}
	if f.Passengers < 1 || f.Passengers > maxPassengers {
		return apperr.Invalid("passengers", "must be between 1 and %d", maxPassengers)
	}
	f.Origin = strings.TrimSpace(f.Origin)
	f.Destination = strings.TrimSpace(f.Destination)
	if !f.Date.IsZero() {
		f.Date = time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, indiaTime)
	}
	return nil
}

func (s *TransportService) SearchFlights(ctx context.Context, f model.RouteFilter) ([]model.Flight, error) {
	if err := checkRouteFilter(&f, maxFlightPassengers); err != nil {
		return nil, err
	}
	return s.flights.Search(ctx, f)
}

func (s *TransportService) SearchBuses(ctx context.Context, f model.RouteFilter) ([]model.Bus, error) {
	if err := checkRouteFilter(&f, maxBusPassengers); err != nil {
		return nil, err
	}
	return s.buses.Search(ctx, f)
}

func (s *TransportService) Flight(ctx context.Context, id int) (*model.Flight, error) {
	return s.flights.GetByID(ctx, id)
}

func (s *TransportService) Bus(ctx context.Context, id int) (*model.Bus, error) {
	return s.buses.GetByID(ctx, id)
}

func checkSchedule(sc *Schedule) error {
	sc.Origin = strings.TrimSpace(sc.Origin)
	sc.Destination = strings.TrimSpace(sc.Destination)
	if sc.Origin == "" || sc.Destination == "" {
		return apperr.Invalid("origin", "origin and destination are required")
	}
	if strings.EqualFold(sc.Origin, sc.Destination) {
		return apperr.Invalid("destination", "must differ from origin")
	}
	if !sc.ArrivalTime.After(sc.DepartureTime) {
		return apperr.Invalid("arrival_time", "must be after departure_time")
	}
	if sc.Price <= 0 {
		return apperr.Invalid("price", "must be positive")
	}
	if sc.TotalSeats < 1 {
		return apperr.Invalid("total_seats", "must be at least 1")
	}
	return nil
}

func (s *TransportService) CreateFlight(ctx context.Context, airline, number string, sc Schedule) (*model.Flight, error) {
	if strings.TrimSpace(airline) == "" || strings.TrimSpace(number) == "" {
		return nil, apperr.Invalid("flight_number", "airline and flight number are required")
	}
	if err := checkSchedule(&sc); err != nil {
		return nil, err
	}
	f := &model.Flight{
		Airline: airline, FlightNumber: number,
		Origin: sc.Origin, Destination: sc.Destination,
		DepartureTime: sc.DepartureTime, ArrivalTime: sc.ArrivalTime,
		Price: sc.Price, TotalSeats: sc.TotalSeats, AvailableSeats: sc.TotalSeats,
	}
	id, err := s.flights.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	f.ID = id
	return f, nil
}

func (s *TransportService) CreateBus(ctx context.Context, operator, busType string, sc Schedule) (*model.Bus, error) {
	if strings.TrimSpace(operator) == "" {
		return nil, apperr.Invalid("operator", "is required")
	}
	if err := checkSchedule(&sc); err != nil {
		return nil, err
	}
	b := &model.Bus{
		Operator: operator, BusType: busType,
		Origin: sc.Origin, Destination: sc.Destination,
		DepartureTime: sc.DepartureTime, ArrivalTime: sc.ArrivalTime,
		Price: sc.Price, TotalSeats: sc.TotalSeats, AvailableSeats: sc.TotalSeats,
	}
	id, err := s.buses.Create(ctx, b)
	if err != nil {
		return nil, err
	}
	b.ID = id
	return b, nil
}

func checkPassengers(in SeatBookingInput, maxPassengers int) error {
	if len(in.Passengers) < 1 || len(in.Passengers) > maxPassengers {
		return apperr.Invalid("passengers", "between 1 and %d passengers are allowed", maxPassengers)
	}
	for i, p := range in.Passengers {
		if strings.TrimSpace(p.Name) == "" {
			return apperr.Invalid(fmt.Sprintf("passengers[%d].name", i), "is required")
		}
		if p.Age < 0 || p.Age > 120 {
			return apperr.Invalid(fmt.Sprintf("passengers[%d].age", i), "must be between 0 and 120")
		}
	}
	return checkContact("contact_email", in.ContactEmail, "contact_phone", in.ContactPhone)
}

// seatOffer is the part of a flight or bus the booking flow needs.
type seatOffer struct {
	price     float64
	departure time.Time
}

// bookSeats takes the seats and inserts the booking in one transaction.
func (s *TransportService) bookSeats(ctx context.Context, kind, prefix string, userID, serviceID int, in SeatBookingInput,
	load func(ctx context.Context) (seatOffer, error), reserve func(ctx context.Context, n int) error) (*model.SeatBooking, error) {
	passengers, err := json.Marshal(in.Passengers)
	if err != nil {
		return nil, fmt.Errorf("encode passengers: %w", err)
	}
	seats := len(in.Passengers)

	var booking *model.SeatBooking
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		offer, err := load(ctx)
		if err != nil {
			return err
		}
		if !offer.departure.After(s.Now()) {
			return fmt.Errorf("%s %d has already departed: %w", kind, serviceID, apperr.ErrInvalidState)
		}
		if err := reserve(ctx, seats); err != nil {
			return err
		}
		booking = &model.SeatBooking{
			Reference:    newReference(prefix),
			UserID:       userID,
			ServiceID:    serviceID,
			Passengers:   types.JSONText(passengers),
			Seats:        seats,
			ContactEmail: in.ContactEmail,
			ContactPhone: in.ContactPhone,
			TotalAmount:  round2(float64(seats) * offer.price),
			Status:       model.StatusPending,
			CreatedAt:    s.Now(),
		}
		booking.ID, err = s.bookings.CreateSeatBooking(ctx, kind, booking)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsCreated.WithLabelValues(kind).Inc()
	s.announcer.Booking(ctx, events.TypeBookingCreated, model.BookingSummary{
		Kind: kind, ID: booking.ID, Reference: booking.Reference, UserID: userID,
		TotalAmount: booking.TotalAmount, Status: booking.Status, CreatedAt: booking.CreatedAt,
	})
	return booking, nil
}

// BookFlight books seats on a flight for 1 to 9 passengers.
func (s *TransportService) BookFlight(ctx context.Context, userID, flightID int, in SeatBookingInput) (*model.SeatBooking, error) {
	if err := checkPassengers(in, maxFlightPassengers); err != nil {
		return nil, err
	}
	load := func(ctx context.Context) (seatOffer, error) {
		f, err := s.flights.GetByID(ctx, flightID)
		if err != nil {
			return seatOffer{}, err
		}
		return seatOffer{price: f.Price, departure: f.DepartureTime}, nil
	}
	reserve := func(ctx context.Context, n int) error { return s.flights.ReserveSeats(ctx, flightID, n) }
	return s.bookSeats(ctx, model.KindFlight, "JH-F-", userID, flightID, in, load, reserve)
}

// BookBus books seats on a bus for 1 to 6 passengers.
func (s *TransportService) BookBus(ctx context.Context, userID, busID int, in SeatBookingInput) (*model.SeatBooking, error) {
	if err := checkPassengers(in, maxBusPassengers); err != nil {
		return nil, err
	}
	load := func(ctx context.Context) (seatOffer, error) {
		b, err := s.buses.GetByID(ctx, busID)
		if err != nil {
			return seatOffer{}, err
		}
		return seatOffer{price: b.Price, departure: b.DepartureTime}, nil
	}
	reserve := func(ctx context.Context, n int) error { return s.buses.ReserveSeats(ctx, busID, n) }
	return s.bookSeats(ctx, model.KindBus, "JH-B-", userID, busID, in, load, reserve)
}
