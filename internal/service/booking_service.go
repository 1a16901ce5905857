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

type BookingStore interface {
	GetHotelBooking(ctx context.Context, id int) (*model.HotelBooking, error)
	GetSeatBooking(ctx context.Context, kind string, id int) (*model.SeatBooking, error)
	UpdateStatus(ctx context.Context, kind string, id int, status string) error
	Summary(ctx context.Context, kind string, id int) (*model.BookingSummary, error)
	ListByUser(ctx context.Context, userID int) ([]model.BookingSummary, error)
	List(ctx context.Context, kind, status string) ([]model.BookingSummary, error)
	FindByReference(ctx context.Context, reference string) (*model.BookingSummary, error)
	Stats(ctx context.Context) (map[string]int64, float64, error)
}

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// ParseKind accepts hotel, flight, bus and their plurals.
func ParseKind(s string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	switch k {
	case "hotels":
		k = model.KindHotel
	case "flights":
		k = model.KindFlight
	case "buses":
		k = model.KindBus
	}
	if !model.ValidKind(k) {
		return "", apperr.Invalid("kind", "must be hotel, flight or bus")
	}
	return k, nil
}

// canTransition encodes pending -> confirmed -> cancelled and pending -> cancelled.
func canTransition(from, to string) bool {
	switch from {
	case model.StatusPending:
		return to == model.StatusConfirmed || to == model.StatusCancelled
	case model.StatusConfirmed:
		return to == model.StatusCancelled
	}
	return false
}

// BookingService holds the operations shared by all booking kinds.
type BookingService struct {
	clock
	bookings     BookingStore
	flights      FlightStore
	buses        BusStore
	users        Counter
	destinations Counter
	tx           Transactor
	announcer    *Announcer
}

func NewBookingService(bookings BookingStore, flights FlightStore, buses BusStore, users, destinations Counter,
	tx Transactor, announcer *Announcer) *BookingService {
	return &BookingService{
		bookings:     bookings,
		flights:      flights,
		buses:        buses,
		users:        users,
		destinations: destinations,
		tx:           tx,
		announcer:    announcer,
	}
}

func (s *BookingService) ListMine(ctx context.Context, userID int) ([]model.BookingSummary, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// Get returns the full booking (*model.HotelBooking or *model.SeatBooking).
func (s *BookingService) Get(ctx context.Context, actor Actor, kind string, id int) (any, error) {
	switch kind {
	case model.KindHotel:
		b, err := s.bookings.GetHotelBooking(ctx, id)
		if err != nil {
			return nil, err
		}
		if !actor.owns(b.UserID) {
			return nil, fmt.Errorf("booking %d: %w", id, apperr.ErrForbidden)
		}
		return b, nil
	case model.KindFlight, model.KindBus:
		b, err := s.bookings.GetSeatBooking(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		if !actor.owns(b.UserID) {
			return nil, fmt.Errorf("booking %d: %w", id, apperr.ErrForbidden)
		}
		return b, nil
	}
	return nil, apperr.Invalid("kind", "must be hotel, flight or bus")
}

// Lookup finds a booking by its public reference.
func (s *BookingService) Lookup(ctx context.Context, reference string) (*model.BookingSummary, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	if reference == "" {
		return nil, apperr.Invalid("reference", "is required")
	}
	return s.bookings.FindByReference(ctx, reference)
}

// Cancel cancels the caller's booking. Hotel stays can be cancelled before the
// check-in date, seats before departure.
func (s *BookingService) Cancel(ctx context.Context, actor Actor, kind string, id int) (*model.BookingSummary, error) {
	return s.changeStatus(ctx, &actor, kind, id, model.StatusCancelled)
}

// SetStatus is the admin override. It skips ownership and the cancellation
// window but still follows the status machine.
func (s *BookingService) SetStatus(ctx context.Context, kind string, id int, status string) (*model.BookingSummary, error) {
	if status != model.StatusConfirmed && status != model.StatusCancelled {
		return nil, apperr.Invalid("status", "must be confirmed or cancelled")
	}
	return s.changeStatus(ctx, nil, kind, id, status)
}

// heldBooking is a locked booking row plus what a status change needs.
type heldBooking struct {
	summary   model.BookingSummary
	deadline  time.Time // cancellation is refused from this instant on
	serviceID int
	seats     int
}

func (s *BookingService) hold(ctx context.Context, kind string, id int) (*heldBooking, error) {
	switch kind {
	case model.KindHotel:
		b, err := s.bookings.GetHotelBooking(ctx, id)
		if err != nil {
			return nil, err
		}
		return &heldBooking{
			summary: model.BookingSummary{Kind: kind, ID: b.ID, Reference: b.Reference, UserID: b.UserID,
				TotalAmount: b.TotalAmount, Status: b.Status, CreatedAt: b.CreatedAt},
			deadline: time.Date(b.CheckIn.Year(), b.CheckIn.Month(), b.CheckIn.Day(), 0, 0, 0, 0, indiaTime),
		}, nil
	case model.KindFlight, model.KindBus:
		b, err := s.bookings.GetSeatBooking(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		var departure time.Time
		if kind == model.KindFlight {
			f, err := s.flights.GetByID(ctx, b.ServiceID)
			if err != nil {
				return nil, err
			}
			departure = f.DepartureTime
		} else {
			bus, err := s.buses.GetByID(ctx, b.ServiceID)
			if err != nil {
				return nil, err
			}
			departure = bus.DepartureTime
		}
		return &heldBooking{
			summary: model.BookingSummary{Kind: kind, ID: b.ID, Reference: b.Reference, UserID: b.UserID,
				TotalAmount: b.TotalAmount, Status: b.Status, CreatedAt: b.CreatedAt},
			deadline:  departure,
			serviceID: b.ServiceID,
			seats:     b.Seats,
		}, nil
	}
	return nil, apperr.Invalid("kind", "must be hotel, flight or bus")
}

// changeStatus moves a booking through the status machine. A nil actor is
// an admin override.
func (s *BookingService) changeStatus(ctx context.Context, actor *Actor, kind string, id int, to string) (*model.BookingSummary, error) {
	var result model.BookingSummary
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		held, err := s.hold(ctx, kind, id)
		if err != nil {
			return err
		}
		if actor != nil && !actor.owns(held.summary.UserID) {
			return fmt.Errorf("booking %d: %w", id, apperr.ErrForbidden)
		}
		if !canTransition(held.summary.Status, to) {
			return fmt.Errorf("booking %s is %s and cannot become %s: %w",
				held.summary.Reference, held.summary.Status, to, apperr.ErrInvalidState)
		}
		if actor != nil && to == model.StatusCancelled && !s.Now().Before(held.deadline) {
			return fmt.Errorf("booking %s can no longer be cancelled: %w", held.summary.Reference, apperr.ErrInvalidState)
		}
		if err := s.bookings.UpdateStatus(ctx, kind, id, to); err != nil {
			return err
		}
		if to == model.StatusCancelled && held.seats > 0 {
			if err := s.releaseSeats(ctx, kind, held.serviceID, held.seats); err != nil {
				return err
			}
		}
		result = held.summary
		result.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}

	if to == model.StatusCancelled {
		metrics.BookingsCancelled.WithLabelValues(kind).Inc()
		s.announcer.Booking(ctx, events.TypeBookingCancelled, result)
	} else {
		s.announcer.Booking(ctx, events.TypeBookingConfirmed, result)
	}
	return &result, nil
}

func (s *BookingService) releaseSeats(ctx context.Context, kind string, serviceID, seats int) error {
	if kind == model.KindFlight {
		return s.flights.ReleaseSeats(ctx, serviceID, seats)
	}
	return s.buses.ReleaseSeats(ctx, serviceID, seats)
}

// List is the admin booking listing; empty kind or status means any.
func (s *BookingService) List(ctx context.Context, kind, status string) ([]model.BookingSummary, error) {
	if kind != "" {
		k, err := ParseKind(kind)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	switch status {
	case "", model.StatusPending, model.StatusConfirmed, model.StatusCancelled:
	default:
		return nil, apperr.Invalid("status", "must be pending, confirmed or cancelled")
	}
	return s.bookings.List(ctx, kind, status)
}

func (s *BookingService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	destinations, err := s.destinations.Count(ctx)
	if err != nil {
		return nil, err
	}
	byKind, revenue, err := s.bookings.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &model.DashboardStats{
		Users:          users,
		Destinations:   destinations,
		BookingsByKind: byKind,
		Revenue:        round2(revenue),
	}, nil
}
