package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/events"
	"jharkhand-tourism/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelFlightRestoresSeats(t *testing.T) {
	f := newTransportFixture()
	ctx := context.Background()
	owner := Actor{UserID: 3, Role: model.RoleUser}

	b, err := f.transport.BookFlight(ctx, 3, 1, passengers(3))
	require.NoError(t, err)
	require.Equal(t, 2, f.flights.byID[1].AvailableSeats)

	s, err := f.bookings.Cancel(ctx, owner, model.KindFlight, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, s.Status)
	assert.Equal(t, 5, f.flights.byID[1].AvailableSeats)
	assert.Equal(t, []string{events.TypeBookingCreated, events.TypeBookingCancelled}, f.events.Types())

	_, err = f.bookings.Cancel(ctx, owner, model.KindFlight, b.ID)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	assert.Equal(t, 5, f.flights.byID[1].AvailableSeats)
}

func TestCancelRequiresOwnerOrAdmin(t *testing.T) {
	f := newTransportFixture()
	ctx := context.Background()

	b, err := f.transport.BookBus(ctx, 3, 1, passengers(2))
	require.NoError(t, err)

	_, err = f.bookings.Cancel(ctx, Actor{UserID: 4, Role: model.RoleUser}, model.KindBus, b.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = f.bookings.Get(ctx, Actor{UserID: 4, Role: model.RoleUser}, model.KindBus, b.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	got, err := f.bookings.Get(ctx, Actor{UserID: 3, Role: model.RoleUser}, model.KindBus, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Reference, got.(*model.SeatBooking).Reference)

	_, err = f.bookings.Cancel(ctx, Actor{UserID: 1, Role: model.RoleAdmin}, model.KindBus, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, f.buses.byID[1].AvailableSeats)
}

func TestCancelWindow(t *testing.T) {
	f := newTransportFixture()
	ctx := context.Background()
	owner := Actor{UserID: 3, Role: model.RoleUser}
	day := func(s string) time.Time {
		d, err := ParseDate("date", s)
		require.NoError(t, err)
		return d
	}

	today, _ := f.store.CreateHotelBooking(ctx, &model.HotelBooking{Reference: "JH-H-TODAY", UserID: 3,
		CheckIn: day("2026-03-10"), CheckOut: day("2026-03-12"), Status: model.StatusConfirmed})
	tomorrow, _ := f.store.CreateHotelBooking(ctx, &model.HotelBooking{Reference: "JH-H-TMRW", UserID: 3,
		CheckIn: day("2026-03-11"), CheckOut: day("2026-03-12"), Status: model.StatusPending})
	departed, _ := f.store.CreateSeatBooking(ctx, model.KindFlight, &model.SeatBooking{Reference: "JH-F-GONE", UserID: 3,
		ServiceID: 2, Seats: 1, Status: model.StatusConfirmed})

	_, err := f.bookings.Cancel(ctx, owner, model.KindHotel, today)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))

	_, err = f.bookings.Cancel(ctx, owner, model.KindHotel, tomorrow)
	assert.NoError(t, err)

	_, err = f.bookings.Cancel(ctx, owner, model.KindFlight, departed)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))

	// The admin override ignores the window.
	_, err = f.bookings.SetStatus(ctx, model.KindHotel, today, model.StatusCancelled)
	assert.NoError(t, err)
}

func TestAdminSetStatus(t *testing.T) {
	f := newTransportFixture()
	ctx := context.Background()

	b, err := f.transport.BookFlight(ctx, 3, 1, passengers(1))
	require.NoError(t, err)

	_, err = f.bookings.SetStatus(ctx, model.KindFlight, b.ID, model.StatusPending)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	s, err := f.bookings.SetStatus(ctx, model.KindFlight, b.ID, model.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, s.Status)

	_, err = f.bookings.SetStatus(ctx, model.KindFlight, b.ID, model.StatusConfirmed)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))

	_, err = f.bookings.SetStatus(ctx, model.KindFlight, 999, model.StatusConfirmed)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestLookupListAndDashboard(t *testing.T) {
	f := newTransportFixture()
	ctx := context.Background()
	_, _ = f.users.Create(ctx, &model.User{Email: "a@example.com"})

	fl, err := f.transport.BookFlight(ctx, 3, 1, passengers(2))
	require.NoError(t, err)
	bus, err := f.transport.BookBus(ctx, 3, 1, passengers(1))
	require.NoError(t, err)
	_, err = f.bookings.SetStatus(ctx, model.KindFlight, fl.ID, model.StatusConfirmed)
	require.NoError(t, err)

	found, err := f.bookings.Lookup(ctx, " "+bus.Reference+" ")
	require.NoError(t, err)
	assert.Equal(t, model.KindBus, found.Kind)

	_, err = f.bookings.Lookup(ctx, "")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	mine, err := f.bookings.ListMine(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	confirmed, err := f.bookings.List(ctx, "flights", model.StatusConfirmed)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, fl.Reference, confirmed[0].Reference)

	_, err = f.bookings.List(ctx, "", "paid")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	stats, err := f.bookings.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Users)
	assert.Equal(t, int64(1), stats.BookingsByKind[model.KindFlight])
	assert.Equal(t, int64(1), stats.BookingsByKind[model.KindBus])
	assert.Equal(t, int64(0), stats.BookingsByKind[model.KindHotel])
	assert.Equal(t, 8400.0, stats.Revenue)
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]string{"hotel": "hotel", "Hotels": "hotel", "flights": "flight", "bus": "bus", "buses": "bus"} {
		got, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("train")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
