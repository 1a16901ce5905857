package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTrips struct {
	trips        map[int]*model.Trip
	stops        map[int][]int
	destinations *memDestinations
}

func (m *memTrips) Create(_ context.Context, userID int, name string) (int, error) {
	id := len(m.trips) + 1
	m.trips[id] = &model.Trip{ID: id, UserID: userID, Name: name, Status: TripDraft}
	return id, nil
}

func (m *memTrips) GetByID(_ context.Context, id int) (*model.Trip, error) {
	t, ok := m.trips[id]
	if !ok {
		return nil, notFound("trip", id)
	}
	cp := *t
	return &cp, nil
}

func (m *memTrips) AddDestination(_ context.Context, tripID, destinationID int) error {
	for _, id := range m.stops[tripID] {
		if id == destinationID {
			return fmt.Errorf("add destination: %w", apperr.ErrConflict)
		}
	}
	m.stops[tripID] = append(m.stops[tripID], destinationID)
	return nil
}

func (m *memTrips) UpdateOrder(_ context.Context, tripID int, order []int) error {
	m.stops[tripID] = append([]int{}, order...)
	return nil
}

func (m *memTrips) SetStatus(_ context.Context, tripID int, status string) error {
	m.trips[tripID].Status = status
	return nil
}

func (m *memTrips) GetDestinations(ctx context.Context, tripID int) ([]model.Destination, error) {
	out := []model.Destination{}
	for _, id := range m.stops[tripID] {
		d, err := m.destinations.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func newTripService() (*TripService, *memTrips, *fakeTx) {
	dests := newMemDestinations(
		model.Destination{Slug: "a", Name: "A", Latitude: 23.0, Longitude: 85.0},
		model.Destination{Slug: "d", Name: "D", Latitude: 23.0, Longitude: 85.3},
		model.Destination{Slug: "b", Name: "B", Latitude: 23.0, Longitude: 85.1},
		model.Destination{Slug: "c", Name: "C", Latitude: 23.0, Longitude: 85.2},
	)
	trips := &memTrips{trips: map[int]*model.Trip{}, stops: map[int][]int{}, destinations: dests}
	tx := &fakeTx{}
	return NewTripService(trips, dests, tx), trips, tx
}

func TestOptimizeTrip(t *testing.T) {
	svc, trips, tx := newTripService()
	ctx := context.Background()

	trip, err := svc.CreateTrip(ctx, 7, " Weekend in Ranchi ")
	require.NoError(t, err)
	assert.Equal(t, "Weekend in Ranchi", trip.Name)

	var details *model.TripDetails
	for _, id := range []int{1, 2, 3, 4} {
		details, err = svc.AddDestination(ctx, 7, trip.ID, id)
		require.NoError(t, err)
	}
	before := details.DistanceKm
	assert.Equal(t, 4, tx.calls, "each append runs in its own transaction")

	optimized, err := svc.OptimizeTrip(ctx, 7, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4, 2}, trips.stops[trip.ID])
	assert.Equal(t, TripPlanned, optimized.Status)
	assert.Equal(t, TripPlanned, trips.trips[trip.ID].Status)
	assert.Less(t, optimized.DistanceKm, before)
	assert.Equal(t, "A", optimized.Destinations[0].Name)
	assert.Equal(t, 5, tx.calls)
}

func TestTripOwnership(t *testing.T) {
	svc, _, _ := newTripService()
	ctx := context.Background()

	trip, err := svc.CreateTrip(ctx, 7, "Mine")
	require.NoError(t, err)

	_, err = svc.AddDestination(ctx, 8, trip.ID, 1)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
	_, err = svc.OptimizeTrip(ctx, 8, trip.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = svc.AddDestination(ctx, 7, trip.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddDestination(ctx, 7, trip.ID, 1)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	_, err = svc.AddDestination(ctx, 7, trip.ID, 99)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = svc.CreateTrip(ctx, 7, "  ")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
