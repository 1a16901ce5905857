package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/geo"
	"jharkhand-tourism/internal/model"
)

type TripStore interface {
	Create(ctx context.Context, userID int, name string) (int, error)
	GetByID(ctx context.Context, id int) (*model.Trip, error)
	AddDestination(ctx context.Context, tripID, destinationID int) error
	UpdateOrder(ctx context.Context, tripID int, destinationOrder []int) error
	SetStatus(ctx context.Context, tripID int, status string) error
	GetDestinations(ctx context.Context, tripID int) ([]model.Destination, error)
}

type DestinationLookup interface {
	GetByID(ctx context.Context, id int) (*model.Destination, error)
}

const (
	TripDraft   = "draft"
	TripPlanned = "planned"
)

// TripService plans itineraries across destinations.
type TripService struct {
	tripRepo     TripStore
	destinations DestinationLookup
	tx           Transactor
}

func NewTripService(tripRepo TripStore, destinations DestinationLookup, tx Transactor) *TripService {
	return &TripService{tripRepo: tripRepo, destinations: destinations, tx: tx}
}

// CreateTrip starts a draft trip for the user.
func (s *TripService) CreateTrip(ctx context.Context, userID int, name string) (*model.Trip, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("name", "is required")
	}
	id, err := s.tripRepo.Create(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	return &model.Trip{ID: id, UserID: userID, Name: name, Status: TripDraft}, nil
}

func (s *TripService) ownedTrip(ctx context.Context, userID, tripID int) (*model.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, fmt.Errorf("trip %d: %w", tripID, apperr.ErrForbidden)
	}
	return trip, nil
}

// AddDestination appends a stop to the end of the trip.
func (s *TripService) AddDestination(ctx context.Context, userID, tripID, destinationID int) (*model.TripDetails, error) {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	if _, err := s.destinations.GetByID(ctx, destinationID); err != nil {
		return nil, err
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.tripRepo.AddDestination(ctx, tripID, destinationID)
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("destination already in trip: %w", apperr.ErrConflict)
		}
		return nil, err
	}
	return s.Details(ctx, userID, tripID)
}

func routeOf(destinations []model.Destination) []geo.Point {
	points := make([]geo.Point, len(destinations))
	for i, d := range destinations {
		points[i] = geo.Point{Lat: d.Latitude, Lng: d.Longitude}
	}
	return points
}

// Details returns the trip with its stops in order and the route length.
func (s *TripService) Details(ctx context.Context, userID, tripID int) (*model.TripDetails, error) {
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	destinations, err := s.tripRepo.GetDestinations(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return &model.TripDetails{
		Trip:         *trip,
		Destinations: destinations,
		DistanceKm:   geo.Round1(geo.RouteKm(routeOf(destinations))),
	}, nil
}

// OptimizeTrip reorders the stops by nearest neighbour from the first stop
// and marks the trip planned.
func (s *TripService) OptimizeTrip(ctx context.Context, userID, tripID int) (*model.TripDetails, error) {
	details, err := s.Details(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	order := geo.NearestNeighbour(routeOf(details.Destinations))
	optimized := make([]model.Destination, len(order))
	ids := make([]int, len(order))
	for i, idx := range order {
		optimized[i] = details.Destinations[idx]
		ids[i] = optimized[i].ID
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.tripRepo.UpdateOrder(ctx, tripID, ids); err != nil {
			return err
		}
		return s.tripRepo.SetStatus(ctx, tripID, TripPlanned)
	})
	if err != nil {
		return nil, err
	}

	details.Destinations = optimized
	details.Status = TripPlanned
	details.DistanceKm = geo.Round1(geo.RouteKm(routeOf(optimized)))
	return details, nil
}
