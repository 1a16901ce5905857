package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/model"
)

type ReviewStore interface {
	Create(ctx context.Context, rv *model.Review) (int, error)
	GetByID(ctx context.Context, id int) (*model.Review, error)
	ListByDestination(ctx context.Context, destinationID, limit, offset int) ([]model.Review, error)
	Delete(ctx context.Context, id int) error
	Aggregate(ctx context.Context, destinationID int) (float64, int, error)
}

type RatedDestinations interface {
	GetByID(ctx context.Context, id int) (*model.Destination, error)
	GetBySlug(ctx context.Context, slug string) (*model.Destination, error)
	LockDestination(ctx context.Context, id int) error
	UpdateRating(ctx context.Context, id int, rating float64, count int) error
}

type ReviewInput struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// ReviewService keeps destination reviews and the rating derived from them.
type ReviewService struct {
	reviews      ReviewStore
	destinations RatedDestinations
	tx           Transactor
	cache        Cache
}

func NewReviewService(reviews ReviewStore, destinations RatedDestinations, tx Transactor, cache Cache) *ReviewService {
	return &ReviewService{reviews: reviews, destinations: destinations, tx: tx, cache: orNoCache(cache)}
}

func (s *ReviewService) List(ctx context.Context, slug string, page, perPage int) ([]model.Review, error) {
	d, err := s.destinations.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	limit, offset := paginate(page, perPage, 20, 100)
	return s.reviews.ListByDestination(ctx, d.ID, limit, offset)
}

func checkReview(in *ReviewInput) error {
	if in.Rating < 1 || in.Rating > 5 {
		return apperr.Invalid("rating", "must be between 1 and 5")
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Comment = strings.TrimSpace(in.Comment)
	if n := utf8.RuneCountInString(in.Comment); n < 10 || n > 2000 {
		return apperr.Invalid("comment", "must be between 10 and 2000 characters")
	}
	return nil
}

// Create posts the user's review of a destination; one per user.
func (s *ReviewService) Create(ctx context.Context, userID int, slug string, in ReviewInput) (*model.Review, error) {
	if err := checkReview(&in); err != nil {
		return nil, err
	}
	d, err := s.destinations.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	rv := &model.Review{UserID: userID, DestinationID: d.ID, Rating: in.Rating, Title: in.Title, Comment: in.Comment}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.destinations.LockDestination(ctx, d.ID); err != nil {
			return err
		}
		id, err := s.reviews.Create(ctx, rv)
		if err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				return fmt.Errorf("you have already reviewed %s: %w", d.Name, apperr.ErrConflict)
			}
			return err
		}
		rv.ID = id
		return s.refreshRating(ctx, d.ID)
	})
	if err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, destinationCacheKey(d.Slug))
	return s.reviews.GetByID(ctx, rv.ID)
}

// Delete removes a review; only its author or an admin may do so.
func (s *ReviewService) Delete(ctx context.Context, actor Actor, id int) error {
	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.owns(rv.UserID) {
		return fmt.Errorf("review %d: %w", id, apperr.ErrForbidden)
	}
	d, err := s.destinations.GetByID(ctx, rv.DestinationID)
	if err != nil {
		return err
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.destinations.LockDestination(ctx, rv.DestinationID); err != nil {
			return err
		}
		if err := s.reviews.Delete(ctx, id); err != nil {
			return err
		}
		return s.refreshRating(ctx, rv.DestinationID)
	})
	if err != nil {
		return err
	}
	s.cache.Delete(ctx, destinationCacheKey(d.Slug))
	return nil
}

func (s *ReviewService) refreshRating(ctx context.Context, destinationID int) error {
	avg, count, err := s.reviews.Aggregate(ctx, destinationID)
	if err != nil {
		return err
	}
	return s.destinations.UpdateRating(ctx, destinationID, avg, count)
}
