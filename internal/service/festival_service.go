package service

import (
	"context"
	"strings"
	"time"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/model"
)

type FestivalStore interface {
	FindOverlapping(ctx context.Context, from, to time.Time, district string) ([]model.Festival, error)
	FindUpcoming(ctx context.Context, from time.Time, limit int) ([]model.Festival, error)
	GetByID(ctx context.Context, id int) (*model.Festival, error)
	Create(ctx context.Context, f *model.Festival) (int, error)
	Update(ctx context.Context, f *model.Festival) error
	Delete(ctx context.Context, id int) error
}

// FestivalService builds the cultural calendar.
type FestivalService struct {
	clock
	repo FestivalStore
}

func NewFestivalService(repo FestivalStore) *FestivalService {
	return &FestivalService{repo: repo}
}

func monthRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// ByMonth returns festivals overlapping a month; year 0 means this year.
func (s *FestivalService) ByMonth(ctx context.Context, year, month int, district string) ([]model.Festival, error) {
	if month < 1 || month > 12 {
		return nil, apperr.Invalid("month", "must be between 1 and 12")
	}
	if year == 0 {
		year = s.today().Year()
	}
	from, to := monthRange(year, time.Month(month))
	return s.repo.FindOverlapping(ctx, from, to, strings.TrimSpace(district))
}

// Upcoming returns festivals that have not ended by from (today when zero).
func (s *FestivalService) Upcoming(ctx context.Context, from time.Time, limit int) ([]model.Festival, error) {
	if from.IsZero() {
		from = s.today()
	}
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}
	return s.repo.FindUpcoming(ctx, from, limit)
}

// Calendar groups a year's festivals by month. A festival spanning several
// months is listed under each of them.
func (s *FestivalService) Calendar(ctx context.Context, year int) ([]model.CalendarMonth, error) {
	if year == 0 {
		year = s.today().Year()
	}
	if year < 1900 || year > 2200 {
		return nil, apperr.Invalid("year", "out of range")
	}
	yearStart, _ := monthRange(year, time.January)
	_, yearEnd := monthRange(year, time.December)
	festivals, err := s.repo.FindOverlapping(ctx, yearStart, yearEnd, "")
	if err != nil {
		return nil, err
	}

	calendar := make([]model.CalendarMonth, 12)
	for i := range calendar {
		month := time.Month(i + 1)
		from, to := monthRange(year, month)
		calendar[i] = model.CalendarMonth{Month: i + 1, Name: month.String(), Festivals: []model.Festival{}}
		for _, f := range festivals {
			if !f.StartDate.After(to) && !f.EndDate.Before(from) {
				calendar[i].Festivals = append(calendar[i].Festivals, f)
			}
		}
	}
	return calendar, nil
}

func (s *FestivalService) Get(ctx context.Context, id int) (*model.Festival, error) {
	return s.repo.GetByID(ctx, id)
}

func checkFestival(f *model.Festival) error {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return apperr.Invalid("name", "is required")
	}
	if f.StartDate.IsZero() || f.EndDate.IsZero() {
		return apperr.Invalid("start_date", "start and end dates are required")
	}
	if f.EndDate.Before(f.StartDate) {
		return apperr.Invalid("end_date", "must not be before start_date")
	}
	return nil
}

func (s *FestivalService) Create(ctx context.Context, f *model.Festival) (*model.Festival, error) {
	if err := checkFestival(f); err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	f.ID = id
	return f, nil
}

func (s *FestivalService) Update(ctx context.Context, id int, f *model.Festival) (*model.Festival, error) {
	if err := checkFestival(f); err != nil {
		return nil, err
	}
	f.ID = id
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FestivalService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
