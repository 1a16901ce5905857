package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/geo"
	"jharkhand-tourism/internal/model"
)

type DestinationStore interface {
	FindAll(ctx context.Context) ([]model.Destination, error)
	FindByFilters(ctx context.Context, f model.DestinationFilter) ([]model.Destination, error)
	GetByID(ctx context.Context, id int) (*model.Destination, error)
	GetBySlug(ctx context.Context, slug string) (*model.Destination, error)
	Create(ctx context.Context, d *model.Destination) (int, error)
	Update(ctx context.Context, d *model.Destination) error
	Delete(ctx context.Context, id int) error
	AddPhoto(ctx context.Context, photo *model.DestinationPhoto) (int, error)
	GetPhotos(ctx context.Context, destinationID int) ([]model.DestinationPhoto, error)
}

const destinationCacheTTL = 5 * time.Minute

func destinationCacheKey(slug string) string {
	return "destination:" + slug
}

// DestinationService serves the destination pages and their maps.
type DestinationService struct {
	repo  DestinationStore
	cache Cache
	links geo.Links
}

func NewDestinationService(repo DestinationStore, cache Cache, links geo.Links) *DestinationService {
	return &DestinationService{repo: repo, cache: orNoCache(cache), links: links}
}

var destinationSorts = map[string]bool{"": true, "name": true, "rating": true, "-rating": true}

// Search filters destinations. Limit defaults to 20 and is capped at 100.
func (s *DestinationService) Search(ctx context.Context, f model.DestinationFilter) ([]model.Destination, error) {
	if !destinationSorts[f.Sort] {
		return nil, apperr.Invalid("sort", "must be one of name, rating, -rating")
	}
	if f.MinRating < 0 || f.MinRating > 5 {
		return nil, apperr.Invalid("min_rating", "must be between 0 and 5")
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.FindByFilters(ctx, f)
}

// Details returns the destination page payload, read through the cache.
func (s *DestinationService) Details(ctx context.Context, slug string) (*model.DestinationDetails, error) {
	key := destinationCacheKey(slug)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached model.DestinationDetails
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	d, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	photos, err := s.repo.GetPhotos(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	details := &model.DestinationDetails{
		Destination: *d,
		Photos:      photos,
		Map:         s.links.For(d.Latitude, d.Longitude),
	}

	if raw, err := json.Marshal(details); err == nil {
		s.cache.Set(ctx, key, raw, destinationCacheTTL)
	}
	return details, nil
}

// MapFor returns the map links of a destination.
func (s *DestinationService) MapFor(d model.Destination) model.MapInfo {
	return s.links.For(d.Latitude, d.Longitude)
}

// Nearby lists destinations within radiusKm of a point, closest first.
func (s *DestinationService) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]model.NearbyDestination, error) {
	if !geo.ValidCoordinates(lat, lng) {
		return nil, apperr.Invalid("lat", "coordinates out of range")
	}
	if radiusKm <= 0 {
		radiusKm = 50
	}
	if radiusKm > 500 {
		return nil, apperr.Invalid("radius_km", "must not exceed 500")
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	origin := geo.Point{Lat: lat, Lng: lng}
	nearby := []model.NearbyDestination{}
	for _, d := range all {
		dist := geo.DistanceKm(origin, geo.Point{Lat: d.Latitude, Lng: d.Longitude})
		if dist <= radiusKm {
			nearby = append(nearby, model.NearbyDestination{Destination: d, DistanceKm: geo.Round1(dist)})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].DistanceKm < nearby[j].DistanceKm })
	if len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

// Slugify lowercases a name and joins its words with "-".
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

func prepareDestination(d *model.Destination) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return apperr.Invalid("name", "is required")
	}
	if d.Latitude < -90 || d.Latitude > 90 {
		return apperr.Invalid("latitude", "must be between -90 and 90")
	}
	if d.Longitude < -180 || d.Longitude > 180 {
		return apperr.Invalid("longitude", "must be between -180 and 180")
	}
	if d.EntryFee < 0 {
		return apperr.Invalid("entry_fee", "must not be negative")
	}
	d.Slug = Slugify(d.Slug)
	if d.Slug == "" {
		d.Slug = Slugify(d.Name)
	}
	if d.Slug == "" {
		return apperr.Invalid("slug", "cannot be derived from name")
	}
	return nil
}

func (s *DestinationService) Create(ctx context.Context, d *model.Destination) (*model.Destination, error) {
	if err := prepareDestination(d); err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, d)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Update replaces the editable fields. Rating and review count are owned by
// the review flow and are kept.
func (s *DestinationService) Update(ctx context.Context, id int, d *model.Destination) (*model.Destination, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := prepareDestination(d); err != nil {
		return nil, err
	}
	d.ID = id
	d.Rating = current.Rating
	d.ReviewCount = current.ReviewCount
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, destinationCacheKey(current.Slug), destinationCacheKey(d.Slug))
	return s.repo.GetByID(ctx, id)
}

func (s *DestinationService) Delete(ctx context.Context, id int) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(ctx, destinationCacheKey(current.Slug))
	return nil
}

func (s *DestinationService) AddPhoto(ctx context.Context, destinationID int, url, caption string) (*model.DestinationPhoto, error) {
	if strings.TrimSpace(url) == "" {
		return nil, apperr.Invalid("url", "is required")
	}
	d, err := s.repo.GetByID(ctx, destinationID)
	if err != nil {
		return nil, err
	}
	photo := &model.DestinationPhoto{DestinationID: destinationID, URL: url, Caption: caption}
	id, err := s.repo.AddPhoto(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("add photo: %w", err)
	}
	photo.ID = id
	s.cache.Delete(ctx, destinationCacheKey(d.Slug))
	return photo, nil
}
