package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/events"
	"jharkhand-tourism/internal/model"
)

// fixedNow is 10:00 IST on 10 March 2026.
var fixedNow = time.Date(2026, 3, 10, 10, 0, 0, 0, indiaTime)

func fixedClock() clock { return clock{now: func() time.Time { return fixedNow }} }

func notFound(what string, id any) error {
	return fmt.Errorf("%s %v: %w", what, id, apperr.ErrNotFound)
}

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type memCache struct {
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	c.data[key] = value
}

func (c *memCache) Delete(_ context.Context, keys ...string) {
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
}

type recordingNotifier struct {
	messages map[int64][]string
	failFor  map[int64]bool
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{messages: map[int64][]string{}, failFor: map[int64]bool{}}
}

func (n *recordingNotifier) Notify(_ context.Context, chatID int64, text string) error {
	if n.failFor[chatID] {
		return errors.New("chat not found")
	}
	n.messages[chatID] = append(n.messages[chatID], text)
	return nil
}

const supportChat = int64(999)

func newTestAnnouncer() (*Announcer, *events.Recorder, *recordingNotifier) {
	rec := &events.Recorder{}
	n := newRecordingNotifier()
	return NewAnnouncer(rec, n, supportChat), rec, n
}

// users

type memUsers struct {
	byID   map[int]*model.User
	nextID int
}

func newMemUsers() *memUsers { return &memUsers{byID: map[int]*model.User{}} }

func (m *memUsers) Create(_ context.Context, u *model.User) (int, error) {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return 0, fmt.Errorf("create user: %w", apperr.ErrConflict)
		}
	}
	m.nextID++
	cp := *u
	cp.ID = m.nextID
	m.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("user", email)
}

func (m *memUsers) GetByID(_ context.Context, id int) (*model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, notFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByTelegramID(_ context.Context, tg int64) (*model.User, error) {
	for _, u := range m.byID {
		if u.TelegramID != nil && *u.TelegramID == tg {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("telegram user", tg)
}

func (m *memUsers) LinkTelegram(_ context.Context, userID int, tg int64) error {
	for _, u := range m.byID {
		if u.ID != userID && u.TelegramID != nil && *u.TelegramID == tg {
			return fmt.Errorf("link telegram: %w", apperr.ErrConflict)
		}
	}
	u, ok := m.byID[userID]
	if !ok {
		return notFound("user", userID)
	}
	u.TelegramID = &tg
	return nil
}

func (m *memUsers) SetBlocked(_ context.Context, userID int, blocked bool) error {
	u, ok := m.byID[userID]
	if !ok {
		return notFound("user", userID)
	}
	u.Blocked = blocked
	return nil
}

func (m *memUsers) List(context.Context) ([]model.User, error) {
	out := []model.User{}
	for _, u := range m.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) Count(context.Context) (int64, error) { return int64(len(m.byID)), nil }

type memAdmins struct {
	byEmail map[string]*model.Admin
}

func (m *memAdmins) Create(_ context.Context, a *model.Admin) (int, error) {
	if _, ok := m.byEmail[a.Email]; ok {
		return 0, fmt.Errorf("create admin: %w", apperr.ErrConflict)
	}
	cp := *a
	cp.ID = len(m.byEmail) + 1
	m.byEmail[a.Email] = &cp
	return cp.ID, nil
}

func (m *memAdmins) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return nil, notFound("admin", email)
	}
	return a, nil
}

type stubTokens struct{}

func (stubTokens) Issue(userID int, role string) (string, error) {
	return fmt.Sprintf("token-%s-%d", role, userID), nil
}

// destinations

type memDestinations struct {
	byID   map[int]*model.Destination
	photos map[int][]model.DestinationPhoto
	nextID int
	// filters records the last filter passed to FindByFilters.
	filters model.DestinationFilter
	locked  []int
}

func newMemDestinations(ds ...model.Destination) *memDestinations {
	m := &memDestinations{byID: map[int]*model.Destination{}, photos: map[int][]model.DestinationPhoto{}}
	for _, d := range ds {
		m.nextID++
		d.ID = m.nextID
		cp := d
		m.byID[d.ID] = &cp
	}
	return m
}

func (m *memDestinations) FindAll(context.Context) ([]model.Destination, error) {
	out := []model.Destination{}
	for id := 1; id <= m.nextID; id++ {
		if d, ok := m.byID[id]; ok {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memDestinations) FindByFilters(ctx context.Context, f model.DestinationFilter) ([]model.Destination, error) {
	m.filters = f
	all, _ := m.FindAll(ctx)
	out := []model.Destination{}
	for _, d := range all {
		if f.Category != "" && !strings.EqualFold(d.Category, f.Category) {
			continue
		}
		if f.District != "" && !strings.EqualFold(d.District, f.District) {
			continue
		}
		if d.Rating < f.MinRating {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *memDestinations) GetByID(_ context.Context, id int) (*model.Destination, error) {
	d, ok := m.byID[id]
	if !ok {
		return nil, notFound("destination", id)
	}
	cp := *d
	return &cp, nil
}

func (m *memDestinations) GetBySlug(_ context.Context, slug string) (*model.Destination, error) {
	for _, d := range m.byID {
		if d.Slug == slug {
			cp := *d
			return &cp, nil
		}
	}
	return nil, notFound("destination", slug)
}

func (m *memDestinations) Create(_ context.Context, d *model.Destination) (int, error) {
	for _, existing := range m.byID {
		if existing.Slug == d.Slug {
			return 0, fmt.Errorf("create destination: %w", apperr.ErrConflict)
		}
	}
	m.nextID++
	cp := *d
	cp.ID = m.nextID
	m.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memDestinations) Update(_ context.Context, d *model.Destination) error {
	if _, ok := m.byID[d.ID]; !ok {
		return notFound("destination", d.ID)
	}
	cp := *d
	m.byID[d.ID] = &cp
	return nil
}

func (m *memDestinations) Delete(_ context.Context, id int) error {
	if _, ok := m.byID[id]; !ok {
		return notFound("destination", id)
	}
	delete(m.byID, id)
	return nil
}

func (m *memDestinations) LockDestination(_ context.Context, id int) error {
	if _, ok := m.byID[id]; !ok {
		return notFound("destination", id)
	}
	m.locked = append(m.locked, id)
	return nil
}

func (m *memDestinations) UpdateRating(_ context.Context, id int, rating float64, count int) error {
	d, ok := m.byID[id]
	if !ok {
		return notFound("destination", id)
	}
	d.Rating = rating
	d.ReviewCount = count
	return nil
}

func (m *memDestinations) Count(context.Context) (int64, error) { return int64(len(m.byID)), nil }

func (m *memDestinations) AddPhoto(_ context.Context, p *model.DestinationPhoto) (int, error) {
	p.ID = len(m.photos[p.DestinationID]) + 1
	m.photos[p.DestinationID] = append(m.photos[p.DestinationID], *p)
	return p.ID, nil
}

func (m *memDestinations) GetPhotos(_ context.Context, id int) ([]model.DestinationPhoto, error) {
	return append([]model.DestinationPhoto{}, m.photos[id]...), nil
}

// hotels and bookings

type memHotels struct {
	hotels   map[int]*model.Hotel
	rooms    map[int]*model.Room
	bookings *memBookings
	locked   []int
}

func (m *memHotels) FindByFilters(_ context.Context, f model.HotelFilter) ([]model.Hotel, error) {
	out := []model.Hotel{}
	for _, h := range m.hotels {
		if h.Stars >= f.MinStars {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (m *memHotels) GetByID(_ context.Context, id int) (*model.Hotel, error) {
	h, ok := m.hotels[id]
	if !ok {
		return nil, notFound("hotel", id)
	}
	return h, nil
}

func (m *memHotels) Create(_ context.Context, h *model.Hotel) (int, error) {
	id := len(m.hotels) + 1
	m.hotels[id] = h
	return id, nil
}

func (m *memHotels) Rooms(_ context.Context, hotelID int) ([]model.Room, error) {
	out := []model.Room{}
	for _, r := range m.rooms {
		if r.HotelID == hotelID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memHotels) GetRoom(_ context.Context, id int) (*model.Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return nil, notFound("room", id)
	}
	cp := *r
	return &cp, nil
}

func (m *memHotels) LockRoom(ctx context.Context, id int) (*model.Room, error) {
	m.locked = append(m.locked, id)
	return m.GetRoom(ctx, id)
}

func (m *memHotels) CreateRoom(_ context.Context, r *model.Room) (int, error) {
	id := len(m.rooms) + 1
	cp := *r
	cp.ID = id
	m.rooms[id] = &cp
	return id, nil
}

func (m *memHotels) ReservedRooms(_ context.Context, roomID int, checkIn, checkOut time.Time) (int, error) {
	n := 0
	for _, b := range m.bookings.hotel {
		if b.RoomID != roomID || b.Status == model.StatusCancelled {
			continue
		}
		if b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
			n += b.Rooms
		}
	}
	return n, nil
}

type memBookings struct {
	hotel  map[int]*model.HotelBooking
	seats  map[string]map[int]*model.SeatBooking
	nextID int
}

func newMemBookings() *memBookings {
	return &memBookings{
		hotel: map[int]*model.HotelBooking{},
		seats: map[string]map[int]*model.SeatBooking{model.KindFlight: {}, model.KindBus: {}},
	}
}

func (m *memBookings) CreateHotelBooking(_ context.Context, b *model.HotelBooking) (int, error) {
	m.nextID++
	cp := *b
	cp.ID = m.nextID
	m.hotel[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memBookings) GetHotelBooking(_ context.Context, id int) (*model.HotelBooking, error) {
	b, ok := m.hotel[id]
	if !ok {
		return nil, notFound("hotel booking", id)
	}
	cp := *b
	return &cp, nil
}

func (m *memBookings) CreateSeatBooking(_ context.Context, kind string, b *model.SeatBooking) (int, error) {
	m.nextID++
	cp := *b
	cp.ID = m.nextID
	m.seats[kind][cp.ID] = &cp
	return cp.ID, nil
}

func (m *memBookings) GetSeatBooking(_ context.Context, kind string, id int) (*model.SeatBooking, error) {
	b, ok := m.seats[kind][id]
	if !ok {
		return nil, notFound(kind+" booking", id)
	}
	cp := *b
	return &cp, nil
}

func (m *memBookings) UpdateStatus(_ context.Context, kind string, id int, status string) error {
	if kind == model.KindHotel {
		b, ok := m.hotel[id]
		if !ok {
			return notFound("hotel booking", id)
		}
		b.Status = status
		return nil
	}
	b, ok := m.seats[kind][id]
	if !ok {
		return notFound(kind+" booking", id)
	}
	b.Status = status
	return nil
}

func (m *memBookings) all() []model.BookingSummary {
	out := []model.BookingSummary{}
	for _, b := range m.hotel {
		out = append(out, model.BookingSummary{Kind: model.KindHotel, ID: b.ID, Reference: b.Reference, UserID: b.UserID,
			TotalAmount: b.TotalAmount, Status: b.Status, CreatedAt: b.CreatedAt})
	}
	for kind, list := range m.seats {
		for _, b := range list {
			out = append(out, model.BookingSummary{Kind: kind, ID: b.ID, Reference: b.Reference, UserID: b.UserID,
				TotalAmount: b.TotalAmount, Status: b.Status, CreatedAt: b.CreatedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *memBookings) Summary(_ context.Context, kind string, id int) (*model.BookingSummary, error) {
	for _, s := range m.all() {
		if s.Kind == kind && s.ID == id {
			return &s, nil
		}
	}
	return nil, notFound(kind+" booking", id)
}

func (m *memBookings) ListByUser(_ context.Context, userID int) ([]model.BookingSummary, error) {
	out := []model.BookingSummary{}
	for _, s := range m.all() {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memBookings) List(_ context.Context, kind, status string) ([]model.BookingSummary, error) {
	out := []model.BookingSummary{}
	for _, s := range m.all() {
		if (kind == "" || s.Kind == kind) && (status == "" || s.Status == status) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memBookings) FindByReference(_ context.Context, ref string) (*model.BookingSummary, error) {
	for _, s := range m.all() {
		if s.Reference == ref {
			return &s, nil
		}
	}
	return nil, notFound("booking", ref)
}

func (m *memBookings) Stats(context.Context) (map[string]int64, float64, error) {
	counts := map[string]int64{model.KindHotel: 0, model.KindFlight: 0, model.KindBus: 0}
	revenue := 0.0
	for _, s := range m.all() {
		counts[s.Kind]++
		if s.Status == model.StatusConfirmed {
			revenue += s.TotalAmount
		}
	}
	return counts, revenue, nil
}

// seat inventories

type memFlights struct {
	byID map[int]*model.Flight
}

func (m *memFlights) Search(_ context.Context, f model.RouteFilter) ([]model.Flight, error) {
	out := []model.Flight{}
	for _, fl := range m.byID {
		if fl.AvailableSeats >= f.Passengers {
			out = append(out, *fl)
		}
	}
	return out, nil
}

func (m *memFlights) GetByID(_ context.Context, id int) (*model.Flight, error) {
	f, ok := m.byID[id]
	if !ok {
		return nil, notFound("flight", id)
	}
	cp := *f
	return &cp, nil
}

func (m *memFlights) Create(_ context.Context, f *model.Flight) (int, error) {
	id := len(m.byID) + 1
	cp := *f
	cp.ID = id
	m.byID[id] = &cp
	return id, nil
}

func (m *memFlights) ReserveSeats(_ context.Context, id, n int) error {
	f, ok := m.byID[id]
	if !ok || f.AvailableSeats < n {
		return fmt.Errorf("reserve seats: %w", apperr.ErrNoAvailability)
	}
	f.AvailableSeats -= n
	return nil
}

func (m *memFlights) ReleaseSeats(_ context.Context, id, n int) error {
	f, ok := m.byID[id]
	if !ok {
		return notFound("flight", id)
	}
	f.AvailableSeats = min(f.TotalSeats, f.AvailableSeats+n)
	return nil
}

type memBuses struct {
	byID map[int]*model.Bus
}

func (m *memBuses) Search(_ context.Context, f model.RouteFilter) ([]model.Bus, error) {
	out := []model.Bus{}
	for _, b := range m.byID {
		if b.AvailableSeats >= f.Passengers {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBuses) GetByID(_ context.Context, id int) (*model.Bus, error) {
	b, ok := m.byID[id]
	if !ok {
		return nil, notFound("bus", id)
	}
	cp := *b
	return &cp, nil
}

func (m *memBuses) Create(_ context.Context, b *model.Bus) (int, error) {
	id := len(m.byID) + 1
	cp := *b
	cp.ID = id
	m.byID[id] = &cp
	return id, nil
}

func (m *memBuses) ReserveSeats(_ context.Context, id, n int) error {
	b, ok := m.byID[id]
	if !ok || b.AvailableSeats < n {
		return fmt.Errorf("reserve seats: %w", apperr.ErrNoAvailability)
	}
	b.AvailableSeats -= n
	return nil
}

func (m *memBuses) ReleaseSeats(_ context.Context, id, n int) error {
	b, ok := m.byID[id]
	if !ok {
		return notFound("bus", id)
	}
	b.AvailableSeats = min(b.TotalSeats, b.AvailableSeats+n)
	return nil
}
