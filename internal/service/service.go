package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/events"
	"jharkhand-tourism/internal/metrics"
	"jharkhand-tourism/internal/model"
	"jharkhand-tourism/internal/notify"

	"github.com/google/uuid"
)

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Cache is a best-effort byte cache; a miss is never an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

type noCache struct{}

func (noCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (noCache) Set(context.Context, string, []byte, time.Duration) {}
func (noCache) Delete(context.Context, ...string)                  {}

func orNoCache(c Cache) Cache {
	if c == nil {
		return noCache{}
	}
	return c
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID int
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// owns reports whether the actor may act on a record owned by userID.
func (a Actor) owns(userID int) bool {
	return a.IsAdmin() || a.UserID == userID
}

// Calendar dates are kept as midnight UTC values, the way lib/pq returns DATE
// columns. "Today" is the current date in India.
var indiaTime = time.FixedZone("IST", 5*60*60+30*60)

const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value for the named field.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperr.Invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func dateOf(t time.Time) time.Time {
	t = t.In(indiaTime)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// clock is embedded by services that need "now".
type clock struct {
	now func() time.Time
}

func (c clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

func (c clock) today() time.Time {
	return dateOf(c.Now())
}

var (
	phoneRe       = regexp.MustCompile(`^(\+91)?[6-9][0-9]{9}$`)
	phoneStripper = strings.NewReplacer(" ", "", "-", "")
)

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@"):], ".")
}

// validPhone accepts a 10 digit Indian mobile number with an optional +91.
func validPhone(phone string) bool {
	return phoneRe.MatchString(phoneStripper.Replace(phone))
}

func checkContact(emailField, email, phoneField, phone string) error {
	if !validEmail(email) {
		return apperr.Invalid(emailField, "must be a valid email address")
	}
	if !validPhone(phone) {
		return apperr.Invalid(phoneField, "must be a 10 digit mobile number")
	}
	return nil
}

// newReference returns a public booking code such as JH-H-1A2B3C4D.
func newReference(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(id[:8])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// paginate turns page/per_page into limit/offset.
func paginate(page, perPage, def, max int) (limit, offset int) {
	if perPage <= 0 {
		perPage = def
	}
	if perPage > max {
		perPage = max
	}
	if page <= 0 {
		page = 1
	}
	return perPage, (page - 1) * perPage
}

// Announcer fans booking lifecycle changes out to the event stream and the
// support chat. Failures are logged and never fail the caller. A nil
// *Announcer stays silent.
type Announcer struct {
	events      events.Publisher
	notifier    notify.Notifier
	supportChat int64
}

func NewAnnouncer(pub events.Publisher, notifier notify.Notifier, supportChat int64) *Announcer {
	if pub == nil {
		pub = events.Noop{}
	}
	if notifier == nil {
		notifier = notify.Log{}
	}
	return &Announcer{events: pub, notifier: notifier, supportChat: supportChat}
}

// BookingEvent is the payload of booking.* and payment.* events.
type BookingEvent struct {
	Kind      string  `json:"kind"`
	BookingID int     `json:"booking_id"`
	Reference string  `json:"reference"`
	UserID    int     `json:"user_id"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
}

func (a *Announcer) Booking(ctx context.Context, eventType string, b model.BookingSummary) {
	if a == nil {
		return
	}
	a.publish(ctx, eventType, b.Reference, BookingEvent{
		Kind:      b.Kind,
		BookingID: b.ID,
		Reference: b.Reference,
		UserID:    b.UserID,
		Amount:    b.TotalAmount,
		Status:    b.Status,
	})
	a.Support(ctx, fmt.Sprintf("%s: %s booking %s, %.2f INR, status %s", eventType, b.Kind, b.Reference, b.TotalAmount, b.Status))
}

func (a *Announcer) publish(ctx context.Context, eventType, key string, payload any) {
	if a == nil {
		return
	}
	e, err := events.New(eventType, key, payload)
	if err == nil {
		err = a.events.Publish(ctx, e)
	}
	if err != nil {
		metrics.EventPublishErrors.Inc()
		slog.Warn("publish event failed", "type", eventType, "key", key, "error", err)
	}
}

// Support sends a message to the support chat.
func (a *Announcer) Support(ctx context.Context, text string) {
	if a == nil {
		return
	}
	if err := a.notifier.Notify(ctx, a.supportChat, text); err != nil {
		slog.Warn("support notification failed", "error", err)
	}
}

// Notify sends a message to one chat and reports the delivery error.
func (a *Announcer) Notify(ctx context.Context, chatID int64, text string) error {
	if a == nil {
		return nil
	}
	return a.notifier.Notify(ctx, chatID, text)
}
