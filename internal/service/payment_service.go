package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/events"
	"jharkhand-tourism/internal/metrics"
	"jharkhand-tourism/internal/model"

	"github.com/google/uuid"
)

type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) (int, error)
	GetByReference(ctx context.Context, reference string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, id int, status, providerRef string) error
}

type PaymentBookings interface {
	Summary(ctx context.Context, kind string, id int) (*model.BookingSummary, error)
	UpdateStatus(ctx context.Context, kind string, id int, status string) error
}

type PaymentConfig struct {
	CheckoutURL   string
	WebhookSecret string
	Currency      string
}

type Checkout struct {
	PaymentReference string  `json:"payment_reference"`
	CheckoutURL      string  `json:"checkout_url"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
}

// CallbackInput is the confirmation the payment gateway posts back.
type CallbackInput struct {
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	ProviderRef string `json:"provider_ref"`
	Signature   string `json:"signature"`
}

// PaymentService runs the hosted checkout: it opens a payment for a pending
// booking and applies the signed gateway callback.
type PaymentService struct {
	payments  PaymentStore
	bookings  PaymentBookings
	tx        Transactor
	cfg       PaymentConfig
	announcer *Announcer
}

func NewPaymentService(payments PaymentStore, bookings PaymentBookings, tx Transactor, cfg PaymentConfig, announcer *Announcer) *PaymentService {
	return &PaymentService{payments: payments, bookings: bookings, tx: tx, cfg: cfg, announcer: announcer}
}

// Sign computes the callback signature: hex HMAC-SHA256 of
// "reference|status|provider_ref" under the webhook secret.
func Sign(secret, reference, status, providerRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(reference + "|" + status + "|" + providerRef))
	return hex.EncodeToString(mac.Sum(nil))
}

// Checkout opens a payment for a pending booking of the caller.
func (s *PaymentService) Checkout(ctx context.Context, userID int, kind string, bookingID int) (*Checkout, error) {
	kind, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.Summary(ctx, kind, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, fmt.Errorf("booking %d: %w", bookingID, apperr.ErrForbidden)
	}
	if booking.Status != model.StatusPending {
		return nil, fmt.Errorf("booking %s is %s: %w", booking.Reference, booking.Status, apperr.ErrInvalidState)
	}

	p := &model.Payment{
		Reference:   uuid.NewString(),
		BookingKind: kind,
		BookingID:   bookingID,
		UserID:      userID,
		Amount:      booking.TotalAmount,
		Currency:    s.cfg.Currency,
		Status:      model.PaymentInitiated,
	}
	if _, err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("ref", p.Reference)
	q.Set("amount", strconv.FormatFloat(p.Amount, 'f', 2, 64))
	q.Set("currency", p.Currency)
	return &Checkout{
		PaymentReference: p.Reference,
		CheckoutURL:      s.cfg.CheckoutURL + "?" + q.Encode(),
		Amount:           p.Amount,
		Currency:         p.Currency,
	}, nil
}

// Callback applies a gateway result. A payment that is no longer initiated
// is returned unchanged, so gateway retries are harmless.
func (s *PaymentService) Callback(ctx context.Context, in CallbackInput) (*model.Payment, error) {
	expected := Sign(s.cfg.WebhookSecret, in.Reference, in.Status, in.ProviderRef)
	if !hmac.Equal([]byte(expected), []byte(in.Signature)) {
		return nil, fmt.Errorf("payment callback %s: %w", in.Reference, apperr.ErrBadSignature)
	}
	if in.Status != model.PaymentSucceeded && in.Status != model.PaymentFailed {
		return nil, apperr.Invalid("status", "must be succeeded or failed")
	}

	var (
		payment   *model.Payment
		confirmed *model.BookingSummary
		applied   bool
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.payments.GetByReference(ctx, in.Reference)
		if err != nil {
			return err
		}
		if payment.Status != model.PaymentInitiated {
			return nil
		}
		if err := s.payments.UpdateStatus(ctx, payment.ID, in.Status, in.ProviderRef); err != nil {
			return err
		}
		payment.Status = in.Status
		payment.ProviderRef = in.ProviderRef
		applied = true

		if in.Status != model.PaymentSucceeded {
			return nil
		}
		booking, err := s.bookings.Summary(ctx, payment.BookingKind, payment.BookingID)
		if err != nil {
			return err
		}
		if booking.Status != model.StatusPending {
			return nil
		}
		if err := s.bookings.UpdateStatus(ctx, booking.Kind, booking.ID, model.StatusConfirmed); err != nil {
			return err
		}
		booking.Status = model.StatusConfirmed
		confirmed = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	if applied {
		metrics.Payments.WithLabelValues(payment.Status).Inc()
		eventType := events.TypePaymentFailed
		if payment.Status == model.PaymentSucceeded {
			eventType = events.TypePaymentSucceeded
		}
		s.announcer.publish(ctx, eventType, payment.Reference, BookingEvent{
			Kind:      payment.BookingKind,
			BookingID: payment.BookingID,
			Reference: payment.Reference,
			UserID:    payment.UserID,
			Amount:    payment.Amount,
			Status:    payment.Status,
		})
	}
	if confirmed != nil {
		s.announcer.Booking(ctx, events.TypeBookingConfirmed, *confirmed)
	}
	return payment, nil
}

// Get returns a payment to its owner or an admin.
func (s *PaymentService) Get(ctx context.Context, actor Actor, reference string) (*model.Payment, error) {
	p, err := s.payments.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !actor.owns(p.UserID) {
		return nil, fmt.Errorf("payment %s: %w", reference, apperr.ErrForbidden)
	}
	return p, nil
}
