package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler holds the services behind the HTTP API.
type Handler struct {
	AuthService        *service.AuthService
	UserService        *service.UserService
	DestinationService *service.DestinationService
	FestivalService    *service.FestivalService
	HotelService       *service.HotelService
	TransportService   *service.TransportService
	BookingService     *service.BookingService
	PaymentService     *service.PaymentService
	ReviewService      *service.ReviewService
	TranslationService *service.TranslationService
	TripService        *service.TripService
	OfferService       *service.OfferService
	EnquiryService     *service.EnquiryService
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized), errors.Is(err, apperr.ErrBadSignature):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrNoAvailability), errors.Is(err, apperr.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, apperr.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": ...} with the mapped status and aborts the
// chain. Validation errors also carry the offending field.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(status, gin.H{"error": verr.Message, "field": verr.Field})
	case status == http.StatusInternalServerError:
		slog.Error("request failed", "path", c.Request.URL.Path, "request_id", c.GetString(ctxRequestID), "error", err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
	default:
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
	}
}

// bindJSON decodes the request body and answers 400 when it is malformed.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		return 0, apperr.Invalid(name, "must be a positive integer")
	}
	return id, nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalid(name, "must be an integer")
	}
	return v, nil
}

func queryFloat(c *gin.Context, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperr.Invalid(name, "must be a number")
	}
	return v, nil
}

// page reads page/per_page and returns limit and offset.
func page(c *gin.Context) (int, int, error) {
	p, err := queryInt(c, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	perPage, err := queryInt(c, "per_page", 20)
	if err != nil {
		return 0, 0, err
	}
	if p < 1 {
		p = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	perPage = min(perPage, 100)
	return perPage, (p - 1) * perPage, nil
}
