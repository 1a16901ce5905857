package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/auth"
	"jharkhand-tourism/internal/geo"
	"jharkhand-tourism/internal/model"
	"jharkhand-tourism/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type echoTranslator struct{ err error }

func (e echoTranslator) Translate(_ context.Context, text, _, target string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return target + ":" + text, nil
}

// noDestinations is an empty catalogue.
type noDestinations struct{}

func (noDestinations) FindAll(context.Context) ([]model.Destination, error) {
	return []model.Destination{}, nil
}

func (noDestinations) FindByFilters(context.Context, model.DestinationFilter) ([]model.Destination, error) {
	return []model.Destination{}, nil
}

func (noDestinations) GetByID(_ context.Context, id int) (*model.Destination, error) {
	return nil, fmt.Errorf("destination %d: %w", id, apperr.ErrNotFound)
}

func (noDestinations) GetBySlug(_ context.Context, slug string) (*model.Destination, error) {
	return nil, fmt.Errorf("destination %s: %w", slug, apperr.ErrNotFound)
}

func (noDestinations) Create(context.Context, *model.Destination) (int, error) { return 1, nil }
func (noDestinations) Update(context.Context, *model.Destination) error         { return nil }
func (noDestinations) Delete(context.Context, int) error                        { return nil }

func (noDestinations) AddPhoto(context.Context, *model.DestinationPhoto) (int, error) {
	return 1, nil
}

func (noDestinations) GetPhotos(context.Context, int) ([]model.DestinationPhoto, error) {
	return nil, nil
}

type testAPI struct {
	router *gin.Engine
	tokens *auth.TokenIssuer
}

func newTestAPI(t *testing.T, translator service.Translator, db Pinger) *testAPI {
	t.Helper()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	h := &Handler{
		DestinationService: service.NewDestinationService(noDestinations{}, nil, geo.Links{}),
		TranslationService: service.NewTranslationService(translator, nil, time.Hour),
		PaymentService: service.NewPaymentService(nil, nil, nil,
			service.PaymentConfig{WebhookSecret: "hook", Currency: "INR"}, nil),
	}
	router := NewRouter(h, RouterConfig{Tokens: tokens, DB: db, TranslateLimiter: NewRateLimiter(100, 100)})
	return &testAPI{router: router, tokens: tokens}
}

func (a *testAPI) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Invalid("x", "bad"), http.StatusBadRequest},
		{apperr.ErrUnauthorized, http.StatusUnauthorized},
		{apperr.ErrBadSignature, http.StatusUnauthorized},
		{apperr.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("get: %w", apperr.ErrNotFound), http.StatusNotFound},
		{apperr.ErrConflict, http.StatusConflict},
		{apperr.ErrNoAvailability, http.StatusConflict},
		{apperr.ErrInvalidState, http.StatusConflict},
		{apperr.ErrRateLimited, http.StatusTooManyRequests},
		{errors.Join(errors.New("eof"), apperr.ErrUpstream), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestHealth(t *testing.T) {
	ok := newTestAPI(t, echoTranslator{}, fakePinger{})
	w := ok.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	down := newTestAPI(t, echoTranslator{}, fakePinger{err: errors.New("connection refused")})
	w = down.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTranslateEndpoint(t *testing.T) {
	api := newTestAPI(t, echoTranslator{}, nil)

	w := api.do(http.MethodPost, "/api/translate", `{"text":"Welcome","target":"hi"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "hi:Welcome", body["translated_text"])
	assert.Equal(t, "auto", body["source"])

	w = api.do(http.MethodPost, "/api/translate", `{"text":"Welcome","target":"xx"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "target", decode(t, w)["field"])

	w = api.do(http.MethodPost, "/api/translate", `{"text":`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decode(t, w)["error"])

	failing := newTestAPI(t, echoTranslator{err: fmt.Errorf("libretranslate: %w", apperr.ErrUpstream)}, nil)
	w = failing.do(http.MethodPost, "/api/translate", `{"text":"Welcome","target":"hi"}`, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = api.do(http.MethodGet, "/api/translate/languages", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Santali", decode(t, w)["sat"])
}

func TestAuthGuards(t *testing.T) {
	api := newTestAPI(t, echoTranslator{}, nil)
	userToken, err := api.tokens.Issue(5, model.RoleUser)
	require.NoError(t, err)

	w := api.do(http.MethodGet, "/api/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/api/me", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	foreign, err := auth.NewTokenIssuer("other-secret", time.Hour).Issue(5, model.RoleAdmin)
	require.NoError(t, err)
	w = api.do(http.MethodGet, "/api/admin/dashboard", "", foreign)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/api/admin/dashboard", "", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "admins only", decode(t, w)["error"])
}

func TestUserRoutesRejectAdminTokens(t *testing.T) {
	api := newTestAPI(t, echoTranslator{}, nil)
	adminToken, err := api.tokens.Issue(1, model.RoleAdmin)
	require.NoError(t, err)

	routes := []struct{ method, path, body string }{
		{http.MethodGet, "/api/me", ""},
		{http.MethodPut, "/api/me/telegram", `{"telegram_id": 42}`},
		{http.MethodGet, "/api/bookings", ""},
		{http.MethodPost, "/api/bookings/hotels", `{"room_id": 1, "check_in": "2026-11-01", "check_out": "2026-11-03", "guests": 2}`},
		{http.MethodPost, "/api/bookings/flights", `{"flight_id": 1, "passengers": 1}`},
		{http.MethodPost, "/api/payments/checkout", `{"reference": "JH-H-1"}`},
		{http.MethodPost, "/api/trips", `{"name": "Weekend"}`},
		{http.MethodPost, "/api/offers/subscribe", ""},
		{http.MethodPost, "/api/destinations/hundru-falls/reviews", `{"rating": 5, "comment": "Beautiful falls."}`},
	}
	for _, rt := range routes {
		w := api.do(rt.method, rt.path, rt.body, adminToken)
		assert.Equal(t, http.StatusForbidden, w.Code, rt.path)
		assert.Equal(t, "tourist accounts only", decode(t, w)["error"], rt.path)
	}
}

func TestDestinationRoutes(t *testing.T) {
	api := newTestAPI(t, echoTranslator{}, nil)

	w := api.do(http.MethodGet, "/api/destinations/atlantis", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/api/destinations/nearby?lat=abc&lng=85.3", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "lat", decode(t, w)["field"])

	w = api.do(http.MethodGet, "/api/destinations/nearby?lat=23.34&lng=85.31", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = api.do(http.MethodGet, "/api/destinations?sort=popularity", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "sort", decode(t, w)["field"])
}

func TestPaymentCallbackRejectsBadSignature(t *testing.T) {
	api := newTestAPI(t, echoTranslator{}, nil)

	w := api.do(http.MethodPost, "/api/payments/callback",
		`{"reference":"r1","status":"succeeded","provider_ref":"p1","signature":"deadbeef"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	api := newTestAPI(t, echoTranslator{}, nil)

	w := api.do(http.MethodGet, "/health", "", "")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "trace-1")
	w = httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, "trace-1", w.Header().Get("X-Request-ID"))
}
