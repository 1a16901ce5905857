package handler

import (
	"context"
	"net/http"
	"time"

	"jharkhand-tourism/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterConfig struct {
	Tokens TokenValidator
	DB     Pinger
	// Redis backs Idempotency-Key handling; nil disables it.
	Redis *redis.Client
	// TranslateLimiter throttles /api/translate per client; nil disables it.
	TranslateLimiter *RateLimiter
}

// NewRouter registers every route of the API.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(), metrics.Middleware())

	r.GET("/health", health(cfg.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := RequireAuth(cfg.Tokens)
	tourist := []gin.HandlerFunc{authed, RequireUser()}
	admin := []gin.HandlerFunc{authed, RequireAdmin()}

	api := r.Group("/api")
	{
		api.POST("/auth/signup", h.Signup)
		api.POST("/auth/login", h.Login)
		api.POST("/admin/register", h.RegisterAdmin)
		api.POST("/admin/login", h.AdminLogin)
		me := api.Group("/me", tourist...)
		me.GET("", h.Me)
		me.PUT("/telegram", h.LinkTelegram)

		api.GET("/destinations", h.ListDestinations)
		api.GET("/destinations/nearby", h.NearbyDestinations)
		api.GET("/destinations/:slug", h.GetDestination)
		api.GET("/destinations/:slug/reviews", h.ListReviews)
		api.POST("/destinations/:slug/reviews", authed, RequireUser(), h.CreateReview)
		api.DELETE("/reviews/:id", authed, h.DeleteReview)

		api.GET("/festivals", h.ListFestivals)
		api.GET("/festivals/upcoming", h.UpcomingFestivals)
		api.GET("/festivals/calendar", h.FestivalCalendar)
		api.GET("/festivals/:id", h.GetFestival)

		api.GET("/hotels", h.ListHotels)
		api.GET("/hotels/quote", h.QuoteStay)
		api.GET("/hotels/:id", h.GetHotel)
		api.GET("/hotels/:id/availability", h.HotelAvailability)
		api.GET("/flights", h.SearchFlights)
		api.GET("/flights/:id", h.GetFlight)
		api.GET("/buses", h.SearchBuses)
		api.GET("/buses/:id", h.GetBus)

		bookings := api.Group("/bookings")
		bookings.GET("/lookup/:reference", h.LookupBooking)
		bookings.GET("/:kind/:id", authed, h.GetBooking)
		bookings.POST("/:kind/:id/cancel", authed, h.CancelBooking)
		own := bookings.Group("", tourist...)
		own.GET("", h.MyBookings)
		own.POST("/hotels", Idempotency(cfg.Redis), h.BookHotel)
		own.POST("/flights", Idempotency(cfg.Redis), h.BookFlight)
		own.POST("/buses", Idempotency(cfg.Redis), h.BookBus)

		api.POST("/payments/checkout", authed, RequireUser(), h.Checkout)
		api.POST("/payments/callback", h.PaymentCallback)
		api.GET("/payments/:reference", authed, h.GetPayment)

		api.GET("/translate/languages", h.Languages)
		api.POST("/translate", cfg.TranslateLimiter.Middleware(), h.Translate)

		trips := api.Group("/trips", tourist...)
		trips.POST("", h.CreateTrip)
		trips.GET("/:id", h.GetTrip)
		trips.POST("/:id/destinations", h.AddTripDestination)
		trips.POST("/:id/optimize", h.OptimizeTrip)

		offers := api.Group("/offers", tourist...)
		offers.POST("/subscribe", h.SubscribeOffers)
		offers.POST("/unsubscribe", h.UnsubscribeOffers)
		api.POST("/enquiries", h.SubmitEnquiry)
	}

	adm := r.Group("/api/admin", admin...)
	{
		adm.GET("/dashboard", h.Dashboard)
		adm.GET("/users", h.ListUsers)
		adm.PUT("/users/:id/block", h.BlockUser)

		adm.POST("/destinations", h.CreateDestination)
		adm.PUT("/destinations/:id", h.UpdateDestination)
		adm.DELETE("/destinations/:id", h.DeleteDestination)
		adm.POST("/destinations/:id/photos", h.AddDestinationPhoto)

		adm.POST("/festivals", h.CreateFestival)
		adm.PUT("/festivals/:id", h.UpdateFestival)
		adm.DELETE("/festivals/:id", h.DeleteFestival)

		adm.POST("/hotels", h.CreateHotel)
		adm.POST("/hotels/:id/rooms", h.CreateRoom)
		adm.POST("/flights", h.CreateFlight)
		adm.POST("/buses", h.CreateBus)

		adm.GET("/bookings", h.ListBookings)
		adm.PUT("/bookings/:kind/:id/status", h.SetBookingStatus)

		adm.POST("/offers/broadcast", h.BroadcastOffer)
		adm.GET("/enquiries", h.ListEnquiries)
	}
	return r
}

func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
