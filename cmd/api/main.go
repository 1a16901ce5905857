package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jharkhand-tourism/internal/auth"
	"jharkhand-tourism/internal/cache"
	"jharkhand-tourism/internal/config"
	"jharkhand-tourism/internal/events"
	"jharkhand-tourism/internal/geo"
	"jharkhand-tourism/internal/handler"
	"jharkhand-tourism/internal/notify"
	"jharkhand-tourism/internal/repository"
	"jharkhand-tourism/internal/service"
	"jharkhand-tourism/internal/translate"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Log.Level)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := repository.Connect(ctx, cfg.Postgres.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db, cfg.Postgres.MigrationsDir); err != nil {
		return err
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = cache.NewClient(ctx, cache.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
	} else {
		slog.Warn("redis not configured, caching and idempotency keys disabled")
	}
	store := cache.NewStore(rdb, cfg.App.Name+":")
	// Translation entries are stored unprefixed as translate:<sha256>.
	translations := cache.NewStore(rdb, "")

	var publisher events.Publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(events.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		defer kp.Close()
		publisher = kp
		slog.Info("publishing booking events", "topic", kp.Topic())
	}

	var notifier notify.Notifier = notify.Log{}
	if cfg.Telegram.BotToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			return err
		}
		notifier = notify.NewTelegram(bot)
	}
	announcer := service.NewAnnouncer(publisher, notifier, cfg.Telegram.SupportChatID)

	txm := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	destinationRepo := repository.NewDestinationRepository(db)
	festivalRepo := repository.NewFestivalRepository(db)
	hotelRepo := repository.NewHotelRepository(db)
	flightRepo := repository.NewFlightRepository(db)
	busRepo := repository.NewBusRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	tripRepo := repository.NewTripRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	enquiryRepo := repository.NewEnquiryRepository(db)

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL)
	links := geo.Links{EmbedBaseURL: cfg.Maps.EmbedBaseURL, APIKey: cfg.Maps.APIKey}

	h := &handler.Handler{
		AuthService:        service.NewAuthService(userRepo, adminRepo, tokens, cfg.Auth.AdminInviteCode),
		UserService:        service.NewUserService(userRepo),
		DestinationService: service.NewDestinationService(destinationRepo, store, links),
		FestivalService:    service.NewFestivalService(festivalRepo),
		HotelService:       service.NewHotelService(hotelRepo, bookingRepo, txm, announcer),
		TransportService:   service.NewTransportService(flightRepo, busRepo, bookingRepo, txm, announcer),
		BookingService:     service.NewBookingService(bookingRepo, flightRepo, busRepo, userRepo, destinationRepo, txm, announcer),
		PaymentService: service.NewPaymentService(paymentRepo, bookingRepo, txm, service.PaymentConfig{
			CheckoutURL:   cfg.Payment.CheckoutURL,
			WebhookSecret: cfg.Payment.WebhookSecret,
			Currency:      cfg.Payment.Currency,
		}, announcer),
		ReviewService: service.NewReviewService(reviewRepo, destinationRepo, txm, store),
		TranslationService: service.NewTranslationService(
			translate.NewClient(cfg.Translate.Endpoint, cfg.Translate.APIKey, cfg.Translate.Timeout), translations, cfg.Translate.CacheTTL),
		TripService:    service.NewTripService(tripRepo, destinationRepo, txm),
		OfferService:   service.NewOfferService(subRepo, announcer),
		EnquiryService: service.NewEnquiryService(enquiryRepo, announcer),
	}

	limiter := handler.NewRateLimiter(cfg.Translate.Rate, cfg.Translate.Burst)
	go limiter.Run(ctx, time.Minute, 10*time.Minute)

	router := handler.NewRouter(h, handler.RouterConfig{
		Tokens:           tokens,
		DB:               db,
		Redis:            rdb,
		TranslateLimiter: limiter,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "version", cfg.App.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
