package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"jharkhand-tourism/internal/auth"
	"jharkhand-tourism/internal/cache"
	"jharkhand-tourism/internal/config"
	"jharkhand-tourism/internal/events"
	"jharkhand-tourism/internal/geo"
	"jharkhand-tourism/internal/notify"
	"jharkhand-tourism/internal/repository"
	"jharkhand-tourism/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.New()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if cfg.Telegram.BotToken == "" {
		slog.Error("BOT_TOKEN is not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("bot stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := repository.Connect(ctx, cfg.Postgres.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		if rdb, err = cache.NewClient(ctx, cache.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}); err != nil {
			return err
		}
		defer rdb.Close()
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return err
	}
	slog.Info("bot started", "username", api.Self.UserName)

	userRepo := repository.NewUserRepository(db)
	destinationRepo := repository.NewDestinationRepository(db)
	announcer := service.NewAnnouncer(events.Noop{}, notify.NewTelegram(api), cfg.Telegram.SupportChatID)

	bot := &tourBot{
		api: api,
		auth: service.NewAuthService(userRepo, repository.NewAdminRepository(db),
			auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL), cfg.Auth.AdminInviteCode),
		destinations: service.NewDestinationService(destinationRepo, cache.NewStore(rdb, cfg.App.Name+":"),
			geo.Links{EmbedBaseURL: cfg.Maps.EmbedBaseURL, APIKey: cfg.Maps.APIKey}),
		festivals: service.NewFestivalService(repository.NewFestivalRepository(db)),
		bookings: service.NewBookingService(repository.NewBookingRepository(db), repository.NewFlightRepository(db),
			repository.NewBusRepository(db), userRepo, destinationRepo, repository.NewTxManager(db), announcer),
		offers: service.NewOfferService(repository.NewSubscriptionRepository(db), announcer),
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	defer api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			bot.handle(ctx, update)
		}
	}
}
