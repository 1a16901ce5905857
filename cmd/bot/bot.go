package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/model"
	"jharkhand-tourism/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	destinationPrefix = "DEST_"
	maxSearchButtons  = 10
)

const helpText = `Jharkhand Tourism bot

/destinations [keyword] - find places to visit
/festivals - upcoming festivals
/booking <reference> - booking status
/subscribe_offers - receive offers here
/unsubscribe_offers - stop offers
/help - this message

Or just type a place name, e.g. "falls".`

// telegramAPI is the part of *tgbotapi.BotAPI the bot uses.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type tourBot struct {
	api          telegramAPI
	auth         *service.AuthService
	destinations *service.DestinationService
	festivals    *service.FestivalService
	bookings     *service.BookingService
	offers       *service.OfferService
}

func (b *tourBot) handle(ctx context.Context, update tgbotapi.Update) {
	if cq := update.CallbackQuery; cq != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			slog.Warn("answer callback", "error", err)
		}
		if cq.Message == nil {
			return
		}
		b.send(b.callback(ctx, cq.Message.Chat.ID, cq.Data))
		return
	}
	if update.Message == nil || update.Message.From == nil {
		return
	}
	b.send(b.reply(ctx, update.Message))
}

func (b *tourBot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		slog.Warn("telegram send", "chat_id", msg.ChatID, "error", err)
	}
}

func (b *tourBot) reply(ctx context.Context, msg *tgbotapi.Message) tgbotapi.MessageConfig {
	chatID := msg.Chat.ID
	if !msg.IsCommand() {
		return b.search(ctx, chatID, msg.Text)
	}

	switch msg.Command() {
	case "start":
		user, err := b.auth.TelegramUser(ctx, msg.From.ID)
		if err != nil {
			return b.linkHint(chatID, msg.From.ID, err)
		}
		return tgbotapi.NewMessage(chatID, fmt.Sprintf("Johar, %s! Type /help to see what I can do.", user.FullName))
	case "help":
		return tgbotapi.NewMessage(chatID, helpText)
	case "destinations":
		return b.search(ctx, chatID, msg.CommandArguments())
	case "festivals":
		return b.upcomingFestivals(ctx, chatID)
	case "booking":
		return b.bookingStatus(ctx, chatID, msg.CommandArguments())
	case "subscribe_offers", "unsubscribe_offers":
		user, err := b.auth.TelegramUser(ctx, msg.From.ID)
		if err != nil {
			return b.linkHint(chatID, msg.From.ID, err)
		}
		if msg.Command() == "subscribe_offers" {
			err = b.offers.Subscribe(ctx, user.ID)
		} else {
			err = b.offers.Unsubscribe(ctx, user.ID)
		}
		if err != nil {
			slog.Error("offer subscription", "user_id", user.ID, "error", err)
			return tgbotapi.NewMessage(chatID, "Something went wrong, please try again later.")
		}
		if msg.Command() == "subscribe_offers" {
			return tgbotapi.NewMessage(chatID, "You are subscribed to offers.")
		}
		return tgbotapi.NewMessage(chatID, "You will no longer receive offers.")
	default:
		return tgbotapi.NewMessage(chatID, "Unknown command. Type /help.")
	}
}

func (b *tourBot) linkHint(chatID, telegramID int64, err error) tgbotapi.MessageConfig {
	if !errors.Is(err, apperr.ErrNotFound) {
		slog.Error("telegram user lookup", "telegram_id", telegramID, "error", err)
		return tgbotapi.NewMessage(chatID, "Something went wrong, please try again later.")
	}
	return tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Your Telegram account is not linked yet. Sign in on the website and add Telegram ID %d to your profile.", telegramID))
}

func (b *tourBot) search(ctx context.Context, chatID int64, keyword string) tgbotapi.MessageConfig {
	keyword = strings.TrimSpace(keyword)
	if keyword == "*" {
		keyword = ""
	}
	found, err := b.destinations.Search(ctx, model.DestinationFilter{Keyword: keyword, Sort: "-rating", Limit: maxSearchButtons})
	if err != nil {
		slog.Error("bot destination search", "keyword", keyword, "error", err)
		return tgbotapi.NewMessage(chatID, "Search is unavailable right now.")
	}
	if len(found) == 0 {
		return tgbotapi.NewMessage(chatID, "Nothing found.")
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(found))
	for _, d := range found {
		label := fmt.Sprintf("%s (%s)", d.Name, d.District)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, destinationPrefix+d.Slug)))
	}
	out := tgbotapi.NewMessage(chatID, fmt.Sprintf("Found: %d", len(found)))
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	return out
}

func (b *tourBot) callback(ctx context.Context, chatID int64, data string) tgbotapi.MessageConfig {
	slug, ok := strings.CutPrefix(data, destinationPrefix)
	if !ok {
		return tgbotapi.NewMessage(chatID, "This button has expired.")
	}
	d, err := b.destinations.Details(ctx, slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return tgbotapi.NewMessage(chatID, "This place is no longer listed.")
		}
		slog.Error("bot destination details", "slug", slug, "error", err)
		return tgbotapi.NewMessage(chatID, "Could not load the destination.")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s, %s\n", d.Name, d.District, d.Category)
	if d.ReviewCount > 0 {
		fmt.Fprintf(&sb, "Rating %.1f from %d reviews\n", d.Rating, d.ReviewCount)
	}
	if d.BestTime != "" {
		fmt.Fprintf(&sb, "Best time: %s\n", d.BestTime)
	}
	sb.WriteString("\n" + d.Description)

	out := tgbotapi.NewMessage(chatID, sb.String())
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonURL("Open in Maps", d.Map.ViewURL),
		tgbotapi.NewInlineKeyboardButtonURL("Directions", d.Map.DirectionsURL),
	))
	return out
}

func (b *tourBot) upcomingFestivals(ctx context.Context, chatID int64) tgbotapi.MessageConfig {
	festivals, err := b.festivals.Upcoming(ctx, time.Time{}, 5)
	if err != nil {
		slog.Error("bot upcoming festivals", "error", err)
		return tgbotapi.NewMessage(chatID, "Festival calendar is unavailable right now.")
	}
	if len(festivals) == 0 {
		return tgbotapi.NewMessage(chatID, "No upcoming festivals listed.")
	}
	var sb strings.Builder
	sb.WriteString("Upcoming festivals:\n")
	for _, f := range festivals {
		fmt.Fprintf(&sb, "\n%s, %s", f.Name, f.StartDate.Format("2 Jan"))
		if !f.EndDate.Equal(f.StartDate) {
			fmt.Fprintf(&sb, " to %s", f.EndDate.Format("2 Jan"))
		}
		if f.District != "" {
			fmt.Fprintf(&sb, " (%s)", f.District)
		}
	}
	return tgbotapi.NewMessage(chatID, sb.String())
}

func (b *tourBot) bookingStatus(ctx context.Context, chatID int64, reference string) tgbotapi.MessageConfig {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return tgbotapi.NewMessage(chatID, "Usage: /booking <reference>")
	}
	s, err := b.bookings.Lookup(ctx, reference)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return tgbotapi.NewMessage(chatID, "No booking with that reference.")
		}
		slog.Error("bot booking lookup", "reference", reference, "error", err)
		return tgbotapi.NewMessage(chatID, "Could not look up the booking.")
	}
	return tgbotapi.NewMessage(chatID, fmt.Sprintf("Booking %s (%s): %s", s.Reference, s.Kind, s.Status))
}
