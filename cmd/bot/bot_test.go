package main

import (
	"context"
	"fmt"
	"testing"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/geo"
	"jharkhand-tourism/internal/model"
	"jharkhand-tourism/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAPI struct {
	sent     []tgbotapi.MessageConfig
	answered int
}

func (r *recordingAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.sent = append(r.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (r *recordingAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	r.answered++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type catalogue []model.Destination

func (c catalogue) FindAll(context.Context) ([]model.Destination, error) { return c, nil }

func (c catalogue) FindByFilters(context.Context, model.DestinationFilter) ([]model.Destination, error) {
	return c, nil
}

func (c catalogue) GetByID(_ context.Context, id int) (*model.Destination, error) {
	for i := range c {
		if c[i].ID == id {
			return &c[i], nil
		}
	}
	return nil, fmt.Errorf("destination %d: %w", id, apperr.ErrNotFound)
}

func (c catalogue) GetBySlug(_ context.Context, slug string) (*model.Destination, error) {
	for i := range c {
		if c[i].Slug == slug {
			return &c[i], nil
		}
	}
	return nil, fmt.Errorf("destination %s: %w", slug, apperr.ErrNotFound)
}

func (catalogue) Create(context.Context, *model.Destination) (int, error) { return 0, nil }
func (catalogue) Update(context.Context, *model.Destination) error         { return nil }
func (catalogue) Delete(context.Context, int) error                        { return nil }

func (catalogue) AddPhoto(context.Context, *model.DestinationPhoto) (int, error) { return 0, nil }

func (catalogue) GetPhotos(context.Context, int) ([]model.DestinationPhoto, error) { return nil, nil }

// unlinkedUsers knows no Telegram accounts.
type unlinkedUsers struct{}

func (unlinkedUsers) Create(context.Context, *model.User) (int, error) { return 0, nil }

func (unlinkedUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return nil, fmt.Errorf("user %s: %w", email, apperr.ErrNotFound)
}

func (unlinkedUsers) GetByID(_ context.Context, id int) (*model.User, error) {
	return nil, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
}

func (unlinkedUsers) GetByTelegramID(_ context.Context, id int64) (*model.User, error) {
	return nil, fmt.Errorf("telegram user %d: %w", id, apperr.ErrNotFound)
}

func (unlinkedUsers) LinkTelegram(context.Context, int, int64) error { return nil }

func newTestBot() (*tourBot, *recordingAPI) {
	api := &recordingAPI{}
	places := catalogue{
		{ID: 1, Slug: "hundru-falls", Name: "Hundru Falls", District: "Ranchi", Category: "waterfall",
			Latitude: 23.4504, Longitude: 85.6684, Rating: 4.5, ReviewCount: 12, Description: "A 98 m drop of the Subarnarekha."},
		{ID: 2, Slug: "dassam-falls", Name: "Dassam Falls", District: "Ranchi", Category: "waterfall",
			Latitude: 23.1453, Longitude: 85.4646},
	}
	return &tourBot{
		api:          api,
		auth:         service.NewAuthService(unlinkedUsers{}, nil, nil, ""),
		destinations: service.NewDestinationService(places, nil, geo.Links{}),
	}, api
}

func command(text string) *tgbotapi.Message {
	end := len(text)
	for i, r := range text {
		if r == ' ' {
			end = i
			break
		}
	}
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 100},
		From:     &tgbotapi.User{ID: 42},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: end}},
	}
}

func TestHelpAndUnknownCommand(t *testing.T) {
	bot, _ := newTestBot()

	out := bot.reply(context.Background(), command("/help"))
	assert.Equal(t, int64(100), out.ChatID)
	assert.Contains(t, out.Text, "/festivals")

	out = bot.reply(context.Background(), command("/dance"))
	assert.Contains(t, out.Text, "Unknown command")
}

func TestStartAsksUnlinkedUserToLink(t *testing.T) {
	bot, _ := newTestBot()

	out := bot.reply(context.Background(), command("/start"))
	assert.Contains(t, out.Text, "Telegram ID 42")

	out = bot.reply(context.Background(), command("/subscribe_offers"))
	assert.Contains(t, out.Text, "not linked")
}

func TestSearchListsDestinationButtons(t *testing.T) {
	bot, api := newTestBot()

	bot.handle(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Text: "falls",
		Chat: &tgbotapi.Chat{ID: 100},
		From: &tgbotapi.User{ID: 42},
	}})

	require.Len(t, api.sent, 1)
	assert.Equal(t, "Found: 2", api.sent[0].Text)
	markup, ok := api.sent[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "Hundru Falls (Ranchi)", markup.InlineKeyboard[0][0].Text)
	require.NotNil(t, markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "DEST_hundru-falls", *markup.InlineKeyboard[0][0].CallbackData)
}

func TestDestinationCallback(t *testing.T) {
	bot, api := newTestBot()

	bot.handle(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		Data:    "DEST_hundru-falls",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 100}},
	}})

	assert.Equal(t, 1, api.answered)
	require.Len(t, api.sent, 1)
	assert.Contains(t, api.sent[0].Text, "Hundru Falls")
	assert.Contains(t, api.sent[0].Text, "Rating 4.5 from 12 reviews")
	markup := api.sent[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.Len(t, markup.InlineKeyboard[0], 2)
	require.NotNil(t, markup.InlineKeyboard[0][1].URL)
	assert.Contains(t, *markup.InlineKeyboard[0][1].URL, "destination=23.450400%2C85.668400")

	out := bot.callback(context.Background(), 100, "DEST_atlantis")
	assert.Equal(t, "This place is no longer listed.", out.Text)

	out = bot.callback(context.Background(), 100, "LOC_7")
	assert.Equal(t, "This button has expired.", out.Text)
}

func TestBookingNeedsReference(t *testing.T) {
	bot, _ := newTestBot()

	out := bot.reply(context.Background(), command("/booking"))
	assert.Equal(t, "Usage: /booking <reference>", out.Text)
}
