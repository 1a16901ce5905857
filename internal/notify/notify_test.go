package notify

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestTelegramNotify(t *testing.T) {
	fs := &fakeSender{}
	n := &Telegram{bot: fs}

	require.NoError(t, n.Notify(context.Background(), 77, "Booking JH-H-1 confirmed"))
	require.Len(t, fs.sent, 1)
	assert.Equal(t, int64(77), fs.sent[0].ChatID)
	assert.Equal(t, "Booking JH-H-1 confirmed", fs.sent[0].Text)

	require.NoError(t, n.Notify(context.Background(), 0, "ignored"))
	assert.Len(t, fs.sent, 1)
}

func TestTelegramNotifyError(t *testing.T) {
	n := &Telegram{bot: &fakeSender{err: errors.New("blocked")}}
	err := n.Notify(context.Background(), 1, "hi")
	assert.ErrorContains(t, err, "blocked")
}
