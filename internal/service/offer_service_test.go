package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"jharkhand-tourism/internal/apperr"
	"jharkhand-tourism/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSubscriptions struct {
	users    *memUsers
	userIDs  map[int]bool
	failList error
}

func (m *memSubscriptions) Subscribe(_ context.Context, userID int) error {
	m.userIDs[userID] = true
	return nil
}

func (m *memSubscriptions) Unsubscribe(_ context.Context, userID int) error {
	delete(m.userIDs, userID)
	return nil
}

func (m *memSubscriptions) SubscriberTelegramIDs(ctx context.Context) ([]int64, error) {
	if m.failList != nil {
		return nil, m.failList
	}
	ids := []int64{}
	users, _ := m.users.List(ctx)
	for _, u := range users {
		if m.userIDs[u.ID] && u.TelegramID != nil {
			ids = append(ids, *u.TelegramID)
		}
	}
	return ids, nil
}

func TestBroadcastCountsDeliveries(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com", "d@example.com"} {
		_, err := users.Create(ctx, &model.User{Email: email})
		require.NoError(t, err)
	}
	require.NoError(t, users.LinkTelegram(ctx, 1, 101))
	require.NoError(t, users.LinkTelegram(ctx, 2, 102))
	require.NoError(t, users.LinkTelegram(ctx, 4, 104))

	subs := &memSubscriptions{users: users, userIDs: map[int]bool{}}
	announcer, _, notifier := newTestAnnouncer()
	notifier.failFor[102] = true
	svc := NewOfferService(subs, announcer)

	for _, id := range []int{1, 2, 3, 4} {
		require.NoError(t, svc.Subscribe(ctx, id))
	}
	require.NoError(t, svc.Unsubscribe(ctx, 4))

	ids, err := svc.SubscriberIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 102}, ids)

	res, err := svc.Broadcast(ctx, "  Monsoon offer: 20% off at Netarhat  ")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"Monsoon offer: 20% off at Netarhat"}, notifier.messages[101])
	assert.Empty(t, notifier.messages[104])
}

func TestBroadcastValidation(t *testing.T) {
	subs := &memSubscriptions{users: newMemUsers(), userIDs: map[int]bool{}}
	svc := NewOfferService(subs, nil)
	ctx := context.Background()

	_, err := svc.Broadcast(ctx, "   ")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = svc.Broadcast(ctx, strings.Repeat("x", 4097))
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	subs.failList = errors.New("db down")
	_, err = svc.Broadcast(ctx, "hello")
	assert.EqualError(t, err, "db down")
}
