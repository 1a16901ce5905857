package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	e, err := New(TypeBookingCreated, "JH-H-0011AABB", map[string]any{"total": 4500.0})
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "JH-H-0011AABB", e.Key)
	assert.False(t, e.OccurredAt.IsZero())

	var payload map[string]float64
	require.NoError(t, json.Unmarshal(e.Payload, &payload))
	assert.Equal(t, 4500.0, payload["total"])
}

func TestNewEventRejectsUnmarshalablePayload(t *testing.T) {
	_, err := New(TypeBookingCreated, "k", make(chan int))
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	e1, _ := New(TypeBookingCreated, "a", nil)
	e2, _ := New(TypeBookingCancelled, "a", nil)
	require.NoError(t, r.Publish(context.Background(), e1))
	require.NoError(t, r.Publish(context.Background(), e2))
	assert.Equal(t, []string{TypeBookingCreated, TypeBookingCancelled}, r.Types())
}

func TestKafkaPublisherTopic(t *testing.T) {
	p := NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "bookings"})
	defer p.Close()
	assert.Equal(t, "bookings", p.Topic())
}
