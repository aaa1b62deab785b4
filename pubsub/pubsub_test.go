package pubsub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToMatchingTopicsOnly(t *testing.T) {
	hub := NewHub()

	orders, cancelOrders := hub.Subscribe([]string{"order.abc"})
	defer cancelOrders()
	users, cancelUsers := hub.Subscribe([]string{"user.1", "user.2"})
	defer cancelUsers()

	hub.Publish("order.abc", map[string]string{"status": "PLACED"})
	hub.Publish("user.2", map[string]string{"status": "ACCEPTED"})
	hub.Publish("user.99", map[string]string{"status": "READY"})

	ev := <-orders
	assert.Equal(t, "order.abc", ev.Topic)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, "PLACED", payload["status"])

	ev = <-users
	assert.Equal(t, "user.2", ev.Topic)

	select {
	case ev := <-orders:
		t.Fatalf("unexpected event %q", ev.Topic)
	default:
	}
}

func TestCancelUnsubscribes(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe([]string{"order.x"})
	cancel()
	// channel is closed; publishing afterwards must not panic
	hub.Publish("order.x", "hi")
	_, open := <-ch
	assert.False(t, open)
	// double cancel is safe
	cancel()
}

func TestSlowSubscriberIsSkippedNotBlocked(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe([]string{"order.x"})
	defer cancel()

	// fill the buffer and keep going; Publish must never block
	for i := 0; i < 100; i++ {
		hub.Publish("order.x", i)
	}
	assert.NotEmpty(t, ch)
}

func TestBroadcastReachesTees(t *testing.T) {
	got := make(chan string, 1)
	AttachTee(publisherFunc(func(topic string, payload any) {
		got <- topic
	}))

	Broadcast("restaurant.7", "ping")
	assert.Equal(t, "restaurant.7", <-got)
}

type publisherFunc func(topic string, payload any)

func (f publisherFunc) Publish(topic string, payload any) { f(topic, payload) }
