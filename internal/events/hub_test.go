package events_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"jobradar-engine/internal/events"
)

func TestHubPublishFanout(t *testing.T) {
	hub := events.NewHub()
	a := hub.Subscribe()
	b := hub.Subscribe()

	hub.Publish("hello")
	require.Equal(t, "hello", <-a)
	require.Equal(t, "hello", <-b)
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := events.NewHub()
	ch := hub.Subscribe()
	hub.Unsubscribe(ch)

	_, open := <-ch
	require.False(t, open)
}

func TestHubDropsWhenSlow(t *testing.T) {
	hub := events.NewHub()
	ch := hub.Subscribe()

	// channel buffer is 10; overflow must not block the publisher
	for i := 0; i < 50; i++ {
		hub.Publish("evt")
	}
	require.Len(t, ch, 10)
}

func TestMakeEvent(t *testing.T) {
	raw := events.MakeEvent("req-1", "job_created", 1, map[string]any{"id": 7})

	var e events.Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	require.Equal(t, "job_created", e.Type)
	require.Equal(t, 1, e.Version)
	require.Equal(t, "req-1", e.RequestID)
	require.JSONEq(t, `{"id":7}`, string(e.Data))
	require.False(t, e.At.IsZero())
}
