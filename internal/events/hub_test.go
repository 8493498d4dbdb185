package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishReachesSubscribers(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Publish("hello")
	assert.Equal(t, "hello", <-ch)
}

func TestHubSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	// channel buffer is 10; everything past it must be dropped, not block
	for i := 0; i < 50; i++ {
		h.Publish("evt")
	}
	assert.Len(t, ch, 10)
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	h.Unsubscribe(ch)
	h.Publish("after") // must not panic on the closed channel
	_, open := <-ch
	assert.False(t, open)
}

func TestRunCompletedPayload(t *testing.T) {
	var evt Event
	require.NoError(t, json.Unmarshal([]byte(RunCompleted(40, 38, true, "success")), &evt))
	assert.Equal(t, "run_completed", evt.Type)

	var data map[string]any
	require.NoError(t, json.Unmarshal(evt.Data, &data))
	assert.Equal(t, float64(40), data["fetched"])
	assert.Equal(t, true, data["embedding_available"])
	assert.Equal(t, "success", data["status"])
}
