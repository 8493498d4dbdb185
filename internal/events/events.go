package events

import (
	"encoding/json"
	"time"
)

type Event struct {
	Type string          `json:"type"`
	At   time.Time       `json:"at"`
	Data json.RawMessage `json:"data,omitempty"`
}

func Make(typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	b, _ := json.Marshal(Event{Type: typ, At: time.Now().UTC(), Data: raw})
	return string(b)
}

// RunStarted announces a pipeline run kicking off.
func RunStarted() string {
	return Make("run_started", nil)
}

// RunCompleted announces a finished run with its headline numbers.
func RunCompleted(fetched, scored int, embeddingAvailable bool, status string) string {
	return Make("run_completed", map[string]any{
		"fetched":             fetched,
		"scored":              scored,
		"embedding_available": embeddingAvailable,
		"status":              status,
	})
}
