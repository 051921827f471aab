package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewMessage encodes a message for sending to clients.
func NewMessage(action string, payload interface{}) []byte {
	b, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode websocket message")
		return NewErrorMessage("internal error")
	}
	return b
}

// NewErrorMessage builds an "error" message carrying a human readable reason.
func NewErrorMessage(reason string) []byte {
	b, _ := json.Marshal(Message{Action: "error", Payload: map[string]string{"message": reason}})
	return b
}
