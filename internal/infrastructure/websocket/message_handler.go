package websocket

import (
	"encoding/json"
	"time"
)

// WebSocket message types
const (
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeLedgerEntry = "ledger_entry"
	MessageTypeError       = "error"
)

type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type ErrorData struct {
	Message string `json:"message"`
}

// HandleMessage answers a client frame. The channel is push only, so the
// sole request clients can make is a ping.
func HandleMessage(raw []byte) []byte {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return encode(MessageTypeError, ErrorData{Message: "invalid message format"})
	}

	switch msg.Type {
	case MessageTypePing:
		return encode(MessageTypePong, nil)
	default:
		return encode(MessageTypeError, ErrorData{Message: "unsupported message type: " + msg.Type})
	}
}

func encode(msgType string, data interface{}) []byte {
	payload, _ := json.Marshal(WSMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	return payload
}
