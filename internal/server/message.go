package server

import (
	"encoding/json"
	"time"

	"github.com/lox/stacktrace/internal/cards"
)

// MessageType identifies the payload carried by a Message
type MessageType string

const (
	// Client → Server
	MessageTypeCard     MessageType = "card"
	MessageTypeGroup    MessageType = "group"
	MessageTypeUndo     MessageType = "undo"
	MessageTypeUndoLast MessageType = "undo_last"
	MessageTypeReset    MessageType = "reset"
	MessageTypeSettings MessageType = "settings"

	// Server → Client
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

func (t MessageType) String() string {
	return string(t)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message stamped with the given time
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	msg := &Message{Type: messageType, Timestamp: now}
	if data != nil {
		dataBytes, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = dataBytes
	}
	return msg, nil
}

// CardData records an exact card
type CardData struct {
	Rank  cards.Rank `json:"rank"`
	Label string     `json:"label,omitempty"`
}

// GroupData records a card entered as Low, Neutral or High
type GroupData struct {
	Group cards.Group `json:"group"`
}

// UndoData undoes the event with the given id if it is still the last one
type UndoData struct {
	ID string `json:"id"`
}

// SettingsData changes any subset of the settings
type SettingsData struct {
	Decks     *int    `json:"decks,omitempty"`
	System    *string `json:"system,omitempty"`
	InputMode *string `json:"inputMode,omitempty"`
}

// ErrorData reports a rejected request
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SystemData describes a registered counting system
type SystemData struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Balanced    bool               `json:"balanced"`
	Level       float64            `json:"level"`
	Weights     map[string]float64 `json:"weights"`
}
