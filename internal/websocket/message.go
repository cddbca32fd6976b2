// Package websocket streams schedule lifecycle events to connected clients.
package websocket

import (
	"encoding/json"
	"time"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	// Schedule event types
	MessageTypeScheduleCreated   MessageType = "schedule.created"
	MessageTypeScheduleUpdated   MessageType = "schedule.updated"
	MessageTypeScheduleDeleted   MessageType = "schedule.deleted"
	MessageTypeScheduleTriggered MessageType = "schedule.triggered"

	// Connection management
	MessageTypePing         MessageType = "ping"
	MessageTypePong         MessageType = "pong"
	MessageTypeError        MessageType = "error"
	MessageTypeSubscribe    MessageType = "subscribe"
	MessageTypeUnsubscribe  MessageType = "unsubscribe"
	MessageTypeSubscribed   MessageType = "subscribed"
	MessageTypeUnsubscribed MessageType = "unsubscribed"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ScheduleEventData contains schedule event details
type ScheduleEventData struct {
	ScheduleID     string     `json:"schedule_id"`
	TaskID         string     `json:"task_id"`
	Name           string     `json:"name,omitempty"`
	CronExpression string     `json:"cron_expression,omitempty"`
	Description    string     `json:"description,omitempty"`
	Timezone       string     `json:"timezone,omitempty"`
	Enabled        *bool      `json:"enabled,omitempty"`
	TriggeredAt    *time.Time `json:"triggered_at,omitempty"`
	NextTriggerAt  *time.Time `json:"next_trigger_at,omitempty"`
}

// ErrorData contains error details
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SubscriptionData contains subscription request details
type SubscriptionData struct {
	Channel string  `json:"channel"` // e.g. "schedules", "schedules:{id}", "tasks:{id}"
	Filters Filters `json:"filters,omitempty"`
}

// Filters for subscription
type Filters struct {
	ScheduleIDs []string `json:"schedule_ids,omitempty"`
	TaskIDs     []string `json:"task_ids,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		rawData = jsonData
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Data:      rawData,
	}, nil
}

// ToJSON converts a message to JSON bytes
func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
