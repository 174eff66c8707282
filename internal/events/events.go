package events

import "time"

// Event types
const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"
)

// Stream names
const (
	UserEventsStream = "user.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// User events
type UserCreatedEvent struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

type UserUpdatedEvent struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
	MBTI     string `json:"mbti"`
}

type UserDeletedEvent struct {
	UserID string `json:"userId"`
}
