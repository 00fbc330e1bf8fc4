package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is the folded state of a user aggregate.
type User struct {
	ID      string
	Name    string
	Country string
	Email   string
}

// UserEventType names a fact recorded about a user.
type UserEventType string

// UserCreated is the first and only event of a user's history.
const UserCreated UserEventType = "UserCreated"

// UserEvent is one entry in a user's append-only history.
type UserEvent struct {
	ID         uuid.UUID
	UserID     string
	Version    int
	Type       UserEventType
	Name       string
	Country    string
	Email      string
	OccurredAt time.Time
}

// UserStore persists user event histories.
type UserStore interface {
	// Append stores event unless an event with the same user ID and version
	// exists. It reports whether the event was stored.
	Append(ctx context.Context, event UserEvent) (bool, error)
	// Events returns the user's history ordered by version.
	Events(ctx context.Context, userID string) ([]UserEvent, error)
}
