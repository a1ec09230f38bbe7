package entity

import (
	"time"
)

// UserContext holds the conversational context payload for a single user.
// The payload is opaque to the store; callers replace it wholesale on every
// write (no merge).
type UserContext struct {
	ID        string         `bson:"_id,omitempty"`
	UserID    string         `bson:"userId"` // unique index
	Payload   map[string]any `bson:"payload"`
	CreatedAt time.Time      `bson:"createdAt"`
	UpdatedAt time.Time      `bson:"updatedAt"`
}
