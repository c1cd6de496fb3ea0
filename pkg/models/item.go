package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a reviewable unit (a flashcard) as seen by the scheduler.
// Content and the active flags are owned by the content service and are read-only here.
type Item struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	CollectionID     uuid.NullUUID `json:"collection_id" db:"collection_id"`
	Front            string        `json:"front" db:"front"`
	Back             string        `json:"back" db:"back"`
	Active           bool          `json:"is_active" db:"is_active"`
	CollectionActive bool          `json:"collection_active" db:"collection_active"` // true when the item has no collection
}

// Collection groups items, e.g. a flashcard deck
type Collection struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Active    bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DueFilter selects the items a user has to review
type DueFilter struct {
	UserID       uuid.UUID
	Now          time.Time
	CollectionID *uuid.UUID // optional
}
