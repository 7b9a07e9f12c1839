package models

import "time"

// Activity types recorded for catalog mutations.
const (
	ActivityBookCreated = "BOOK_CREATED"
	ActivityBookUpdated = "BOOK_UPDATED"
	ActivityBookDeleted = "BOOK_DELETED"
)

// BookActivity is a single entry of a user's catalog history.
type BookActivity struct {
	ID          string    `json:"id"`
	OccurredAt  time.Time `json:"occurredAt"`
	Type        string    `json:"type"` // BOOK_CREATED | BOOK_UPDATED | BOOK_DELETED
	BookID      string    `json:"bookId"`
	UserID      string    `json:"user"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
