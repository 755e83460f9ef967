package models

import (
	"fmt"
	"strings"
)

// Todo represents a single todo item as the server stores it.
//
// The server assigns IDs; the client never invents one. The wire format uses
// "_id" for the identifier field.
type Todo struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Validate checks that a todo carries the fields the client relies on.
func (t Todo) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("todo is missing an id")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("todo %s has an empty title", t.ID)
	}
	return nil
}

// UserProfile is the display-only projection of the authenticated user.
// Fetched on demand, never cached.
type UserProfile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
