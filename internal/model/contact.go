package model

import (
	"strings"
	"time"
)

// ContactMessage is a message submitted through the public contact form.
// It is stored and acknowledged; delivery to staff happens out of band.
type ContactMessage struct {
	ID        uint64    // contact_messages.id
	Name      string    // contact_messages.name
	Email     string    // contact_messages.email
	Subject   string    // contact_messages.subject (may be empty)
	Message   string    // contact_messages.message
	CreatedAt time.Time // contact_messages.created_at
}

// Validate checks the required contact form fields. Subject is optional.
func (m *ContactMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(m.Email) == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if strings.TrimSpace(m.Message) == "" {
		return &ValidationError{Field: "message", Message: "message is required"}
	}
	return nil
}
