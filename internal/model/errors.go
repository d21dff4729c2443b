// Package model defines the domain records of the donation platform and
// the validation rules they must satisfy before persistence.
package model

// ValidationError reports a missing or malformed input field. Handlers
// translate it into an HTTP 400 response carrying the message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
