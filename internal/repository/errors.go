// Package repository implements persistence for accounts, donations and
// contact messages over database/sql. Sentinel errors let handlers map
// failure modes onto HTTP responses without inspecting strings.
package repository

import "errors"

// ErrEmailExists is returned when account creation collides with an
// existing email. Email uniqueness is global across both roles.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when the requested account or donation does
// not exist. Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own or that their role does not permit. Handlers
// translate it into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidTransition is returned when a donation status change does
// not follow the forward-only lifecycle. Handlers translate it into an
// HTTP 409 response.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrConflict is returned when an update cannot proceed because of the
// record's current state, such as editing a donation that has already
// been claimed. Handlers translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
