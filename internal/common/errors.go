// Package common holds sentinel errors shared by the repositories, services and
// HTTP handlers. Callers match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")

	// Validation errors for user and employee input.
	ErrValidation = errors.New("validation error")
)
