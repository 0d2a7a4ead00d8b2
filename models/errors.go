package models

import "errors"

// Error kinds returned by the service layer. Callers match them with
// errors.Is; services wrap them with %w to attach detail.
var (
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("not allowed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrPersistence  = errors.New("storage failure")
)
