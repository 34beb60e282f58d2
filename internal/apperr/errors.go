// Package apperr holds the sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidPath   = errors.New("invalid path")
	// ErrNoActiveNote is returned when an action runs without a note to act on.
	// Callers treat it as a silent no-op.
	ErrNoActiveNote = errors.New("no active note")
)
