package store

import "errors"

// Sentinel errors for the campaign store.
var (
	ErrNotFound          = errors.New("campaign not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)
