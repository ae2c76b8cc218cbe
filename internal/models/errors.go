package models

import "errors"

// Custom errors
var (
	ErrInvalidMatch = errors.New("invalid match input")
	ErrNotFound     = errors.New("record not found")
	ErrInvalidID    = errors.New("invalid ID format")
)
