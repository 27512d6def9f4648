package models

import "errors"

// Custom errors
var (
	ErrNotFound    = errors.New("record not found")
	ErrNoOdds      = errors.New("no odds available")
	ErrInvalidOdds = errors.New("invalid American odds")
)
