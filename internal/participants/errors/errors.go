package errors

import "errors"

var (
	ErrNotFound       = errors.New("participant not found")
	ErrInvalidID      = errors.New("invalid participant ID format")
	ErrDuplicateEmail = errors.New("participant email already exists")
)
