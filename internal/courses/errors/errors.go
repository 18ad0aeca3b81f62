package errors

import "errors"

var (
	ErrNotFound = errors.New("course not found")

	ErrInvalidID = errors.New("invalid course ID format")
)
