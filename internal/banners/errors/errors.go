package errors

import "errors"

var (
	ErrNotFound = errors.New("banner not found")

	ErrInvalidID = errors.New("invalid banner ID format")

	ErrSourceUnavailable = errors.New("banner source unavailable")
)
