package storage

import "errors"

// Storage errors for the append-only event logs.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSourceUnavailable is returned when the underlying table or log
	// for a requested event kind does not exist at all. The pipeline
	// treats this as fatal before any output is written.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrDuplicateKey is returned when attempting to insert a record
	// with a key that already exists. The event logs are append-only.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
