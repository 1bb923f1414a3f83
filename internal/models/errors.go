package models

import "errors"

var (
	// ErrNotFound is returned when a watchlist, site or title does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidTemplate is returned when a search URL lacks the placeholder token
	ErrInvalidTemplate = errors.New("the Search URL must contain `query` as a placeholder")

	// ErrInvalidInput covers empty names and similar validation failures
	ErrInvalidInput = errors.New("invalid input")
)
