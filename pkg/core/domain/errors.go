package domain

import "errors"

var (
	// ErrInvalidInput covers malformed target URLs, malformed codes and unparseable bodies.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a code is already taken.
	ErrConflict = errors.New("code already exists")

	// ErrNotFound is returned when no live link has the requested code.
	ErrNotFound = errors.New("link not found")

	// ErrGenerationExhausted is returned when no free code was found within the retry budget.
	ErrGenerationExhausted = errors.New("failed to generate unique code")
)
