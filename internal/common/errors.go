package common

import "errors"

var (
	// Validation errors (user-supplied form input).
	ErrorInvalidInput = errors.New("invalid input")

	// Local storage errors.
	ErrorCorruptRecord = errors.New("corrupt record")
)
