package shop

import "errors"

var (
	// ErrValidation marks malformed or missing fields on product creation or
	// cart add. The mutation is never applied or persisted.
	ErrValidation = errors.New("validation failed")

	// ErrMissingImage marks product creation without an image reference.
	ErrMissingImage = errors.New("image reference required")
)
