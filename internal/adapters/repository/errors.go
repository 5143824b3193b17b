package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("conversion not found")
	ErrAlreadyExists = errors.New("job already exists")
)
