package repositories

import "github.com/pkg/errors"

// Common repository errors
var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("validation failed")
)
