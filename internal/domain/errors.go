// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates the write clashes with existing data, such as a
// duplicate or a row that is still referenced.
var ErrConflict = errors.New("conflict")

// ErrValidation indicates a request failed input validation.
// Wrap it with the offending field: fmt.Errorf("name is required: %w", ErrValidation).
var ErrValidation = errors.New("validation failed")
