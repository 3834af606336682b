package models

import (
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when no product matches the requested id.
var ErrProductNotFound = errors.New("product not found")

// ValidationError reports required product fields that were missing or empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "All fields are required"
}

// StoreError wraps a failed store call with the operation that triggered it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
