package service

import (
	"errors"
	"fmt"

	"github.com/Lysium16/bancalplast-lysium/internal/repository"
)

// ErrNotFound is returned when the addressed pallet or trip does not exist.
var ErrNotFound = errors.New("record not found")

// ValidationError rejects malformed or missing input before any store call.
type ValidationError struct {
	Field string
	Value string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("%s: %s (%q)", e.Field, e.Msg, e.Value)
}

func invalid(field, value, msg string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Msg: msg}
}

// StoreError wraps any failure from the persistent store. It is never retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return "store: " + e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

// storeErr maps repository errors: not-found becomes ErrNotFound, everything
// else is wrapped as a StoreError.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return &StoreError{Op: op, Err: err}
}
