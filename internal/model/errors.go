package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNilDocument is returned when Build receives no document.
	ErrNilDocument = errors.New("model: raw document is nil")
	// ErrNoSections is returned when the document lacks a top-level sections mapping.
	ErrNoSections = errors.New("model: document has no sections mapping")
	// ErrDuplicateFieldID signals two raw entries normalized to the same id.
	ErrDuplicateFieldID = errors.New("model: duplicate field id")
)

// DuplicateFieldError carries the raw locations that produced a colliding id.
type DuplicateFieldError struct {
	ID     string
	First  string
	Second string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("model: duplicate field id %q (%s, %s)", e.ID, e.First, e.Second)
}

func (e *DuplicateFieldError) Unwrap() error {
	return ErrDuplicateFieldID
}
