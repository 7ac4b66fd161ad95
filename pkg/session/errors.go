package session

import "errors"

var (
	// ErrReadOnly is returned by presentation callbacks while edit mode is off.
	ErrReadOnly = errors.New("session: form is not in edit mode")
	// ErrUnknownField is returned for ids the normalized form does not contain.
	ErrUnknownField = errors.New("session: unknown field")
	// ErrUnknownSection is returned for section ids the form does not contain.
	ErrUnknownSection = errors.New("session: unknown section")
	// ErrEmptyFormID rejects sessions without a persistence identity.
	ErrEmptyFormID = errors.New("session: form id is required")
)
