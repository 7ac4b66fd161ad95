package model

import internalmodel "github.com/goliatone/go-formedit/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeText    = internalmodel.FieldTypeText
	FieldTypeBoolean = internalmodel.FieldTypeBoolean
	FieldTypeSelect  = internalmodel.FieldTypeSelect
	FieldTypeDate    = internalmodel.FieldTypeDate
)

// Layout re-exports the section layout hint.
type Layout = internalmodel.Layout

const (
	LayoutFull  = internalmodel.LayoutFull
	LayoutLeft  = internalmodel.LayoutLeft
	LayoutRight = internalmodel.LayoutRight
)

type (
	Option              = internalmodel.Option
	Field               = internalmodel.Field
	Section             = internalmodel.Section
	Form                = internalmodel.Form
	Diagnostic          = internalmodel.Diagnostic
	DuplicateFieldError = internalmodel.DuplicateFieldError
)

var (
	ErrNilDocument      = internalmodel.ErrNilDocument
	ErrNoSections       = internalmodel.ErrNoSections
	ErrDuplicateFieldID = internalmodel.ErrDuplicateFieldID
)

// ParseFieldType resolves a declared interface type, defaulting to text.
func ParseFieldType(value any) (FieldType, bool) {
	return internalmodel.ParseFieldType(value)
}

// DefaultLabeler derives a display label from a raw key.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}
