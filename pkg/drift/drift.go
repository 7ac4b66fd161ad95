// Package drift decides whether a field's current value still satisfies its
// declared type. Only string values can drift, since free-text entry is the
// only way to author a mismatched value; every other runtime type keeps the
// declared type.
package drift

import (
	"time"

	"github.com/goliatone/go-formedit/pkg/model"
)

// DateLayout is the only accepted date text shape (MM/dd/yyyy).
const DateLayout = "01/02/2006"

// Affordance names the editing control a presentation layer should offer.
type Affordance string

const (
	// AffordanceNative renders the control of the declared type.
	AffordanceNative Affordance = "native"
	// AffordanceTextWithReset renders a plain text box and an action that
	// restores the field to its original type.
	AffordanceTextWithReset Affordance = "text-with-reset"
)

// Assessment is the classification of one value against its declared type.
type Assessment struct {
	Declared   model.FieldType
	Effective  model.FieldType
	Drifted    bool
	Affordance Affordance
}

// Classify returns the effective type of value for a field declared as
// declared. Unknown declared types are treated as text.
func Classify(declared model.FieldType, value any) model.FieldType {
	declared = declared.Normalize()
	if value == nil {
		return declared
	}
	text, ok := value.(string)
	if !ok {
		return declared
	}

	switch declared {
	case model.FieldTypeText:
		return model.FieldTypeText
	case model.FieldTypeDate:
		if _, ok := ParseDate(text); ok {
			return model.FieldTypeDate
		}
	case model.FieldTypeBoolean:
		if text == "true" || text == "false" {
			return model.FieldTypeBoolean
		}
	}
	return model.FieldTypeText
}

// IsDrifted reports whether value no longer satisfies declared.
func IsDrifted(declared model.FieldType, value any) bool {
	return Classify(declared, value) != declared.Normalize()
}

// Assess bundles the classification with the affordance it implies.
func Assess(declared model.FieldType, value any) Assessment {
	declared = declared.Normalize()
	effective := Classify(declared, value)
	out := Assessment{
		Declared:   declared,
		Effective:  effective,
		Drifted:    effective != declared,
		Affordance: AffordanceNative,
	}
	if out.Drifted {
		out.Affordance = AffordanceTextWithReset
	}
	return out
}

// ParseDate parses text strictly as MM/dd/yyyy and rejects impossible
// calendar dates.
func ParseDate(text string) (time.Time, bool) {
	if len(text) != len(DateLayout) {
		return time.Time{}, false
	}
	parsed, err := time.Parse(DateLayout, text)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// FormatDate renders t the way date controls write values back.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
