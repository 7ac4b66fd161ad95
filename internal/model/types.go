package model

import (
	"sort"

	"github.com/goliatone/go-formedit/pkg/rawdoc"
)

// FieldType is the closed set of semantic field kinds a form can declare.
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeSelect  FieldType = "select"
	FieldTypeDate    FieldType = "date"
)

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeBoolean, FieldTypeSelect, FieldTypeDate:
		return true
	default:
		return false
	}
}

// Normalize maps unknown or empty types onto FieldTypeText.
func (t FieldType) Normalize() FieldType {
	if t.Valid() {
		return t
	}
	return FieldTypeText
}

// ParseFieldType reads a declared interface type. Anything that is not a
// supported type name resolves to text with ok=false.
func ParseFieldType(value any) (FieldType, bool) {
	str, _ := value.(string)
	t := FieldType(str)
	if t.Valid() {
		return t, true
	}
	return FieldTypeText, false
}

// Layout is the section placement hint.
type Layout string

const (
	LayoutFull  Layout = "full"
	LayoutLeft  Layout = "left"
	LayoutRight Layout = "right"
)

func parseLayout(value string) Layout {
	switch l := Layout(value); l {
	case LayoutFull, LayoutLeft, LayoutRight:
		return l
	default:
		return ""
	}
}

// Option is a selectable choice of a select field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field is a flat, normalized field descriptor. Values are immutable once the
// builder returns them.
type Field struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"groupId,omitempty"`
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Placeholder string    `json:"placeholder"`
	Description string    `json:"description,omitempty"`
	Type        FieldType `json:"type"`
	Options     []Option  `json:"options"`
	Value       any       `json:"value,omitempty"`
	HasValue    bool      `json:"hasValue,omitempty"`
	Required    bool      `json:"required"`
	// ColSpan is 1 or 2 once normalized; 0 means the descriptor never carried
	// the property and presentation applies its own default.
	ColSpan int `json:"colSpan,omitempty"`
}

// Grouped reports whether the field came from a repeated group item.
func (f Field) Grouped() bool {
	return f.GroupID != ""
}

// Section groups fields under a titled, orderable heading.
type Section struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Order       int     `json:"order"`
	Layout      Layout  `json:"layout,omitempty"`
	BgColor     string  `json:"bgColor,omitempty"`
	Fields      []Field `json:"fields"`
}

// Diagnostic records a raw entry that normalization skipped or rewrote.
type Diagnostic struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Form is the normalized document. Sections keep the raw document order;
// SortedSections applies the presentation order.
type Form struct {
	Sections    []Section    `json:"sections"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Raw         *rawdoc.Node `json:"-"`
}

// SortedSections returns the sections ordered by Order ascending. Ties keep
// document order.
func (f Form) SortedSections() []Section {
	out := append([]Section(nil), f.Sections...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// SectionIDs lists section ids in presentation order.
func (f Form) SectionIDs() []string {
	sorted := f.SortedSections()
	ids := make([]string, len(sorted))
	for i, section := range sorted {
		ids[i] = section.ID
	}
	return ids
}

// Section looks a section up by id.
func (f Form) Section(id string) (Section, bool) {
	for _, section := range f.Sections {
		if section.ID == id {
			return section, true
		}
	}
	return Section{}, false
}

// Field looks a field up by its flattened id.
func (f Form) Field(id string) (Field, bool) {
	for _, section := range f.Sections {
		for _, field := range section.Fields {
			if field.ID == id {
				return field, true
			}
		}
	}
	return Field{}, false
}

// Fields returns every field in document order.
func (f Form) Fields() []Field {
	var out []Field
	for _, section := range f.Sections {
		out = append(out, section.Fields...)
	}
	return out
}
