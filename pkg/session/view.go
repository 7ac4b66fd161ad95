package session

import (
	"encoding/json"
	"time"

	"github.com/goliatone/go-formedit/pkg/drift"
	"github.com/goliatone/go-formedit/pkg/model"
)

// DefaultColSpan applies to descriptors that never carried a column span.
const DefaultColSpan = 2

// FormView is the read model handed to presentation adapters.
type FormView struct {
	FormID        string        `json:"formId"`
	EditMode      bool          `json:"editMode"`
	LastChanged   *time.Time    `json:"lastChanged,omitempty"`
	ActiveSection string        `json:"activeSection,omitempty"`
	Changes       int           `json:"changes"`
	Sections      []SectionView `json:"sections"`
}

// SectionView is a section in presentation order.
type SectionView struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Order       int          `json:"order"`
	Layout      model.Layout `json:"layout,omitempty"`
	BgColor     string       `json:"bgColor,omitempty"`
	Expanded    bool         `json:"expanded"`
	Active      bool         `json:"active"`
	Fields      []FieldView  `json:"fields"`
}

// FieldView carries everything needed to draw one control.
type FieldView struct {
	ID          string           `json:"id"`
	GroupID     string           `json:"groupId,omitempty"`
	Key         string           `json:"key"`
	Label       string           `json:"label"`
	Placeholder string           `json:"placeholder,omitempty"`
	Description string           `json:"description,omitempty"`
	Value       any              `json:"value,omitempty"`
	HasValue    bool             `json:"hasValue"`
	Source      string           `json:"source,omitempty"`
	Changed     bool             `json:"changed"`
	Declared    model.FieldType  `json:"declared"`
	Effective   model.FieldType  `json:"effective"`
	Drifted     bool             `json:"drifted"`
	Affordance  drift.Affordance `json:"affordance"`
	Options     []model.Option   `json:"options,omitempty"`
	Required    bool             `json:"required"`
	ColSpan     int              `json:"colSpan"`
	Editable    bool             `json:"editable"`
}

// Display returns the value as text, empty when unset.
func (f FieldView) Display() string {
	switch value := f.Value.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		if value {
			return "true"
		}
		return "false"
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// View resolves every field against the overlay. Values and drift are
// computed regardless of edit mode.
func (s *Session) View() FormView {
	s.mu.Lock()
	defer s.mu.Unlock()

	editMode := s.store.EditMode()
	out := FormView{
		FormID:        s.formID,
		EditMode:      editMode,
		ActiveSection: s.active,
		Changes:       s.store.Len(),
	}
	if ts, ok := s.store.LastChanged(); ok {
		out.LastChanged = &ts
	}

	sorted := s.form.SortedSections()
	out.Sections = make([]SectionView, 0, len(sorted))
	for _, section := range sorted {
		view := SectionView{
			ID:          section.ID,
			Title:       section.Title,
			Description: section.Description,
			Order:       section.Order,
			Layout:      section.Layout,
			BgColor:     section.BgColor,
			Expanded:    s.store.IsExpanded(section.ID),
			Active:      section.ID == s.active,
			Fields:      make([]FieldView, 0, len(section.Fields)),
		}
		for _, field := range section.Fields {
			view.Fields = append(view.Fields, s.fieldView(field, editMode))
		}
		out.Sections = append(out.Sections, view)
	}
	return out
}

func (s *Session) fieldView(field model.Field, editable bool) FieldView {
	value, source, ok := s.resolver.ResolveSource(field.ID)
	assessment := drift.Assess(field.Type, value)
	colSpan := field.ColSpan
	if colSpan == 0 {
		colSpan = DefaultColSpan
	}
	return FieldView{
		ID:          field.ID,
		GroupID:     field.GroupID,
		Key:         field.Key,
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Description: field.Description,
		Value:       value,
		HasValue:    ok,
		Source:      source,
		Changed:     s.store.Has(field.ID),
		Declared:    assessment.Declared,
		Effective:   assessment.Effective,
		Drifted:     assessment.Drifted,
		Affordance:  assessment.Affordance,
		Options:     field.Options,
		Required:    field.Required,
		ColSpan:     colSpan,
		Editable:    editable,
	}
}
