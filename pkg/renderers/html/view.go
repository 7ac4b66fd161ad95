package html

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formedit/pkg/drift"
	"github.com/goliatone/go-formedit/pkg/model"
	"github.com/goliatone/go-formedit/pkg/render"
	"github.com/goliatone/go-formedit/pkg/session"
)

// Control names the template branch used for a field.
const (
	ControlText     = "text"
	ControlCheckbox = "checkbox"
	ControlSelect   = "select"
	ControlDate     = "date"
	ControlDrift    = "drift"
)

const inputDateLayout = "2006-01-02"

type pageData struct {
	FormID      string             `json:"formId"`
	EditMode    bool               `json:"editMode"`
	LastChanged string             `json:"lastChanged"`
	Sections    []sectionData      `json:"sections"`
	Diagnostics []model.Diagnostic `json:"diagnostics"`
}

type sectionData struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	DescriptionHTML string      `json:"descriptionHtml"`
	BgColor         string      `json:"bgColor"`
	Layout          string      `json:"layout"`
	Expanded        bool        `json:"expanded"`
	Active          bool        `json:"active"`
	Open            bool        `json:"open"`
	Fields          []fieldData `json:"fields"`
}

type fieldData struct {
	ID              string       `json:"id"`
	InputID         string       `json:"inputId"`
	Label           string       `json:"label"`
	Placeholder     string       `json:"placeholder"`
	DescriptionHTML string       `json:"descriptionHtml"`
	Control         string       `json:"control"`
	Value           string       `json:"value"`
	Checked         bool         `json:"checked"`
	Options         []optionData `json:"options"`
	Required        bool         `json:"required"`
	Drifted         bool         `json:"drifted"`
	Changed         bool         `json:"changed"`
	Disabled        bool         `json:"disabled"`
	ColSpan         int          `json:"colSpan"`
	SpanClass       string       `json:"spanClass"`
	Declared        string       `json:"declared"`
	Effective       string       `json:"effective"`
}

type optionData struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

func buildPage(view session.FormView, opts render.RenderOptions) pageData {
	page := pageData{
		FormID:      view.FormID,
		EditMode:    view.EditMode,
		Sections:    make([]sectionData, 0, len(view.Sections)),
		Diagnostics: opts.Diagnostics,
	}
	if view.LastChanged != nil {
		page.LastChanged = view.LastChanged.UTC().Format(time.RFC3339)
	}
	for _, section := range view.Sections {
		data := sectionData{
			ID:              section.ID,
			Title:           plainText(section.Title),
			DescriptionHTML: richText(section.Description),
			BgColor:         sectionColor(section.BgColor),
			Layout:          string(section.Layout),
			Expanded:        section.Expanded,
			Active:          section.Active,
			Open:            opts.SectionVisible(section.Expanded),
			Fields:          make([]fieldData, 0, len(section.Fields)),
		}
		for _, field := range section.Fields {
			data.Fields = append(data.Fields, buildField(field))
		}
		page.Sections = append(page.Sections, data)
	}
	return page
}

func buildField(field session.FieldView) fieldData {
	out := fieldData{
		ID:              field.ID,
		InputID:         "field-" + strings.ReplaceAll(field.ID, ".", "-"),
		Label:           plainText(field.Label),
		Placeholder:     plainText(field.Placeholder),
		DescriptionHTML: richText(field.Description),
		Value:           field.Display(),
		Required:        field.Required,
		Drifted:         field.Drifted,
		Changed:         field.Changed,
		Disabled:        !field.Editable,
		ColSpan:         field.ColSpan,
		SpanClass:       fmt.Sprintf("formedit-span-%d", field.ColSpan),
		Declared:        string(field.Declared),
		Effective:       string(field.Effective),
	}
	if field.Affordance == drift.AffordanceTextWithReset {
		out.Control = ControlDrift
		return out
	}

	switch field.Declared {
	case model.FieldTypeBoolean:
		out.Control = ControlCheckbox
		out.Checked = field.Value == true || field.Value == "true"
	case model.FieldTypeSelect:
		out.Control = ControlSelect
		for _, option := range field.Options {
			out.Options = append(out.Options, optionData{
				Value:    option.Value,
				Label:    plainText(option.Label),
				Selected: option.Value == out.Value,
			})
		}
	case model.FieldTypeDate:
		out.Control = ControlDate
		out.Value = ""
		if text, ok := field.Value.(string); ok {
			if ts, ok := drift.ParseDate(text); ok {
				out.Value = ts.Format(inputDateLayout)
			}
		}
	default:
		out.Control = ControlText
	}
	return out
}
