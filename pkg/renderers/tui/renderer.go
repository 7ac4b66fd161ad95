package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-formedit/pkg/render"
	"github.com/goliatone/go-formedit/pkg/session"
)

// Renderer prints a form view for terminals. It never prompts.
type Renderer struct {
	cfg config
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the text renderer.
func New(options ...Option) *Renderer {
	return &Renderer{cfg: newConfig(options)}
}

func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	if r.cfg.outputFormat == OutputFormatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, view session.FormView, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.cfg.outputFormat == OutputFormatJSON {
		out, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode view: %w", err)
		}
		return append(out, '\n'), nil
	}
	return []byte(r.pretty(view, opts)), nil
}

func (r *Renderer) pretty(view session.FormView, opts render.RenderOptions) string {
	var b strings.Builder
	mode := "read-only"
	if view.EditMode {
		mode = "editing"
	}
	fmt.Fprintf(&b, "%s (%s, %d change(s)", view.FormID, mode, view.Changes)
	if view.LastChanged != nil {
		fmt.Fprintf(&b, ", last changed %s", view.LastChanged.UTC().Format("2006-01-02 15:04:05"))
	}
	b.WriteString(")\n")

	for _, section := range view.Sections {
		marker := "+"
		if section.Expanded {
			marker = "-"
		}
		active := ""
		if section.Active {
			active = " <"
		}
		fmt.Fprintf(&b, "%s %s [%s]%s\n", marker, section.Title, section.ID, active)
		if !opts.SectionVisible(section.Expanded) {
			continue
		}
		for _, field := range section.Fields {
			b.WriteString("    ")
			b.WriteString(r.fieldLine(field))
			b.WriteByte('\n')
		}
	}

	for _, diag := range opts.Diagnostics {
		fmt.Fprintf(&b, "skipped %s: %s\n", diag.Path, diag.Reason)
	}
	return b.String()
}

func (r *Renderer) fieldLine(field session.FieldView) string {
	var flags string
	if field.Changed {
		flags += r.cfg.theme.ChangedMarker
	}
	if field.Drifted {
		flags += r.cfg.theme.DriftMarker
	}
	required := ""
	if field.Required {
		required = " (required)"
	}
	line := fmt.Sprintf("%-2s%s%s: %s", flags, field.Label, required, field.Display())
	if field.Drifted {
		line += fmt.Sprintf("  [%s, expected %s]", field.Effective, field.Declared)
	}
	return line
}
