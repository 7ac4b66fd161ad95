package render

import "github.com/goliatone/go-formedit/pkg/model"

// RenderOptions carry per-request presentation switches that are not part of
// the persisted edit state.
type RenderOptions struct {
	// ExpandAll renders the body of every section, ignoring the expanded set.
	ExpandAll bool
	// Diagnostics lists raw entries normalization skipped; renderers may show
	// them as a notice.
	Diagnostics []model.Diagnostic
}

// SectionVisible reports whether a section body should be drawn.
func (o RenderOptions) SectionVisible(expanded bool) bool {
	return o.ExpandAll || expanded
}
