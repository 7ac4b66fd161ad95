// Package formedit exposes the high level entry points of the form editing
// engine: load a raw form document, normalize it, open a persisted edit
// session and render it.
package formedit

import (
	"context"

	"github.com/goliatone/go-formedit/pkg/model"
	"github.com/goliatone/go-formedit/pkg/orchestrator"
	"github.com/goliatone/go-formedit/pkg/persist"
	"github.com/goliatone/go-formedit/pkg/rawdoc"
	"github.com/goliatone/go-formedit/pkg/render"
	"github.com/goliatone/go-formedit/pkg/session"
)

// Form is the normalized form document.
type Form = model.Form

// Field is a flattened field descriptor.
type Field = model.Field

// Session is the edit session controller of one form instance.
type Session = session.Session

// FormEditState is the persisted edit overlay.
type FormEditState = persist.FormEditState

// RenderOptions describes per-request renderer overrides.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Open loads the document behind source, normalizes it and opens the edit
// session for formID. Pass orchestrator.WithBridge to persist edits.
func Open(ctx context.Context, source rawdoc.Source, formID string, options ...orchestrator.Option) (*session.Session, error) {
	return orchestrator.New(options...).Open(ctx, orchestrator.Request{
		Source: source,
		FormID: formID,
	})
}

// GenerateHTML opens the session for formID and renders it with the named
// renderer. An empty name selects the HTML renderer.
func GenerateHTML(ctx context.Context, source rawdoc.Source, formID, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:   source,
		FormID:   formID,
		Renderer: rendererName,
	})
}

// GenerateHTMLFromDocument renders a pre-loaded document, bypassing the
// loader stage.
func GenerateHTMLFromDocument(ctx context.Context, doc rawdoc.Document, formID, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Document: &doc,
		FormID:   formID,
		Renderer: rendererName,
	})
}
