package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-formedit/pkg/render"
	"github.com/goliatone/go-formedit/pkg/session"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, session.FormView, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := render.NewRegistry()
	for _, name := range []string{"tui", "html"} {
		if err := registry.Register(stubRenderer{name: name}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	if got := registry.List(); len(got) != 2 || got[0] != "html" || got[1] != "tui" {
		t.Fatalf("unexpected list %v", got)
	}
	if !registry.Has("html") || registry.Has("pdf") {
		t.Fatalf("Has reported wrong membership")
	}

	renderer, err := registry.Get("tui")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if renderer.Name() != "tui" {
		t.Fatalf("got renderer %q", renderer.Name())
	}

	_, err = registry.Get("pdf")
	if !errors.Is(err, render.ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}
}

func TestRegistry_RejectsInvalid(t *testing.T) {
	registry := render.NewRegistry()
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected error for unnamed renderer")
	}
	if err := registry.Register(stubRenderer{name: "html"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(stubRenderer{name: "html"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestRenderOptions_SectionVisible(t *testing.T) {
	if (render.RenderOptions{}).SectionVisible(false) {
		t.Fatalf("collapsed section should be hidden")
	}
	if !(render.RenderOptions{ExpandAll: true}).SectionVisible(false) {
		t.Fatalf("ExpandAll should show collapsed sections")
	}
}
