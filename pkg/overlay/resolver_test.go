package overlay_test

import (
	"testing"

	"github.com/goliatone/go-formedit/pkg/model"
	"github.com/goliatone/go-formedit/pkg/overlay"
)

const resolverDoc = `{"sections": {"info": {"fields": {
	"name": {"value": "Ada"},
	"dob": {"interface": {"type": "date"}},
	"dependents": [{"name": {"value": "Bob"}}]
}}}, "dob": "01/02/1990"}`

func mustForm(t *testing.T) model.Form {
	t.Helper()
	form, err := model.Normalize([]byte(resolverDoc))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return form
}

func TestResolver_OverlayWins(t *testing.T) {
	form := mustForm(t)
	store := newStore()
	resolver := overlay.DefaultResolver(store, form)

	value, source, ok := resolver.ResolveSource("name")
	if !ok || value != "Ada" || source != overlay.SourceInitialValue {
		t.Fatalf("got %v from %q (%v), want Ada from initial value", value, source, ok)
	}

	store.SetValue("name", "Grace")
	value, source, _ = resolver.ResolveSource("name")
	if value != "Grace" || source != overlay.SourceFlatKey {
		t.Fatalf("got %v from %q, want overlay value", value, source)
	}

	store.SetValue("name", nil)
	value, ok = resolver.Resolve("name")
	if !ok || value != nil {
		t.Fatalf("explicit nil must shadow the initial value, got %v", value)
	}

	store.Unset("name")
	if value, _ := resolver.Resolve("name"); value != "Ada" {
		t.Fatalf("unset must fall back to the initial value, got %v", value)
	}
}

func TestResolver_GroupedIDs(t *testing.T) {
	form := mustForm(t)
	store := newStore()
	resolver := overlay.DefaultResolver(store, form)

	if value, _ := resolver.Resolve("dependents.0.name"); value != "Bob" {
		t.Fatalf("grouped initial value = %v", value)
	}

	store.SetValue("dependents", []any{map[string]any{"name": "Legacy"}})
	value, source, _ := resolver.ResolveSource("dependents.0.name")
	if value != "Legacy" || source != overlay.SourceNestedChanges {
		t.Fatalf("got %v from %q, want nested overlay value", value, source)
	}

	store.SetValue("dependents.0.name", "Flat")
	if value, _ := resolver.Resolve("dependents.0.name"); value != "Flat" {
		t.Fatalf("flat key must win over nested overlay, got %v", value)
	}
}

func TestResolver_DocumentFallback(t *testing.T) {
	form := mustForm(t)
	resolver := overlay.DefaultResolver(newStore(), form)

	value, source, ok := resolver.ResolveSource("dob")
	if !ok || value != "01/02/1990" || source != overlay.SourceNestedDocument {
		t.Fatalf("got %v from %q (%v), want document value", value, source, ok)
	}
	if _, ok := resolver.Resolve("missing.path"); ok {
		t.Fatalf("unknown id must not resolve")
	}
}

func TestResolver_CustomStrategies(t *testing.T) {
	calls := 0
	resolver := overlay.NewResolver(
		nil,
		overlay.StrategyFunc("miss", func(string) (any, bool) { calls++; return nil, false }),
		overlay.StrategyFunc("hit", func(id string) (any, bool) { return id + "!", true }),
	)
	value, source, ok := resolver.ResolveSource("x")
	if !ok || value != "x!" || source != "hit" || calls != 1 {
		t.Fatalf("unexpected resolution %v %q %v calls=%d", value, source, ok, calls)
	}

	var empty *overlay.Resolver
	if _, ok := empty.Resolve("x"); ok {
		t.Fatalf("nil resolver must not resolve")
	}
}
