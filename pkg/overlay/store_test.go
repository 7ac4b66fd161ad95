package overlay_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formedit/pkg/overlay"
	"github.com/goliatone/go-formedit/pkg/testsupport"
)

var epoch = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newStore() *overlay.Store {
	return overlay.New(overlay.WithClock(testsupport.FixedClock(epoch, time.Second)))
}

func TestStore_SetValueStampsAndCopies(t *testing.T) {
	store := newStore()
	if _, ok := store.LastChanged(); ok {
		t.Fatalf("fresh store must not carry a timestamp")
	}

	nested := map[string]any{"street": "Main"}
	store.SetValue("address", nested)
	nested["street"] = "mutated"

	got, ok := store.Value("address")
	if !ok {
		t.Fatalf("expected address change")
	}
	if diff := cmp.Diff(map[string]any{"street": "Main"}, got); diff != "" {
		t.Fatalf("stored value aliased caller map (-want +got):\n%s", diff)
	}
	ts, ok := store.LastChanged()
	if !ok || !ts.Equal(epoch) {
		t.Fatalf("lastChanged = %v, want %v", ts, epoch)
	}

	store.SetValue("address", nil)
	if !store.Has("address") {
		t.Fatalf("nil must still be recorded as a change")
	}
	ts, _ = store.LastChanged()
	if !ts.Equal(epoch.Add(time.Second)) {
		t.Fatalf("second mutation not stamped, got %v", ts)
	}
}

func TestStore_UnsetAndReset(t *testing.T) {
	store := newStore()
	store.SetValue("a", "1")
	store.SetValue("b", "2")
	store.Expand("info")
	store.SetEditMode(true)

	if !store.Unset("a") {
		t.Fatalf("expected unset to report removal")
	}
	if store.Unset("a") {
		t.Fatalf("second unset must report nothing removed")
	}
	if store.Len() != 1 {
		t.Fatalf("expected one change left, got %d", store.Len())
	}

	store.Reset()
	first, _ := store.LastChanged()
	store.Reset()
	second, _ := store.LastChanged()
	if store.Len() != 0 {
		t.Fatalf("reset left %d changes", store.Len())
	}
	if !second.After(first) {
		t.Fatalf("reset must restamp even when empty")
	}
	if !store.IsExpanded("info") || !store.EditMode() {
		t.Fatalf("reset must keep expanded sections and edit mode")
	}
}

func TestStore_ExpandedSet(t *testing.T) {
	store := newStore()

	if !store.Expand("a") || store.Expand("a") {
		t.Fatalf("expand must be idempotent")
	}
	if !store.Toggle("b") {
		t.Fatalf("toggle on absent id must expand")
	}
	if store.Toggle("a") {
		t.Fatalf("toggle on present id must collapse")
	}
	if diff := cmp.Diff([]string{"b"}, store.Expanded()); diff != "" {
		t.Fatalf("expanded mismatch (-want +got):\n%s", diff)
	}

	store.ExpandAll([]string{"x", "y", "x"})
	if diff := cmp.Diff([]string{"x", "y"}, store.Expanded()); diff != "" {
		t.Fatalf("expand all mismatch (-want +got):\n%s", diff)
	}
	if store.Collapse("missing") {
		t.Fatalf("collapse on absent id must be a no-op")
	}
	store.CollapseAll()
	if len(store.Expanded()) != 0 {
		t.Fatalf("collapse all left %v", store.Expanded())
	}
	if _, ok := store.LastChanged(); ok {
		t.Fatalf("section changes must not touch lastChanged")
	}
}

func TestStore_SnapshotRestore(t *testing.T) {
	store := newStore()
	store.SetValue("dob", "13/40/9999")
	store.Expand("info")
	store.ToggleEditMode()

	snap := store.Snapshot()
	other := overlay.New()
	other.Restore(snap)

	if !other.Snapshot().Equal(snap) {
		t.Fatalf("restored snapshot differs: %s vs %s", other.Snapshot(), snap)
	}

	snap.Changes["dob"] = "changed"
	if v, _ := other.Value("dob"); v != "13/40/9999" {
		t.Fatalf("restore aliased snapshot map, got %v", v)
	}
}

func TestState_JSON(t *testing.T) {
	ts := time.UnixMilli(1709285400123)
	state := overlay.State{
		Changes:          map[string]any{"name": "Ada", "dependents.0.name": "Bob"},
		ExpandedSections: []string{"info"},
		LastChanged:      &ts,
		EditMode:         true,
	}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if raw["lastChanged"] != float64(1709285400123) {
		t.Fatalf("lastChanged should be epoch millis, got %v", raw["lastChanged"])
	}

	var decoded overlay.State
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Equal(state) {
		t.Fatalf("round trip mismatch: %s vs %s", decoded, state)
	}
}

func TestState_JSONDefaults(t *testing.T) {
	var decoded overlay.State
	if err := json.Unmarshal([]byte(`{"lastChanged": null, "expandedSections": ["a", "a"]}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Changes == nil || len(decoded.Changes) != 0 {
		t.Fatalf("expected empty changes, got %v", decoded.Changes)
	}
	if decoded.LastChanged != nil {
		t.Fatalf("null lastChanged must decode as unset")
	}
	if diff := cmp.Diff([]string{"a"}, decoded.ExpandedSections); diff != "" {
		t.Fatalf("expanded mismatch (-want +got):\n%s", diff)
	}

	data, err := json.Marshal(overlay.State{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(data); got != `{"changes":{},"expandedSections":[],"lastChanged":null,"editMode":false}` {
		t.Fatalf("zero state encoded as %s", got)
	}
}
