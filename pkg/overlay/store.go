package overlay

import (
	"time"
)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for lastChanged stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is the sparse overlay of user edits for one form plus the view state
// that travels with it. It is not safe for concurrent use; the session
// controller serialises access.
type Store struct {
	changes     map[string]any
	expanded    []string
	lastChanged *time.Time
	editMode    bool
	now         func() time.Time
}

// New returns an empty store.
func New(options ...Option) *Store {
	s := &Store{
		changes:  make(map[string]any),
		expanded: []string{},
		now:      time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// SetValue upserts a change for a flattened field id. No type checking
// happens here; a mismatched value is what drift detection looks for.
func (s *Store) SetValue(id string, value any) {
	s.changes[id] = deepCopy(value)
	s.stamp()
}

// Unset drops a single change so the field falls back to its original value.
func (s *Store) Unset(id string) bool {
	_, ok := s.changes[id]
	delete(s.changes, id)
	s.stamp()
	return ok
}

// Reset clears every change. Expanded sections and edit mode survive.
func (s *Store) Reset() {
	s.changes = make(map[string]any)
	s.stamp()
}

// Value returns the change stored under the exact id.
func (s *Store) Value(id string) (any, bool) {
	value, ok := s.changes[id]
	return value, ok
}

// Has reports whether the id carries a change.
func (s *Store) Has(id string) bool {
	_, ok := s.changes[id]
	return ok
}

// Changes returns a copy of the overlay.
func (s *Store) Changes() map[string]any {
	return cloneValues(s.changes)
}

// Len returns the number of overlay entries.
func (s *Store) Len() int {
	return len(s.changes)
}

// LastChanged returns the time of the most recent value mutation.
func (s *Store) LastChanged() (time.Time, bool) {
	if s.lastChanged == nil {
		return time.Time{}, false
	}
	return *s.lastChanged, true
}

// Expand adds id to the expanded set if absent.
func (s *Store) Expand(id string) bool {
	if s.IsExpanded(id) {
		return false
	}
	s.expanded = append(s.expanded, id)
	return true
}

// Collapse removes id from the expanded set if present.
func (s *Store) Collapse(id string) bool {
	for i, existing := range s.expanded {
		if existing == id {
			s.expanded = append(s.expanded[:i:i], s.expanded[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle flips id and returns whether it is now expanded.
func (s *Store) Toggle(id string) bool {
	if s.Collapse(id) {
		return false
	}
	s.expanded = append(s.expanded, id)
	return true
}

// ExpandAll replaces the expanded set with ids.
func (s *Store) ExpandAll(ids []string) {
	s.expanded = dedupe(ids)
}

// CollapseAll empties the expanded set.
func (s *Store) CollapseAll() {
	s.expanded = []string{}
}

// IsExpanded reports membership in the expanded set.
func (s *Store) IsExpanded(id string) bool {
	for _, existing := range s.expanded {
		if existing == id {
			return true
		}
	}
	return false
}

// Expanded returns the expanded ids in the order they were opened.
func (s *Store) Expanded() []string {
	return append([]string{}, s.expanded...)
}

// SetEditMode sets the write gate. Values and drift are computed either way.
func (s *Store) SetEditMode(enabled bool) {
	s.editMode = enabled
}

// ToggleEditMode flips the write gate and returns the new value.
func (s *Store) ToggleEditMode() bool {
	s.editMode = !s.editMode
	return s.editMode
}

// EditMode reports the write gate.
func (s *Store) EditMode() bool {
	return s.editMode
}

// Snapshot captures the full state for persistence.
func (s *Store) Snapshot() State {
	out := State{
		Changes:          cloneValues(s.changes),
		ExpandedSections: s.Expanded(),
		EditMode:         s.editMode,
	}
	if s.lastChanged != nil {
		ts := *s.lastChanged
		out.LastChanged = &ts
	}
	return out
}

// Restore replaces the store contents with a persisted state.
func (s *Store) Restore(state State) {
	s.changes = cloneValues(state.Changes)
	s.expanded = dedupe(state.ExpandedSections)
	s.editMode = state.EditMode
	s.lastChanged = nil
	if state.LastChanged != nil {
		ts := *state.LastChanged
		s.lastChanged = &ts
	}
}

// stamp records a value mutation at millisecond precision so the in-memory
// timestamp equals what persistence reads back.
func (s *Store) stamp() {
	ts := time.UnixMilli(s.now().UnixMilli())
	s.lastChanged = &ts
}
