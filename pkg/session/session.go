// Package session owns the edit state of one rendered form. It loads the
// persisted overlay once, resolves field values and drift for presentation,
// and writes the full state back after every mutation.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formedit/pkg/drift"
	"github.com/goliatone/go-formedit/pkg/model"
	"github.com/goliatone/go-formedit/pkg/overlay"
	"github.com/goliatone/go-formedit/pkg/persist"
)

// Session is safe for concurrent use. Mutations are applied and saved while
// holding the session lock, so saves reach the store in mutation order.
type Session struct {
	mu       sync.Mutex
	form     model.Form
	formID   string
	store    *overlay.Store
	resolver *overlay.Resolver
	bridge   *persist.Bridge
	logger   *zap.Logger
	active   string
	restored bool
}

// New builds a session for form and loads its persisted state once. Missing
// or unreadable state starts an empty session. New never writes.
func New(ctx context.Context, form model.Form, formID string, options ...Option) (*Session, error) {
	if formID == "" {
		return nil, ErrEmptyFormID
	}
	cfg := newConfig(options)

	s := &Session{
		form:   form,
		formID: formID,
		store:  overlay.New(overlay.WithClock(cfg.now)),
		bridge: cfg.bridge,
		logger: cfg.logger.With(zap.String("form", formID)),
	}
	s.resolver = overlay.DefaultResolver(s.store, form)
	if ids := form.SectionIDs(); len(ids) > 0 {
		s.active = ids[0]
	}

	if s.bridge != nil {
		state, ok, err := s.bridge.Load(ctx, formID)
		if err != nil {
			return nil, fmt.Errorf("session: load state: %w", err)
		}
		if ok {
			s.store.Restore(state)
			s.restored = true
		}
	}
	s.logger.Debug("form session opened",
		zap.Bool("restored", s.restored),
		zap.Int("changes", s.store.Len()),
	)
	return s, nil
}

// FormID returns the persistence identity of the session.
func (s *Session) FormID() string {
	return s.formID
}

// Form returns the normalized form the session edits.
func (s *Session) Form() model.Form {
	return s.form
}

// Restored reports whether New found persisted state.
func (s *Session) Restored() bool {
	return s.restored
}

// SetValue records an edit. It is not gated by edit mode and accepts ids the
// form does not declare.
func (s *Session) SetValue(ctx context.Context, id string, value any) error {
	return s.mutate(ctx, func() { s.store.SetValue(id, value) })
}

// Unset drops the edit for id so the field shows its original value again.
func (s *Session) Unset(ctx context.Context, id string) error {
	return s.mutate(ctx, func() { s.store.Unset(id) })
}

// Reset discards every edit. Persisted state is overwritten, not removed.
func (s *Session) Reset(ctx context.Context) error {
	return s.mutate(ctx, s.store.Reset)
}

// Expand opens a section.
func (s *Session) Expand(ctx context.Context, id string) error {
	return s.mutate(ctx, func() { s.store.Expand(id) })
}

// Collapse closes a section.
func (s *Session) Collapse(ctx context.Context, id string) error {
	return s.mutate(ctx, func() { s.store.Collapse(id) })
}

// Toggle flips a section and reports whether it is now expanded.
func (s *Session) Toggle(ctx context.Context, id string) (bool, error) {
	var expanded bool
	err := s.mutate(ctx, func() { expanded = s.store.Toggle(id) })
	return expanded, err
}

// ExpandAll opens every section of the form.
func (s *Session) ExpandAll(ctx context.Context) error {
	return s.mutate(ctx, func() { s.store.ExpandAll(s.form.SectionIDs()) })
}

// CollapseAll closes every section.
func (s *Session) CollapseAll(ctx context.Context) error {
	return s.mutate(ctx, s.store.CollapseAll)
}

// SetEditMode sets the write gate used by OnChangeValue.
func (s *Session) SetEditMode(ctx context.Context, enabled bool) error {
	return s.mutate(ctx, func() { s.store.SetEditMode(enabled) })
}

// ToggleEditMode flips the write gate and returns the new value.
func (s *Session) ToggleEditMode(ctx context.Context) (bool, error) {
	var enabled bool
	err := s.mutate(ctx, func() { enabled = s.store.ToggleEditMode() })
	return enabled, err
}

// ScrollTo makes id the active section and expands it.
func (s *Session) ScrollTo(ctx context.Context, id string) error {
	if _, ok := s.form.Section(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSection, id)
	}
	return s.mutate(ctx, func() {
		s.active = id
		s.store.Expand(id)
	})
}

// ClearStorage removes the persisted state. The in-memory edits stay; pair
// it with Reset to start over.
func (s *Session) ClearStorage(ctx context.Context) error {
	if s.bridge == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.bridge.Clear(ctx, s.formID); err != nil {
		return fmt.Errorf("session: clear storage: %w", err)
	}
	s.logger.Info("form storage cleared")
	return nil
}

// OnChangeValue is the presentation write path. It refuses edits while edit
// mode is off and for fields the form does not declare.
func (s *Session) OnChangeValue(ctx context.Context, id string, value any) error {
	if err := s.checkWritable(id); err != nil {
		return err
	}
	return s.SetValue(ctx, id, value)
}

// OnResetType handles the reset action offered next to a drifted field.
func (s *Session) OnResetType(ctx context.Context, id string) error {
	if err := s.checkWritable(id); err != nil {
		return err
	}
	return s.Unset(ctx, id)
}

// OnExpandSection handles a section header activation.
func (s *Session) OnExpandSection(ctx context.Context, id string) error {
	return s.Expand(ctx, id)
}

// Value returns the effective value for a field id.
func (s *Session) Value(id string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Resolve(id)
}

// Assess classifies the effective value of a declared field.
func (s *Session) Assess(id string) (drift.Assessment, error) {
	field, ok := s.form.Field(id)
	if !ok {
		return drift.Assessment{}, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	value, _ := s.Value(id)
	return drift.Assess(field.Type, value), nil
}

// EditMode reports the write gate.
func (s *Session) EditMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.EditMode()
}

// LastChanged returns the time of the most recent value mutation.
func (s *Session) LastChanged() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LastChanged()
}

// Changes returns a copy of the overlay.
func (s *Session) Changes() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Changes()
}

// Expanded returns the expanded section ids in the order they were opened.
func (s *Session) Expanded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Expanded()
}

// ActiveSection returns the section last scrolled to.
func (s *Session) ActiveSection() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// State returns a snapshot of the persisted shape.
func (s *Session) State() persist.FormEditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

func (s *Session) checkWritable(id string) error {
	if !s.EditMode() {
		return ErrReadOnly
	}
	if _, ok := s.form.Field(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	return nil
}

// mutate applies fn and saves the resulting state once. A failed save keeps
// the in-memory change.
func (s *Session) mutate(ctx context.Context, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn()
	if s.bridge == nil {
		return nil
	}
	if err := s.bridge.Save(ctx, s.formID, s.store.Snapshot()); err != nil {
		s.logger.Warn("saving form state failed", zap.Error(err))
		return fmt.Errorf("session: save state: %w", err)
	}
	return nil
}
