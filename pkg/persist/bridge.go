package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/goliatone/go-formedit/pkg/overlay"
)

const (
	// DefaultKeyPrefix namespaces every saved form state.
	DefaultKeyPrefix = "dntel-form-"
	// LegacyKeyPrefix is only read, never written.
	LegacyKeyPrefix = "form-"
)

// FormEditState is the persisted edit session of one form.
type FormEditState = overlay.State

// Option configures a Bridge.
type Option func(*Bridge)

// WithKeyPrefix overrides the prefix used for reads and writes.
func WithKeyPrefix(prefix string) Option {
	return func(b *Bridge) {
		b.prefix = prefix
	}
}

// WithLegacyPrefix overrides the read-only fallback prefix. An empty prefix
// disables the fallback.
func WithLegacyPrefix(prefix string) Option {
	return func(b *Bridge) {
		b.legacyPrefix = prefix
	}
}

// WithLogger receives corrupt-state warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Bridge maps form ids onto KV keys and encodes edit state as JSON.
type Bridge struct {
	kv           KV
	prefix       string
	legacyPrefix string
	logger       *zap.Logger

	mu    sync.Mutex
	gates map[string]*semaphore.Weighted
}

// NewBridge wraps kv with the default key layout.
func NewBridge(kv KV, options ...Option) (*Bridge, error) {
	if kv == nil {
		return nil, ErrNoStore
	}
	b := &Bridge{
		kv:           kv,
		prefix:       DefaultKeyPrefix,
		legacyPrefix: LegacyKeyPrefix,
		logger:       zap.NewNop(),
		gates:        make(map[string]*semaphore.Weighted),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b, nil
}

// Key returns the storage key written for formID.
func (b *Bridge) Key(formID string) string {
	return b.prefix + formID
}

// LegacyKey returns the fallback key read for formID, or "" when disabled.
func (b *Bridge) LegacyKey(formID string) string {
	if b.legacyPrefix == "" || b.legacyPrefix == b.prefix {
		return ""
	}
	return b.legacyPrefix + formID
}

// Load reads the state for formID, trying the primary key before the legacy
// one. Missing or corrupt blobs yield ok=false; only KV failures are errors.
func (b *Bridge) Load(ctx context.Context, formID string) (FormEditState, bool, error) {
	if formID == "" {
		return FormEditState{}, false, ErrEmptyFormID
	}
	for _, key := range []string{b.Key(formID), b.LegacyKey(formID)} {
		if key == "" {
			continue
		}
		blob, ok, err := b.kv.Get(ctx, key)
		if err != nil {
			return FormEditState{}, false, fmt.Errorf("persist: get %q: %w", key, err)
		}
		if !ok {
			continue
		}
		state, err := decode(key, blob)
		if err != nil {
			b.logger.Warn("discarding unreadable form state",
				zap.String("form", formID),
				zap.String("key", key),
				zap.Error(err),
			)
			return FormEditState{}, false, nil
		}
		return state, true, nil
	}
	return FormEditState{}, false, nil
}

// Save writes the full state under the primary key. Saves for the same form
// are applied one at a time in the order callers reached the gate.
func (b *Bridge) Save(ctx context.Context, formID string, state FormEditState) error {
	if formID == "" {
		return ErrEmptyFormID
	}
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("persist: encode state: %w", err)
	}

	gate := b.gate(formID)
	if err := gate.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("persist: wait for save slot: %w", err)
	}
	defer gate.Release(1)

	key := b.Key(formID)
	if err := b.kv.Put(ctx, key, blob); err != nil {
		return fmt.Errorf("persist: put %q: %w", key, err)
	}
	return nil
}

// Clear deletes the primary and legacy keys for formID.
func (b *Bridge) Clear(ctx context.Context, formID string) error {
	if formID == "" {
		return ErrEmptyFormID
	}
	gate := b.gate(formID)
	if err := gate.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("persist: wait for save slot: %w", err)
	}
	defer gate.Release(1)

	for _, key := range []string{b.Key(formID), b.LegacyKey(formID)} {
		if key == "" {
			continue
		}
		if err := b.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("persist: delete %q: %w", key, err)
		}
	}
	return nil
}

func (b *Bridge) gate(formID string) *semaphore.Weighted {
	b.mu.Lock()
	defer b.mu.Unlock()
	gate, ok := b.gates[formID]
	if !ok {
		gate = semaphore.NewWeighted(1)
		b.gates[formID] = gate
	}
	return gate
}

func decode(key string, blob []byte) (FormEditState, error) {
	var state FormEditState
	if err := json.Unmarshal(blob, &state); err != nil {
		return FormEditState{}, &CorruptStateError{Key: key, Err: err}
	}
	return state, nil
}
