package overlay

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formedit/pkg/model"
	"github.com/goliatone/go-formedit/pkg/rawdoc"
)

// Strategy is one way of finding a value for a flattened field id.
type Strategy interface {
	Name() string
	Resolve(id string) (any, bool)
}

type strategyFunc struct {
	name string
	fn   func(id string) (any, bool)
}

func (s strategyFunc) Name() string                  { return s.name }
func (s strategyFunc) Resolve(id string) (any, bool) { return s.fn(id) }

// StrategyFunc adapts a function into a named Strategy.
func StrategyFunc(name string, fn func(id string) (any, bool)) Strategy {
	return strategyFunc{name: name, fn: fn}
}

const (
	SourceFlatKey        = "flat-key"
	SourceNestedChanges  = "nested-changes"
	SourceInitialValue   = "initial-value"
	SourceNestedDocument = "nested-document"
)

// FlatKey looks the id up as a literal key in the overlay. Dots are part of
// the key here, not path separators.
func FlatKey(store *Store) Strategy {
	return StrategyFunc(SourceFlatKey, func(id string) (any, bool) {
		value, ok := store.Value(id)
		if !ok {
			return nil, false
		}
		return deepCopy(value), true
	})
}

// NestedChanges splits the id on dots and walks the overlay as a nested
// structure. Older clients stored grouped edits this way.
func NestedChanges(store *Store) Strategy {
	return StrategyFunc(SourceNestedChanges, func(id string) (any, bool) {
		if !strings.Contains(id, ".") {
			return nil, false
		}
		value, ok := getPath(store.changes, strings.Split(id, "."))
		if !ok {
			return nil, false
		}
		return deepCopy(value), true
	})
}

// InitialValue returns the value carried by the normalized descriptor.
func InitialValue(form model.Form) Strategy {
	values := make(map[string]any)
	for _, field := range form.Fields() {
		if field.HasValue {
			values[field.ID] = field.Value
		}
	}
	return StrategyFunc(SourceInitialValue, func(id string) (any, bool) {
		value, ok := values[id]
		if !ok {
			return nil, false
		}
		return deepCopy(value), true
	})
}

// NestedDocument splits the id on dots and walks the raw document.
func NestedDocument(root *rawdoc.Node) Strategy {
	return StrategyFunc(SourceNestedDocument, func(id string) (any, bool) {
		if root == nil || id == "" {
			return nil, false
		}
		node, ok := root.Lookup(strings.Split(id, ".")...)
		if !ok || node.IsNull() {
			return nil, false
		}
		return node.Interface(), true
	})
}

// Resolver tries its strategies in order and returns the first hit.
type Resolver struct {
	strategies []Strategy
}

// NewResolver builds a resolver from explicit strategies.
func NewResolver(strategies ...Strategy) *Resolver {
	out := &Resolver{}
	for _, strategy := range strategies {
		if strategy != nil {
			out.strategies = append(out.strategies, strategy)
		}
	}
	return out
}

// DefaultResolver checks the overlay by flat key, then the overlay as a
// nested structure, then the field's initial value, then the raw document.
func DefaultResolver(store *Store, form model.Form) *Resolver {
	return NewResolver(
		FlatKey(store),
		NestedChanges(store),
		InitialValue(form),
		NestedDocument(form.Raw),
	)
}

// Resolve returns the effective value for id.
func (r *Resolver) Resolve(id string) (any, bool) {
	value, _, ok := r.ResolveSource(id)
	return value, ok
}

// ResolveSource also reports which strategy produced the value.
func (r *Resolver) ResolveSource(id string) (any, string, bool) {
	if r == nil {
		return nil, "", false
	}
	for _, strategy := range r.strategies {
		if value, ok := strategy.Resolve(id); ok {
			return value, strategy.Name(), true
		}
	}
	return nil, "", false
}

func getPath(root map[string]any, segments []string) (any, bool) {
	if root == nil || len(segments) == 0 {
		return nil, false
	}
	current := any(root)
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}
