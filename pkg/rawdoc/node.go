package rawdoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the shape of a Node.
type Kind uint8

const (
	KindNull Kind = iota
	KindScalar
	KindMap
	KindSeq
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMap:
		return "mapping"
	case KindSeq:
		return "sequence"
	default:
		return "null"
	}
}

// Entry is a single key/value pair of a mapping node, kept in document order.
type Entry struct {
	Key   string
	Value *Node
}

// Node is an untyped, order-preserving view of a raw document. Mappings keep
// their entries in the order they were written, which Go maps cannot do.
type Node struct {
	Kind    Kind
	Scalar  any
	Entries []Entry
	Items   []*Node
	Line    int
}

// ErrEmptyDocument is returned when the payload holds no document at all.
var ErrEmptyDocument = errors.New("rawdoc: document is empty")

// Parse decodes JSON or YAML into an ordered Node tree. JSON payloads are
// streamed token by token; everything else goes through yaml.v3 nodes.
func Parse(raw []byte) (*Node, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, ErrEmptyDocument
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		node, err := parseJSON(trimmed)
		if err == nil {
			return node, nil
		}
		if json.Valid(trimmed) {
			return nil, err
		}
	}
	return parseYAML(trimmed)
}

func parseYAML(raw []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("rawdoc: decode yaml: %w", err)
	}
	if doc.Kind == 0 {
		return nil, ErrEmptyDocument
	}
	return fromYAML(&doc)
}

func fromYAML(n *yaml.Node) (*Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, ErrEmptyDocument
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return &Node{Kind: KindNull, Line: n.Line}, nil
		}
		return fromYAML(n.Alias)
	case yaml.MappingNode:
		out := &Node{Kind: KindMap, Line: n.Line}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			value, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out.set(key, value)
		}
		return out, nil
	case yaml.SequenceNode:
		out := &Node{Kind: KindSeq, Line: n.Line, Items: make([]*Node, 0, len(n.Content))}
		for _, child := range n.Content {
			item, err := fromYAML(child)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, item)
		}
		return out, nil
	case yaml.ScalarNode:
		var value any
		if err := n.Decode(&value); err != nil {
			return nil, fmt.Errorf("rawdoc: decode scalar at line %d: %w", n.Line, err)
		}
		if value == nil {
			return &Node{Kind: KindNull, Line: n.Line}, nil
		}
		return &Node{Kind: KindScalar, Scalar: value, Line: n.Line}, nil
	default:
		return nil, fmt.Errorf("rawdoc: unsupported yaml node kind %d at line %d", n.Kind, n.Line)
	}
}

func parseJSON(raw []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	node, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("rawdoc: decode json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("rawdoc: decode json: trailing data after document")
	}
	return node, nil
}

func decodeJSONValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			out := &Node{Kind: KindMap}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected key token %v", keyTok)
				}
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				out.set(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return out, nil
		case '[':
			out := &Node{Kind: KindSeq, Items: []*Node{}}
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				out.Items = append(out.Items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return out, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
	case nil:
		return &Node{Kind: KindNull}, nil
	case json.Number:
		return &Node{Kind: KindScalar, Scalar: numberValue(v)}, nil
	default:
		return &Node{Kind: KindScalar, Scalar: v}, nil
	}
}

func numberValue(num json.Number) any {
	if i, err := strconv.Atoi(num.String()); err == nil {
		return i
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return num.String()
}

// set appends a mapping entry; a repeated key replaces the earlier value in
// its original position.
func (n *Node) set(key string, value *Node) {
	for i := range n.Entries {
		if n.Entries[i].Key == key {
			n.Entries[i].Value = value
			return
		}
	}
	n.Entries = append(n.Entries, Entry{Key: key, Value: value})
}

// IsMap reports whether the node is a mapping.
func (n *Node) IsMap() bool { return n != nil && n.Kind == KindMap }

// IsSeq reports whether the node is a sequence.
func (n *Node) IsSeq() bool { return n != nil && n.Kind == KindSeq }

// IsNull reports whether the node is absent or an explicit null.
func (n *Node) IsNull() bool { return n == nil || n.Kind == KindNull }

// Len returns the number of entries or items.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindMap:
		return len(n.Entries)
	case KindSeq:
		return len(n.Items)
	default:
		return 0
	}
}

// Get returns the value stored under key when n is a mapping.
func (n *Node) Get(key string) (*Node, bool) {
	if !n.IsMap() {
		return nil, false
	}
	for _, entry := range n.Entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// Lookup walks mapping keys and sequence indices in order.
func (n *Node) Lookup(segments ...string) (*Node, bool) {
	current := n
	for _, segment := range segments {
		switch {
		case current.IsMap():
			next, ok := current.Get(segment)
			if !ok {
				return nil, false
			}
			current = next
		case current.IsSeq():
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(current.Items) {
				return nil, false
			}
			current = current.Items[idx]
		default:
			return nil, false
		}
	}
	return current, current != nil
}

// Text returns the scalar rendered as a string, or "" for non-scalars.
func (n *Node) Text() string {
	if n == nil || n.Kind != KindScalar {
		return ""
	}
	switch v := n.Scalar.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// StringAt returns the trimmed string scalar stored under key, if any.
func (n *Node) StringAt(key string) string {
	child, ok := n.Get(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

// Interface converts the node into plain Go values (map[string]any, []any,
// scalars). Key order is lost.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindScalar:
		return n.Scalar
	case KindMap:
		out := make(map[string]any, len(n.Entries))
		for _, entry := range n.Entries {
			out[entry.Key] = entry.Value.Interface()
		}
		return out
	case KindSeq:
		out := make([]any, len(n.Items))
		for i, item := range n.Items {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// FromValue builds a Node from plain Go values. Map keys are sorted since Go
// maps carry no order.
func FromValue(value any) *Node {
	switch v := value.(type) {
	case nil:
		return &Node{Kind: KindNull}
	case *Node:
		return v
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := &Node{Kind: KindMap, Entries: make([]Entry, 0, len(keys))}
		for _, key := range keys {
			out.Entries = append(out.Entries, Entry{Key: key, Value: FromValue(v[key])})
		}
		return out
	case []any:
		out := &Node{Kind: KindSeq, Items: make([]*Node, 0, len(v))}
		for _, item := range v {
			out.Items = append(out.Items, FromValue(item))
		}
		return out
	case []map[string]any:
		out := &Node{Kind: KindSeq, Items: make([]*Node, 0, len(v))}
		for _, item := range v {
			out.Items = append(out.Items, FromValue(item))
		}
		return out
	default:
		return &Node{Kind: KindScalar, Scalar: v}
	}
}
