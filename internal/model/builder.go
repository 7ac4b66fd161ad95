package model

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formedit/pkg/rawdoc"
)

// Builder flattens raw form documents into sections of field descriptors.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if options.Logger != nil {
		opts.Logger = options.Logger
	}
	opts.StrictIDs = options.StrictIDs
	return &Builder{opts: opts}
}

// fieldRef remembers where an id was first emitted.
type fieldRef struct {
	section int
	field   int
	path    string
}

type buildState struct {
	form Form
	seen map[string]fieldRef
}

// Build walks sections and their fields in document order. Malformed entries
// are skipped and reported as diagnostics; only a missing sections mapping
// or, in strict mode, a duplicate id fails the build.
func (b *Builder) Build(root *rawdoc.Node) (Form, error) {
	if root == nil {
		return Form{}, ErrNilDocument
	}
	sections, ok := root.Get("sections")
	if !ok || !sections.IsMap() {
		return Form{}, ErrNoSections
	}

	state := &buildState{
		form: Form{Sections: make([]Section, 0, sections.Len()), Raw: root},
		seen: make(map[string]fieldRef),
	}

	for _, entry := range sections.Entries {
		path := joinPath("sections", entry.Key)
		if !entry.Value.IsMap() {
			b.skip(state, path, fmt.Sprintf("section must be a mapping, got %s", entry.Value.Kind))
			continue
		}
		fields, ok := entry.Value.Get("fields")
		if !ok || !fields.IsMap() {
			b.skip(state, path, "section has no fields mapping")
			continue
		}

		section := b.sectionFromNode(entry.Key, entry.Value)
		state.form.Sections = append(state.form.Sections, section)
		sectionIdx := len(state.form.Sections) - 1

		for _, fieldEntry := range fields.Entries {
			fieldPath := joinPath(path, "fields", fieldEntry.Key)
			switch {
			case fieldEntry.Value.IsSeq():
				if err := b.emitGroup(state, sectionIdx, fieldEntry.Key, fieldEntry.Value, fieldPath); err != nil {
					return Form{}, err
				}
			case fieldEntry.Value.IsMap():
				field := b.fieldFromNode(fieldEntry.Key, fieldEntry.Key, "", fieldEntry.Value)
				if err := b.emit(state, sectionIdx, field, fieldPath); err != nil {
					return Form{}, err
				}
			default:
				b.skip(state, fieldPath, fmt.Sprintf("field must be a mapping or a sequence of group items, got %s", fieldEntry.Value.Kind))
			}
		}
	}

	return state.form, nil
}

func (b *Builder) sectionFromNode(id string, node *rawdoc.Node) Section {
	title := node.StringAt("title")
	if title == "" {
		title = b.opts.Labeler(id)
	}
	section := Section{
		ID:          id,
		Title:       title,
		Description: node.StringAt("tooltip"),
		Layout:      parseLayout(node.StringAt("layout")),
		BgColor:     node.StringAt("bgColor"),
		Fields:      []Field{},
	}
	if order, ok := node.Get("order"); ok && order.Kind == rawdoc.KindScalar {
		if n, ok := toIntValue(order.Scalar); ok {
			section.Order = n
		}
	}
	return section
}

func (b *Builder) emitGroup(state *buildState, sectionIdx int, key string, group *rawdoc.Node, path string) error {
	for index, item := range group.Items {
		groupID := key + "." + strconv.Itoa(index)
		itemPath := joinPath(path, strconv.Itoa(index))
		if !item.IsMap() {
			b.skip(state, itemPath, fmt.Sprintf("group item must be a mapping, got %s", item.Kind))
			continue
		}
		for _, sub := range item.Entries {
			subPath := joinPath(itemPath, sub.Key)
			if !sub.Value.IsMap() {
				b.skip(state, subPath, fmt.Sprintf("group field must be a mapping, got %s", sub.Value.Kind))
				continue
			}
			field := b.fieldFromNode(groupID+"."+sub.Key, sub.Key, groupID, sub.Value)
			if err := b.emit(state, sectionIdx, field, subPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) fieldFromNode(id, key, groupID string, node *rawdoc.Node) Field {
	label := node.StringAt("title")
	if label == "" {
		label = b.opts.Labeler(key)
	}

	field := Field{
		ID:          id,
		GroupID:     groupID,
		Key:         key,
		Label:       label,
		Placeholder: node.StringAt("placeholder"),
		Description: node.StringAt("tooltip"),
		Type:        FieldTypeText,
		Options:     []Option{},
	}

	if iface, ok := node.Get("interface"); ok && iface.IsMap() {
		if typ, ok := iface.Get("type"); ok && typ.Kind == rawdoc.KindScalar {
			field.Type, _ = ParseFieldType(typ.Scalar)
		}
		if opts, ok := iface.Get("options"); ok {
			field.Options = parseOptions(opts)
		}
	}

	colSpan, _ := node.Get("colSpan")
	field.ColSpan = resolveColSpan(colSpan)

	if required, ok := node.Get("required"); ok {
		field.Required = truthy(required)
	}
	if value, ok := node.Get("value"); ok && !value.IsNull() {
		field.Value = value.Interface()
		field.HasValue = true
	}
	return field
}

func parseOptions(node *rawdoc.Node) []Option {
	out := []Option{}
	if !node.IsSeq() {
		return out
	}
	for _, item := range node.Items {
		switch {
		case item.Kind == rawdoc.KindScalar:
			text := item.Text()
			out = append(out, Option{Value: text, Label: text})
		case item.IsMap():
			value := item.StringAt("value")
			label := item.StringAt("label")
			if value == "" {
				value = label
			}
			if label == "" {
				label = value
			}
			if value == "" {
				continue
			}
			out = append(out, Option{Value: value, Label: label})
		}
	}
	return out
}

func (b *Builder) emit(state *buildState, sectionIdx int, field Field, path string) error {
	prior, dup := state.seen[field.ID]
	if !dup {
		fields := &state.form.Sections[sectionIdx].Fields
		*fields = append(*fields, field)
		state.seen[field.ID] = fieldRef{section: sectionIdx, field: len(*fields) - 1, path: path}
		return nil
	}

	if b.opts.StrictIDs {
		return &DuplicateFieldError{ID: field.ID, First: prior.path, Second: path}
	}

	// Last write wins, keeping the slot of the first occurrence.
	state.form.Sections[prior.section].Fields[prior.field] = field
	state.seen[field.ID] = fieldRef{section: prior.section, field: prior.field, path: path}
	reason := fmt.Sprintf("duplicate field id %q replaces %s", field.ID, prior.path)
	state.form.Diagnostics = append(state.form.Diagnostics, Diagnostic{Path: path, Reason: reason})
	b.opts.Logger.Warn("form field id collision",
		zap.String("id", field.ID),
		zap.String("first", prior.path),
		zap.String("second", path),
	)
	return nil
}

func (b *Builder) skip(state *buildState, path, reason string) {
	state.form.Diagnostics = append(state.form.Diagnostics, Diagnostic{Path: path, Reason: reason})
	b.opts.Logger.Warn("skipping malformed form entry",
		zap.String("path", path),
		zap.String("reason", reason),
	)
}

func joinPath(base string, segments ...string) string {
	parts := append([]string{base}, segments...)
	return strings.Join(parts, ".")
}
