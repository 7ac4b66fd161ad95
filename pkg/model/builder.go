package model

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formedit/internal/model"
	"github.com/goliatone/go-formedit/pkg/rawdoc"
)

// Builder normalizes raw form documents into sections of flat fields.
type Builder interface {
	Build(root *rawdoc.Node) (Form, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler   func(string) string
	logger    *zap.Logger
	strictIDs bool
}

// WithLabeler overrides the label derived for entries without a title.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithLogger receives diagnostics about skipped or colliding entries.
func WithLogger(logger *zap.Logger) BuilderOption {
	return func(opts *builderOptions) {
		opts.logger = logger
	}
}

// WithStrictIDs makes Build fail on duplicate field ids instead of letting
// the later entry win.
func WithStrictIDs() BuilderOption {
	return func(opts *builderOptions) {
		opts.strictIDs = true
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	return model.New(model.Options{
		Labeler:   cfg.labeler,
		Logger:    cfg.logger,
		StrictIDs: cfg.strictIDs,
	})
}

// Normalize parses raw JSON or YAML and builds the form in one step.
func Normalize(raw []byte, options ...BuilderOption) (Form, error) {
	root, err := rawdoc.Parse(raw)
	if err != nil {
		return Form{}, err
	}
	return NewBuilder(options...).Build(root)
}
