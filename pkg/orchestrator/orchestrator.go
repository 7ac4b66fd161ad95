package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	internalLoader "github.com/goliatone/go-formedit/internal/rawdoc/loader"
	"github.com/goliatone/go-formedit/pkg/model"
	"github.com/goliatone/go-formedit/pkg/persist"
	"github.com/goliatone/go-formedit/pkg/rawdoc"
	"github.com/goliatone/go-formedit/pkg/render"
	"github.com/goliatone/go-formedit/pkg/renderers/html"
	"github.com/goliatone/go-formedit/pkg/renderers/tui"
	"github.com/goliatone/go-formedit/pkg/session"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(loader rawdoc.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithModelBuilder injects a custom normalizer.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits one.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithBridge persists opened sessions through bridge. Without one sessions
// are memory only.
func WithBridge(bridge *persist.Bridge) Option {
	return func(o *Orchestrator) {
		o.bridge = bridge
	}
}

// WithLogger is handed to sessions opened by the orchestrator.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSessionOptions appends options applied to every opened session.
func WithSessionOptions(options ...session.Option) Option {
	return func(o *Orchestrator) {
		o.sessionOptions = append(o.sessionOptions, options...)
	}
}

// Orchestrator coordinates the pipeline from raw document to rendered
// output. Missing dependencies get the built-in implementations.
type Orchestrator struct {
	loader          rawdoc.Loader
	builder         model.Builder
	registry        *render.Registry
	bridge          *persist.Bridge
	logger          *zap.Logger
	sessionOptions  []session.Option
	defaultRenderer string
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one form to open or render.
type Request struct {
	// Source identifies where the raw document lives. Optional when Document
	// is supplied.
	Source rawdoc.Source

	// Document bypasses the loader when the caller already holds the bytes.
	Document *rawdoc.Document

	// FormID keys the persisted edit state.
	FormID string

	// Renderer names the renderer to use; empty selects the default.
	Renderer string

	// RenderOptions are passed to the renderer. Normalization diagnostics are
	// added when the request carries none.
	RenderOptions render.RenderOptions
}

// Open loads and normalizes the document and opens its edit session.
func (o *Orchestrator) Open(ctx context.Context, req Request) (*session.Session, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if req.FormID == "" {
		return nil, errors.New("orchestrator: form id is required")
	}

	form, err := o.BuildForm(ctx, req)
	if err != nil {
		return nil, err
	}

	opts := []session.Option{session.WithLogger(o.logger)}
	if o.bridge != nil {
		opts = append(opts, session.WithBridge(o.bridge))
	}
	opts = append(opts, o.sessionOptions...)

	s, err := session.New(ctx, form, req.FormID, opts...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: open session: %w", err)
	}
	return s, nil
}

// BuildForm loads and normalizes the document without opening a session.
func (o *Orchestrator) BuildForm(ctx context.Context, req Request) (model.Form, error) {
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return model.Form{}, err
	}
	root, err := doc.Tree()
	if err != nil {
		return model.Form{}, fmt.Errorf("orchestrator: parse document %s: %w", doc.Location(), err)
	}
	form, err := o.builder.Build(root)
	if err != nil {
		return model.Form{}, fmt.Errorf("orchestrator: build form: %w", err)
	}
	return form, nil
}

// Generate opens the session for req and renders its current view.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	s, err := o.Open(ctx, req)
	if err != nil {
		return nil, err
	}
	return o.Render(ctx, s, req.Renderer, req.RenderOptions)
}

// Render draws an already opened session with the named renderer.
func (o *Orchestrator) Render(ctx context.Context, s *session.Session, rendererName string, opts render.RenderOptions) ([]byte, error) {
	if s == nil {
		return nil, errors.New("orchestrator: session is required")
	}
	renderer, err := o.rendererFor(rendererName)
	if err != nil {
		return nil, err
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = s.Form().Diagnostics
	}
	output, err := renderer.Render(ctx, s.View(), opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Renderers lists the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (rawdoc.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return rawdoc.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return rawdoc.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.registry.Get(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(rawdoc.NewLoaderOptions())
	}
	if o.builder == nil {
		o.builder = model.NewBuilder(model.WithLogger(o.logger))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		htmlRenderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		for _, r := range []render.Renderer{htmlRenderer, tui.New()} {
			if err := o.registry.Register(r); err != nil {
				o.initialiseErr = fmt.Errorf("orchestrator: register renderer: %w", err)
				return
			}
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
