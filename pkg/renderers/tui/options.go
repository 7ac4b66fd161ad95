package tui

import (
	"io"
	"os"
)

// OutputFormat controls how Renderer serializes a view.
type OutputFormat string

const (
	// OutputFormatPrettyText emits an indented, human-friendly summary.
	OutputFormatPrettyText OutputFormat = "pretty"
	// OutputFormatJSON emits the view model as JSON.
	OutputFormatJSON OutputFormat = "json"
)

// Theme captures optional message prefixes. Keep minimal to avoid coupling
// editing logic to ANSI specifics.
type Theme struct {
	InfoPrefix    string
	DriftMarker   string
	ChangedMarker string
}

func defaultTheme() Theme {
	return Theme{DriftMarker: "!", ChangedMarker: "*"}
}

// Option configures the editor and the text renderer.
type Option func(*config)

type config struct {
	driver       PromptDriver
	out          io.Writer
	outputFormat OutputFormat
	theme        Theme
	allSections  bool
}

// WithPromptDriver overrides the prompt driver used by the editor.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *config) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithOutput sets where the default driver writes info messages.
func WithOutput(out io.Writer) Option {
	return func(c *config) {
		if out != nil {
			c.out = out
		}
	}
}

// WithOutputFormat selects the text renderer's serialization.
func WithOutputFormat(format OutputFormat) Option {
	return func(c *config) {
		if format != "" {
			c.outputFormat = format
		}
	}
}

// WithTheme applies message prefixes and markers.
func WithTheme(theme Theme) Option {
	return func(c *config) {
		c.theme = theme
	}
}

// WithAllSections walks every section instead of only expanded ones.
func WithAllSections() Option {
	return func(c *config) {
		c.allSections = true
	}
}

func newConfig(options []Option) config {
	cfg := config{
		out:          os.Stdout,
		outputFormat: OutputFormatPrettyText,
		theme:        defaultTheme(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.driver == nil {
		cfg.driver = NewSurveyDriver(cfg.out)
	}
	return cfg
}
