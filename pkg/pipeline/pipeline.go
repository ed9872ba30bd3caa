// Package pipeline provides the figure pipeline shared by the CLI and the
// HTTP API.
//
// This package implements the complete load → compose → render pipeline. By
// centralizing it, both entry points apply the same defaults, validation,
// logging and observability hooks.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: decode the template and read the data table from its source
//  2. Compose: build the figure with [compose.Compose]
//  3. Render: encode the figure in every requested format
//
// Each stage can be run on its own through the [Runner] methods. Rendered
// artifacts are cached by figure ID and render options; composition itself
// is never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, logger)
//	opts := pipeline.Options{
//	    TemplatePath: "track.toml",
//	    Data:         dataset.Source{Path: "run.csv"},
//	    Formats:      []string{"html"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts["html"]
//
// [compose.Compose]: github.com/matzehuels/stackplot/pkg/compose
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackplot/pkg/cache"
	"github.com/matzehuels/stackplot/pkg/dataset"
	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/figure"
	"github.com/matzehuels/stackplot/pkg/render"
	"github.com/matzehuels/stackplot/pkg/template"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultFormat is the output format when none is requested.
	DefaultFormat = render.FormatJSON

	// DefaultWidth is the figure width in pixels when the template sets none.
	DefaultWidth = 900

	// DefaultHeight is the figure height in pixels when the template sets none.
	DefaultHeight = 600

	// DefaultTheme is the plotly theme when the template sets none.
	DefaultTheme = "plotly_white"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	render.FormatJSON: true,
	render.FormatHTML: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Template and Table take precedence over TemplatePath and
	// Data when the caller already holds decoded inputs.
	TemplatePath string             `json:"template_path,omitempty"`
	Template     *template.Template `json:"template,omitempty"`
	Data         dataset.Source     `json:"data,omitempty"`
	Table        *dataset.Table     `json:"-"`

	// Compose options
	Kind         string `json:"kind,omitempty"`
	SuppressInfo bool   `json:"suppress_info,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Indent  bool     `json:"indent,omitempty"`
	Title   string   `json:"title,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Figure is the composed figure.
	Figure *figure.Figure

	// FigureID identifies the inputs the figure was composed from. The same
	// template, data and compose options always give the same ID.
	FigureID string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// CacheInfo tracks cache hits of a pipeline run.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows        int
	Columns     int
	Traces      int
	Grids       int
	LoadTime    time.Duration
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, html)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateKind checks a figure kind override.
func ValidateKind(kind string) error {
	return template.ValidatePlotType(template.PlotType(kind), true)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := ValidateKind(o.Kind); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that a template and a data table can be obtained.
func (o *Options) ValidateForLoad() error {
	if o.Template == nil && o.TemplatePath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "template is required")
	}
	if o.TemplatePath != "" {
		if err := errors.ValidatePath(o.TemplatePath); err != nil {
			return err
		}
	}
	if o.Table == nil && o.Data.Path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "data source is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ArtifactKeyOpts returns the cache key options of one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case render.FormatJSON:
		opts.Indent = o.Indent
	case render.FormatHTML:
		opts.Title = o.Title
	}
	return opts
}

// SetLayoutDefaults fills the layout options the template left empty.
func SetLayoutDefaults(t *template.Template) {
	if t.Layout.Width == 0 {
		t.Layout.Width = DefaultWidth
	}
	if t.Layout.Height == 0 {
		t.Layout.Height = DefaultHeight
	}
	if t.Layout.Theme == "" {
		t.Layout.Theme = DefaultTheme
	}
}
