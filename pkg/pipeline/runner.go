package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackplot/pkg/cache"
	"github.com/matzehuels/stackplot/pkg/compose"
	"github.com/matzehuels/stackplot/pkg/dataset"
	"github.com/matzehuels/stackplot/pkg/figure"
	"github.com/matzehuels/stackplot/pkg/observability"
	"github.com/matzehuels/stackplot/pkg/render"
	"github.com/matzehuels/stackplot/pkg/template"
)

// Runner executes the pipeline with artifact caching. Both CLI and API use
// it so the stages are wired the same way everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → compose → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	t, tab, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Rows = tab.Len()
	result.Stats.Columns = len(tab.Columns())
	result.Stats.Grids = len(t.Grids)

	r.Logger.Info("loaded inputs",
		"grids", len(t.Grids),
		"variables", len(t.Variables),
		"rows", tab.Len(),
		"duration", result.Stats.LoadTime)

	id, err := FigureID(t, tab, opts.Kind, opts.SuppressInfo)
	if err != nil {
		return nil, fmt.Errorf("figure id: %w", err)
	}
	result.FigureID = id

	// Stage 2: Compose
	composeStart := time.Now()
	fig, err := r.Compose(ctx, t, tab, opts)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Figure = fig
	result.Stats.ComposeTime = time.Since(composeStart)
	result.Stats.Traces = len(fig.Data)

	r.Logger.Info("composed figure",
		"id", id,
		"traces", len(fig.Data),
		"grids", len(compose.GridKeys(fig)),
		"duration", result.Stats.ComposeTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, fig, id, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load obtains the template and the data table of a run.
func (r *Runner) Load(ctx context.Context, opts Options) (*template.Template, *dataset.Table, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, nil, err
	}

	t, err := r.LoadTemplate(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	tab, err := r.LoadData(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return t, tab, nil
}

// LoadTemplate returns a validated copy of the run's template with layout
// defaults applied. The caller's template is not modified.
func (r *Runner) LoadTemplate(ctx context.Context, opts Options) (*template.Template, error) {
	r.applyLogger(&opts)
	hooks := observability.Pipeline()
	source := opts.TemplatePath
	if opts.Template != nil {
		source = "inline"
	}
	hooks.OnLoadStart(ctx, "template", source)
	start := time.Now()

	var (
		t   *template.Template
		err error
	)
	if opts.Template != nil {
		t, err = cloneTemplate(opts.Template)
		if err == nil {
			err = t.ValidateAndSetDefaults()
		}
	} else {
		t, err = template.Load(opts.TemplatePath)
	}
	if err == nil {
		SetLayoutDefaults(t)
	}

	hooks.OnLoadComplete(ctx, "template", source, 0, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("loaded template", "source", source, "title", t.Title)
	return t, nil
}

// LoadData returns the run's data table.
func (r *Runner) LoadData(ctx context.Context, opts Options) (*dataset.Table, error) {
	if opts.Table != nil {
		return opts.Table, nil
	}
	r.applyLogger(&opts)

	kind := opts.Data.Kind
	if kind == "" {
		var err error
		if kind, err = dataset.KindFromPath(opts.Data.Path); err != nil {
			return nil, err
		}
	}
	source := sourceLabel(kind, opts.Data)

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, string(kind), source)
	start := time.Now()

	src := opts.Data
	src.Kind = kind
	tab, err := dataset.Open(ctx, src)

	rows := 0
	if tab != nil {
		rows = tab.Len()
	}
	hooks.OnLoadComplete(ctx, string(kind), source, rows, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("loaded dataset", "kind", kind, "source", source, "rows", rows, "columns", tab.Columns())
	return tab, nil
}

// Compose builds the figure from a loaded template and table.
func (r *Runner) Compose(ctx context.Context, t *template.Template, tab *dataset.Table, opts Options) (*figure.Figure, error) {
	kind := opts.Kind
	if kind == "" {
		kind = string(t.Kind())
	}

	hooks := observability.Pipeline()
	hooks.OnComposeStart(ctx, kind, len(t.Variables))
	start := time.Now()

	fig, err := compose.Compose(t, tab, compose.Options{
		Kind:         template.PlotType(opts.Kind),
		SuppressInfo: opts.SuppressInfo,
	})

	traces := 0
	if fig != nil {
		traces = len(fig.Data)
	}
	hooks.OnComposeComplete(ctx, kind, traces, time.Since(start), err)
	return fig, err
}

// RenderWithCacheInfo encodes the figure in every requested format and
// reports whether all artifacts came from the cache. Artifacts are keyed by
// the figure ID, so id must be the [FigureID] of the inputs fig was composed
// from.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, fig *figure.Figure, id string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	if id != "" {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(id, opts.ArtifactKeyOpts(format)))
			if err != nil {
				opts.Logger.Warn("cache read failed", "format", format, "error", err)
			}
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
			return artifacts, true, nil
		}
	}

	artifacts, err := renderAll(fig, id, opts)

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if id != "" {
		for format, data := range artifacts {
			key := r.Keyer.ArtifactKey(id, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
				opts.Logger.Warn("cache write failed", "format", format, "error", err)
			}
		}
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, fig *figure.Figure, id string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, fig, id, opts)
	return artifacts, err
}

func renderAll(fig *figure.Figure, id string, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := render.Render(fig, format, render.Options{
			ID:     id,
			Title:  opts.Title,
			Indent: opts.Indent,
		})
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// sourceLabel names a data source for logs and hooks without exposing
// connection credentials.
func sourceLabel(kind dataset.Kind, src dataset.Source) string {
	if kind == dataset.KindMongo {
		return src.Database + "." + src.Table
	}
	if src.Table != "" {
		return src.Path + ":" + src.Table
	}
	return src.Path
}
