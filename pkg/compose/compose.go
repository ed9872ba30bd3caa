// Package compose turns a template and a data table into a figure.
//
// [Compose] runs in three strict steps: layout chrome (title, theme, size,
// legend, margins, annotations), then one trace per variable, then the axis
// or scene layout of every grid over the series plotted on it. 2D and 3D
// grids are numbered independently from 1. The figure is only returned once
// every step succeeded.
//
// The figure kind decides how variables become traces:
//   - 2d and 3d plot every variable as a 2D or 3D scatter
//   - heatmap plots every variable as a heatmap-styled scatter and never shows
//     the informational annotations
//   - subplots plots each variable by its own 2d or 3d type and adds a
//     placement request for the backend's subplot grid
package compose

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/stackplot/pkg/dataset"
	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/figure"
	"github.com/matzehuels/stackplot/pkg/grid"
	"github.com/matzehuels/stackplot/pkg/template"
	"github.com/matzehuels/stackplot/pkg/trace"
)

const titleFontSize = 13

// Options is the render configuration of one composition call.
type Options struct {
	// Kind overrides the figure kind of the template.
	Kind template.PlotType `json:"kind,omitempty"`

	// SuppressInfo hides the informational annotations even when the
	// template enables them.
	SuppressInfo bool `json:"suppressInfo,omitempty"`
}

// Compose builds the figure described by t over tab.
func Compose(t *template.Template, tab *dataset.Table, opts Options) (*figure.Figure, error) {
	if t == nil || tab == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "template and data table are required")
	}
	if len(t.Grids) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTemplate, "template has no grids")
	}

	kind := opts.Kind
	if kind == "" {
		kind = t.Kind()
	}
	if kind == "" {
		kind = template.PlotType2D
	}
	if err := template.ValidatePlotType(kind, true); err != nil {
		return nil, err
	}

	is3D := figureIs3D(kind, t.Grids)
	info := t.Layout.ShowInfo && !opts.SuppressInfo && kind != template.PlotTypeHeatmap

	fig := &figure.Figure{Layout: layout(t, is3D, info)}
	if kind == template.PlotTypeSubplots {
		fig.Subplots = subplots(t)
		fig.Layout.Grid = &figure.LayoutGrid{
			Rows:     fig.Subplots.Rows,
			Columns:  fig.Subplots.Columns,
			Pattern:  "independent",
			RowOrder: "top to bottom",
		}
		if vs := fig.Subplots.VerticalSpacing; vs != nil {
			fig.Layout.Grid.YGap = *vs
		}
	}

	ordinals := gridOrdinals(t.Grids)
	series := make([][][]float64, len(t.Grids))
	for i, v := range t.Variables {
		g, err := t.Grid(v)
		if err != nil {
			return nil, err
		}
		k, err := traceKind(kind, v)
		if err != nil {
			return nil, fmt.Errorf("variable %d: %w", i+1, err)
		}

		p := trace.Placement{Ordinal: ordinals[v.Subplot-1]}
		if len(t.Grids) > 1 {
			p.LegendGroup = fmt.Sprintf("%d-%d", v.Row, v.Column)
		}

		res, err := trace.Assemble(k, v, *g, tab, p)
		if err != nil {
			return nil, fmt.Errorf("variable %d: %w", i+1, err)
		}
		fig.Data = append(fig.Data, res.Trace)
		series[v.Subplot-1] = append(series[v.Subplot-1], res.Series...)
		if fig.Subplots != nil {
			fig.Subplots.Placements = append(fig.Subplots.Placements, figure.Placement{Trace: i, Row: v.Row, Col: v.Column})
		}
	}

	for i, g := range t.Grids {
		if g.Is3D() {
			key, scene, err := grid.Layout3D(g, series[i], ordinals[i])
			if err != nil {
				return nil, fmt.Errorf("grid %d: %w", i+1, err)
			}
			fig.Layout.Scenes[key] = scene
			continue
		}
		axes, err := grid.Layout2D(g, series[i], ordinals[i])
		if err != nil {
			return nil, fmt.Errorf("grid %d: %w", i+1, err)
		}
		for key, a := range axes {
			fig.Layout.Axes[key] = a
		}
	}
	return fig, nil
}

// traceKind picks the trace variant of v for a figure of the given kind.
func traceKind(kind template.PlotType, v template.Variable) (trace.Kind, error) {
	switch kind {
	case template.PlotType2D:
		return trace.Scatter2D, nil
	case template.PlotType3D:
		return trace.Scatter3D, nil
	case template.PlotTypeHeatmap:
		return trace.Heatmap, nil
	}
	switch v.PlotType {
	case template.PlotType2D:
		return trace.Scatter2D, nil
	case template.PlotType3D:
		return trace.Scatter3D, nil
	}
	return "", errors.New(errors.ErrCodeInvalidPlotType, "invalid plot type %q: must be '2d' or '3d'", v.PlotType)
}

func figureIs3D(kind template.PlotType, grids []template.Grid) bool {
	switch kind {
	case template.PlotType3D:
		return true
	case template.PlotTypeSubplots:
		for _, g := range grids {
			if g.Is3D() {
				return true
			}
		}
	}
	return false
}

// gridOrdinals numbers 2D and 3D grids independently from 1.
func gridOrdinals(grids []template.Grid) []int {
	out := make([]int, len(grids))
	n2, n3 := 0, 0
	for i, g := range grids {
		if g.Is3D() {
			n3++
			out[i] = n3
		} else {
			n2++
			out[i] = n2
		}
	}
	return out
}

func layout(t *template.Template, is3D, info bool) figure.Layout {
	annotations := Classification(t.Classification, is3D, t.ShowsLegend(), info)
	if info {
		annotations = append(annotations, Info(t.Layout.Info)...)
	}
	margin := Margins(t.Classification, info)

	return figure.Layout{
		Title: &figure.Title{
			Text:    "<b>" + strings.TrimSpace(t.Title) + "</b>",
			Font:    &figure.Font{Size: titleFontSize},
			X:       0.5,
			XAnchor: "center",
			YAnchor: "top",
		},
		Template:    t.Layout.Theme,
		Width:       t.Layout.Width,
		Height:      t.Layout.Height,
		Legend:      &figure.Legend{Title: figure.Title{Text: t.Layout.LegendTitle}},
		Margin:      &margin,
		Annotations: annotations,
		Axes:        make(map[string]*figure.Axis),
		Scenes:      make(map[string]*figure.Scene),
	}
}

// subplots builds the placement request: rows and columns are the distinct
// variable rows and columns, and every grid gets one spec row whose cell is
// 3D-capable when the grid has three axes.
func subplots(t *template.Template) *figure.Subplots {
	rows := distinct(t.Variables, func(v template.Variable) int { return v.Row })
	cols := distinct(t.Variables, func(v template.Variable) int { return v.Column })

	sp := &figure.Subplots{
		Rows:        rows,
		Columns:     cols,
		SharedXAxes: t.Layout.SharedXAxes,
		SharedYAxes: t.Layout.SharedYAxes,
	}
	if vs := t.Layout.VerticalSpacing; vs != nil {
		v := *vs
		sp.VerticalSpacing = &v
	}
	for _, g := range t.Grids {
		sp.Titles = append(sp.Titles, g.Title)
		sp.Specs = append(sp.Specs, []figure.Cell{{Is3D: g.Is3D()}})
	}
	return sp
}

func distinct(vars []template.Variable, key func(template.Variable) int) int {
	seen := make(map[int]bool)
	for _, v := range vars {
		seen[key(v)] = true
	}
	return len(seen)
}

// GridKeys returns the sorted layout keys of the axes and scenes of fig.
func GridKeys(fig *figure.Figure) []string {
	keys := make([]string, 0, len(fig.Layout.Axes)+len(fig.Layout.Scenes))
	for k := range fig.Layout.Axes {
		keys = append(keys, k)
	}
	for k := range fig.Layout.Scenes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
