// Package trace builds one figure trace from a variable template.
//
// [Assemble] resolves the variable's column bindings for every axis of its
// grid, converts each column with the axis's unit conversion and emits a
// scatter, scatter3d or heatmap-styled scatter trace. The converted series
// are returned alongside the trace so the caller can compute the grid's axis
// ranges over every trace plotted on it.
package trace

import (
	"fmt"
	"math"
	"strings"

	"github.com/aclements/go-moremath/stats"

	"github.com/matzehuels/stackplot/pkg/dataset"
	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/figure"
	"github.com/matzehuels/stackplot/pkg/heatmap"
	"github.com/matzehuels/stackplot/pkg/template"
	"github.com/matzehuels/stackplot/pkg/units"
)

// Kind is the closed set of trace variants.
type Kind string

const (
	Scatter2D Kind = "2d"
	Scatter3D Kind = "3d"
	Heatmap   Kind = "heatmap"
)

// ParseKind maps a plot type to a trace kind.
func ParseKind(p template.PlotType) (Kind, error) {
	switch k := Kind(p); k {
	case Scatter2D, Scatter3D, Heatmap:
		return k, nil
	}
	return "", errors.New(errors.ErrCodeInvalidPlotType, "invalid plot type %q: must be '2d', '3d' or 'heatmap'", p)
}

// Placement positions a trace on its grid.
type Placement struct {
	// Ordinal numbers the grid among grids of the same dimension, from 1.
	Ordinal int

	// LegendGroup is empty for single-grid figures.
	LegendGroup string
}

// Result is an assembled trace and the converted series it plots, one per
// grid axis in axis order.
type Result struct {
	Trace  figure.Trace
	Series [][]float64
}

// Assemble builds the trace of v on grid g.
func Assemble(kind Kind, v template.Variable, g template.Grid, tab *dataset.Table, p Placement) (*Result, error) {
	if _, err := ParseKind(template.PlotType(kind)); err != nil {
		return nil, err
	}
	if (kind == Scatter3D) != g.Is3D() {
		return nil, errors.New(errors.ErrCodeInvalidPlotType, "%s trace %q on a grid with %d axes", kind, v.TraceName, len(g.Axes))
	}

	series := make([][]float64, len(g.Axes))
	tr := figure.Trace{
		Name:        v.TraceName,
		ConnectGaps: v.ConnectGaps,
		Mode:        v.Mode,
		Marker:      baseMarker(v),
		Line:        baseLine(v),
		LegendGroup: p.LegendGroup,
		ShowLegend:  g.ShowLegend,
	}
	if v.LegendGroupTitle != "" {
		tr.LegendGroupTitle = &figure.LegendGroupTitle{Text: v.LegendGroupTitle}
	}

	for i, a := range g.Axes {
		col, err := axisSeries(v, a, tab)
		if err != nil {
			return nil, fmt.Errorf("trace %q: %w", v.TraceName, err)
		}
		series[i] = col
		switch a.Name {
		case "x":
			tr.X = col
		case "y":
			tr.Y = col
		case "z":
			tr.Z = col
		}
	}

	switch kind {
	case Scatter3D:
		tr.Type = "scatter3d"
		tr.Scene = figure.SceneRef(p.Ordinal)
		tr.Line.Shape = ""
	default:
		tr.Type = "scatter"
		tr.XAxis = figure.AxisRef("x", p.Ordinal)
		tr.YAxis = figure.AxisRef("y", p.Ordinal)
	}

	if kind == Heatmap {
		if err := overlayHeatmap(&tr, v, g, tab, series); err != nil {
			return nil, fmt.Errorf("trace %q: %w", v.TraceName, err)
		}
	}
	return &Result{Trace: tr, Series: series}, nil
}

// axisSeries resolves and converts the column bound to axis a.
func axisSeries(v template.Variable, a template.Axis, tab *dataset.Table) ([]float64, error) {
	name := v.Binding(a.Name)
	if name == "" {
		return nil, errors.New(errors.ErrCodeColumnNotFound, "no column bound to axis %s", a.Name)
	}
	raw, err := tab.Column(name)
	if err != nil {
		return nil, err
	}
	out, err := units.Convert(raw, a.ScaleFactor)
	if err != nil {
		return nil, fmt.Errorf("axis %s: %w", a.Name, err)
	}
	return out, nil
}

func baseMarker(v template.Variable) *figure.Marker {
	m := &figure.Marker{
		Size:   v.MarkerSize,
		Symbol: strings.ToLower(v.MarkerType),
	}
	if v.MarkerColor != "" {
		m.Color = v.MarkerColor
	}
	return m
}

func baseLine(v template.Variable) *figure.Line {
	return &figure.Line{
		Color: v.LineColor,
		Width: v.LineWidth,
		Dash:  v.LineType,
		Shape: v.LineShape,
	}
}

// overlayHeatmap replaces the marker color styling of tr with the grid's
// heatmap and adds hover text. Template size and symbol are kept.
func overlayHeatmap(tr *figure.Trace, v template.Variable, g template.Grid, tab *dataset.Table, series [][]float64) error {
	var colors []float64
	if v.ColorVariable != "" {
		var err error
		if colors, err = tab.Column(v.ColorVariable); err != nil {
			return err
		}
	}

	h, err := heatmap.New(heatmap.Config{
		Name:          v.ColorVariable,
		Values:        colors,
		DefaultMax:    seriesMax(series),
		DefaultLength: tab.Len(),
		Levels:        g.Levels,
		ColorScale:    g.ColorScale,
		ColorBarTitle: g.ColorBarTitle,
		ShowColorBar:  g.ShowColorBar,
	})
	if err != nil {
		return err
	}
	payload, err := h.Payload()
	if err != nil {
		return err
	}
	if payload.Empty() {
		return nil
	}

	m := payload.Marker
	m.Size = tr.Marker.Size
	m.Symbol = tr.Marker.Symbol
	tr.Marker = m
	tr.Text = payload.Text
	return nil
}

// seriesMax is the largest finite sample over all series, or 0.
func seriesMax(series [][]float64) float64 {
	var pooled []float64
	for _, s := range series {
		for _, v := range s {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				pooled = append(pooled, v)
			}
		}
	}
	if len(pooled) == 0 {
		return 0
	}
	_, hi := stats.Bounds(pooled)
	return hi
}
