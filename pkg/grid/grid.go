// Package grid computes axis ranges and builds the axis and scene layout
// records of one grid.
//
// Ranges follow the grid's axis type:
//   - Auto leaves every axis unresolved so the backend autoscales
//   - Equal pools every series of the grid into one (min, max) pair shared by
//     all axes
//   - Manual uses each axis's own bounds in that axis's units
package grid

import (
	"math"

	"github.com/aclements/go-moremath/stats"

	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/figure"
	"github.com/matzehuels/stackplot/pkg/template"
	"github.com/matzehuels/stackplot/pkg/units"
)

// Axis styling.
const (
	titleFontSize = 12
	lineColor     = "black"
	lineWidth     = 1

	// Title standoff on 2D grids.
	standoffVertical   = 8
	standoffHorizontal = 1
)

// Camera of every 3D scene.
var sceneCamera = figure.Camera{
	Projection: figure.Projection{Type: "orthographic"},
	Eye:        figure.Eye{X: -1.25, Z: 0.8},
}

// Limits returns one range per axis, nil where the backend should autoscale.
// series are all the converted series plotted on the grid.
func Limits(mode template.AxisType, axes []template.Axis, series [][]float64) ([]*figure.Range, error) {
	out := make([]*figure.Range, len(axes))
	switch mode {
	case template.AxisAuto, "":
		return out, nil

	case template.AxisManual:
		for i, a := range axes {
			if a.Min == nil || a.Max == nil {
				continue
			}
			lo, hi, err := units.ConvertPair(*a.Min, *a.Max, a.ScaleFactor)
			if err != nil {
				return nil, err
			}
			out[i] = &figure.Range{lo, hi}
		}
		return out, nil

	case template.AxisEqual:
		r, ok := pooledBounds(series)
		if !ok {
			return out, nil
		}
		for i := range out {
			shared := r
			out[i] = &shared
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidAxisType, "invalid axis type %q", mode)
}

// pooledBounds returns the minimum of the per-series minimums and the maximum
// of the per-series maximums. Non-finite samples are gaps and are skipped.
func pooledBounds(series [][]float64) (figure.Range, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	found := false
	for _, s := range series {
		finite := make([]float64, 0, len(s))
		for _, v := range s {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				finite = append(finite, v)
			}
		}
		if len(finite) == 0 {
			continue
		}
		smin, smax := stats.Bounds(finite)
		lo = math.Min(lo, smin)
		hi = math.Max(hi, smax)
		found = true
	}
	return figure.Range{lo, hi}, found
}

// AxisLayout builds the layout record of one axis.
func AxisLayout(a template.Axis, limits *figure.Range) *figure.Axis {
	out := &figure.Axis{
		ShowGrid: a.EnableGrid,
		Title: figure.Title{
			Text: a.Label,
			Font: &figure.Font{Size: titleFontSize},
		},
		LineColor: lineColor,
		LineWidth: lineWidth,
		Mirror:    a.EnableBox,
		TickMode:  a.TickMode,
		TickVals:  append([]float64(nil), a.TickVals...),
		TickText:  append([]string(nil), a.TickText...),
	}
	if limits != nil {
		r := *limits
		out.Range = &r
	}
	return out
}

// Layout2D returns the axis records of a 2D grid keyed "xaxis{ordinal}",
// "yaxis{ordinal}".
func Layout2D(g template.Grid, series [][]float64, ordinal int) (map[string]*figure.Axis, error) {
	limits, err := Limits(g.AxisType, g.Axes, series)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*figure.Axis, len(g.Axes))
	for i, a := range g.Axes {
		rec := AxisLayout(a, limits[i])
		standoff := standoffHorizontal
		if a.Name == "y" {
			standoff = standoffVertical
		}
		rec.Title.Standoff = &standoff
		if g.OverwriteDomain {
			rec.Domain = []float64{a.DomainMin, a.DomainMax}
		}
		out[figure.AxisKey(a.Name, ordinal)] = rec
	}
	return out, nil
}

// Layout3D returns the scene record of a 3D grid and its key "scene{ordinal}".
// A domain override only applies to the x and y axes.
func Layout3D(g template.Grid, series [][]float64, ordinal int) (string, *figure.Scene, error) {
	limits, err := Limits(g.AxisType, g.Axes, series)
	if err != nil {
		return "", nil, err
	}

	scene := &figure.Scene{Camera: sceneCamera}
	for i, a := range g.Axes {
		rec := AxisLayout(a, limits[i])
		switch a.Name {
		case "x":
			scene.XAxis = rec
		case "y":
			scene.YAxis = rec
		case "z":
			scene.ZAxis = rec
		}

		if !g.OverwriteDomain || a.Name == "z" {
			continue
		}
		if scene.Domain == nil {
			scene.Domain = &figure.SceneDomain{}
		}
		domain := []float64{a.DomainMin, a.DomainMax}
		if a.Name == "x" {
			scene.Domain.X = domain
		} else {
			scene.Domain.Y = domain
		}
	}
	return figure.SceneKey(ordinal), scene, nil
}
