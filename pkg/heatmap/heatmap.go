// Package heatmap quantizes a continuous color series into the discrete bands
// of a colorbar.
//
// A [HeatMap] is built once per trace from a [Config]: the color-scale name is
// validated, the levels are expanded into a bin-edge table ([Expand]), every
// color value is floor-quantized against it ([Digitize]) and the marker
// styling for the trace is prepared. Nothing is cached between traces.
//
// Color series with fewer than two samples are legal; they simply produce an
// empty [Payload] so the trace keeps its plain marker.
package heatmap

import (
	"fmt"

	"github.com/aclements/go-moremath/vec"

	"github.com/matzehuels/stackplot/pkg/colorscale"
	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/figure"
)

// Colorbar styling.
const (
	colorBarThickness = 20
	colorBarFontSize  = 12
)

// Config describes one heatmap.
type Config struct {
	// Name is the color variable, used in hover text.
	Name string

	// Values are the raw color samples. When nil, a linear ramp of
	// DefaultLength samples from 0 to DefaultMax is used instead.
	Values        []float64
	DefaultMax    float64
	DefaultLength int

	// Levels is the binning schedule. Without levels the values are not
	// discretized and the color range is left to the backend.
	Levels []Level

	ColorScale    string
	ColorBarTitle string
	ShowColorBar  bool
}

// HeatMap is the derived state of one heatmap trace. The zero value is not
// usable: its accessors report [errors.ErrCodeUninitializedHeatmap].
type HeatMap struct {
	name         string
	original     []float64
	values       []float64
	edges        []float64
	cmin, cmax   *float64
	scale        []figure.ColorStop
	title        string
	showColorBar bool
	built        bool
}

// Payload is the styling a heatmap contributes to its trace.
type Payload struct {
	Marker *figure.Marker
	Text   []string
}

// Empty reports whether the payload carries no styling.
func (p Payload) Empty() bool {
	return p.Marker == nil && len(p.Text) == 0
}

// New builds a heatmap from cfg.
func New(cfg Config) (*HeatMap, error) {
	if err := colorscale.Validate(cfg.ColorScale); err != nil {
		return nil, err
	}

	original := cfg.Values
	if original == nil && cfg.DefaultLength > 0 {
		original = vec.Linspace(0, cfg.DefaultMax, cfg.DefaultLength)
	}
	original = append([]float64(nil), original...)

	edges, err := Expand(cfg.Levels)
	if err != nil {
		return nil, err
	}

	scale, err := colorscale.Stops(cfg.ColorScale)
	if err != nil {
		return nil, err
	}

	h := &HeatMap{
		name:         cfg.Name,
		original:     original,
		values:       Digitize(original, edges),
		edges:        edges,
		scale:        scale,
		title:        cfg.ColorBarTitle,
		showColorBar: cfg.ShowColorBar,
		built:        true,
	}
	if len(edges) > 0 {
		lo, hi := edges[0], edges[len(edges)-1]
		h.cmin, h.cmax = &lo, &hi
	}
	return h, nil
}

func (h *HeatMap) check() error {
	if h == nil || !h.built {
		return errors.New(errors.ErrCodeUninitializedHeatmap, "heatmap is undefined")
	}
	return nil
}

// Values returns the discretized color values.
func (h *HeatMap) Values() ([]float64, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	return append([]float64(nil), h.values...), nil
}

// Original returns the undiscretized color values.
func (h *HeatMap) Original() ([]float64, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	return append([]float64(nil), h.original...), nil
}

// Edges returns the bin-edge table, which doubles as the colorbar tick list.
func (h *HeatMap) Edges() ([]float64, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	return append([]float64(nil), h.edges...), nil
}

// Clamp returns the color range. ok is false when no levels were given.
func (h *HeatMap) Clamp() (lo, hi float64, ok bool, err error) {
	if err := h.check(); err != nil {
		return 0, 0, false, err
	}
	if h.cmin == nil {
		return 0, 0, false, nil
	}
	return *h.cmin, *h.cmax, true, nil
}

// Marker returns the marker styling of the heatmap, or nil when the color
// series has fewer than two samples.
func (h *HeatMap) Marker() (*figure.Marker, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	if len(h.values) <= 1 {
		return nil, nil
	}

	show := h.showColorBar
	m := &figure.Marker{
		Color: append(figure.Series(nil), h.values...),
		ColorBar: &figure.ColorBar{
			Title: figure.Title{
				Text: "<b>" + h.title + "</b>",
				Side: "right",
				Font: &figure.Font{Size: colorBarFontSize},
			},
			Thickness: colorBarThickness,
			TickMode:  "array",
		},
		ColorScale: append([]figure.ColorStop(nil), h.scale...),
		ShowScale:  &show,
	}
	if len(h.edges) > 0 {
		m.ColorBar.TickVals = append([]float64(nil), h.edges...)
	}
	if h.cmin != nil {
		lo, hi := *h.cmin, *h.cmax
		m.CMin, m.CMax = &lo, &hi
	}
	return m, nil
}

// HoverText returns one "name: value" label per sample, using the original
// values at three decimals. It is nil when the series has fewer than two
// samples.
func (h *HeatMap) HoverText() ([]string, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	if len(h.values) <= 1 {
		return nil, nil
	}
	text := make([]string, len(h.original))
	for i, c := range h.original {
		text[i] = fmt.Sprintf("%s: %.3f", h.name, c)
	}
	return text, nil
}

// Payload returns the marker and hover text together.
func (h *HeatMap) Payload() (Payload, error) {
	m, err := h.Marker()
	if err != nil {
		return Payload{}, err
	}
	text, err := h.HoverText()
	if err != nil {
		return Payload{}, err
	}
	return Payload{Marker: m, Text: text}, nil
}
