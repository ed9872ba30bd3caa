// Package figure defines the figure description produced by the composer.
//
// The types mirror the plotly.js figure schema closely enough that the JSON
// produced by [encoding/json] can be handed to Plotly.newPlot unchanged. The
// schema is the rendering backend's contract; this package only models the
// subset the composer fills in.
//
// Axis and scene records live under dynamic layout keys ("xaxis1",
// "scene2"), so [Layout] flattens its Axes and Scenes maps into the layout
// object when marshaled.
package figure

import (
	"encoding/json"
	"math"
	"strconv"
)

// Figure is a complete, renderable figure description.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`

	// Subplots is the placement request for multi-grid figures. It is nil for
	// single-grid figures.
	Subplots *Subplots `json:"subplots,omitempty"`
}

// Range is a resolved (min, max) axis range. A nil *Range leaves the axis to
// the backend's autoscaling.
type Range [2]float64

// Series is a numeric data column. Missing values (NaN or infinities) are
// encoded as null, which the backend treats as a gap.
type Series []float64

// MarshalJSON encodes s as an array of numbers and nulls.
func (s Series) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	buf := make([]byte, 0, 2+len(s)*8)
	buf = append(buf, '[')
	for i, v := range s {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	return append(buf, ']'), nil
}

// UnmarshalJSON decodes nulls back to NaN.
func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make(Series, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*s = out
	return nil
}

// Font sets text size.
type Font struct {
	Size float64 `json:"size,omitempty"`
}

// Title is a text title with optional placement.
type Title struct {
	Text     string  `json:"text"`
	Font     *Font   `json:"font,omitempty"`
	Side     string  `json:"side,omitempty"`
	Standoff *int    `json:"standoff,omitempty"`
	X        float64 `json:"x,omitempty"`
	XAnchor  string  `json:"xanchor,omitempty"`
	YAnchor  string  `json:"yanchor,omitempty"`
}

// Marker styles the points of a trace. Color is either a single CSS color
// string or a per-point [Series] mapped through ColorScale.
type Marker struct {
	Color      any         `json:"color,omitempty"`
	Size       float64     `json:"size,omitempty"`
	Symbol     string      `json:"symbol,omitempty"`
	CMin       *float64    `json:"cmin,omitempty"`
	CMax       *float64    `json:"cmax,omitempty"`
	ColorBar   *ColorBar   `json:"colorbar,omitempty"`
	ColorScale []ColorStop `json:"colorscale,omitempty"`
	ShowScale  *bool       `json:"showscale,omitempty"`
}

// Line styles the connecting line of a trace. Shape is not available on 3D
// traces.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
	Shape string  `json:"shape,omitempty"`
}

// ColorBar describes the colorbar legend of a heatmap trace.
type ColorBar struct {
	Title     Title     `json:"title"`
	Thickness float64   `json:"thickness"`
	TickMode  string    `json:"tickmode,omitempty"`
	TickVals  []float64 `json:"tickvals,omitempty"`
}

// ColorStop is one (position, color) entry of a color scale. It marshals as
// a two-element array.
type ColorStop struct {
	Pos   float64
	Color string
}

// MarshalJSON encodes the stop as [pos, color].
func (s ColorStop) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{s.Pos, s.Color})
}

// UnmarshalJSON decodes a [pos, color] pair.
func (s *ColorStop) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &s.Pos); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &s.Color)
}

// LegendGroupTitle titles a legend group.
type LegendGroupTitle struct {
	Text string `json:"text"`
}

// Trace is one data series. Type is "scatter" or "scatter3d"; Z is only set
// for 3D traces.
type Trace struct {
	Type             string            `json:"type"`
	X                Series            `json:"x"`
	Y                Series            `json:"y"`
	Z                Series            `json:"z,omitempty"`
	Name             string            `json:"name,omitempty"`
	ConnectGaps      bool              `json:"connectgaps"`
	Mode             string            `json:"mode,omitempty"`
	Marker           *Marker           `json:"marker,omitempty"`
	Line             *Line             `json:"line,omitempty"`
	Text             []string          `json:"text,omitempty"`
	LegendGroup      string            `json:"legendgroup,omitempty"`
	LegendGroupTitle *LegendGroupTitle `json:"legendgrouptitle,omitempty"`
	ShowLegend       bool              `json:"showlegend"`
	XAxis            string            `json:"xaxis,omitempty"`
	YAxis            string            `json:"yaxis,omitempty"`
	Scene            string            `json:"scene,omitempty"`
}

// Axis is the layout record of one axis.
type Axis struct {
	Range     *Range    `json:"range,omitempty"`
	ShowGrid  bool      `json:"showgrid"`
	Title     Title     `json:"title"`
	LineColor string    `json:"linecolor"`
	LineWidth float64   `json:"linewidth"`
	Mirror    bool      `json:"mirror"`
	TickMode  string    `json:"tickmode,omitempty"`
	TickVals  []float64 `json:"tickvals,omitempty"`
	TickText  []string  `json:"ticktext,omitempty"`
	Domain    []float64 `json:"domain,omitempty"`
}

// Projection selects the camera projection of a scene.
type Projection struct {
	Type string `json:"type"`
}

// Eye positions the camera of a scene.
type Eye struct {
	X float64 `json:"x"`
	Y float64 `json:"y,omitempty"`
	Z float64 `json:"z"`
}

// Camera is the camera of a 3D scene.
type Camera struct {
	Projection Projection `json:"projection"`
	Eye        Eye        `json:"eye"`
}

// SceneDomain restricts a scene to a fraction of the paper.
type SceneDomain struct {
	X []float64 `json:"x,omitempty"`
	Y []float64 `json:"y,omitempty"`
}

// Scene is the layout record of one 3D grid.
type Scene struct {
	XAxis  *Axis        `json:"xaxis,omitempty"`
	YAxis  *Axis        `json:"yaxis,omitempty"`
	ZAxis  *Axis        `json:"zaxis,omitempty"`
	Domain *SceneDomain `json:"domain,omitempty"`
	Camera Camera       `json:"camera"`
}

// Annotation is a text annotation placed on the paper.
type Annotation struct {
	Text      string  `json:"text"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XShift    float64 `json:"xshift,omitempty"`
	YShift    float64 `json:"yshift,omitempty"`
	XAnchor   string  `json:"xanchor,omitempty"`
	YAnchor   string  `json:"yanchor,omitempty"`
	ShowArrow bool    `json:"showarrow"`
	Visible   *bool   `json:"visible,omitempty"`
	Font      *Font   `json:"font,omitempty"`
}

// Margin holds the layout margins in pixels.
type Margin struct {
	T int `json:"t"`
	L int `json:"l"`
	R int `json:"r"`
	B int `json:"b"`
}

// Legend configures the legend.
type Legend struct {
	Title Title `json:"title"`
}

// LayoutGrid lays 2D subplots out on a regular grid in the browser.
type LayoutGrid struct {
	Rows     int     `json:"rows"`
	Columns  int     `json:"columns"`
	Pattern  string  `json:"pattern"`
	RowOrder string  `json:"roworder"`
	YGap     float64 `json:"ygap,omitempty"`
}

// Layout is the figure layout. Axes and Scenes are keyed by their plotly
// layout names and merged into the layout object on marshal.
type Layout struct {
	Title       *Title       `json:"title,omitempty"`
	Template    string       `json:"template,omitempty"`
	Width       int          `json:"width,omitempty"`
	Height      int          `json:"height,omitempty"`
	Legend      *Legend      `json:"legend,omitempty"`
	Margin      *Margin      `json:"margin,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Grid        *LayoutGrid  `json:"grid,omitempty"`

	Axes   map[string]*Axis  `json:"-"`
	Scenes map[string]*Scene `json:"-"`
}

// MarshalJSON flattens Axes and Scenes into the layout object.
func (l Layout) MarshalJSON() ([]byte, error) {
	type plain Layout
	base, err := json.Marshal(plain(l))
	if err != nil {
		return nil, err
	}
	if len(l.Axes) == 0 && len(l.Scenes) == 0 {
		return base, nil
	}

	m := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	for name, a := range l.Axes {
		if m[name], err = json.Marshal(a); err != nil {
			return nil, err
		}
	}
	for name, s := range l.Scenes {
		if m[name], err = json.Marshal(s); err != nil {
			return nil, err
		}
	}
	return json.Marshal(m)
}

// Cell requests the kind of subplot cell for one grid.
type Cell struct {
	Is3D bool `json:"is_3d"`
}

// Placement records the grid cell a trace was placed in.
type Placement struct {
	Trace int `json:"trace"`
	Row   int `json:"row"`
	Col   int `json:"col"`
}

// Subplots is the placement request of a multi-grid figure. Specs holds one
// row per grid, each with a single cell.
type Subplots struct {
	Rows            int         `json:"rows"`
	Columns         int         `json:"cols"`
	VerticalSpacing *float64    `json:"vertical_spacing,omitempty"`
	SharedXAxes     bool        `json:"shared_xaxes"`
	SharedYAxes     bool        `json:"shared_yaxes"`
	Titles          []string    `json:"subplot_titles,omitempty"`
	Specs           [][]Cell    `json:"specs"`
	Placements      []Placement `json:"placements,omitempty"`
}

// AxisRef returns the trace axis reference for a 2D grid ordinal: "x" for 1,
// "x2" for 2, and so on.
func AxisRef(name string, ordinal int) string {
	if ordinal <= 1 {
		return name
	}
	return name + strconv.Itoa(ordinal)
}

// AxisKey returns the layout key of an axis on a 2D grid, e.g. "xaxis1".
func AxisKey(name string, ordinal int) string {
	return name + "axis" + strconv.Itoa(ordinal)
}

// SceneKey returns the layout key of a 3D grid, e.g. "scene1".
func SceneKey(ordinal int) string {
	return "scene" + strconv.Itoa(ordinal)
}

// SceneRef returns the trace scene reference: "scene" for 1, "scene2" for 2.
func SceneRef(ordinal int) string {
	if ordinal <= 1 {
		return "scene"
	}
	return SceneKey(ordinal)
}
