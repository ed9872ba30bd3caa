// Package template defines the declarative plot template and its validation.
//
// A [Template] describes one figure: its grids (coordinate systems), the
// variables plotted on them, layout options and classification chrome. Field
// names follow the camelCase keys of the JSON templates produced by the
// simulation tooling; TOML files use the same keys.
//
// Templates are immutable once validated. [Template.ValidateAndSetDefaults]
// checks every enumerated value up front so composition never has to guess.
package template

import (
	"fmt"

	"github.com/matzehuels/stackplot/pkg/colorscale"
	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/heatmap"
	"github.com/matzehuels/stackplot/pkg/units"
)

// PlotType is the kind of a grid, variable or figure.
type PlotType string

const (
	PlotType2D       PlotType = "2d"
	PlotType3D       PlotType = "3d"
	PlotTypeHeatmap  PlotType = "heatmap"
	PlotTypeSubplots PlotType = "subplots"
)

// AxisType selects how axis ranges are computed.
type AxisType string

const (
	AxisAuto   AxisType = "Auto"
	AxisEqual  AxisType = "Equal"
	AxisManual AxisType = "Manual"
)

// Axis is one axis of a grid.
type Axis struct {
	Name        string    `json:"name" toml:"name"`
	Label       string    `json:"label" toml:"label"`
	ScaleFactor string    `json:"scaleFactor" toml:"scaleFactor"`
	EnableGrid  bool      `json:"enableGrid" toml:"enableGrid"`
	EnableBox   bool      `json:"enableBox" toml:"enableBox"`
	TickMode    string    `json:"tickMode,omitempty" toml:"tickMode"`
	TickVals    []float64 `json:"tickVals,omitempty" toml:"tickVals"`
	TickText    []string  `json:"tickText,omitempty" toml:"tickText"`
	Min         *float64  `json:"min,omitempty" toml:"min"`
	Max         *float64  `json:"max,omitempty" toml:"max"`
	DomainMin   float64   `json:"domainMin" toml:"domainMin"`
	DomainMax   float64   `json:"domainMax" toml:"domainMax"`
}

// Grid is one coordinate system of the figure.
type Grid struct {
	Title           string          `json:"title,omitempty" toml:"title"`
	PlotType        PlotType        `json:"plotType" toml:"plotType"`
	AxisType        AxisType        `json:"axisType" toml:"axisType"`
	Axes            []Axis          `json:"axes" toml:"axes"`
	OverwriteDomain bool            `json:"overwriteDomain" toml:"overwriteDomain"`
	ShowLegend      bool            `json:"showLegend" toml:"showLegend"`
	ColorBarTitle   string          `json:"colorBarTitle,omitempty" toml:"colorBarTitle"`
	ColorScale      string          `json:"colorScale,omitempty" toml:"colorScale"`
	ShowColorBar    bool            `json:"showColorBar" toml:"showColorBar"`
	Levels          []heatmap.Level `json:"levels,omitempty" toml:"levels"`
}

// Is3D reports whether the grid has a depth axis.
func (g Grid) Is3D() bool { return len(g.Axes) == 3 }

// Variable is one trace of the figure.
type Variable struct {
	TraceName        string   `json:"traceName" toml:"traceName"`
	PlotType         PlotType `json:"plotType" toml:"plotType"`
	XVariable        string   `json:"xVariable" toml:"xVariable"`
	YVariable        string   `json:"yVariable" toml:"yVariable"`
	ZVariable        string   `json:"zVariable,omitempty" toml:"zVariable"`
	ColorVariable    string   `json:"colorVariable,omitempty" toml:"colorVariable"`
	Mode             string   `json:"mode" toml:"mode"`
	ConnectGaps      bool     `json:"connectgaps" toml:"connectgaps"`
	MarkerColor      string   `json:"markerColor,omitempty" toml:"markerColor"`
	MarkerSize       float64  `json:"markerSize,omitempty" toml:"markerSize"`
	MarkerType       string   `json:"markerType,omitempty" toml:"markerType"`
	LineColor        string   `json:"lineColor,omitempty" toml:"lineColor"`
	LineWidth        float64  `json:"lineWidth,omitempty" toml:"lineWidth"`
	LineType         string   `json:"lineType,omitempty" toml:"lineType"`
	LineShape        string   `json:"lineShape,omitempty" toml:"lineShape"`
	LegendGroupTitle string   `json:"legendGroupTitle,omitempty" toml:"legendGroupTitle"`
	Subplot          int      `json:"subplot" toml:"subplot"`
	Row              int      `json:"row" toml:"row"`
	Column           int      `json:"column" toml:"column"`
}

// Binding returns the column bound to the named axis, or "" if none.
func (v Variable) Binding(axis string) string {
	switch axis {
	case "x":
		return v.XVariable
	case "y":
		return v.YVariable
	case "z":
		return v.ZVariable
	}
	return ""
}

// Info carries the payload of the informational annotations.
type Info struct {
	MissDistance float64 `json:"missDistance" toml:"missDistance"`
	Label        string  `json:"label" toml:"label"`
}

// Layout holds figure-wide layout options.
type Layout struct {
	Theme           string   `json:"theme,omitempty" toml:"theme"`
	Width           int      `json:"width,omitempty" toml:"width"`
	Height          int      `json:"height,omitempty" toml:"height"`
	LegendTitle     string   `json:"legendTitle,omitempty" toml:"legendTitle"`
	VerticalSpacing *float64 `json:"verticalSpacing,omitempty" toml:"verticalSpacing"`
	SharedXAxes     bool     `json:"sharedXAxes" toml:"sharedXAxes"`
	SharedYAxes     bool     `json:"sharedYAxes" toml:"sharedYAxes"`
	ShowInfo        bool     `json:"showInfo" toml:"showInfo"`
	Info            Info     `json:"info" toml:"info"`
}

// Classification is the corner banner of the figure.
type Classification struct {
	Title           string `json:"title" toml:"title"`
	ShowTopLeft     bool   `json:"showTopLeft" toml:"showTopLeft"`
	ShowTopRight    bool   `json:"showTopRight" toml:"showTopRight"`
	ShowBottomLeft  bool   `json:"showBottomLeft" toml:"showBottomLeft"`
	ShowBottomRight bool   `json:"showBottomRight" toml:"showBottomRight"`
}

// Template is a complete figure template.
type Template struct {
	Title          string         `json:"title" toml:"title"`
	PlotType       PlotType       `json:"plotType,omitempty" toml:"plotType"`
	Grids          []Grid         `json:"grids" toml:"grids"`
	Variables      []Variable     `json:"variables" toml:"variables"`
	Layout         Layout         `json:"layout" toml:"layout"`
	Classification Classification `json:"classification" toml:"classification"`
}

// Kind returns the figure kind: the explicit template kind, else "subplots"
// for several grids, else the kind of the single grid.
func (t *Template) Kind() PlotType {
	switch {
	case t.PlotType != "":
		return t.PlotType
	case len(t.Grids) > 1:
		return PlotTypeSubplots
	case len(t.Grids) == 1:
		return t.Grids[0].PlotType
	}
	return ""
}

// Grid returns the grid a variable is placed on.
func (t *Template) Grid(v Variable) (*Grid, error) {
	if v.Subplot < 1 || v.Subplot > len(t.Grids) {
		return nil, errors.New(errors.ErrCodeInvalidTemplate,
			"variable %q: subplot %d out of range [1, %d]", v.TraceName, v.Subplot, len(t.Grids))
	}
	return &t.Grids[v.Subplot-1], nil
}

// ShowsLegend reports whether any grid shows a legend.
func (t *Template) ShowsLegend() bool {
	for _, g := range t.Grids {
		if g.ShowLegend {
			return true
		}
	}
	return false
}

// ValidateAndSetDefaults checks the template and fills in defaults:
//   - a grid without a plot type takes "2d" or "3d" from its axis count
//   - a grid without an axis type is Auto
//   - a variable without a plot type takes its grid's
//   - a variable without row or column is placed at 1
func (t *Template) ValidateAndSetDefaults() error {
	if len(t.Grids) == 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template has no grids")
	}
	if err := ValidatePlotType(t.PlotType, true); err != nil {
		return err
	}
	for i := range t.Grids {
		if err := t.Grids[i].validateAndSetDefaults(); err != nil {
			return fmt.Errorf("grid %d: %w", i+1, err)
		}
	}
	for i := range t.Variables {
		if err := t.validateVariable(&t.Variables[i]); err != nil {
			return fmt.Errorf("variable %d: %w", i+1, err)
		}
	}
	if t.Layout.Width < 0 || t.Layout.Height < 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "layout size must not be negative")
	}
	if vs := t.Layout.VerticalSpacing; vs != nil && (*vs < 0 || *vs > 1) {
		return errors.New(errors.ErrCodeInvalidTemplate, "verticalSpacing must be within [0, 1], got %v", *vs)
	}
	return nil
}

// ValidatePlotType checks a plot type. Figure-level types may also be
// "subplots"; the empty type is always accepted.
func ValidatePlotType(p PlotType, figure bool) error {
	switch p {
	case "", PlotType2D, PlotType3D, PlotTypeHeatmap:
		return nil
	case PlotTypeSubplots:
		if figure {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidPlotType, "invalid plot type %q", p)
}

func (g *Grid) validateAndSetDefaults() error {
	switch len(g.Axes) {
	case 2, 3:
	default:
		return errors.New(errors.ErrCodeInvalidTemplate, "grid must have 2 or 3 axes, got %d", len(g.Axes))
	}

	if g.PlotType == "" {
		g.PlotType = PlotType2D
		if g.Is3D() {
			g.PlotType = PlotType3D
		}
	}
	switch g.PlotType {
	case PlotType2D, PlotTypeHeatmap:
		if g.Is3D() {
			return errors.New(errors.ErrCodeInvalidTemplate, "%s grid must have 2 axes", g.PlotType)
		}
	case PlotType3D:
		if !g.Is3D() {
			return errors.New(errors.ErrCodeInvalidTemplate, "3d grid must have 3 axes")
		}
	default:
		return errors.New(errors.ErrCodeInvalidPlotType, "invalid grid plot type %q", g.PlotType)
	}

	switch g.AxisType {
	case "":
		g.AxisType = AxisAuto
	case AxisAuto, AxisEqual, AxisManual:
	default:
		return errors.New(errors.ErrCodeInvalidAxisType,
			"invalid axis type %q (must be %s, %s or %s)", g.AxisType, AxisAuto, AxisEqual, AxisManual)
	}

	seen := make(map[string]bool, len(g.Axes))
	for _, a := range g.Axes {
		switch a.Name {
		case "x", "y", "z":
		default:
			return errors.New(errors.ErrCodeInvalidTemplate, "invalid axis name %q", a.Name)
		}
		if seen[a.Name] {
			return errors.New(errors.ErrCodeInvalidTemplate, "duplicate axis %q", a.Name)
		}
		seen[a.Name] = true

		if !units.Valid(a.ScaleFactor) {
			return errors.New(errors.ErrCodeInvalidConversion, "axis %s: unsupported conversion: %q", a.Name, a.ScaleFactor)
		}
		if g.OverwriteDomain && (a.DomainMin < 0 || a.DomainMax > 1 || a.DomainMin >= a.DomainMax) {
			return errors.New(errors.ErrCodeInvalidTemplate,
				"axis %s: domain [%v, %v] must be an increasing range within [0, 1]", a.Name, a.DomainMin, a.DomainMax)
		}
	}

	if g.ColorScale != "" || g.PlotType == PlotTypeHeatmap {
		if err := colorscale.Validate(g.ColorScale); err != nil {
			return err
		}
	}
	if len(g.Levels) > 0 {
		if _, err := heatmap.Expand(g.Levels); err != nil {
			return err
		}
	}
	return nil
}

func (t *Template) validateVariable(v *Variable) error {
	g, err := t.Grid(*v)
	if err != nil {
		return err
	}
	if v.PlotType == "" {
		v.PlotType = g.PlotType
	}
	if err := ValidatePlotType(v.PlotType, false); err != nil {
		return err
	}
	if v.Row == 0 {
		v.Row = 1
	}
	if v.Column == 0 {
		v.Column = 1
	}
	if v.Row < 0 || v.Column < 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "row and column must be positive")
	}

	for _, a := range g.Axes {
		if err := errors.ValidateColumnName(v.Binding(a.Name)); err != nil {
			return fmt.Errorf("%sVariable: %w", a.Name, err)
		}
	}
	if v.ColorVariable != "" {
		if err := errors.ValidateColumnName(v.ColorVariable); err != nil {
			return fmt.Errorf("colorVariable: %w", err)
		}
	}
	return nil
}
