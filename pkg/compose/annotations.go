package compose

import (
	"fmt"

	"github.com/matzehuels/stackplot/pkg/figure"
	"github.com/matzehuels/stackplot/pkg/template"
)

const classificationFontSize = 10

// Corner is one classification banner position.
type Corner struct {
	X string // "left" or "right"
	Y string // "top" or "bottom"
}

// Corners lists the classification corners in emission order.
var Corners = []Corner{
	{"left", "top"},
	{"left", "bottom"},
	{"right", "top"},
	{"right", "bottom"},
}

func (c Corner) shown(cl template.Classification) bool {
	switch c {
	case Corner{"left", "top"}:
		return cl.ShowTopLeft
	case Corner{"left", "bottom"}:
		return cl.ShowBottomLeft
	case Corner{"right", "top"}:
		return cl.ShowTopRight
	case Corner{"right", "bottom"}:
		return cl.ShowBottomRight
	}
	return false
}

// shifts returns the pixel offsets of the banners per anchor side.
func shifts(is3D, showLegend, info bool) map[string]float64 {
	s := map[string]float64{"top": 40, "bottom": -50, "left": -30, "right": 0}
	if info {
		s["bottom"] = -70
	}
	if is3D {
		s["left"] = -20
	}
	if showLegend {
		s["right"] = 65
	}
	return s
}

// Classification returns the four corner banners. Hidden corners are still
// emitted with visible=false so the annotation list has a fixed shape.
func Classification(cl template.Classification, is3D, showLegend, info bool) []figure.Annotation {
	sh := shifts(is3D, showLegend, info)
	out := make([]figure.Annotation, 0, len(Corners))
	for _, c := range Corners {
		visible := c.shown(cl)
		a := figure.Annotation{
			Text:      "<b>" + cl.Title + "</b>",
			XRef:      "paper",
			YRef:      "paper",
			XShift:    sh[c.X],
			YShift:    sh[c.Y],
			XAnchor:   c.X,
			YAnchor:   c.Y,
			ShowArrow: false,
			Visible:   &visible,
			Font:      &figure.Font{Size: classificationFontSize},
		}
		if c.X == "right" {
			a.X = 1
		}
		if c.Y == "top" {
			a.Y = 1
		}
		out = append(out, a)
	}
	return out
}

// Info returns the two informational annotations below the plot area.
func Info(info template.Info) []figure.Annotation {
	return []figure.Annotation{
		{
			Text: fmt.Sprintf("Miss distance %.2f m", info.MissDistance),
			XRef: "paper",
			YRef: "paper",
			X:    -0.01,
			Y:    -0.13,
		},
		{
			Text: "Missile Info: " + info.Label,
			XRef: "paper",
			YRef: "paper",
			X:    1.01,
			Y:    -0.13,
		},
	}
}

// Margins sizes the layout margins around the active banners and
// annotations.
func Margins(cl template.Classification, info bool) figure.Margin {
	m := figure.Margin{T: 30, L: 20, R: 1, B: 40}
	if cl.ShowTopLeft || cl.ShowTopRight {
		m.T = 40
	}
	if info {
		m.B += 20
	}
	if cl.ShowBottomLeft || cl.ShowBottomRight {
		m.B += 10
	}
	return m
}
