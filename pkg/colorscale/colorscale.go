// Package colorscale resolves named sequential color scales into color-scale
// stops for heatmap traces.
//
// The library is the ColorBrewer sequential set (the largest class of each
// palette, via go-gg's palette/brewer) plus a small set of perceptually uniform scales commonly used
// for scientific plots. Names are case-sensitive, as in plotly.
package colorscale

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/aclements/go-gg/palette/brewer"

	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/figure"
)

// sequential lists the ColorBrewer sequential palettes.
var sequential = []string{
	"Blues", "BuGn", "BuPu", "GnBu", "Greens", "Greys", "OrRd", "Oranges",
	"PuBu", "PuBuGn", "PuRd", "Purples", "RdPu", "Reds", "YlGn", "YlGnBu",
	"YlOrBr", "YlOrRd",
}

// custom extends the brewer set.
var custom = map[string][]string{
	"Parula": {
		"#352a87", "#0f5cdd", "#1481d6", "#06a4ca", "#2eb7a4",
		"#87bf77", "#d1bb59", "#fec832", "#f9fb0e",
	},
	"Viridis": {
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
	},
	"Plasma": {
		"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
		"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921",
	},
	"Inferno": {
		"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60",
		"#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4",
	},
	"Magma": {
		"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f",
		"#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf",
	},
	"Cividis": {
		"#00224e", "#123570", "#3b496c", "#575d6d", "#707173",
		"#8a8678", "#a59c74", "#c3b369", "#e1cc55", "#fee838",
	},
}

// Names returns every supported scale name, sorted.
func Names() []string {
	names := make([]string, 0, len(sequential)+len(custom))
	for _, name := range sequential {
		if _, ok := brewer.ByName[name]; ok {
			names = append(names, name)
		}
	}
	for name := range custom {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Supported reports whether name is a supported scale.
func Supported(name string) bool {
	if _, ok := custom[name]; ok {
		return true
	}
	for _, s := range sequential {
		if s == name {
			_, ok := brewer.ByName[name]
			return ok
		}
	}
	return false
}

// Validate returns an error enumerating the valid names if name is not
// supported.
func Validate(name string) error {
	if Supported(name) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidColorScale,
		"%q is not a supported color scale. Please choose from [%s]",
		name, strings.Join(Names(), ", "))
}

// Colors returns the colors of the named scale, low to high.
func Colors(name string) ([]string, error) {
	if err := Validate(name); err != nil {
		return nil, err
	}
	if cs, ok := custom[name]; ok {
		out := make([]string, len(cs))
		copy(out, cs)
		return out, nil
	}

	palette := largestClass(brewer.ByName[name])
	out := make([]string, 0, len(palette))
	for _, c := range palette {
		r, g, b, _ := c.RGBA()
		out = append(out, fmt.Sprintf("rgb(%d, %d, %d)", r>>8, g>>8, b>>8))
	}
	return out, nil
}

// largestClass returns the variant of a brewer palette with the most colors.
// Not every palette goes up to the same class count.
func largestClass(classes map[int][]color.Color) []color.Color {
	best := 0
	for n := range classes {
		if n > best {
			best = n
		}
	}
	return classes[best]
}

// Stops returns the named scale as evenly spaced color-scale stops on [0, 1].
func Stops(name string) ([]figure.ColorStop, error) {
	colors, err := Colors(name)
	if err != nil {
		return nil, err
	}
	return MakeStops(colors), nil
}

// MakeStops spaces colors evenly on [0, 1]. A single color becomes a flat
// scale.
func MakeStops(colors []string) []figure.ColorStop {
	switch len(colors) {
	case 0:
		return nil
	case 1:
		return []figure.ColorStop{{Pos: 0, Color: colors[0]}, {Pos: 1, Color: colors[0]}}
	}
	stops := make([]figure.ColorStop, len(colors))
	last := float64(len(colors) - 1)
	for i, c := range colors {
		stops[i] = figure.ColorStop{Pos: float64(i) / last, Color: c}
	}
	return stops
}
