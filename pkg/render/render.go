package render

import (
	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/figure"
)

// Output format names.
const (
	FormatJSON = "json"
	FormatHTML = "html"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatHTML}

// Options carries the settings shared by all sinks.
type Options struct {
	ID     string
	Title  string
	Indent bool
}

// Render renders fig in the named format.
func Render(fig *figure.Figure, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		jopts := []JSONOption{WithID(opts.ID), WithPlacement()}
		if opts.Indent {
			jopts = append(jopts, WithIndent())
		}
		return JSON(fig, jopts...)
	case FormatHTML:
		var hopts []HTMLOption
		if opts.Title != "" {
			hopts = append(hopts, WithTitle(opts.Title))
		}
		return HTML(fig, hopts...)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want one of %v)", format, Formats)
}
