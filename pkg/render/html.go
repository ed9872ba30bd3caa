package render

import (
	"bytes"
	"html/template"

	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/figure"
)

// DefaultPlotlyURL is the plotly.js bundle loaded by [HTML] pages.
const DefaultPlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// HTMLOption configures HTML rendering via [HTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title     string
	plotlyURL string
}

// WithTitle sets the page title. It defaults to the figure title.
func WithTitle(title string) HTMLOption { return func(r *htmlRenderer) { r.title = title } }

// WithPlotlyURL loads plotly.js from url instead of [DefaultPlotlyURL].
func WithPlotlyURL(url string) HTMLOption { return func(r *htmlRenderer) { r.plotlyURL = url } }

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.PlotlyURL}}"></script>
</head>
<body>
<div id="figure"></div>
<script>
const fig = {{.Figure}};
Plotly.newPlot("figure", fig.data, fig.layout, {responsive: true});
</script>
</body>
</html>
`))

// HTML renders fig as a standalone page that plots it with plotly.js.
func HTML(fig *figure.Figure, opts ...HTMLOption) ([]byte, error) {
	if fig == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "figure is required")
	}
	r := htmlRenderer{plotlyURL: DefaultPlotlyURL}
	if fig.Layout.Title != nil {
		r.title = stripTags(fig.Layout.Title.Text)
	}
	for _, opt := range opts {
		opt(&r)
	}

	doc, err := JSON(fig)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = page.Execute(&buf, struct {
		Title     string
		PlotlyURL string
		Figure    template.JS
	}{r.title, r.plotlyURL, template.JS(doc)})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render page")
	}
	return buf.Bytes(), nil
}

// stripTags drops the markup the composer puts into titles.
func stripTags(s string) string {
	var out []rune
	inTag := false
	for _, c := range s {
		switch {
		case c == '<':
			inTag = true
		case c == '>':
			inTag = false
		case !inTag:
			out = append(out, c)
		}
	}
	return string(out)
}
