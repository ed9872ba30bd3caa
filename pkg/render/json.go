package render

import (
	"encoding/json"

	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/figure"
)

// JSONOption configures JSON rendering via [JSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	id        string
	indent    bool
	placement bool
}

// WithID records the figure ID in the JSON output.
func WithID(id string) JSONOption { return func(r *jsonRenderer) { r.id = id } }

// WithIndent pretty-prints the document with two-space indentation.
func WithIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// WithPlacement keeps the subplot placement request in the output. Plain
// plotly.js consumers do not understand it, so it is dropped by default.
func WithPlacement() JSONOption { return func(r *jsonRenderer) { r.placement = true } }

type jsonOutput struct {
	ID       string           `json:"id,omitempty"`
	Data     []figure.Trace   `json:"data"`
	Layout   figure.Layout    `json:"layout"`
	Subplots *figure.Subplots `json:"subplots,omitempty"`
}

// JSON exports fig as a plotly.js figure document.
//
// Missing data values are written as null. JSON does not modify fig.
func JSON(fig *figure.Figure, opts ...JSONOption) ([]byte, error) {
	if fig == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "figure is required")
	}
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{ID: r.id, Data: fig.Data, Layout: fig.Layout}
	if out.Data == nil {
		out.Data = []figure.Trace{}
	}
	if r.placement {
		out.Subplots = fig.Subplots
	}

	var (
		data []byte
		err  error
	)
	if r.indent {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode figure")
	}
	return data, nil
}
