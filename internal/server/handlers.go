package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"

	"github.com/matzehuels/stackplot/pkg/buildinfo"
	"github.com/matzehuels/stackplot/pkg/colorscale"
	"github.com/matzehuels/stackplot/pkg/dataset"
	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/observability"
	"github.com/matzehuels/stackplot/pkg/pipeline"
	"github.com/matzehuels/stackplot/pkg/render"
	"github.com/matzehuels/stackplot/pkg/template"
	"github.com/matzehuels/stackplot/pkg/units"
)

// figureRequest is the body of POST /v1/figures. Data maps column names to
// values; null marks a missing value.
type figureRequest struct {
	Template     json.RawMessage       `json:"template"`
	Data         map[string][]*float64 `json:"data"`
	Kind         string                `json:"kind,omitempty"`
	SuppressInfo bool                  `json:"suppressInfo,omitempty"`
	Format       string                `json:"format,omitempty"`
	Indent       bool                  `json:"indent,omitempty"`
}

func (s *Server) handleFigures(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var req figureRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if len(req.Template) == 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "template is required"))
		return
	}
	if len(req.Data) == 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "data is required"))
		return
	}

	tmpl, err := template.Decode(bytes.NewReader(req.Template), template.FormatJSON)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tab, err := tableFromRequest(req.Data)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format := req.Format
	if format == "" {
		format = pipeline.DefaultFormat
	}
	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Template:     tmpl,
		Table:        tab,
		Kind:         req.Kind,
		SuppressInfo: req.SuppressInfo,
		Formats:      []string{format},
		Indent:       req.Indent,
		Logger:       s.logger,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	contentType := "application/json"
	if format == render.FormatHTML {
		contentType = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Figure-ID", result.FigureID)
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// tableFromRequest builds a table from inline columns.
func tableFromRequest(data map[string][]*float64) (*dataset.Table, error) {
	cols := make(map[string][]float64, len(data))
	for name, values := range data {
		col := make([]float64, len(values))
		for i, v := range values {
			if v == nil {
				col[i] = math.NaN()
				continue
			}
			col[i] = *v
		}
		cols[name] = col
	}
	return dataset.FromColumns(cols)
}

type scaleInfo struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

func (s *Server) handleScales(w http.ResponseWriter, r *http.Request) {
	names := colorscale.Names()
	out := make([]scaleInfo, 0, len(names))
	for _, name := range names {
		colors, err := colorscale.Colors(name)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		out = append(out, scaleInfo{Name: name, Colors: colors})
	}
	writeJSON(w, http.StatusOK, map[string]any{"scales": out})
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"codes": units.Codes()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// fail reports err to the hooks and writes the matching error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeError(w, status, code, errors.UserMessage(err))
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeFileNotFound):
		return http.StatusNotFound
	case errors.IsValidation(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
