package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackplot/pkg/observability"
)

const figureBody = `{
  "template": {
    "title": "Track",
    "grids": [{
      "title": "Ground track",
      "axisType": "Manual",
      "axes": [
        {"name": "x", "label": "Downrange (km)", "scaleFactor": "m to km", "min": 0, "max": 2000},
        {"name": "y", "label": "Altitude (m)", "scaleFactor": "None"}
      ]
    }],
    "variables": [
      {"traceName": "Nominal", "xVariable": "x", "yVariable": "alt", "mode": "lines", "subplot": 1}
    ]
  },
  "data": {"x": [0, 1000, 2000], "alt": [10, null, 30]}
}`

func newTestServer() *Server {
	return New(nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if got := rec.Header().Get("Server"); got != "stackplot/dev" {
		t.Errorf("Server header = %q", got)
	}
}

func TestScales(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/v1/scales", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Scales []scaleInfo `json:"scales"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Scales) == 0 {
		t.Fatal("no scales listed")
	}
	for _, s := range body.Scales {
		if len(s.Colors) == 0 {
			t.Errorf("scale %q has no colors", s.Name)
		}
	}
}

func TestUnits(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/v1/units", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "m to km") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestFigures(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/v1/figures", figureBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	id := rec.Header().Get("X-Figure-ID")
	if id == "" {
		t.Error("X-Figure-ID header missing")
	}

	var doc struct {
		ID     string            `json:"id"`
		Data   []json.RawMessage `json:"data"`
		Layout map[string]any    `json:"layout"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode figure: %v", err)
	}
	if doc.ID != id {
		t.Errorf("id = %q, header = %q", doc.ID, id)
	}
	if len(doc.Data) != 1 {
		t.Errorf("traces = %d, want 1", len(doc.Data))
	}
	if _, ok := doc.Layout["xaxis1"]; !ok {
		t.Error("layout missing xaxis1")
	}
	if !strings.Contains(string(doc.Data[0]), `"y":[10,null,30]`) {
		t.Errorf("null not preserved: %s", doc.Data[0])
	}

	again := do(t, newTestServer(), http.MethodPost, "/v1/figures", figureBody)
	if again.Header().Get("X-Figure-ID") != id {
		t.Error("same request should give the same figure ID")
	}
}

func TestFiguresCacheHeader(t *testing.T) {
	s := newTestServer()
	first := do(t, s, http.MethodPost, "/v1/figures", figureBody)
	second := do(t, s, http.MethodPost, "/v1/figures", figureBody)

	if got := first.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("first X-Cache = %q, want miss", got)
	}
	if got := second.Header().Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached body differs")
	}
}

func TestFiguresHTML(t *testing.T) {
	body := strings.Replace(figureBody, `"data":`, `"format": "html", "data":`, 1)
	rec := do(t, newTestServer(), http.MethodPost, "/v1/figures", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Plotly.newPlot") {
		t.Error("page missing plot call")
	}
}

func TestFiguresErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed body", `{`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"bogus": 1}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing template", `{"data": {"x": [1]}}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing data", `{"template": {}}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"ragged columns", strings.Replace(figureBody, `"alt": [10, null, 30]`, `"alt": [10]`, 1), http.StatusBadRequest, "INVALID_INPUT"},
		{"missing column", strings.Replace(figureBody, `"alt": [10, null, 30]`, `"h": [10, 20, 30]`, 1), http.StatusBadRequest, "COLUMN_NOT_FOUND"},
		{"bad scale factor", strings.Replace(figureBody, `"m to km"`, `"m to parsec"`, 1), http.StatusBadRequest, "INVALID_CONVERSION_CODE"},
		{"bad kind", strings.Replace(figureBody, `"data":`, `"kind": "polar", "data":`, 1), http.StatusBadRequest, "INVALID_PLOT_TYPE"},
		{"bad format", strings.Replace(figureBody, `"data":`, `"format": "png", "data":`, 1), http.StatusBadRequest, "INVALID_FORMAT"},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/figures", tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q (message %q)", body.Code, tt.code, body.Message)
			}
			if body.Message == "" {
				t.Error("message should not be empty")
			}
		})
	}
}

func TestNotFoundAndMethod(t *testing.T) {
	s := newTestServer()
	if rec := do(t, s, http.MethodGet, "/v2/nothing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/v1/figures", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method status = %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/v1/figures", `{"template": {"grids": []}, "data": {"x": [1]}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty grids status = %d, want 400", rec.Code)
	}
}

func TestHTTPHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)

	s := newTestServer()
	do(t, s, http.MethodGet, "/healthz", "")
	do(t, s, http.MethodPost, "/v1/figures", `{`)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 2 {
		t.Errorf("requests = %d, want 2", hooks.requests)
	}
	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 400 {
		t.Errorf("statuses = %v, want [200 400]", hooks.statuses)
	}
	if hooks.errors != 1 {
		t.Errorf("errors = %d, want 1", hooks.errors)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer().ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("ListenAndServe() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	requests int
	statuses []int
	errors   int
}

func (h *recordingHooks) OnRequest(context.Context, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func (h *recordingHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

