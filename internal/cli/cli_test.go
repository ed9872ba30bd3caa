package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stackplot/pkg/errors"
)

const testTemplate = `
title = "Track"

[[grids]]
title = "Ground track"
axisType = "Manual"

  [[grids.axes]]
  name = "x"
  label = "Downrange (km)"
  scaleFactor = "m to km"
  min = 0.0
  max = 2000.0

  [[grids.axes]]
  name = "y"
  label = "Altitude (m)"
  scaleFactor = "None"

[[variables]]
traceName = "Nominal"
xVariable = "x"
yVariable = "alt"
mode = "lines"
subplot = 1
`

const testCSV = "x,alt\n0,10\n1000,\n2000,30\n"

func writeInputs(t *testing.T) (dir, tmplPath, dataPath string) {
	t.Helper()
	dir = t.TempDir()
	tmplPath = filepath.Join(dir, "track.toml")
	dataPath = filepath.Join(dir, "run.csv")
	if err := os.WriteFile(tmplPath, []byte(testTemplate), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dataPath, []byte(testCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, tmplPath, dataPath
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	captureStatus(t)

	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetArgs(append(args, "--cache-dir", t.TempDir()))
	root.SetOut(&out)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to json", "", []string{"json"}},
		{"single format", "html", []string{"html"}},
		{"multiple formats", "json, html", []string{"json", "html"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/run.csv", "data/run"},
		{"out/fig.json", "run.csv", "out/fig"},
		{"out/fig.html", "run.csv", "out/fig"},
		{"out/fig", "run.csv", "out/fig"},
		{"out/fig.v2", "run.csv", "out/fig.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths([]string{"json"}, "figure.out", "run.csv")
	if got["json"] != "figure.out" {
		t.Errorf("single explicit output = %v", got)
	}

	got = outputPaths([]string{"json", "html"}, "", "data/run.csv")
	if got["json"] != "data/run.json" || got["html"] != "data/run.html" {
		t.Errorf("derived outputs = %v", got)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	if root.PersistentFlags().Lookup("no-cache") == nil || root.PersistentFlags().Lookup("cache-dir") == nil {
		t.Error("cache flags should be persistent")
	}

	want := []string{"compose", "inspect", "scales", "units", "convert", "serve", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestComposeCommand(t *testing.T) {
	dir, tmplPath, dataPath := writeInputs(t)

	if _, err := run(t, "compose", tmplPath, dataPath, "-f", "json,html"); err != nil {
		t.Fatalf("compose error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "run.json"))
	if err != nil {
		t.Fatalf("json artifact missing: %v", err)
	}
	var doc struct {
		ID   string            `json:"id"`
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	if doc.ID == "" || len(doc.Data) != 1 {
		t.Errorf("artifact = %s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "run.html")); err != nil {
		t.Errorf("html artifact missing: %v", err)
	}
}

func TestComposeReusesCachedArtifacts(t *testing.T) {
	captureStatus(t)
	_, tmplPath, dataPath := writeInputs(t)
	cacheDir := t.TempDir()

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	for i := 0; i < 2; i++ {
		var out bytes.Buffer
		c.SetOutput(&out)
		root := c.RootCommand()
		root.SetArgs([]string{"compose", tmplPath, dataPath, "-o", "-", "--cache-dir", cacheDir})
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}
	if !strings.Contains(logs.String(), "cached=true") {
		t.Errorf("second run should be served from the cache; logs:\n%s", logs.String())
	}
}

func TestComposeToStdout(t *testing.T) {
	_, tmplPath, dataPath := writeInputs(t)

	out, err := run(t, "compose", tmplPath, dataPath, "-o", "-", "--kind", "2d")
	if err != nil {
		t.Fatalf("compose error: %v", err)
	}
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"y":[10,null,30]`) {
		t.Errorf("stdout = %s", out)
	}
}

func TestComposeErrors(t *testing.T) {
	_, tmplPath, dataPath := writeInputs(t)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"compose", tmplPath, dataPath, "-f", "png", "-o", "-"}, errors.ErrCodeInvalidFormat},
		{"bad kind", []string{"compose", tmplPath, dataPath, "-k", "polar", "-o", "-"}, errors.ErrCodeInvalidPlotType},
		{"missing data", []string{"compose", tmplPath, dataPath + ".missing.csv", "-o", "-"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}

	if _, err := run(t, "compose", tmplPath); err == nil {
		t.Error("compose with one argument should fail")
	}
}

func TestInspectCommand(t *testing.T) {
	_, _, dataPath := writeInputs(t)

	out, err := run(t, "inspect", dataPath)
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	for _, want := range []string{"rows", "alt", "1 missing", "x"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "inspect", dataPath, "--rows")
	if err != nil {
		t.Fatalf("inspect --rows error: %v", err)
	}
	if !strings.Contains(out, "2000") {
		t.Errorf("row dump missing values:\n%s", out)
	}
}

func TestScalesCommand(t *testing.T) {
	out, err := run(t, "scales")
	if err != nil {
		t.Fatalf("scales error: %v", err)
	}
	for _, name := range []string{"Viridis", "Blues"} {
		if !strings.Contains(out, name) {
			t.Errorf("scale %q not listed", name)
		}
	}

	out, err = run(t, "scales", "Viridis")
	if err != nil {
		t.Fatalf("scales Viridis error: %v", err)
	}
	if !strings.Contains(out, "#440154") || !strings.Contains(out, "1.000") {
		t.Errorf("stops missing:\n%s", out)
	}

	if _, err := run(t, "scales", "Rainbow"); !errors.Is(err, errors.ErrCodeInvalidColorScale) {
		t.Errorf("unknown scale error = %v", err)
	}
}

func TestUnitsAndConvert(t *testing.T) {
	out, err := run(t, "units")
	if err != nil {
		t.Fatalf("units error: %v", err)
	}
	if !strings.Contains(out, "m to km") {
		t.Errorf("units output = %q", out)
	}

	out, err = run(t, "convert", "m to km", "1500", "20000")
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}
	if out != "1.5\n20\n" {
		t.Errorf("convert output = %q", out)
	}

	if _, err := run(t, "convert", "m to parsec", "1"); !errors.Is(err, errors.ErrCodeInvalidConversion) {
		t.Errorf("bad code error = %v", err)
	}
	if _, err := run(t, "convert", "m to km", "abc"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad value error = %v", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, "stackplot") {
		t.Error("bash completion should mention the program name")
	}
}
