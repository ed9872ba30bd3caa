package figure

import (
	"encoding/json"
	"math"
	"testing"
)

func TestLayoutMarshalFlattensAxes(t *testing.T) {
	l := Layout{
		Template: "plotly_white",
		Axes: map[string]*Axis{
			"xaxis1": {Range: &Range{0, 100}, LineColor: "black", LineWidth: 1},
		},
		Scenes: map[string]*Scene{
			"scene1": {Camera: Camera{Projection: Projection{Type: "orthographic"}, Eye: Eye{X: -1.25, Z: 0.8}}},
		},
	}

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var got map[string]json.RawMessage
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	for _, key := range []string{"template", "xaxis1", "scene1"} {
		if _, ok := got[key]; !ok {
			t.Errorf("layout JSON missing key %q: %s", key, data)
		}
	}
	if _, ok := got["Axes"]; ok {
		t.Error("Axes map should not be marshaled under its field name")
	}

	var axis Axis
	if err := json.Unmarshal(got["xaxis1"], &axis); err != nil {
		t.Fatalf("Unmarshal axis error: %v", err)
	}
	if axis.Range == nil || *axis.Range != (Range{0, 100}) {
		t.Errorf("xaxis1 range = %v, want [0 100]", axis.Range)
	}
}

func TestLayoutMarshalWithoutAxes(t *testing.T) {
	data, err := json.Marshal(Layout{Width: 800})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `{"width":800}` {
		t.Errorf("Marshal = %s", data)
	}
}

func TestColorStopJSON(t *testing.T) {
	data, err := json.Marshal([]ColorStop{{0, "rgb(0, 0, 0)"}, {1, "rgb(255, 255, 255)"}})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `[[0,"rgb(0, 0, 0)"],[1,"rgb(255, 255, 255)"]]`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var back []ColorStop
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if len(back) != 2 || back[1].Pos != 1 || back[1].Color != "rgb(255, 255, 255)" {
		t.Errorf("Unmarshal = %+v", back)
	}
}

func TestAxisNames(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{AxisRef("x", 1), "x"},
		{AxisRef("y", 3), "y3"},
		{AxisKey("x", 1), "xaxis1"},
		{AxisKey("z", 2), "zaxis2"},
		{SceneKey(2), "scene2"},
		{SceneRef(1), "scene"},
		{SceneRef(2), "scene2"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestSeriesMarshalEncodesGapsAsNull(t *testing.T) {
	s := Series{1, math.NaN(), 2.5, math.Inf(1)}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if got, want := string(data), "[1,null,2.5,null]"; got != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}

	var back Series
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if len(back) != 4 || back[0] != 1 || !math.IsNaN(back[1]) || back[2] != 2.5 {
		t.Errorf("Unmarshal = %v", back)
	}
}

func TestTraceMarshalWithMissingValues(t *testing.T) {
	tr := Trace{Type: "scatter", X: Series{0, 1}, Y: Series{math.NaN(), 3}}
	if _, err := json.Marshal(tr); err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
}
