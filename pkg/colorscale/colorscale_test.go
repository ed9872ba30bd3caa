package colorscale

import (
	"sort"
	"strings"
	"testing"

	"github.com/matzehuels/stackplot/pkg/errors"
)

func TestNamesSortedAndComplete(t *testing.T) {
	names := Names()
	if !sort.StringsAreSorted(names) {
		t.Errorf("Names() not sorted: %v", names)
	}
	for _, want := range []string{"Blues", "YlOrRd", "Viridis", "Parula"} {
		if !Supported(want) {
			t.Errorf("Supported(%q) = false", want)
		}
	}
	if len(names) != len(sequential)+len(custom) {
		t.Errorf("len(Names()) = %d, want %d", len(names), len(sequential)+len(custom))
	}
}

func TestValidateEnumeratesNames(t *testing.T) {
	err := Validate("Rainbowish")
	if err == nil {
		t.Fatal("expected error for unsupported scale")
	}
	if !errors.Is(err, errors.ErrCodeInvalidColorScale) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidColorScale)
	}
	msg := err.Error()
	for _, name := range Names() {
		if !strings.Contains(msg, name) {
			t.Errorf("error message does not list %q: %s", name, msg)
		}
	}
}

func TestValidateCaseSensitive(t *testing.T) {
	if err := Validate("viridis"); err == nil {
		t.Error("scale names are case-sensitive")
	}
}

func TestStopsBrewer(t *testing.T) {
	stops, err := Stops("Blues")
	if err != nil {
		t.Fatalf("Stops error: %v", err)
	}
	if len(stops) != 9 {
		t.Fatalf("len = %d, want 9", len(stops))
	}
	if stops[0].Pos != 0 || stops[len(stops)-1].Pos != 1 {
		t.Errorf("stops span [%v, %v], want [0, 1]", stops[0].Pos, stops[len(stops)-1].Pos)
	}
	if stops[0].Color != "rgb(247, 251, 255)" {
		t.Errorf("first Blues color = %q", stops[0].Color)
	}
}

func TestStopsCustom(t *testing.T) {
	stops, err := Stops("Viridis")
	if err != nil {
		t.Fatalf("Stops error: %v", err)
	}
	if len(stops) != 10 {
		t.Fatalf("len = %d, want 10", len(stops))
	}
	for i := 1; i < len(stops); i++ {
		if stops[i].Pos <= stops[i-1].Pos {
			t.Fatalf("stop positions not ascending at %d: %v", i, stops)
		}
	}
	if stops[0].Color != "#440154" {
		t.Errorf("first Viridis color = %q", stops[0].Color)
	}
}

func TestMakeStops(t *testing.T) {
	if got := MakeStops(nil); got != nil {
		t.Errorf("MakeStops(nil) = %v, want nil", got)
	}
	flat := MakeStops([]string{"red"})
	if len(flat) != 2 || flat[0].Color != "red" || flat[1].Pos != 1 {
		t.Errorf("MakeStops(single) = %v", flat)
	}
	three := MakeStops([]string{"a", "b", "c"})
	if three[1].Pos != 0.5 {
		t.Errorf("middle stop = %v, want 0.5", three[1].Pos)
	}
}

func TestEveryScaleHasStops(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			stops, err := Stops(name)
			if err != nil {
				t.Fatalf("Stops error: %v", err)
			}
			if len(stops) < 2 {
				t.Fatalf("len = %d, want at least 2", len(stops))
			}
			if stops[0].Pos != 0 || stops[len(stops)-1].Pos != 1 {
				t.Errorf("stops span [%v, %v], want [0, 1]", stops[0].Pos, stops[len(stops)-1].Pos)
			}
			for i, s := range stops {
				if s.Color == "" {
					t.Errorf("stop %d has no color", i)
				}
			}
		})
	}
}

func TestStopsShortBrewerPalette(t *testing.T) {
	// YlOrRd tops out at 8 classes.
	stops, err := Stops("YlOrRd")
	if err != nil {
		t.Fatalf("Stops error: %v", err)
	}
	if len(stops) != 8 {
		t.Fatalf("len = %d, want 8", len(stops))
	}
	if stops[0].Color != "rgb(255, 255, 204)" || stops[7].Color != "rgb(177, 0, 38)" {
		t.Errorf("YlOrRd endpoints = %q, %q", stops[0].Color, stops[7].Color)
	}
}
