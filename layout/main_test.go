package layout

import (
	"embed"
	"errors"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"
	"nyiyui.ca/hato/kotsu/road"
)

//go:embed testdata
var testdata embed.FS

func TestParse(t *testing.T) {
	y, err := Parse(
		[]string{"1:5t", "2:5t"},
		[]string{"1-->2:100m,2x,40max", "2-->1:100m,2x,40max"},
		[]string{"0,0,30,5"},
	)
	if err != nil {
		t.Fatalf("error: %s", err)
	}
	expected := InitShuttle()
	if !cmp.Equal(y, expected) {
		t.Fatalf("diff: %s", cmp.Diff(expected, y))
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name                          string
		junctions, segments, vehicles []string
	}{
		{"junction without t", []string{"1:5"}, nil, nil},
		{"junction with sign", []string{"-1:5t"}, nil, nil},
		{"segment arrow", []string{"1:5t"}, []string{"1->2:100m,2x,40max"}, nil},
		{"segment spaces", []string{"1:5t"}, []string{"1 --> 2:100m,2x,40max"}, nil},
		{"vehicle fields", nil, nil, []string{"0,0,30"}},
		{"out of range", []string{"99999999999:5t"}, nil, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.junctions, c.segments, c.vehicles)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	y, err := Load("testdata/shuttle")
	if err != nil {
		t.Fatalf("error: %s", err)
	}
	expected := InitShuttle()
	if !cmp.Equal(y, expected) {
		t.Fatalf("diff: %s", cmp.Diff(expected, y))
	}
	if _, err := Load("testdata/bad"); !errors.Is(err, ErrParse) {
		t.Fatalf("bad: expected ErrParse, got %v", err)
	}
	if _, err := Load("testdata/does-not-exist"); !errors.Is(err, ErrParse) {
		t.Fatalf("missing: expected ErrParse, got %v", err)
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines("1:5t\r\n2:5t\n\n")
	expected := []string{"1:5t", "2:5t"}
	if !cmp.Equal(got, expected) {
		t.Fatalf("diff: %s", cmp.Diff(expected, got))
	}
}

func TestBuildError(t *testing.T) {
	y := InitShuttle()
	y.Vehicles = append(y.Vehicles, VehicleRecord{ID: 0, Segment: 1, TargetSpeed: 30, Acceleration: 5})
	if _, err := y.Build(); !errors.Is(err, road.ErrBuild) {
		t.Fatalf("expected road.ErrBuild, got %v", err)
	}
}

func TestPresets(t *testing.T) {
	for name, preset := range Presets {
		t.Run(name, func(t *testing.T) {
			y := preset()
			n, err := y.Build()
			if err != nil {
				t.Fatalf("build: %s", err)
			}
			count := n.VehicleCount()
			if count != len(y.Vehicles) {
				t.Fatalf("expected %d vehicles, got %d", len(y.Vehicles), count)
			}
			for tick := 1; tick <= 300; tick++ {
				n.Tick()
				if err := n.Check(); err != nil {
					t.Fatalf("tick %d: %s", tick, err)
				}
			}
			if got := n.Snapshot().VehicleCount(); got != count {
				t.Fatalf("expected %d vehicles after run, got %d", count, got)
			}
		})
	}
}

func TestLongRoad(t *testing.T) {
	n, err := InitLongRoad().Build()
	if err != nil {
		t.Fatal(err)
	}
	n.Tick()
	got, err := n.VehicleByID(0)
	if err != nil {
		t.Fatal(err)
	}
	expected := road.VehicleState{ID: 0, Segment: 1, Speed: 0, Position: 10000}
	if got != expected {
		t.Fatalf("diff: %s", cmp.Diff(expected, got))
	}
}

func TestLoadFS(t *testing.T) {
	shuttle, err := fs.Sub(testdata, "testdata/shuttle")
	if err != nil {
		t.Fatal(err)
	}
	y, err := LoadFS(shuttle)
	if err != nil {
		t.Fatalf("error: %s", err)
	}
	expected := InitShuttle()
	if !cmp.Equal(y, expected) {
		t.Fatalf("diff: %s", cmp.Diff(expected, y))
	}
	bad, err := fs.Sub(testdata, "testdata/bad")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFS(bad); !errors.Is(err, ErrParse) {
		t.Fatalf("bad: expected ErrParse, got %v", err)
	}
	if _, err := LoadFS(testdata); !errors.Is(err, ErrParse) {
		t.Fatalf("root: expected ErrParse, got %v", err)
	}
}
