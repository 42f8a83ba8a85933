package road

import (
	"errors"
	"testing"
)

// pair adds junctions 0 and 1 (both roundabouts) and segments 0: 0→1 and 1: 1→0.
func pair(b *Builder) error {
	if err := b.AddJunction(0, 0); err != nil {
		return err
	}
	if err := b.AddJunction(1, 0); err != nil {
		return err
	}
	if _, err := b.Connect(0, 1, 10, 1, 10); err != nil {
		return err
	}
	_, err := b.Connect(1, 0, 10, 1, 10)
	return err
}

func TestBuilderErrors(t *testing.T) {
	cases := []struct {
		name string
		f    func(t *testing.T, b *Builder) error
	}{
		{"duplicate junction", func(t *testing.T, b *Builder) error { return b.AddJunction(0, 3) }},
		{"negative junction id", func(t *testing.T, b *Builder) error { return b.AddJunction(-1, 0) }},
		{"green phase too short", func(t *testing.T, b *Builder) error { return b.AddJunction(2, 2) }},
		{"green phase too long", func(t *testing.T, b *Builder) error { return b.AddJunction(2, 11) }},
		{"negative green phase", func(t *testing.T, b *Builder) error { return b.AddJunction(2, -3) }},
		{"unknown start", func(t *testing.T, b *Builder) error { _, err := b.Connect(5, 1, 10, 1, 10); return err }},
		{"unknown end", func(t *testing.T, b *Builder) error { _, err := b.Connect(0, 5, 10, 1, 10); return err }},
		{"self loop", func(t *testing.T, b *Builder) error { _, err := b.Connect(0, 0, 10, 1, 10); return err }},
		{"too short", func(t *testing.T, b *Builder) error { _, err := b.Connect(0, 1, 9, 1, 10); return err }},
		{"too long", func(t *testing.T, b *Builder) error { _, err := b.Connect(0, 1, 10001, 1, 10); return err }},
		{"no lanes", func(t *testing.T, b *Builder) error { _, err := b.Connect(0, 1, 10, 0, 10); return err }},
		{"too many lanes", func(t *testing.T, b *Builder) error { _, err := b.Connect(0, 1, 10, 3, 10); return err }},
		{"speed limit too low", func(t *testing.T, b *Builder) error { _, err := b.Connect(0, 1, 10, 1, 4); return err }},
		{"speed limit too high", func(t *testing.T, b *Builder) error { _, err := b.Connect(0, 1, 10, 1, 41); return err }},
		{"unknown segment", func(t *testing.T, b *Builder) error { return b.PutVehicle(0, 2, 20, 1) }},
		{"negative segment", func(t *testing.T, b *Builder) error { return b.PutVehicle(0, -1, 20, 1) }},
		{"negative vehicle id", func(t *testing.T, b *Builder) error { return b.PutVehicle(-1, 0, 20, 1) }},
		{"target speed too low", func(t *testing.T, b *Builder) error { return b.PutVehicle(0, 0, 19, 1) }},
		{"target speed too high", func(t *testing.T, b *Builder) error { return b.PutVehicle(0, 0, 41, 1) }},
		{"acceleration too low", func(t *testing.T, b *Builder) error { return b.PutVehicle(0, 0, 20, 0) }},
		{"acceleration too high", func(t *testing.T, b *Builder) error { return b.PutVehicle(0, 0, 20, 11) }},
		{"duplicate vehicle", func(t *testing.T, b *Builder) error {
			if err := b.PutVehicle(0, 0, 20, 1); err != nil {
				t.Fatalf("first vehicle: %s", err)
			}
			return b.PutVehicle(0, 1, 20, 1)
		}},
		{"full segment", func(t *testing.T, b *Builder) error {
			// segment 0 is 10 long: the first vehicle sits at 10, the second at 0
			for id := VehicleID(0); id < 2; id++ {
				if err := b.PutVehicle(id, 0, 20, 1); err != nil {
					t.Fatalf("vehicle %d: %s", id, err)
				}
			}
			return b.PutVehicle(2, 0, 20, 1)
		}},
		{"too many outgoing", func(t *testing.T, b *Builder) error {
			for i := 0; i < 3; i++ {
				if _, err := b.Connect(0, 1, 10, 1, 10); err != nil {
					t.Fatalf("segment %d: %s", i, err)
				}
			}
			_, err := b.Connect(0, 1, 10, 1, 10)
			return err
		}},
		{"isolated junction", func(t *testing.T, b *Builder) error {
			if err := b.AddJunction(2, 0); err != nil {
				t.Fatalf("add junction: %s", err)
			}
			_, err := b.Build()
			return err
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := NewBuilder()
			if err := pair(b); err != nil {
				t.Fatalf("pair: %s", err)
			}
			err := c.f(t, b)
			if !errors.Is(err, ErrBuild) {
				t.Fatalf("expected ErrBuild, got %v", err)
			}
		})
	}
}

func TestBuilderFailedConnectLeavesNoTrace(t *testing.T) {
	b := NewBuilder()
	if err := pair(b); err != nil {
		t.Fatal(err)
	}
	if err := b.AddJunction(2, 0); err != nil {
		t.Fatal(err)
	}
	// junction 1 has 1 incoming segment; fill it up from junction 2
	for i := 0; i < 3; i++ {
		if _, err := b.Connect(2, 1, 10, 1, 10); err != nil {
			t.Fatalf("segment %d: %s", i, err)
		}
	}
	if _, err := b.Connect(0, 1, 10, 1, 10); !errors.Is(err, ErrBuild) {
		t.Fatalf("expected ErrBuild, got %v", err)
	}
	if got := len(b.a.junctions[0].outgoing); got != 1 {
		t.Fatalf("junction 0: expected 1 outgoing segment, got %d", got)
	}
	id, err := b.Connect(1, 2, 10, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if id != 5 {
		t.Fatalf("expected segment id 5, got %d", id)
	}
}

func TestBuilderConsumed(t *testing.T) {
	b := NewBuilder()
	if err := pair(b); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Build(); err != nil {
		t.Fatal(err)
	}
	if err := b.AddJunction(9, 0); !errors.Is(err, ErrConsumed) {
		t.Fatalf("AddJunction: expected ErrConsumed, got %v", err)
	}
	if _, err := b.Connect(0, 1, 10, 1, 10); !errors.Is(err, ErrConsumed) {
		t.Fatalf("Connect: expected ErrConsumed, got %v", err)
	}
	if err := b.PutVehicle(0, 0, 20, 1); !errors.Is(err, ErrConsumed) {
		t.Fatalf("PutVehicle: expected ErrConsumed, got %v", err)
	}
	if _, err := b.Build(); !errors.Is(err, ErrConsumed) {
		t.Fatalf("Build: expected ErrConsumed, got %v", err)
	}
}

func TestBuildSortsJunctions(t *testing.T) {
	n := mustBuild(t, func(b *Builder) error {
		for _, id := range []JunctionID{7, 3, 5} {
			if err := b.AddJunction(id, 0); err != nil {
				return err
			}
		}
		for _, c := range [][2]JunctionID{{7, 3}, {3, 5}, {5, 7}} {
			if _, err := b.Connect(c[0], c[1], 10, 1, 10); err != nil {
				return err
			}
		}
		return nil
	})
	got := make([]JunctionID, 0, 3)
	for _, js := range n.Snapshot().Junctions {
		got = append(got, js.ID)
	}
	if got[0] != 3 || got[1] != 5 || got[2] != 7 {
		t.Fatalf("expected junctions sorted by id, got %v", got)
	}
}
