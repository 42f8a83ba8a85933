package road

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// arena holds every entity of a network. Entities refer to each other by ID only.
type arena struct {
	vehicles  map[VehicleID]*Vehicle
	segments  []*Segment
	junctions map[JunctionID]*Junction
}

func newArena() *arena {
	return &arena{
		vehicles:  map[VehicleID]*Vehicle{},
		segments:  make([]*Segment, 0),
		junctions: map[JunctionID]*Junction{},
	}
}

// Network is a built road network. Its topology does not change after Build.
// A Network must not be used from multiple goroutines at the same time.
type Network struct {
	a *arena
	// junctions is sorted by ID. Segments are already sorted as their IDs are their indices.
	junctions []*Junction
	ticks     int
}

func newNetwork(a *arena) *Network {
	ids := maps.Keys(a.junctions)
	slices.Sort(ids)
	junctions := make([]*Junction, 0, len(ids))
	for _, id := range ids {
		junctions = append(junctions, a.junctions[id])
	}
	return &Network{a: a, junctions: junctions}
}

// Ticks returns the number of ticks run so far.
func (n *Network) Ticks() int { return n.ticks }

func (n *Network) VehicleCount() int { return len(n.a.vehicles) }

// Tick advances the simulation by one step: every segment in ID order, then every junction in ID order.
func (n *Network) Tick() {
	for _, v := range n.a.vehicles {
		v.updated = false
	}
	for _, s := range n.a.segments {
		s.update()
	}
	for _, j := range n.junctions {
		j.update()
	}
	n.ticks++
}

var ErrNegativeTicks = errors.New("number of ticks must not be negative")

func (n *Network) RunTicks(ticks int) error {
	if ticks < 0 {
		return fmt.Errorf("%w (got %d)", ErrNegativeTicks, ticks)
	}
	for i := 0; i < ticks; i++ {
		n.Tick()
	}
	return nil
}

func (n *Network) VehicleByID(id VehicleID) (VehicleState, error) {
	v, ok := n.a.vehicles[id]
	if !ok {
		return VehicleState{}, fmt.Errorf("vehicle %d: %w", id, ErrNotFound)
	}
	return v.State(), nil
}

func (n *Network) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:      n.ticks,
		Segments:  make([]SegmentState, 0, len(n.a.segments)),
		Junctions: make([]JunctionState, 0, len(n.junctions)),
	}
	for _, s := range n.a.segments {
		snap.Segments = append(snap.Segments, s.state())
	}
	for _, j := range n.junctions {
		snap.Junctions = append(snap.Junctions, j.state())
	}
	return snap
}

// Check verifies the invariants that must hold between ticks:
// each vehicle is held by exactly the segment it points to, vehicles are ordered by position,
// and adjacent vehicles keep SafeDistance.
func (n *Network) Check() error {
	seen := make(map[VehicleID]SegmentID, len(n.a.vehicles))
	for _, s := range n.a.segments {
		prev := -1
		for i, id := range s.vehicles {
			v, ok := n.a.vehicles[id]
			if !ok {
				return fmt.Errorf("segment %d index %d: vehicle %d not in arena", s.ID, i, id)
			}
			if other, ok := seen[id]; ok {
				return fmt.Errorf("vehicle %d held by segments %d and %d", id, other, s.ID)
			}
			seen[id] = s.ID
			if v.segment != s.ID {
				return fmt.Errorf("vehicle %d held by segment %d but points to %d", id, s.ID, v.segment)
			}
			if v.position < 0 || v.position > s.Length {
				return fmt.Errorf("vehicle %d: position %d outside segment %d (length %d)", id, v.position, s.ID, s.Length)
			}
			if prev != -1 && v.position-prev < SafeDistance {
				return fmt.Errorf("segment %d index %d: gap %d to vehicle behind is below safe distance", s.ID, i, v.position-prev)
			}
			if v.speed < 0 || v.speed > v.TargetSpeed {
				return fmt.Errorf("vehicle %d: speed %d out of range", id, v.speed)
			}
			prev = v.position
		}
	}
	if len(seen) != len(n.a.vehicles) {
		return fmt.Errorf("%d vehicles in arena but %d held by segments", len(n.a.vehicles), len(seen))
	}
	return nil
}
