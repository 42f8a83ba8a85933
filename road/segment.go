package road

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

const (
	// SafeDistance is the minimum gap between two vehicles on the same segment.
	SafeDistance = 10

	MinLength     = 10
	MaxLength     = 10000
	MinSpeedLimit = 5
	MaxSpeedLimit = 40
	MinLanes      = 1
	MaxLanes      = 2
)

type SegmentID int

// Segment is a one-way road ending at a junction.
type Segment struct {
	ID         SegmentID
	Start      JunctionID
	End        JunctionID
	Length     int
	Lanes      int
	SpeedLimit int

	a *arena
	// vehicles is ordered by position, rearmost first.
	vehicles []VehicleID
}

func newSegment(a *arena, id SegmentID, start, end JunctionID, length, lanes, speedLimit int) (*Segment, error) {
	if length < MinLength || length > MaxLength {
		return nil, buildErrorf("segment %d: length must be between %d and %d (got %d)", id, MinLength, MaxLength, length)
	}
	if speedLimit < MinSpeedLimit || speedLimit > MaxSpeedLimit {
		return nil, buildErrorf("segment %d: speed limit must be between %d and %d (got %d)", id, MinSpeedLimit, MaxSpeedLimit, speedLimit)
	}
	if lanes < MinLanes || lanes > MaxLanes {
		return nil, buildErrorf("segment %d: lanes must be between %d and %d (got %d)", id, MinLanes, MaxLanes, lanes)
	}
	return &Segment{
		ID:         id,
		Start:      start,
		End:        end,
		Length:     length,
		Lanes:      lanes,
		SpeedLimit: speedLimit,
		a:          a,
		vehicles:   make([]VehicleID, 0),
	}, nil
}

func (s *Segment) String() string {
	return fmt.Sprintf("<s:%d %d→%d>", s.ID, s.Start, s.End)
}

// at panics if there is no vehicle at index i.
func (s *Segment) at(i int) *Vehicle {
	if i < 0 || i >= len(s.vehicles) {
		panic(fmt.Sprintf("%s: no vehicle at index %d (have %d)", s, i, len(s.vehicles)))
	}
	v, ok := s.a.vehicles[s.vehicles[i]]
	if !ok {
		panic(fmt.Sprintf("%s: vehicle %d not in arena", s, s.vehicles[i]))
	}
	return v
}

func (s *Segment) allowsOvertaking() bool {
	return s.Lanes > 1
}

// IsFull reports whether the rearmost vehicle is too close to the start to admit another one.
func (s *Segment) IsFull() bool {
	return len(s.vehicles) > 0 && s.at(0).position < SafeDistance
}

// gapAhead is how far the vehicle at index i may move before it is closer than SafeDistance
// to the vehicle ahead, or before it reaches the end of the segment if it is frontmost.
func (s *Segment) gapAhead(i int) int {
	if i+1 >= len(s.vehicles) {
		return s.Length - s.at(i).position
	}
	return s.at(i+1).position - s.at(i).position - SafeDistance
}

// place creates a new vehicle at the rear of s.
func (s *Segment) place(id VehicleID, targetSpeed, acceleration int) (*Vehicle, error) {
	if s.IsFull() {
		return nil, buildErrorf("segment %d is full", s.ID)
	}
	v, err := newVehicle(id, targetSpeed, acceleration, s.ID)
	if err != nil {
		return nil, err
	}
	s.a.vehicles[id] = v
	s.vehicles = slices.Insert(s.vehicles, 0, id)
	v.position = s.gapAhead(0)
	return v, nil
}

// admit takes over v, which just left another segment, and moves it on with what is left
// of its budget.
func (s *Segment) admit(v *Vehicle) {
	if s.IsFull() {
		panic(fmt.Sprintf("%s: admit %s into full segment", s, v))
	}
	v.relocate(s.ID)
	v.resetPosition()
	s.vehicles = slices.Insert(s.vehicles, 0, v.ID)
	s.advance(0, false, false)
}

func (s *Segment) advance(i int, allowTurn, allowOvertake bool) {
	v := s.at(i)
	v.advance(min(v.budget(), s.gapAhead(i)))
	if v.budget() <= 0 {
		return
	}
	if allowTurn && v.position == s.Length {
		if target := s.a.junctions[s.End].turnTargetFor(v); target != nil {
			s.handOff(target)
		}
		return
	}
	if allowOvertake && s.allowsOvertaking() &&
		v.budget() >= 2*SafeDistance &&
		s.gapAhead(i+1) >= SafeDistance {
		s.overtake(i)
	}
}

// handOff moves the frontmost vehicle onto target.
func (s *Segment) handOff(target *Segment) {
	last := len(s.vehicles) - 1
	v := s.at(last)
	if v.position != s.Length {
		panic(fmt.Sprintf("%s: hand off %s not at end", s, v))
	}
	s.vehicles = slices.Delete(s.vehicles, last, last+1)
	target.admit(v)
	v.turned()
	zap.S().Debugf("%s: %s turned onto %s", s, v, target)
}

// overtake moves the vehicle at index i just ahead of the vehicle at i+1.
// The overtaking vehicle may use the rest of its budget but does not turn or overtake again.
func (s *Segment) overtake(i int) {
	v := s.at(i)
	gap := s.gapAhead(i)
	if !s.allowsOvertaking() || v.budget() < gap+2*SafeDistance || s.gapAhead(i+1) < SafeDistance {
		panic(fmt.Sprintf("%s: %s cannot overtake", s, v))
	}
	overtaken := s.at(i + 1)
	v.advance(gap + 2*SafeDistance)
	s.vehicles[i], s.vehicles[i+1] = s.vehicles[i+1], s.vehicles[i]
	zap.S().Debugf("%s: %s overtook %s", s, v, overtaken)
	s.advance(i+1, false, false)
}

// update moves every vehicle on s once, frontmost first, so each vehicle sees the updated
// position of the one ahead.
func (s *Segment) update() {
	for i := len(s.vehicles) - 1; i >= 0; i-- {
		v := s.at(i)
		if v.updated {
			continue
		}
		mileage := v.mileage
		v.accelerate(s.SpeedLimit)
		s.advance(i, true, true)
		if v.mileage == mileage {
			v.stop()
		}
		v.updated = true
	}
}

func (s *Segment) state() SegmentState {
	ss := SegmentState{
		ID:         s.ID,
		Start:      s.Start,
		End:        s.End,
		Length:     s.Length,
		Lanes:      s.Lanes,
		SpeedLimit: s.SpeedLimit,
		Vehicles:   make([]VehicleState, 0, len(s.vehicles)),
	}
	for i := range s.vehicles {
		ss.Vehicles = append(ss.Vehicles, s.at(i).State())
	}
	return ss
}
