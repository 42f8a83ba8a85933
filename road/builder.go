package road

import "go.uber.org/zap"

// Builder accumulates junctions, segments and vehicles and validates each as it is added.
// A failed call leaves the Builder as it was before the call.
type Builder struct {
	a      *arena
	nextID SegmentID
}

func NewBuilder() *Builder {
	return &Builder{a: newArena()}
}

// AddJunction adds a roundabout if greenPhase is 0, or a signaled junction otherwise.
func (b *Builder) AddJunction(id JunctionID, greenPhase int) error {
	if b.a == nil {
		return ErrConsumed
	}
	if _, ok := b.a.junctions[id]; ok {
		return buildErrorf("junction id %d is not unique", id)
	}
	j, err := newJunction(b.a, id, greenPhase)
	if err != nil {
		return err
	}
	b.a.junctions[id] = j
	return nil
}

// Connect adds a segment from start to end and returns its ID.
func (b *Builder) Connect(start, end JunctionID, length, lanes, speedLimit int) (SegmentID, error) {
	if b.a == nil {
		return 0, ErrConsumed
	}
	startJ, ok := b.a.junctions[start]
	if !ok {
		return 0, buildErrorf("junction %d does not exist", start)
	}
	endJ, ok := b.a.junctions[end]
	if !ok {
		return 0, buildErrorf("junction %d does not exist", end)
	}
	if start == end {
		return 0, buildErrorf("segment %d cannot start and end at junction %d", b.nextID, start)
	}
	s, err := newSegment(b.a, b.nextID, start, end, length, lanes, speedLimit)
	if err != nil {
		return 0, err
	}
	if err := startJ.canConnect(); err != nil {
		return 0, err
	}
	if err := endJ.canBeReached(); err != nil {
		return 0, err
	}
	startJ.outgoing = append(startJ.outgoing, s.ID)
	endJ.incoming = append(endJ.incoming, s.ID)
	b.a.segments = append(b.a.segments, s)
	b.nextID++
	return s.ID, nil
}

// PutVehicle places a new vehicle at the rear of a segment.
func (b *Builder) PutVehicle(id VehicleID, segment SegmentID, targetSpeed, acceleration int) error {
	if b.a == nil {
		return ErrConsumed
	}
	if _, ok := b.a.vehicles[id]; ok {
		return buildErrorf("vehicle id %d is not unique", id)
	}
	if segment < 0 || int(segment) >= len(b.a.segments) {
		return buildErrorf("segment %d does not exist", segment)
	}
	_, err := b.a.segments[segment].place(id, targetSpeed, acceleration)
	return err
}

// Build checks that every junction can be entered and left, and returns the Network.
// The Builder cannot be used afterwards.
func (b *Builder) Build() (*Network, error) {
	if b.a == nil {
		return nil, ErrConsumed
	}
	n := newNetwork(b.a)
	for _, j := range n.junctions {
		if !j.hasEnoughSegments() {
			return nil, buildErrorf("junction %d needs at least 1 incoming and 1 outgoing segment", j.ID)
		}
	}
	b.a = nil
	zap.S().Debugf("built network: %d junctions, %d segments, %d vehicles", len(n.junctions), len(n.a.segments), len(n.a.vehicles))
	return n, nil
}
