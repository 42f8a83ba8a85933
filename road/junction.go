package road

import "fmt"

const (
	// MaxSegmentsPerSide limits both incoming and outgoing segments of a junction.
	MaxSegmentsPerSide = 4

	MinGreenPhase = 3
	MaxGreenPhase = 10
)

type JunctionID int

// JunctionKind selects how a junction grants right of way.
type JunctionKind int

const (
	// KindRoundabout grants right of way to every incoming segment at all times.
	KindRoundabout JunctionKind = iota
	// KindSignaled grants right of way to one incoming segment at a time, in turn.
	KindSignaled
)

func (k JunctionKind) String() string {
	switch k {
	case KindRoundabout:
		return "roundabout"
	case KindSignaled:
		return "signaled"
	default:
		return fmt.Sprintf("JunctionKind(%d)", int(k))
	}
}

func (k JunctionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *JunctionKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "roundabout":
		*k = KindRoundabout
	case "signaled":
		*k = KindSignaled
	default:
		return fmt.Errorf("unknown junction kind %q", text)
	}
	return nil
}

type Junction struct {
	ID   JunctionID
	Kind JunctionKind

	a *arena
	// incoming and outgoing are in connection order. An index into outgoing is a turn direction.
	incoming []SegmentID
	outgoing []SegmentID

	// Below: for KindSignaled only

	// period is the number of ticks one incoming segment keeps right of way.
	period    int
	countdown int
	// green indexes incoming.
	green int
}

func newJunction(a *arena, id JunctionID, greenPhase int) (*Junction, error) {
	if id < 0 {
		return nil, buildErrorf("junction id must not be negative (got %d)", id)
	}
	j := &Junction{
		ID:       id,
		Kind:     KindRoundabout,
		a:        a,
		incoming: make([]SegmentID, 0, MaxSegmentsPerSide),
		outgoing: make([]SegmentID, 0, MaxSegmentsPerSide),
	}
	if greenPhase == 0 {
		return j, nil
	}
	if greenPhase < MinGreenPhase || greenPhase > MaxGreenPhase {
		return nil, buildErrorf("junction %d: green phase must be 0 or between %d and %d (got %d)", id, MinGreenPhase, MaxGreenPhase, greenPhase)
	}
	j.Kind = KindSignaled
	j.period = greenPhase
	j.countdown = greenPhase
	return j, nil
}

func (j *Junction) String() string {
	return fmt.Sprintf("<j:%d %s>", j.ID, j.Kind)
}

func (j *Junction) canConnect() error {
	if len(j.outgoing) >= MaxSegmentsPerSide {
		return buildErrorf("junction %d already has %d outgoing segments", j.ID, MaxSegmentsPerSide)
	}
	return nil
}

func (j *Junction) canBeReached() error {
	if len(j.incoming) >= MaxSegmentsPerSide {
		return buildErrorf("junction %d already has %d incoming segments", j.ID, MaxSegmentsPerSide)
	}
	return nil
}

func (j *Junction) hasEnoughSegments() bool {
	return len(j.incoming) >= 1 && len(j.outgoing) >= 1
}

func (j *Junction) grantsRightOfWay(s SegmentID) bool {
	switch j.Kind {
	case KindRoundabout:
		return true
	case KindSignaled:
		return j.incoming[j.green] == s
	default:
		panic(fmt.Sprintf("%s: unknown kind", j))
	}
}

// turnTargetFor returns the segment v may turn onto right now, or nil if v has to wait.
func (j *Junction) turnTargetFor(v *Vehicle) *Segment {
	if !j.grantsRightOfWay(v.segment) {
		return nil
	}
	// a direction past the last outgoing segment falls back to the first one
	d := v.direction
	if d >= len(j.outgoing) {
		d = 0
	}
	target := j.a.segments[j.outgoing[d]]
	if target.IsFull() {
		return nil
	}
	return target
}

func (j *Junction) update() {
	switch j.Kind {
	case KindRoundabout:
	case KindSignaled:
		j.countdown--
		if j.countdown <= 0 {
			j.green = (j.green + 1) % len(j.incoming)
			j.countdown = j.period
		}
	default:
		panic(fmt.Sprintf("%s: unknown kind", j))
	}
}

func (j *Junction) state() JunctionState {
	js := JunctionState{
		ID:    j.ID,
		Kind:  j.Kind,
		Green: -1,
	}
	if j.Kind == KindSignaled {
		js.Green = j.incoming[j.green]
		js.Countdown = j.countdown
	}
	return js
}
