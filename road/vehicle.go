package road

import "fmt"

const (
	MinTargetSpeed  = 20
	MaxTargetSpeed  = 40
	MinAcceleration = 1
	MaxAcceleration = 10
)

type VehicleID int

// Vehicle is the runtime state of a single car.
// A Vehicle is only ever mutated by the Segment whose vehicle list holds its ID.
type Vehicle struct {
	ID VehicleID
	// TargetSpeed caps speed regardless of the segment's speed limit.
	TargetSpeed int
	// Acceleration is added to the speed once per tick.
	Acceleration int

	speed    int
	position int
	segment  SegmentID

	// mileage is the distance travelled since creation.
	mileage int
	// mileageTick is mileage at the start of the current tick's acceleration phase.
	mileageTick int

	// direction selects the outgoing segment tried at the next junction.
	direction int

	// updated is set once the vehicle has moved this tick, so that a vehicle handed off
	// onto a segment updated later in the same tick is not moved twice.
	updated bool
}

func newVehicle(id VehicleID, targetSpeed, acceleration int, segment SegmentID) (*Vehicle, error) {
	if id < 0 {
		return nil, buildErrorf("vehicle id must not be negative (got %d)", id)
	}
	if targetSpeed < MinTargetSpeed || targetSpeed > MaxTargetSpeed {
		return nil, buildErrorf("vehicle %d: target speed must be between %d and %d (got %d)", id, MinTargetSpeed, MaxTargetSpeed, targetSpeed)
	}
	if acceleration < MinAcceleration || acceleration > MaxAcceleration {
		return nil, buildErrorf("vehicle %d: acceleration must be between %d and %d (got %d)", id, MinAcceleration, MaxAcceleration, acceleration)
	}
	return &Vehicle{
		ID:           id,
		TargetSpeed:  targetSpeed,
		Acceleration: acceleration,
		segment:      segment,
	}, nil
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("<v:%d s%d p%d v%d>", v.ID, v.segment, v.position, v.speed)
}

// accelerate raises the speed by one increment, capped by both the target speed and limit,
// and starts a new movement budget.
func (v *Vehicle) accelerate(limit int) {
	v.speed += v.Acceleration
	if v.speed > v.TargetSpeed {
		v.speed = v.TargetSpeed
	}
	if v.speed > limit {
		v.speed = limit
	}
	v.mileageTick = v.mileage
}

// budget returns how far the vehicle may still move this tick.
func (v *Vehicle) budget() int {
	return v.speed - (v.mileage - v.mileageTick)
}

// advance panics if d is outside [0, budget].
func (v *Vehicle) advance(d int) {
	if d < 0 {
		panic(fmt.Sprintf("%s: advance by negative distance %d", v, d))
	}
	if d > v.budget() {
		panic(fmt.Sprintf("%s: advance by %d exceeds budget %d", v, d, v.budget()))
	}
	v.position += d
	v.mileage += d
}

func (v *Vehicle) stop() {
	v.speed = 0
}

func (v *Vehicle) resetPosition() {
	v.position = 0
}

func (v *Vehicle) relocate(s SegmentID) {
	v.segment = s
}

// turned moves the direction counter on to the next outgoing segment.
func (v *Vehicle) turned() {
	v.direction++
	if v.direction >= MaxSegmentsPerSide {
		v.direction = 0
	}
}

// State returns the externally visible part of v.
func (v *Vehicle) State() VehicleState {
	return VehicleState{
		ID:       v.ID,
		Segment:  v.segment,
		Speed:    v.speed,
		Position: v.position,
	}
}
