package road

import "fmt"

// VehicleState is the plain data view of a vehicle handed to adapters.
type VehicleState struct {
	ID       VehicleID `json:"id"`
	Segment  SegmentID `json:"segment"`
	Speed    int       `json:"speed"`
	Position int       `json:"position"`
}

func (vs VehicleState) String() string {
	return fmt.Sprintf("vehicle %d on segment %d (speed %d, position %d)", vs.ID, vs.Segment, vs.Speed, vs.Position)
}

type SegmentState struct {
	ID         SegmentID  `json:"id"`
	Start      JunctionID `json:"start"`
	End        JunctionID `json:"end"`
	Length     int        `json:"length"`
	Lanes      int        `json:"lanes"`
	SpeedLimit int        `json:"speed-limit"`
	// Vehicles is ordered rear to front.
	Vehicles []VehicleState `json:"vehicles"`
}

// IsFull reports whether the rearmost vehicle blocks entry, like Segment.IsFull.
func (ss SegmentState) IsFull() bool {
	return len(ss.Vehicles) > 0 && ss.Vehicles[0].Position < SafeDistance
}

type JunctionState struct {
	ID   JunctionID   `json:"id"`
	Kind JunctionKind `json:"kind"`
	// Green is the incoming segment holding right of way. It is -1 for roundabouts.
	Green     SegmentID `json:"green"`
	Countdown int       `json:"countdown"`
}

// Snapshot is a copy of the whole network state after a tick.
type Snapshot struct {
	Tick      int             `json:"tick"`
	Segments  []SegmentState  `json:"segments"`
	Junctions []JunctionState `json:"junctions"`
}

// VehicleCount sums the vehicles over every segment.
func (s Snapshot) VehicleCount() int {
	n := 0
	for _, ss := range s.Segments {
		n += len(ss.Vehicles)
	}
	return n
}
