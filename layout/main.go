package layout

import (
	"fmt"

	"nyiyui.ca/hato/kotsu/road"
)

// JunctionRecord describes one junction. A GreenPhase of 0 makes a roundabout.
type JunctionRecord struct {
	ID         int `json:"id"`
	GreenPhase int `json:"green-phase"`
}

func (r JunctionRecord) String() string {
	return fmt.Sprintf("%d:%dt", r.ID, r.GreenPhase)
}

// SegmentRecord describes one segment. Segments get their IDs in the order they are listed.
type SegmentRecord struct {
	Start      int `json:"start"`
	End        int `json:"end"`
	Length     int `json:"length"`
	Lanes      int `json:"lanes"`
	SpeedLimit int `json:"speed-limit"`
}

func (r SegmentRecord) String() string {
	return fmt.Sprintf("%d-->%d:%dm,%dx,%dmax", r.Start, r.End, r.Length, r.Lanes, r.SpeedLimit)
}

type VehicleRecord struct {
	ID           int `json:"id"`
	Segment      int `json:"segment"`
	TargetSpeed  int `json:"target-speed"`
	Acceleration int `json:"acceleration"`
}

func (r VehicleRecord) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.ID, r.Segment, r.TargetSpeed, r.Acceleration)
}

// Layout is the full description of a network before it is built.
type Layout struct {
	Junctions []JunctionRecord `json:"junctions"`
	Segments  []SegmentRecord  `json:"segments"`
	Vehicles  []VehicleRecord  `json:"vehicles"`
}

// Build feeds every record to a road.Builder, junctions first, then segments, then vehicles.
func (y *Layout) Build() (*road.Network, error) {
	b := road.NewBuilder()
	for i, r := range y.Junctions {
		if err := b.AddJunction(road.JunctionID(r.ID), r.GreenPhase); err != nil {
			return nil, fmt.Errorf("junction %d (%s): %w", i, r, err)
		}
	}
	for i, r := range y.Segments {
		if _, err := b.Connect(road.JunctionID(r.Start), road.JunctionID(r.End), r.Length, r.Lanes, r.SpeedLimit); err != nil {
			return nil, fmt.Errorf("segment %d (%s): %w", i, r, err)
		}
	}
	for i, r := range y.Vehicles {
		if err := b.PutVehicle(road.VehicleID(r.ID), road.SegmentID(r.Segment), r.TargetSpeed, r.Acceleration); err != nil {
			return nil, fmt.Errorf("vehicle %d (%s): %w", i, r, err)
		}
	}
	return b.Build()
}
