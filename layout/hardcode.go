package layout

// InitShuttle is two signaled junctions joined by a 100 m two-lane road in each direction,
// with one vehicle.
func InitShuttle() *Layout {
	return &Layout{
		Junctions: []JunctionRecord{
			{ID: 1, GreenPhase: 5},
			{ID: 2, GreenPhase: 5},
		},
		Segments: []SegmentRecord{
			{Start: 1, End: 2, Length: 100, Lanes: 2, SpeedLimit: 40},
			{Start: 2, End: 1, Length: 100, Lanes: 2, SpeedLimit: 40},
		},
		Vehicles: []VehicleRecord{
			{ID: 0, Segment: 0, TargetSpeed: 30, Acceleration: 5},
		},
	}
}

// InitLongRoad has a single-lane 10 km road into a signaled junction that initially shows
// green to a different road.
func InitLongRoad() *Layout {
	return &Layout{
		Junctions: []JunctionRecord{
			{ID: 0, GreenPhase: 3},
			{ID: 1, GreenPhase: 0},
		},
		Segments: []SegmentRecord{
			{Start: 1, End: 0, Length: 10, Lanes: 1, SpeedLimit: 40},
			{Start: 1, End: 0, Length: 10000, Lanes: 1, SpeedLimit: 40},
			{Start: 0, End: 1, Length: 10, Lanes: 1, SpeedLimit: 40},
		},
		Vehicles: []VehicleRecord{
			{ID: 0, Segment: 1, TargetSpeed: 40, Acceleration: 10},
		},
	}
}

// InitRing is four junctions (two roundabouts, two signaled) in a ring of two-lane roads with
// single-lane roads running back the other way. Slow and fast vehicles share every road.
func InitRing() *Layout {
	y := &Layout{}
	for id := 0; id < 4; id++ {
		greenPhase := 0
		if id%2 == 1 {
			greenPhase = 3 + id
		}
		y.Junctions = append(y.Junctions, JunctionRecord{ID: id, GreenPhase: greenPhase})
	}
	for id := 0; id < 4; id++ {
		y.Segments = append(y.Segments,
			SegmentRecord{Start: id, End: (id + 1) % 4, Length: 200 + 50*id, Lanes: 2, SpeedLimit: 40},
			SegmentRecord{Start: (id + 1) % 4, End: id, Length: 120, Lanes: 1, SpeedLimit: 25},
		)
	}
	vid := 0
	for s := range y.Segments {
		for k := 0; k < 4; k++ {
			target, accel := 20, 2
			if k%2 == 1 {
				target, accel = 40, 10
			}
			y.Vehicles = append(y.Vehicles, VehicleRecord{ID: vid, Segment: s, TargetSpeed: target, Acceleration: accel})
			vid++
		}
	}
	return y
}

// Presets maps preset names to their constructors.
var Presets = map[string]func() *Layout{
	"shuttle":   InitShuttle,
	"long-road": InitLongRoad,
	"ring":      InitRing,
}
