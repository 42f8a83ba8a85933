// Package sim holds the network a session currently works on and runs it tick by tick.
package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nyiyui.ca/hato/kotsu/layout"
	"nyiyui.ca/hato/kotsu/notify"
	"nyiyui.ca/hato/kotsu/road"
	"nyiyui.ca/hato/kotsu/trace"
)

var (
	ErrNoNetwork = errors.New("no network loaded")
	ErrNoTrace   = errors.New("tracing is disabled")
)

type Conf struct {
	// Check runs road.Network.Check after every tick and panics on failure.
	Check bool
	// Trace records every tick so that History works.
	Trace bool
}

// RunSnapshot is a snapshot labelled with the run it was taken in.
type RunSnapshot struct {
	Run uuid.UUID `json:"run"`
	road.Snapshot
}

type Simulation struct {
	Comment string
	// Snapshots receives the snapshot after a network is loaded and after every tick.
	// It is sent to while the Simulation is locked, so receivers must not call back into it.
	Snapshots *notify.Multiplexer[RunSnapshot]

	conf Conf
	// lock guards every field below.
	lock     sync.Mutex
	network  *road.Network
	run      uuid.UUID
	recorder *trace.Recorder
}

func New(comment string, conf Conf) (*Simulation, error) {
	s := &Simulation{
		Comment:   comment,
		Snapshots: notify.NewMultiplexer[RunSnapshot](comment),
		conf:      conf,
	}
	if conf.Trace {
		r, err := trace.Open(trace.InMemory)
		if err != nil {
			return nil, fmt.Errorf("trace: %w", err)
		}
		s.recorder = r
	}
	return s, nil
}

func (s *Simulation) Close() error {
	if s.recorder != nil {
		return s.recorder.Close()
	}
	return nil
}

// Load reads a layout directory and replaces the current network with it.
// On failure the current network is kept.
func (s *Simulation) Load(dir string) error {
	y, err := layout.Load(dir)
	if err != nil {
		return err
	}
	return s.SetLayout(y)
}

// SetLayout builds y and replaces the current network with it.
// On failure the current network is kept.
func (s *Simulation) SetLayout(y *layout.Layout) error {
	n, err := y.Build()
	if err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.network = n
	s.run = uuid.New()
	zap.S().Infof("%s: run %s: network with %d vehicles", s.Comment, s.run, n.VehicleCount())
	s.afterTick()
	return nil
}

// RunID identifies the currently loaded network. It is uuid.Nil before the first load.
func (s *Simulation) RunID() uuid.UUID {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.run
}

func (s *Simulation) Position(id int) (road.VehicleState, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.network == nil {
		return road.VehicleState{}, ErrNoNetwork
	}
	return s.network.VehicleByID(road.VehicleID(id))
}

// Simulate runs ticks ticks, publishing a snapshot after each.
// The network cannot be replaced until all ticks have run.
func (s *Simulation) Simulate(ticks int) error {
	if ticks < 0 {
		return fmt.Errorf("%w (got %d)", road.ErrNegativeTicks, ticks)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.network == nil {
		return ErrNoNetwork
	}
	for i := 0; i < ticks; i++ {
		s.network.Tick()
		s.afterTick()
	}
	return nil
}

// afterTick checks, records and publishes the current state. It must be called with lock held.
func (s *Simulation) afterTick() {
	if s.conf.Check {
		if err := s.network.Check(); err != nil {
			panic(fmt.Sprintf("%s: tick %d: %s", s.Comment, s.network.Ticks(), err))
		}
	}
	snap := s.network.Snapshot()
	if s.recorder != nil {
		if err := s.recorder.Record(s.run, snap); err != nil {
			zap.S().Errorf("%s: record tick %d: %s", s.Comment, snap.Tick, err)
		}
	}
	s.Snapshots.Send(RunSnapshot{Run: s.run, Snapshot: snap})
}

// Snapshot returns the current state of the network.
func (s *Simulation) Snapshot() (road.Snapshot, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.network == nil {
		return road.Snapshot{}, ErrNoNetwork
	}
	return s.network.Snapshot(), nil
}

// History returns the recorded states of a vehicle in the current run.
func (s *Simulation) History(id int) ([]trace.Entry, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.recorder == nil {
		return nil, ErrNoTrace
	}
	if s.network == nil {
		return nil, ErrNoNetwork
	}
	return s.recorder.VehicleHistory(s.run, road.VehicleID(id))
}
