// Package trace keeps the snapshot of every tick of a run so it can be looked up later.
package trace

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/buntdb"
	"go.uber.org/zap"
	"nyiyui.ca/hato/kotsu/road"
)

// InMemory is the path that keeps the trace in memory only.
const InMemory = ":memory:"

var ErrNotFound = errors.New("not in trace")

type Recorder struct {
	db *buntdb.DB
}

func Open(path string) (*Recorder, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Recorder{db: db}, nil
}

func (r *Recorder) Close() error {
	return r.db.Close()
}

func tickKey(run uuid.UUID, tick int) string {
	return fmt.Sprintf("run:%s:tick:%010d", run, tick)
}

func runPattern(run uuid.UUID) string {
	return fmt.Sprintf("run:%s:tick:*", run)
}

// Record stores snap under its tick. Recording the same tick twice replaces the first one.
func (r *Recorder) Record(run uuid.UUID, snap road.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal tick %d: %w", snap.Tick, err)
	}
	return r.db.Update(func(tx *buntdb.Tx) error {
		_, replaced, err := tx.Set(tickKey(run, snap.Tick), string(data), nil)
		if err != nil {
			return err
		}
		if replaced {
			zap.S().Debugf("trace: run %s: replaced tick %d", run, snap.Tick)
		}
		return nil
	})
}

func (r *Recorder) Snapshot(run uuid.UUID, tick int) (road.Snapshot, error) {
	var snap road.Snapshot
	err := r.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(tickKey(run, tick))
		if errors.Is(err, buntdb.ErrNotFound) {
			return fmt.Errorf("run %s tick %d: %w", run, tick, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(value), &snap)
	})
	return snap, err
}

// Ticks returns how many ticks of run were recorded.
func (r *Recorder) Ticks(run uuid.UUID) (int, error) {
	n := 0
	err := r.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(runPattern(run), func(key, value string) bool {
			n++
			return true
		})
	})
	return n, err
}

type Entry struct {
	Tick  int               `json:"tick"`
	State road.VehicleState `json:"state"`
}

// VehicleHistory returns the state of vehicle id at every recorded tick of run, in tick order.
func (r *Recorder) VehicleHistory(run uuid.UUID, id road.VehicleID) ([]Entry, error) {
	entries := make([]Entry, 0)
	var iterErr error
	err := r.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(runPattern(run), func(key, value string) bool {
			var snap road.Snapshot
			if err := json.Unmarshal([]byte(value), &snap); err != nil {
				iterErr = fmt.Errorf("key %s: %w", key, err)
				return false
			}
			for _, ss := range snap.Segments {
				for _, vs := range ss.Vehicles {
					if vs.ID == id {
						entries = append(entries, Entry{Tick: snap.Tick, State: vs})
					}
				}
			}
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	if iterErr != nil {
		return nil, iterErr
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("run %s vehicle %d: %w", run, id, ErrNotFound)
	}
	return entries, nil
}
