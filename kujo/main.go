// Package kujo streams snapshots of a simulation to browsers over server-sent events.
package kujo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/r3labs/sse/v2"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"nyiyui.ca/hato/kotsu/sim"
)

const StreamSnapshot = "snapshot"

type Server struct {
	sim  *sim.Simulation
	s    *sse.Server
	ch   chan sim.RunSnapshot
	done chan struct{}
	once sync.Once
}

func NewServer(s *sim.Simulation) *Server {
	ks := &Server{
		sim:  s,
		s:    sse.New(),
		ch:   make(chan sim.RunSnapshot),
		done: make(chan struct{}),
	}
	ks.s.AutoReplay = false
	ks.s.CreateStream(StreamSnapshot)
	s.Snapshots.Subscribe("kujo", ks.ch)
	go ks.forward()
	return ks
}

// Close stops forwarding and disconnects all clients. Closing twice is a no-op.
func (s *Server) Close() {
	s.once.Do(func() {
		s.sim.Snapshots.Unsubscribe(s.ch)
		close(s.done)
	})
}

func (s *Server) forward() {
	defer s.s.Close()
	for {
		var rs sim.RunSnapshot
		select {
		case rs = <-s.ch:
		case <-s.done:
			return
		}
		ev, err := event(rs)
		if err != nil {
			zap.S().Errorf("kujo: %s", err)
			continue
		}
		s.s.TryPublish(StreamSnapshot, ev)
	}
}

// event encodes rs with an id of the form run/tick.
func event(rs sim.RunSnapshot) (*sse.Event, error) {
	data, err := json.Marshal(rs.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal tick %d: %w", rs.Tick, err)
	}
	return &sse.Event{
		ID:    []byte(fmt.Sprintf("%s/%d", rs.Run, rs.Tick)),
		Event: []byte(StreamSnapshot),
		Data:  data,
	}, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.s.ServeHTTP(w, r)
}

// Handler returns the stream wrapped to allow cross-origin clients.
func (s *Server) Handler() http.Handler {
	return cors.Default().Handler(s)
}
