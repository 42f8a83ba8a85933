package kujo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"nyiyui.ca/hato/kotsu/layout"
	"nyiyui.ca/hato/kotsu/road"
	"nyiyui.ca/hato/kotsu/sim"
)

func newServer(t *testing.T) (*sim.Simulation, *Server) {
	t.Helper()
	s, err := sim.New("test", sim.Conf{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetLayout(layout.InitShuttle()); err != nil {
		t.Fatal(err)
	}
	ks := NewServer(s)
	t.Cleanup(func() {
		ks.Close()
		s.Close()
	})
	return s, ks
}

func TestEvent(t *testing.T) {
	s, _ := newServer(t)
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	// a snapshot from an earlier run keeps that run's id even after a reload
	run := uuid.New()
	ev, err := event(sim.RunSnapshot{Run: run, Snapshot: snap})
	if err != nil {
		t.Fatal(err)
	}
	if run == s.RunID() {
		t.Fatal("expected distinct runs")
	}
	if expected := fmt.Sprintf("%s/0", run); string(ev.ID) != expected {
		t.Fatalf("id: expected %s, got %s", expected, ev.ID)
	}
	var got road.Snapshot
	if err := json.Unmarshal(ev.Data, &got); err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(snap, got) {
		t.Fatalf("data: %s", cmp.Diff(snap, got))
	}
}

func TestForwardsWhileSimulating(t *testing.T) {
	s, ks := newServer(t)
	if err := s.Simulate(3); err != nil {
		t.Fatal(err)
	}
	if s.Snapshots.Len() != 1 {
		t.Fatalf("expected kujo to be subscribed, got %d subscribers", s.Snapshots.Len())
	}
	ks.Close()
	if s.Snapshots.Len() != 0 {
		t.Fatalf("expected no subscribers after close, got %d", s.Snapshots.Len())
	}
}

func TestCORS(t *testing.T) {
	_, ks := newServer(t)
	r := httptest.NewRequest(http.MethodOptions, "/events?stream=snapshot", nil)
	r.Header.Set("Origin", "http://example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	ks.Handler().ServeHTTP(w, r)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected Access-Control-Allow-Origin *, got %q", got)
	}
}
