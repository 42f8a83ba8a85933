// Package sakuragi serves an HTML page showing the current state of a simulation.
package sakuragi

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/Masterminds/sprig/v3"
	"go.uber.org/zap"
	"nyiyui.ca/hato/kotsu/road"
	"nyiyui.ca/hato/kotsu/sim"
)

//go:embed index.html
var templates embed.FS

type Server struct {
	sim *sim.Simulation
	sm  *http.ServeMux
	t   *template.Template
}

func NewServer(s *sim.Simulation) *Server {
	ss := &Server{
		sim: s,
		sm:  http.NewServeMux(),
	}
	ss.t = template.Must(template.New("index").Funcs(sprig.FuncMap()).ParseFS(templates, "*.html"))
	ss.sm.HandleFunc("/", ss.handleIndex)
	return ss
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	snap, err := s.sim.Snapshot()
	loaded := true
	if errors.Is(err, sim.ErrNoNetwork) {
		loaded = false
		snap = road.Snapshot{}
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(200)
	err = s.t.ExecuteTemplate(w, "index", map[string]interface{}{
		"comment": s.sim.Comment,
		"loaded":  loaded,
		"run":     s.sim.RunID().String(),
		"snap":    snap,
	})
	if err != nil {
		zap.S().Errorf("sakuragi: execute: %s", err)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.sm.ServeHTTP(w, r)
}
