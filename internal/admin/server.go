// Package admin exposes the HTTP surface for zone management and
// entity monitoring.
package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"geosentry/internal/anomaly"
	"geosentry/internal/engine"
	"geosentry/internal/geo"
	"geosentry/internal/logging"
	"geosentry/internal/sim"
	"geosentry/internal/zone"
)

//go:embed templates/index.html
var content embed.FS

// Server serves zone CRUD, entity status, event management, and
// on-demand checks over HTTP.
type Server struct {
	eng      *engine.Engine
	snapshot func() []sim.EntityStatus
	tpl      *template.Template
}

// NewServer builds a server around the engine. snapshot may be nil when
// no live runner exists; the /entities endpoint then returns an empty
// list.
func NewServer(eng *engine.Engine, snapshot func() []sim.EntityStatus) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	if snapshot == nil {
		snapshot = func() []sim.EntityStatus { return nil }
	}
	return &Server{eng: eng, snapshot: snapshot, tpl: tpl}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /zones", s.handleListZones)
	mux.HandleFunc("POST /zones", s.handleUpsertZone)
	mux.HandleFunc("GET /zones/{id}", s.handleGetZone)
	mux.HandleFunc("DELETE /zones/{id}", s.handleRemoveZone)
	mux.HandleFunc("GET /entities", s.handleEntities)
	mux.HandleFunc("GET /entities/{id}/history", s.handleHistory)
	mux.HandleFunc("GET /entities/{id}/events", s.handleEvents)
	mux.HandleFunc("POST /entities/{id}/events/{event}/resolve", s.handleResolve)
	mux.HandleFunc("POST /check", s.handleCheck)
	mux.HandleFunc("POST /anomalies", s.handleAnomalies)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return mux
}

// Start serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	log := logging.FromContext(ctx)
	srv := &http.Server{Addr: addr, Handler: s.routes()}

	errCh := make(chan error, 1)
	go func() {
		log.Info("admin server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Zones    []zone.SafeZone
		Entities []sim.EntityStatus
	}{
		Zones:    s.eng.Registry().List(zone.ListFilter{}),
		Entities: s.snapshot(),
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleListZones(w http.ResponseWriter, r *http.Request) {
	f := zone.ListFilter{
		Type:       zone.Type(r.URL.Query().Get("type")),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	writeJSON(w, http.StatusOK, s.eng.Registry().List(f))
}

func (s *Server) handleUpsertZone(w http.ResponseWriter, r *http.Request) {
	var z zone.SafeZone
	if err := json.NewDecoder(r.Body).Decode(&z); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id, err := s.eng.Registry().Upsert(z)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	z.ID = id
	writeJSON(w, http.StatusOK, z)
}

func (s *Server) handleGetZone(w http.ResponseWriter, r *http.Request) {
	z, err := s.eng.Registry().Get(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, zone.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, z)
}

func (s *Server) handleRemoveZone(w http.ResponseWriter, r *http.Request) {
	if !s.eng.Registry().Remove(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, zone.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	statuses := s.snapshot()
	if statuses == nil {
		statuses = []sim.EntityStatus{}
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, s.eng.History(r.PathValue("id"), limit))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.eng.Events(r.PathValue("id")))
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if !s.eng.ResolveEvent(r.PathValue("id"), r.PathValue("event")) {
		writeError(w, http.StatusNotFound, errors.New("event not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCheck answers a point-in-zone query without recording anything.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var p geo.Point
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m, err := s.eng.EvaluateMembership(p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleAnomalies scores a behavior sample on demand.
func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	var sample anomaly.BehaviorSample
	if err := json.NewDecoder(r.Body).Decode(&sample); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if sample.EntityID == "" {
		writeError(w, http.StatusBadRequest, errors.New("entity_id required"))
		return
	}
	verdicts := s.eng.DetectBehaviorAnomalies(sample)
	if verdicts == nil {
		verdicts = []anomaly.Verdict{}
	}
	writeJSON(w, http.StatusOK, verdicts)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"zones":  len(s.eng.Registry().List(zone.ListFilter{})),
	})
}
