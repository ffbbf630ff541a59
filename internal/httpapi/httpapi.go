// Package httpapi serves the lab backend as a small JSON API consumed
// by the bench widgets.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/benchtop-sh/benchtop/internal/lab"
)

// Server wires the lab store to HTTP handlers.
type Server struct {
	store *lab.Store
	log   *slog.Logger
	mux   *http.ServeMux
}

func NewServer(store *lab.Store, log *slog.Logger) *Server {
	s := &Server{store: store, log: log, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("GET /api/chemicals", s.handleListChemicals)
	s.mux.HandleFunc("POST /api/chemicals", s.handlePutChemical)
	s.mux.HandleFunc("GET /api/chemicals/{id}", s.handleGetChemical)
	s.mux.HandleFunc("DELETE /api/chemicals/{id}", s.handleDeleteChemical)

	s.mux.HandleFunc("GET /api/equipment", s.handleListEquipment)
	s.mux.HandleFunc("POST /api/equipment", s.handlePutEquipment)
	s.mux.HandleFunc("DELETE /api/equipment/{id}", s.handleDeleteEquipment)

	s.mux.HandleFunc("GET /api/experiments", s.handleListExperiments)
	s.mux.HandleFunc("POST /api/experiments", s.handlePutExperiment)
	s.mux.HandleFunc("DELETE /api/experiments/{id}", s.handleDeleteExperiment)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, lab.ErrNotFound) {
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListChemicals(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Chemicals())
}

func (s *Server) handlePutChemical(w http.ResponseWriter, r *http.Request) {
	var c lab.Chemical
	if !s.decode(w, r, &c) {
		return
	}
	saved, err := s.store.PutChemical(c)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGetChemical(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Chemical(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteChemical(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteChemical(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListEquipment(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.AllEquipment())
}

func (s *Server) handlePutEquipment(w http.ResponseWriter, r *http.Request) {
	var e lab.Equipment
	if !s.decode(w, r, &e) {
		return
	}
	saved, err := s.store.PutEquipment(e)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteEquipment(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteEquipment(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListExperiments(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Experiments())
}

func (s *Server) handlePutExperiment(w http.ResponseWriter, r *http.Request) {
	var e lab.Experiment
	if !s.decode(w, r, &e) {
		return
	}
	saved, err := s.store.PutExperiment(e)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteExperiment(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteExperiment(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
