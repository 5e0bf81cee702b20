package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fsantini/nimpulseqgui/domain/core"
	"github.com/fsantini/nimpulseqgui/domain/protocol"
	"github.com/fsantini/nimpulseqgui/internal/preamble"
)

// PropertyView is the wire representation of one property.
type PropertyView struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Value      string   `json:"value"`
	Unit       string   `json:"unit,omitempty"`
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
	Step       *float64 `json:"step,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
	Search     bool     `json:"search"`
	Changed    bool     `json:"changed"`
}

type setValueRequest struct {
	Value string `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type warningsResponse struct {
	Warnings []string `json:"warnings"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetProtocol(w http.ResponseWriter, r *http.Request) {
	live := s.service.Protocol()
	views := make([]PropertyView, 0, live.Len())
	for _, name := range live.Names() {
		prop, _ := live.Get(name)
		views = append(views, viewOf(name, prop))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSetValue(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req setValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	err := s.service.SetValue(r.Context(), name, req.Value)
	switch {
	case err == nil:
		s.handleGetProtocol(w, r)
	case core.IsValidationFailure(err):
		// Expected outcome: the oracle said no. 422, not 500.
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case core.IsParseFailure(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.service.Search(r.Context(), name); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	live := s.service.Protocol()
	prop, ok := live.Get(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "property vanished"})
		return
	}
	writeJSON(w, http.StatusOK, viewOf(name, prop))
}

func (s *Server) handleGetPreamble(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.service.EncodePreamble()))
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.service.SaveSnapshot(r.Context(), name); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"saved": name})
}

func (s *Server) handleRestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	warnings, err := s.service.RestoreSnapshot(r.Context(), name)
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsParseFailure(err) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, warningsResponse{Warnings: warningStrings(warnings)})
}

func viewOf(name string, prop protocol.Property) PropertyView {
	view := PropertyView{
		Name:    name,
		Kind:    string(prop.Kind()),
		Value:   preamble.FormatValue(prop),
		Unit:    prop.Meta().Unit,
		Search:  prop.Meta().Strategy == protocol.SearchEnabled,
		Changed: prop.Meta().Changed,
	}
	switch p := prop.(type) {
	case *protocol.IntegerProperty:
		view.Min = floatPtr(float64(p.Min))
		view.Max = floatPtr(float64(p.Max))
		view.Step = floatPtr(float64(p.Step))
	case *protocol.RealProperty:
		view.Min = floatPtr(p.Min)
		view.Max = floatPtr(p.Max)
		view.Step = floatPtr(p.Step)
	case *protocol.EnumeratedProperty:
		view.Candidates = append([]string(nil), p.Candidates...)
	}
	return view
}

func warningStrings(warnings []preamble.Warning) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.String())
	}
	return out
}

func floatPtr(v float64) *float64 {
	return &v
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
