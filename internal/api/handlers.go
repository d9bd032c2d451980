// Package api exposes the reading-cycle services over HTTP with JSON
// bodies. Handlers decode requests, delegate to the primary ports, and
// translate domain errors to statuses; no business rules live here.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/example/meterdesk/internal/ports/primary"
)

// Server holds the service dependencies of the HTTP handlers.
type Server struct {
	cycles      primary.CycleService
	assignments primary.AssignmentService
	progress    primary.ProgressService
	exports     primary.ExportService
}

// NewServer creates a Server with the given services.
func NewServer(cycles primary.CycleService, assignments primary.AssignmentService, progress primary.ProgressService, exports primary.ExportService) *Server {
	return &Server{
		cycles:      cycles,
		assignments: assignments,
		progress:    progress,
		exports:     exports,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) createCycle(w http.ResponseWriter, r *http.Request) {
	var req primary.CreateCycleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cyc, err := s.cycles.CreateCycle(r.Context(), req)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cyc)
}

func (s *Server) updateCycle(w http.ResponseWriter, r *http.Request) {
	var req primary.UpdateCycleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.CycleID = mux.Vars(r)["id"]
	cyc, err := s.cycles.UpdateCycle(r.Context(), req)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cyc)
}

func (s *Server) cancelCycle(w http.ResponseWriter, r *http.Request) {
	cyc, err := s.cycles.CancelCycle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cyc)
}

func (s *Server) completeCycle(w http.ResponseWriter, r *http.Request) {
	cyc, err := s.cycles.CompleteCycle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cyc)
}

func (s *Server) getCycle(w http.ResponseWriter, r *http.Request) {
	cyc, err := s.cycles.GetCycle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cyc)
}

func (s *Server) listCycles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := primary.CycleFilters{
		ServiceID:   q.Get("serviceId"),
		Status:      q.Get("status"),
		OverlapFrom: q.Get("overlapFrom"),
		OverlapTo:   q.Get("overlapTo"),
	}
	cycles, err := s.cycles.ListCycles(r.Context(), filters)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cycles": cycles})
}

func (s *Server) cycleProgress(w http.ResponseWriter, r *http.Request) {
	prog, err := s.progress.CycleProgress(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prog)
}

func (s *Server) cycleUnassigned(w http.ResponseWriter, r *http.Request) {
	info, err := s.progress.ComputeUnassigned(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) exportCycle(w http.ResponseWriter, r *http.Request) {
	result, err := s.exports.ExportCycle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) listCycleExports(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.exports.ListExports(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exports": receipts})
}

func (s *Server) listCycleAssignments(w http.ResponseWriter, r *http.Request) {
	asgs, err := s.assignments.ListAssignments(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": asgs})
}

func (s *Server) createAssignment(w http.ResponseWriter, r *http.Request) {
	var req primary.CreateAssignmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	asg, err := s.assignments.CreateAssignment(r.Context(), req)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, asg)
}

func (s *Server) getAssignment(w http.ResponseWriter, r *http.Request) {
	asg, err := s.assignments.GetAssignment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asg)
}

func (s *Server) cancelAssignment(w http.ResponseWriter, r *http.Request) {
	asg, err := s.assignments.CancelAssignment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asg)
}

func (s *Server) completeAssignment(w http.ResponseWriter, r *http.Request) {
	asg, err := s.assignments.CompleteAssignment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asg)
}

func (s *Server) assignmentProgress(w http.ResponseWriter, r *http.Request) {
	prog, err := s.progress.AssignmentProgress(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prog)
}
