package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter builds the HTTP routing table for the given server.
func NewRouter(s *Server) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods("GET")

	r.HandleFunc("/cycles", s.createCycle).Methods("POST")
	r.HandleFunc("/cycles", s.listCycles).Methods("GET")
	r.HandleFunc("/cycles/{id}", s.getCycle).Methods("GET")
	r.HandleFunc("/cycles/{id}", s.updateCycle).Methods("PUT")
	r.HandleFunc("/cycles/{id}/cancel", s.cancelCycle).Methods("POST")
	r.HandleFunc("/cycles/{id}/complete", s.completeCycle).Methods("POST")
	r.HandleFunc("/cycles/{id}/progress", s.cycleProgress).Methods("GET")
	r.HandleFunc("/cycles/{id}/unassigned", s.cycleUnassigned).Methods("GET")
	r.HandleFunc("/cycles/{id}/export", s.exportCycle).Methods("POST")
	r.HandleFunc("/cycles/{id}/exports", s.listCycleExports).Methods("GET")
	r.HandleFunc("/cycles/{id}/assignments", s.listCycleAssignments).Methods("GET")

	r.HandleFunc("/assignments", s.createAssignment).Methods("POST")
	r.HandleFunc("/assignments/{id}", s.getAssignment).Methods("GET")
	r.HandleFunc("/assignments/{id}/cancel", s.cancelAssignment).Methods("POST")
	r.HandleFunc("/assignments/{id}/complete", s.completeAssignment).Methods("POST")
	r.HandleFunc("/assignments/{id}/progress", s.assignmentProgress).Methods("GET")

	r.Use(requestID, requestLog)

	return r
}
