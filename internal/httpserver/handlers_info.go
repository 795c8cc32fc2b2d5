package httpserver

import (
	"net/http"
)

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.rep.ServiceResponse(r))
}

// handleHealth has no failure path. Anything that can fail belongs elsewhere.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.rep.Health())
}
