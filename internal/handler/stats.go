package handler

import (
	"net/http"

	"github.com/mkoivu/stripes/backend/internal/repo"
)

// GetLeagueStats handles GET /api/stats.
// Supports ?team=, ?startDate= and ?endDate= (YYYY-MM-DD, endDate inclusive).
func (s *Server) GetLeagueStats(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "startDate")
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, requestBody("startDate must be YYYY-MM-DD"))
		return
	}
	end, err := queryDate(r, "endDate")
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, requestBody("endDate must be YYYY-MM-DD"))
		return
	}

	filter := repo.GameFilter{
		Team:      r.URL.Query().Get("team"),
		StartDate: start,
		EndDate:   end,
	}
	result, err := s.league.Stats(r.Context(), filter)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}
