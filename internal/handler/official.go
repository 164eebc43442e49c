package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mkoivu/stripes/backend/internal/domain"
)

// ListOfficials handles GET /api/officials.
func (s *Server) ListOfficials(w http.ResponseWriter, r *http.Request) {
	officials, err := s.officials.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"data": officials})
}

// GetOfficialStats handles GET /api/officials/{id}.
// Supports ?season= to scope the aggregate to one season, and ?page= /
// ?limit= for the embedded game list.
func (s *Server) GetOfficialStats(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid official id"))
		return
	}

	season := r.URL.Query().Get("season")
	result, err := s.officials.Aggregate(r.Context(), id, season, queryPagination(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeJSON(w, http.StatusNotFound, notFoundBody("official not found"))
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}
