package handler

import "net/http"

// ListGames handles GET /api/games.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListGames(w http.ResponseWriter, r *http.Request) {
	games, meta, err := s.games.List(r.Context(), queryPagination(r))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"data":       games,
		"pagination": meta,
	})
}

// ListSeasons handles GET /api/seasons.
func (s *Server) ListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := s.games.Seasons(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"data": seasons})
}
