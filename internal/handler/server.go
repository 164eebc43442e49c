// Package handler implements the HTTP handlers for the officiating stats API.
// Handlers are methods on Server, split into resource-specific files, and all
// routes are mounted by Routes. Handlers decode queries, call a service
// interface, and encode JSON; no business logic lives here.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mkoivu/stripes/backend/internal/domain"
	"github.com/mkoivu/stripes/backend/internal/repo"
	"github.com/mkoivu/stripes/backend/internal/service"
)

// OfficialServicer defines the official operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type OfficialServicer interface {
	List(ctx context.Context) ([]domain.OfficialSummary, error)
	Aggregate(ctx context.Context, id uuid.UUID, season string, page domain.PaginationParams) (service.OfficialStats, error)
}

// LeagueServicer defines the league-wide stats operation.
type LeagueServicer interface {
	Stats(ctx context.Context, filter repo.GameFilter) (service.LeagueStats, error)
}

// GameServicer defines the game list and season index operations.
type GameServicer interface {
	List(ctx context.Context, page domain.PaginationParams) ([]domain.Game, domain.PageMeta, error)
	Seasons(ctx context.Context) ([]string, error)
}

// ScrapeServicer runs a batch scrape over a set of external ids.
type ScrapeServicer interface {
	Run(ctx context.Context, ids []int64) (service.ScrapeResult, error)
}

// Server holds the handler dependencies. Methods live in resource-specific
// files but all operate on this struct.
type Server struct {
	officials OfficialServicer
	league    LeagueServicer
	games     GameServicer
	scrapes   ScrapeServicer
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(officials OfficialServicer, league LeagueServicer, games GameServicer, scrapes ScrapeServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{officials: officials, league: league, games: games, scrapes: scrapes, log: log}
}

// Routes mounts every API route on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/officials", s.ListOfficials)
		r.Get("/officials/{id}", s.GetOfficialStats)
		r.Get("/stats", s.GetLeagueStats)
		r.Get("/games", s.ListGames)
		r.Get("/seasons", s.ListSeasons)
		r.Post("/scrape", s.RunScrape)
	})
}

// writeJSON encodes v as the response body. Encoding failures at this point
// can only be logged; the status line is already gone.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("response encode failed", "error", err)
	}
}

// serverError logs the unexpected error and writes a generic 500 body so
// internals never leak to clients.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	s.writeJSON(w, http.StatusInternalServerError, internalBody())
}

// queryPagination reads ?page= and ?limit= with the shared defaults.
func queryPagination(r *http.Request) domain.PaginationParams {
	return domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
}

func queryInt(r *http.Request, key string) *int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
