package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkoivu/stripes/backend/internal/domain"
)

// ScrapeRequest is the POST /api/scrape body: either an explicit list of
// external game ids, or an inclusive id range. Exactly one form must be given.
type ScrapeRequest struct {
	GameIDs []int64 `json:"gameIds,omitempty"`
	StartID int64   `json:"startId,omitempty"`
	EndID   int64   `json:"endId,omitempty"`
}

// maxScrapeBatch bounds one request so a typo'd range cannot start a scrape
// that runs for hours.
const maxScrapeBatch = 500

func (req ScrapeRequest) ids() ([]int64, string) {
	hasList := len(req.GameIDs) > 0
	hasRange := req.StartID != 0 || req.EndID != 0
	switch {
	case hasList && hasRange:
		return nil, "provide either gameIds or startId/endId, not both"
	case hasList:
		if len(req.GameIDs) > maxScrapeBatch {
			return nil, "too many game ids"
		}
		return req.GameIDs, ""
	case hasRange:
		if req.StartID < 1 || req.EndID < req.StartID {
			return nil, "startId and endId must form a valid range"
		}
		if req.EndID-req.StartID+1 > maxScrapeBatch {
			return nil, "range too large"
		}
		ids := make([]int64, 0, req.EndID-req.StartID+1)
		for id := req.StartID; id <= req.EndID; id++ {
			ids = append(ids, id)
		}
		return ids, ""
	default:
		return nil, "provide gameIds or startId/endId"
	}
}

// RunScrape handles POST /api/scrape.
func (s *Server) RunScrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, requestBody("request body must be JSON"))
		return
	}
	ids, msg := req.ids()
	if msg != "" {
		s.writeJSON(w, http.StatusUnprocessableEntity, requestBody(msg))
		return
	}

	result, err := s.scrapes.Run(r.Context(), ids)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			s.writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}
