package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mkoivu/stripes/backend/internal/domain"
	"github.com/mkoivu/stripes/backend/internal/metrics"
	"github.com/mkoivu/stripes/backend/internal/scraper"
)

// GameFetcher fetches one game sheet by external id.
type GameFetcher interface {
	Fetch(ctx context.Context, id int64) (*scraper.ScrapedGame, error)
}

// GameSaver persists one scraped game.
type GameSaver interface {
	SaveGame(ctx context.Context, sg *scraper.ScrapedGame) (*domain.Game, error)
}

// ScrapeError is one failed game id in a batch result.
type ScrapeError struct {
	ExternalID int64  `json:"externalId"`
	Message    string `json:"message"`
}

// ScrapeResult tallies one batch run. Every requested id lands in exactly
// one of Successful, AlreadyExisted, NotFound or Failed.
type ScrapeResult struct {
	Total          int           `json:"total"`
	Successful     int           `json:"successful"`
	AlreadyExisted int           `json:"alreadyExisted"`
	NotFound       int           `json:"notFound"`
	Failed         int           `json:"failed"`
	Errors         []ScrapeError `json:"errors"`
}

// ScrapeService runs bounded-concurrency batch scrapes over a set of
// external game ids.
type ScrapeService struct {
	fetcher     GameFetcher
	saver       GameSaver
	concurrency int
	log         *slog.Logger
}

func NewScrapeService(fetcher GameFetcher, saver GameSaver, concurrency int, log *slog.Logger) *ScrapeService {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &ScrapeService{fetcher: fetcher, saver: saver, concurrency: concurrency, log: log}
}

// Run scrapes every given external id and stores the games found. Individual
// failures are tallied, never fatal; only context cancellation aborts the
// batch early.
func (s *ScrapeService) Run(ctx context.Context, ids []int64) (ScrapeResult, error) {
	if len(ids) == 0 {
		return ScrapeResult{}, fmt.Errorf("service.ScrapeService.Run: %w: no game ids", domain.ErrValidation)
	}
	for _, id := range ids {
		if id < 1 {
			return ScrapeResult{}, fmt.Errorf("service.ScrapeService.Run: %w: invalid game id %d", domain.ErrValidation, id)
		}
	}

	result := ScrapeResult{Total: len(ids), Errors: []ScrapeError{}}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome, err := s.scrapeOne(ctx, id)
			metrics.ScrapedGamesTotal.WithLabelValues(outcome.String()).Inc()
			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case outcomeSaved:
				result.Successful++
			case outcomeExists:
				result.AlreadyExisted++
			case outcomeNotFound:
				result.NotFound++
			case outcomeFailed:
				result.Failed++
				result.Errors = append(result.Errors, ScrapeError{ExternalID: id, Message: err.Error()})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ScrapeResult{}, fmt.Errorf("service.ScrapeService.Run: %w", err)
	}

	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].ExternalID < result.Errors[j].ExternalID
	})
	s.log.InfoContext(ctx, "scrape batch finished",
		"total", result.Total,
		"successful", result.Successful,
		"already_existed", result.AlreadyExisted,
		"not_found", result.NotFound,
		"failed", result.Failed,
	)
	return result, nil
}

type scrapeOutcome int

const (
	outcomeSaved scrapeOutcome = iota
	outcomeExists
	outcomeNotFound
	outcomeFailed
)

func (o scrapeOutcome) String() string {
	switch o {
	case outcomeSaved:
		return "saved"
	case outcomeExists:
		return "already_existed"
	case outcomeNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

func (s *ScrapeService) scrapeOne(ctx context.Context, id int64) (scrapeOutcome, error) {
	sg, err := s.fetcher.Fetch(ctx, id)
	if err != nil {
		if errors.Is(err, scraper.ErrGameNotFound) {
			return outcomeNotFound, nil
		}
		s.log.WarnContext(ctx, "scrape failed", "external_id", id, "error", err)
		return outcomeFailed, err
	}

	if _, err := s.saver.SaveGame(ctx, sg); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return outcomeExists, nil
		}
		s.log.WarnContext(ctx, "save failed", "external_id", id, "error", err)
		return outcomeFailed, err
	}
	return outcomeSaved, nil
}
