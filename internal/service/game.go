package service

import (
	"context"
	"fmt"

	"github.com/mkoivu/stripes/backend/internal/domain"
	"github.com/mkoivu/stripes/backend/internal/repo"
)

// GameService serves the game list and the season index.
type GameService struct {
	games repo.GameRepo
}

func NewGameService(games repo.GameRepo) *GameService {
	return &GameService{games: games}
}

// List returns a page of games, newest first.
func (s *GameService) List(ctx context.Context, page domain.PaginationParams) ([]domain.Game, domain.PageMeta, error) {
	games, total, err := s.games.ListPaged(ctx, page)
	if err != nil {
		return nil, domain.PageMeta{}, fmt.Errorf("service.GameService.List: %w", err)
	}
	if games == nil {
		games = []domain.Game{}
	}
	return games, domain.NewPageMeta(page, total), nil
}

// Seasons returns every season present in the data, newest first.
func (s *GameService) Seasons(ctx context.Context) ([]string, error) {
	seasons, err := s.games.ListSeasons(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.GameService.Seasons: %w", err)
	}
	if seasons == nil {
		seasons = []string{}
	}
	return seasons, nil
}
