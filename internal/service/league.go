package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/mkoivu/stripes/backend/internal/domain"
	"github.com/mkoivu/stripes/backend/internal/repo"
	"github.com/mkoivu/stripes/backend/internal/stats"
)

// leaderboardSize caps the per-role official leaderboards in league stats.
const leaderboardSize = 10

// OfficialCount is one leaderboard row.
type OfficialCount struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Games int       `json:"games"`
}

// LeagueStats is the league-wide aggregate over the games matching a filter.
type LeagueStats struct {
	GameCount      int                    `json:"gameCount"`
	Penalties      stats.PenaltyBreakdown `json:"penalties"`
	TopPenalties   []stats.OffenceCount   `json:"topPenalties"`
	TopReferees    []OfficialCount        `json:"topReferees"`
	TopLinespeople []OfficialCount        `json:"topLinespeople"`
}

// LeagueService computes league-wide aggregates from assignment and penalty
// data, scoped by an optional team and date range.
type LeagueService struct {
	games       repo.GameRepo
	assignments repo.AssignmentRepo
	penalties   repo.PenaltyRepo
	log         *slog.Logger
}

func NewLeagueService(games repo.GameRepo, assignments repo.AssignmentRepo, penalties repo.PenaltyRepo, log *slog.Logger) *LeagueService {
	if log == nil {
		log = slog.Default()
	}
	return &LeagueService{games: games, assignments: assignments, penalties: penalties, log: log}
}

// Stats aggregates across every game matching the filter. The penalty section
// degrades to zeros if the penalty query fails; the game count and official
// leaderboards are still served.
func (s *LeagueService) Stats(ctx context.Context, filter repo.GameFilter) (LeagueStats, error) {
	gameIDs, err := s.games.ListIDsFiltered(ctx, filter)
	if err != nil {
		return LeagueStats{}, fmt.Errorf("service.LeagueService.Stats: %w", err)
	}

	result := LeagueStats{
		GameCount:      len(gameIDs),
		TopPenalties:   []stats.OffenceCount{},
		TopReferees:    []OfficialCount{},
		TopLinespeople: []OfficialCount{},
	}
	if len(gameIDs) == 0 {
		return result, nil
	}

	rows, err := s.assignments.ListByGameIDs(ctx, gameIDs)
	if err != nil {
		return LeagueStats{}, fmt.Errorf("service.LeagueService.Stats: %w", err)
	}

	type acc struct {
		name                 string
		referee, linesperson int
	}
	officials := make(map[uuid.UUID]*acc)
	for _, row := range rows {
		a := officials[row.OfficialID]
		if a == nil {
			a = &acc{name: row.OfficialName}
			officials[row.OfficialID] = a
		}
		if row.Role == domain.RoleReferee {
			a.referee++
		} else {
			a.linesperson++
		}
	}

	var referees, linespeople []OfficialCount
	for id, a := range officials {
		if a.referee > 0 {
			referees = append(referees, OfficialCount{ID: id, Name: a.name, Games: a.referee})
		}
		if a.linesperson > 0 {
			linespeople = append(linespeople, OfficialCount{ID: id, Name: a.name, Games: a.linesperson})
		}
	}
	result.TopReferees = topOfficials(referees)
	result.TopLinespeople = topOfficials(linespeople)

	penalties, err := s.penalties.ListByGameIDs(ctx, gameIDs)
	if err != nil {
		s.log.WarnContext(ctx, "league stats penalty section degraded", "error", err)
		return result, nil
	}
	for _, p := range penalties {
		result.Penalties.Add(p.Offence, p.Minutes)
	}
	result.TopPenalties = offenceDistribution(penalties)

	return result, nil
}

func topOfficials(list []OfficialCount) []OfficialCount {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Games != list[j].Games {
			return list[i].Games > list[j].Games
		}
		return list[i].Name < list[j].Name
	})
	if len(list) > leaderboardSize {
		list = list[:leaderboardSize]
	}
	if list == nil {
		list = []OfficialCount{}
	}
	return list
}
