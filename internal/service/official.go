// Package service contains the business logic for the officiating stats API.
// Services orchestrate repo calls and run the stats derivations; no SQL lives
// here; services depend on repo interfaces, not implementations.
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

// TeamBreakdown is one officiated team: how many of the official's games the
// team appeared in, the penalty minutes charged to the team across those
// games, and the team's most frequent literal offence descriptions.
type TeamBreakdown struct {
	Team        string               `json:"team"`
	Games       int                  `json:"games"`
	PIM         int                  `json:"pim"`
	TopOffences []stats.OffenceCount `json:"topOffences"`
}

// PenaltyRanks carries the official's rank in each penalty category against
// the population in scope. A nil rank means the official has no penalties of
// that category and is unranked for it.
type PenaltyRanks struct {
	Minors            *int `json:"minors"`
	Majors            *int `json:"majors"`
	Matches           *int `json:"matches"`
	Misconducts       *int `json:"misconducts"`
	GameMisconducts   *int `json:"gameMisconducts"`
	Fights            *int `json:"fights"`
	Instigators       *int `json:"instigators"`
	Aggressors        *int `json:"aggressors"`
	FaceoffViolations *int `json:"faceoffViolations"`
}

// PenaltyStats is the penalty section of an official's aggregate.
type PenaltyStats struct {
	Breakdown stats.PenaltyBreakdown `json:"breakdown"`
	Ranks     PenaltyRanks           `json:"ranks"`
	Offences  []stats.OffenceCount   `json:"offences"`
}

// OfficialStats is the full per-official aggregate served to the dashboard.
//
// Nil-able sections (ranks, Durations, Penalties, Chemistry) are nil either
// because the underlying data genuinely has no content (zero games, no known
// durations) or because that sub-computation degraded; the rest of the
// aggregate is still served. Callers must treat a nil section as "no data",
// never as a page-level failure.
type OfficialStats struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Original57 bool      `json:"original57"`
	AHL        bool      `json:"ahl"`
	ECHL       bool      `json:"echl"`
	PWHL       bool      `json:"pwhl"`

	Season           string   `json:"season,omitempty"` // applied filter, empty for all-time
	TotalGames       int      `json:"totalGames"`
	RefereeGames     int      `json:"refereeGames"`
	LinespersonGames int      `json:"linespersonGames"`
	TotalRank        *int     `json:"totalRank"`
	RefereeRank      *int     `json:"refereeRank"`
	LinespersonRank  *int     `json:"linespersonRank"`
	Active           bool     `json:"active"`
	Seasons          []string `json:"seasons"`

	GamesOverTime []stats.TimelineBucket `json:"gamesOverTime"`
	TopTeams      []TeamBreakdown        `json:"topTeams"`
	Durations     *stats.DurationStats   `json:"durations"`
	Penalties     *PenaltyStats          `json:"penalties"`
	Chemistry     *stats.Chemistry       `json:"chemistry"`

	Games      []domain.OfficialGame `json:"games"`
	Pagination domain.PageMeta       `json:"pagination"`
}

// topTeamOffences caps the per-team offence list in the team breakdown.
const topTeamOffences = 4

// OfficialService computes per-official aggregates.
type OfficialService struct {
	officials     repo.OfficialRepo
	assignments   repo.AssignmentRepo
	penalties     repo.PenaltyRepo
	currentSeason string
	log           *slog.Logger
}

// NewOfficialService constructs an OfficialService. currentSeason is the
// label of the season in progress (configuration, updated yearly); it drives
// the active flag and is deliberately injected rather than derived from the
// clock so historical snapshots replay identically.
func NewOfficialService(
	officials repo.OfficialRepo,
	assignments repo.AssignmentRepo,
	penalties repo.PenaltyRepo,
	currentSeason string,
	log *slog.Logger,
) *OfficialService {
	if log == nil {
		log = slog.Default()
	}
	return &OfficialService{
		officials:     officials,
		assignments:   assignments,
		penalties:     penalties,
		currentSeason: currentSeason,
		log:           log,
	}
}

// List returns every official with career game counts, name ascending.
// Always returns a non-nil slice so callers can safely range over it.
func (s *OfficialService) List(ctx context.Context) ([]domain.OfficialSummary, error) {
	officials, err := s.officials.ListWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.OfficialService.List: %w", err)
	}
	if officials == nil {
		return []domain.OfficialSummary{}, nil
	}
	return officials, nil
}

// Aggregate computes the full statistics aggregate for one official, scoped
// to one season when season is non-empty, all-time otherwise.
//
// Only a missing official or a failure to load the official's own assignments
// aborts the request. Every derived sub-section (ranks, teams, durations,
// penalties, chemistry) degrades independently: on failure it is left at its
// empty form and a diagnostic is logged, because a dashboard showing most of
// the stats beats one showing none.
func (s *OfficialService) Aggregate(ctx context.Context, id uuid.UUID, season string, page domain.PaginationParams) (OfficialStats, error) {
	official, err := s.officials.GetByID(ctx, id)
	if err != nil {
		return OfficialStats{}, fmt.Errorf("service.OfficialService.Aggregate: %w", err)
	}

	allGames, err := s.assignments.ListByOfficial(ctx, id)
	if err != nil {
		return OfficialStats{}, fmt.Errorf("service.OfficialService.Aggregate: %w", err)
	}

	// A season filter with no matching games is a valid scope with zero
	// results, not an error.
	scoped := allGames
	if season != "" {
		scoped = nil
		for _, g := range allGames {
			if g.Season == season {
				scoped = append(scoped, g)
			}
		}
	}

	result := OfficialStats{
		ID:         official.ID,
		Name:       official.Name,
		Original57: official.Original57,
		AHL:        official.AHL,
		ECHL:       official.ECHL,
		PWHL:       official.PWHL,
		Season:     season,
		Seasons:    seasonSet(allGames),
	}

	for _, g := range scoped {
		result.TotalGames++
		if g.Role == domain.RoleReferee {
			result.RefereeGames++
		} else {
			result.LinespersonGames++
		}
	}

	result.Active = containsString(result.Seasons, s.currentSeason)

	granularity := stats.Monthly
	chemGranularity := stats.Seasonal
	if season != "" {
		granularity = stats.Weekly
		chemGranularity = stats.Weekly
	}

	events := make([]stats.TimelineEvent, len(scoped))
	for i, g := range scoped {
		events[i] = stats.TimelineEvent{Date: g.Date, Role: g.Role}
	}
	result.GamesOverTime = stats.BuildTimeline(events, granularity)

	// Population ranks. A failed population query degrades all ranks to nil;
	// the official's own counts above never depend on it.
	population, popErr := s.assignments.ListAll(ctx, season)
	if popErr != nil {
		s.degrade(ctx, "ranks", id, popErr)
	} else {
		s.applyGameRanks(&result, id, population)
	}

	// Penalty-dependent sections share one fetch.
	gameIDs := make([]uuid.UUID, len(scoped))
	for i, g := range scoped {
		gameIDs[i] = g.GameID
	}
	penalties, penErr := s.penalties.ListByGameIDs(ctx, gameIDs)
	if penErr != nil {
		s.degrade(ctx, "penalties", id, penErr)
		result.TopTeams = []TeamBreakdown{}
	} else {
		result.TopTeams = buildTeamBreakdown(scoped, penalties)
		result.Penalties = s.buildPenaltyStats(ctx, id, penalties, population, popErr == nil)
	}

	result.Durations = stats.Durations(scoped)

	if chem, err := s.buildChemistry(ctx, id, gameIDs, chemGranularity); err != nil {
		s.degrade(ctx, "chemistry", id, err)
	} else {
		result.Chemistry = chem
	}

	result.Games, result.Pagination = pageGames(scoped, page)
	return result, nil
}

// degrade records a failed sub-computation. The section stays at its empty
// form and the request continues.
func (s *OfficialService) degrade(ctx context.Context, section string, id uuid.UUID, err error) {
	s.log.WarnContext(ctx, "official aggregate section degraded",
		"section", section,
		"official_id", id.String(),
		"error", err,
	)
}

// applyGameRanks fills the three game-count ranks from the population rows.
// Rank scope and value scope are identical by construction: both come from
// the same season filter.
func (s *OfficialService) applyGameRanks(result *OfficialStats, id uuid.UUID, population []domain.AssignmentRow) {
	type counts struct{ total, referee, linesperson int }
	byOfficial := make(map[uuid.UUID]*counts)
	for _, row := range population {
		c := byOfficial[row.OfficialID]
		if c == nil {
			c = &counts{}
			byOfficial[row.OfficialID] = c
		}
		c.total++
		if row.Role == domain.RoleReferee {
			c.referee++
		} else {
			c.linesperson++
		}
	}

	var totals, referees, linespersons []int
	for officialID, c := range byOfficial {
		if officialID == id {
			continue
		}
		totals = append(totals, c.total)
		referees = append(referees, c.referee)
		linespersons = append(linespersons, c.linesperson)
	}

	result.TotalRank = stats.Rank(result.TotalGames, totals)
	result.RefereeRank = stats.Rank(result.RefereeGames, referees)
	result.LinespersonRank = stats.Rank(result.LinespersonGames, linespersons)
}

// buildPenaltyStats derives the penalty section from the official's scoped
// games. Category ranks need the population; when the population query
// already failed the counts are still served with nil ranks.
func (s *OfficialService) buildPenaltyStats(
	ctx context.Context,
	id uuid.UUID,
	penalties []domain.Penalty,
	population []domain.AssignmentRow,
	havePopulation bool,
) *PenaltyStats {
	ps := &PenaltyStats{Offences: []stats.OffenceCount{}}

	for _, p := range penalties {
		ps.Breakdown.Add(p.Offence, p.Minutes)
	}
	ps.Offences = offenceDistribution(penalties)

	if !havePopulation {
		return ps
	}

	// Attribute each game's penalties to every official assigned to it, then
	// rank the subject's category counts against everyone else's.
	popPenalties, err := s.populationPenalties(ctx, population)
	if err != nil {
		s.degrade(ctx, "penalty ranks", id, err)
		return ps
	}

	byGame := make(map[uuid.UUID][]domain.Penalty)
	for _, p := range popPenalties {
		byGame[p.GameID] = append(byGame[p.GameID], p)
	}

	breakdowns := make(map[uuid.UUID]*stats.PenaltyBreakdown)
	for _, row := range population {
		b := breakdowns[row.OfficialID]
		if b == nil {
			b = &stats.PenaltyBreakdown{}
			breakdowns[row.OfficialID] = b
		}
		for _, p := range byGame[row.GameID] {
			b.Add(p.Offence, p.Minutes)
		}
	}

	rank := func(value int, pick func(*stats.PenaltyBreakdown) int) *int {
		var others []int
		for officialID, b := range breakdowns {
			if officialID == id {
				continue
			}
			others = append(others, pick(b))
		}
		return stats.Rank(value, others)
	}

	b := &ps.Breakdown
	ps.Ranks = PenaltyRanks{
		Minors:            rank(b.Minors, func(o *stats.PenaltyBreakdown) int { return o.Minors }),
		Majors:            rank(b.Majors, func(o *stats.PenaltyBreakdown) int { return o.Majors }),
		Matches:           rank(b.Matches, func(o *stats.PenaltyBreakdown) int { return o.Matches }),
		Misconducts:       rank(b.Misconducts, func(o *stats.PenaltyBreakdown) int { return o.Misconducts }),
		GameMisconducts:   rank(b.GameMisconducts, func(o *stats.PenaltyBreakdown) int { return o.GameMisconducts }),
		Fights:            rank(b.Fights, func(o *stats.PenaltyBreakdown) int { return o.Fights }),
		Instigators:       rank(b.Instigators, func(o *stats.PenaltyBreakdown) int { return o.Instigators }),
		Aggressors:        rank(b.Aggressors, func(o *stats.PenaltyBreakdown) int { return o.Aggressors }),
		FaceoffViolations: rank(b.FaceoffViolations, func(o *stats.PenaltyBreakdown) int { return o.FaceoffViolations }),
	}
	return ps
}

// populationPenalties fetches the penalties for every distinct game in the
// population rows.
func (s *OfficialService) populationPenalties(ctx context.Context, population []domain.AssignmentRow) ([]domain.Penalty, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, row := range population {
		if !seen[row.GameID] {
			seen[row.GameID] = true
			ids = append(ids, row.GameID)
		}
	}
	return s.penalties.ListByGameIDs(ctx, ids)
}

// buildChemistry fetches all assignments on the subject's games and derives
// the co-official tables, excluding the subject's own rows.
func (s *OfficialService) buildChemistry(ctx context.Context, id uuid.UUID, gameIDs []uuid.UUID, g stats.Granularity) (*stats.Chemistry, error) {
	rows, err := s.assignments.ListByGameIDs(ctx, gameIDs)
	if err != nil {
		return nil, err
	}

	var shared []stats.SharedAssignment
	for _, row := range rows {
		if row.OfficialID == id {
			continue
		}
		shared = append(shared, stats.SharedAssignment{
			OfficialID: row.OfficialID,
			Name:       row.OfficialName,
			Role:       row.Role,
			Date:       row.Date,
		})
	}

	chem := stats.BuildChemistry(shared, g)
	return &chem, nil
}

// buildTeamBreakdown produces the per-team section: every game contributes to
// both its home and away team, penalties count toward the team they were
// charged to. Teams sort by games descending, then name ascending.
func buildTeamBreakdown(scoped []domain.OfficialGame, penalties []domain.Penalty) []TeamBreakdown {
	penaltiesByGame := make(map[uuid.UUID][]domain.Penalty)
	for _, p := range penalties {
		penaltiesByGame[p.GameID] = append(penaltiesByGame[p.GameID], p)
	}

	type teamAcc struct {
		games    int
		pim      int
		offences map[string]int
	}
	teams := make(map[string]*teamAcc)
	get := func(name string) *teamAcc {
		a := teams[name]
		if a == nil {
			a = &teamAcc{offences: make(map[string]int)}
			teams[name] = a
		}
		return a
	}

	for _, g := range scoped {
		home, away := get(g.HomeTeam), get(g.AwayTeam)
		home.games++
		away.games++
		for _, p := range penaltiesByGame[g.GameID] {
			switch p.Side {
			case domain.SideHome:
				home.pim += p.Minutes
				home.offences[p.Offence]++
			case domain.SideAway:
				away.pim += p.Minutes
				away.offences[p.Offence]++
			}
		}
	}

	result := make([]TeamBreakdown, 0, len(teams))
	for name, a := range teams {
		tb := TeamBreakdown{Team: name, Games: a.games, PIM: a.pim}
		tb.TopOffences = topOffences(a.offences, topTeamOffences)
		result = append(result, tb)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Games != result[j].Games {
			return result[i].Games > result[j].Games
		}
		return result[i].Team < result[j].Team
	})
	return result
}

// offenceDistribution counts penalties by literal offence text, descending.
// The full distribution is returned; the presentation layer truncates.
func offenceDistribution(penalties []domain.Penalty) []stats.OffenceCount {
	counts := make(map[string]int)
	for _, p := range penalties {
		counts[p.Offence]++
	}
	return topOffences(counts, len(counts))
}

// topOffences orders a literal offence histogram by count descending with an
// alphabetical tiebreak, keeping at most n entries.
func topOffences(counts map[string]int, n int) []stats.OffenceCount {
	out := make([]stats.OffenceCount, 0, len(counts))
	for offence, count := range counts {
		out = append(out, stats.OffenceCount{Offence: offence, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Offence < out[j].Offence
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// pageGames slices the already-sorted (date desc) scoped game list.
func pageGames(scoped []domain.OfficialGame, p domain.PaginationParams) ([]domain.OfficialGame, domain.PageMeta) {
	total := int64(len(scoped))
	meta := domain.NewPageMeta(p, total)

	start := p.Offset()
	if start >= len(scoped) {
		return []domain.OfficialGame{}, meta
	}
	end := start + p.Limit
	if end > len(scoped) {
		end = len(scoped)
	}
	return scoped[start:end], meta
}

// seasonSet returns the sorted distinct seasons across the given games.
func seasonSet(games []domain.OfficialGame) []string {
	seen := make(map[string]bool)
	var seasons []string
	for _, g := range games {
		if !seen[g.Season] {
			seen[g.Season] = true
			seasons = append(seasons, g.Season)
		}
	}
	sort.Strings(seasons)
	if seasons == nil {
		seasons = []string{}
	}
	return seasons
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
