package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkoivu/stripes/backend/internal/domain"
	"github.com/mkoivu/stripes/backend/internal/repo"
	"github.com/mkoivu/stripes/backend/internal/scraper"
	"github.com/mkoivu/stripes/backend/internal/stats"
)

// ErrAlreadyExists means a scraped game was skipped because its external id
// is already stored. Sheets are immutable once published, so re-ingesting is
// never needed.
var ErrAlreadyExists = errors.New("service: game already exists")

// IngestService turns scraped game sheets into stored games, teams,
// officials, assignments and penalties.
type IngestService struct {
	store repo.TxRunner
	log   *slog.Logger
}

func NewIngestService(store repo.TxRunner, log *slog.Logger) *IngestService {
	if log == nil {
		log = slog.Default()
	}
	return &IngestService{store: store, log: log}
}

// SaveGame stores one scraped game with all of its related rows in a single
// transaction. A failure anywhere leaves no partial game behind, so the same
// external id can be scraped again later. An id that is already stored
// returns ErrAlreadyExists without touching anything.
func (s *IngestService) SaveGame(ctx context.Context, sg *scraper.ScrapedGame) (*domain.Game, error) {
	date, err := parseSheetDate(sg.Date)
	if err != nil {
		return nil, fmt.Errorf("service.IngestService.SaveGame: %w: %v", domain.ErrValidation, err)
	}
	if sg.HomeTeam == "" || sg.AwayTeam == "" {
		return nil, fmt.Errorf("service.IngestService.SaveGame: %w: missing team name", domain.ErrValidation)
	}

	var game domain.Game
	err = s.store.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Games.GetByExternalID(ctx, sg.ExternalID); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("service.IngestService.SaveGame: %w", err)
		}

		homeTeam, err := r.Teams.UpsertByName(ctx, sg.HomeTeam)
		if err != nil {
			return fmt.Errorf("service.IngestService.SaveGame: %w", err)
		}
		awayTeam, err := r.Teams.UpsertByName(ctx, sg.AwayTeam)
		if err != nil {
			return fmt.Errorf("service.IngestService.SaveGame: %w", err)
		}

		game = domain.Game{
			ExternalID: sg.ExternalID,
			Date:       date,
			Season:     stats.SeasonLabel(date),
			Location:   sg.Location,
			HomeTeamID: homeTeam.ID,
			AwayTeamID: awayTeam.ID,
		}
		if sg.StartTime != "" {
			start := sg.StartTime
			game.StartTime = &start
		}
		if sg.EndTime != "" {
			end := sg.EndTime
			game.EndTime = &end
		}
		if d, ok := gameDuration(sg.StartTime, sg.EndTime); ok {
			game.Duration = &d
		}

		game, err = r.Games.Create(ctx, game)
		if err != nil {
			return fmt.Errorf("service.IngestService.SaveGame: %w", err)
		}

		if err := saveAssignments(ctx, r, game.ID, sg.Referees, domain.RoleReferee); err != nil {
			return err
		}
		if err := saveAssignments(ctx, r, game.ID, sg.Linespeople, domain.RoleLinesperson); err != nil {
			return err
		}

		penalties := make([]domain.Penalty, 0, len(sg.HomePenalties)+len(sg.AwayPenalties))
		penalties = appendPenalties(penalties, game.ID, sg.HomePenalties, domain.SideHome)
		penalties = appendPenalties(penalties, game.ID, sg.AwayPenalties, domain.SideAway)
		if err := r.Penalties.CreateBatch(ctx, game.ID, penalties); err != nil {
			return fmt.Errorf("service.IngestService.SaveGame: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "game ingested",
		"external_id", sg.ExternalID,
		"season", game.Season,
		"officials", len(sg.Referees)+len(sg.Linespeople),
		"penalties", len(sg.HomePenalties)+len(sg.AwayPenalties),
	)
	return &game, nil
}

func saveAssignments(ctx context.Context, r repo.Repos, gameID uuid.UUID, names []string, role domain.Role) error {
	for _, name := range names {
		official, err := r.Officials.UpsertByName(ctx, name)
		if err != nil {
			return fmt.Errorf("service.IngestService.SaveGame: %w", err)
		}
		a := domain.Assignment{GameID: gameID, OfficialID: official.ID, Role: role}
		if err := r.Assignments.Create(ctx, a); err != nil {
			return fmt.Errorf("service.IngestService.SaveGame: %w", err)
		}
	}
	return nil
}

func appendPenalties(out []domain.Penalty, gameID uuid.UUID, rows []scraper.ScrapedPenalty, side domain.Side) []domain.Penalty {
	for _, row := range rows {
		out = append(out, domain.Penalty{
			GameID:  gameID,
			Period:  row.Period,
			Minutes: row.Minutes,
			Offence: row.Offence,
			Side:    side,
		})
	}
	return out
}

// sheetDateFormats covers the date spellings seen on published sheets.
var sheetDateFormats = []string{"Jan 2, 2006", "January 2, 2006", "2006-01-02"}

func parseSheetDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range sheetDateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// gameDuration derives elapsed minutes from the sheet's wall-clock start and
// end times. An end before the start means the game crossed midnight; equal
// times store a zero duration rather than none.
func gameDuration(start, end string) (int, bool) {
	startMin, ok := clockMinutes(start)
	if !ok {
		return 0, false
	}
	endMin, ok := clockMinutes(end)
	if !ok {
		return 0, false
	}
	d := endMin - startMin
	if d < 0 {
		d += 24 * 60
	}
	return d, true
}

// clockMinutes converts "7:05 PM" to minutes since midnight.
func clockMinutes(clock string) (int, bool) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return 0, false
	}
	t, err := time.Parse("3:04 PM", clock)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
