package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mkoivu/stripes/backend/internal/domain"
)

// AssignmentRepo defines the persistence operations for official-to-game
// assignments. The read operations feed the aggregation engine: it consumes
// raw rows and derives every statistic in memory.
type AssignmentRepo interface {
	// Create links an official to a game in one role.
	Create(ctx context.Context, a domain.Assignment) error

	// ListByOfficial returns every assignment of one official with joined
	// game and team data, ordered by game date descending.
	ListByOfficial(ctx context.Context, officialID uuid.UUID) ([]domain.OfficialGame, error)

	// ListAll returns every assignment with the official's name and the
	// game's season and date, optionally filtered to one season (empty
	// season means all-time). Used for population-wide ranking.
	ListAll(ctx context.Context, season string) ([]domain.AssignmentRow, error)

	// ListByGameIDs returns every assignment on the given games.
	// Used for co-official analysis and league-wide top-official tallies.
	ListByGameIDs(ctx context.Context, gameIDs []uuid.UUID) ([]domain.AssignmentRow, error)
}

type pgAssignmentRepo struct {
	db db
}

// NewAssignmentRepo constructs an AssignmentRepo backed by the provided db.
func NewAssignmentRepo(db db) AssignmentRepo {
	return &pgAssignmentRepo{db: db}
}

func (r *pgAssignmentRepo) Create(ctx context.Context, a domain.Assignment) error {
	const q = `
		INSERT INTO game_officials (game_id, official_id, role)
		VALUES (@game_id, @official_id, @role)`

	args := pgx.NamedArgs{
		"game_id":     a.GameID,
		"official_id": a.OfficialID,
		"role":        string(a.Role),
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.AssignmentRepo.Create: %w", err)
	}
	return nil
}

func (r *pgAssignmentRepo) ListByOfficial(ctx context.Context, officialID uuid.UUID) ([]domain.OfficialGame, error) {
	const q = `
		SELECT g.id, g.external_id, g.date, g.season, g.location,
		       g.duration_minutes, ht.name, at.name, ga.role
		FROM game_officials ga
		JOIN games g ON g.id = ga.game_id
		JOIN teams ht ON ht.id = g.home_team_id
		JOIN teams at ON at.id = g.away_team_id
		WHERE ga.official_id = @official_id
		ORDER BY g.date DESC, g.external_id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"official_id": officialID})
	if err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.ListByOfficial: %w", err)
	}
	defer rows.Close()

	var games []domain.OfficialGame
	for rows.Next() {
		var (
			g        domain.OfficialGame
			id       pgtype.UUID
			duration pgtype.Int4
			role     string
		)
		err := rows.Scan(&id, &g.ExternalID, &g.Date, &g.Season, &g.Location,
			&duration, &g.HomeTeam, &g.AwayTeam, &role)
		if err != nil {
			return nil, fmt.Errorf("repo.AssignmentRepo.ListByOfficial: scan: %w", err)
		}
		g.GameID = uuid.UUID(id.Bytes)
		g.Role = domain.Role(role)
		if duration.Valid {
			v := int(duration.Int32)
			g.Duration = &v
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.ListByOfficial: rows: %w", err)
	}

	return games, nil
}

func (r *pgAssignmentRepo) ListAll(ctx context.Context, season string) ([]domain.AssignmentRow, error) {
	const q = `
		SELECT ga.official_id, o.name, ga.role, ga.game_id, g.season, g.date
		FROM game_officials ga
		JOIN officials o ON o.id = ga.official_id
		JOIN games g ON g.id = ga.game_id
		WHERE (@season = '' OR g.season = @season)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"season": season})
	if err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.ListAll: %w", err)
	}
	defer rows.Close()

	result, err := collectAssignmentRows(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.ListAll: %w", err)
	}
	return result, nil
}

func (r *pgAssignmentRepo) ListByGameIDs(ctx context.Context, gameIDs []uuid.UUID) ([]domain.AssignmentRow, error) {
	if len(gameIDs) == 0 {
		return nil, nil
	}

	const q = `
		SELECT ga.official_id, o.name, ga.role, ga.game_id, g.season, g.date
		FROM game_officials ga
		JOIN officials o ON o.id = ga.official_id
		JOIN games g ON g.id = ga.game_id
		WHERE ga.game_id = ANY(@game_ids)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"game_ids": gameIDs})
	if err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.ListByGameIDs: %w", err)
	}
	defer rows.Close()

	result, err := collectAssignmentRows(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.ListByGameIDs: %w", err)
	}
	return result, nil
}

func collectAssignmentRows(rows pgx.Rows) ([]domain.AssignmentRow, error) {
	var result []domain.AssignmentRow
	for rows.Next() {
		var (
			a          domain.AssignmentRow
			officialID pgtype.UUID
			gameID     pgtype.UUID
			role       string
		)
		if err := rows.Scan(&officialID, &a.OfficialName, &role, &gameID, &a.Season, &a.Date); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		a.OfficialID = uuid.UUID(officialID.Bytes)
		a.GameID = uuid.UUID(gameID.Bytes)
		a.Role = domain.Role(role)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return result, nil
}
