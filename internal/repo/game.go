package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mkoivu/stripes/backend/internal/domain"
)

// GameFilter narrows game queries for the league-wide stats endpoint.
// Zero values mean "no constraint". EndDate is inclusive of the whole day.
type GameFilter struct {
	Team      string
	StartDate *time.Time
	EndDate   *time.Time
}

// GameRepo defines the persistence operations for Games.
type GameRepo interface {
	// Create inserts a new game and returns the persisted record.
	Create(ctx context.Context, game domain.Game) (domain.Game, error)

	// GetByExternalID retrieves a game by its external report id.
	// Returns domain.ErrNotFound if the game has not been ingested.
	GetByExternalID(ctx context.Context, externalID int64) (domain.Game, error)

	// ListPaged returns one page of games ordered by date descending, with
	// joined team names, plus the unpaged total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Game, int64, error)

	// ListSeasons returns the distinct season labels present, descending.
	ListSeasons(ctx context.Context) ([]string, error)

	// ListIDsFiltered returns the ids of games matching the filter.
	ListIDsFiltered(ctx context.Context, f GameFilter) ([]uuid.UUID, error)
}

type pgGameRepo struct {
	db db
}

// NewGameRepo constructs a GameRepo backed by the provided db.
func NewGameRepo(db db) GameRepo {
	return &pgGameRepo{db: db}
}

func (r *pgGameRepo) Create(ctx context.Context, game domain.Game) (domain.Game, error) {
	const q = `
		INSERT INTO games (external_id, date, season, location, start_time, end_time,
		                   duration_minutes, home_team_id, away_team_id)
		VALUES (@external_id, @date, @season, @location, @start_time, @end_time,
		        @duration_minutes, @home_team_id, @away_team_id)
		RETURNING id, created_at`

	args := pgx.NamedArgs{
		"external_id":      game.ExternalID,
		"date":             game.Date,
		"season":           game.Season,
		"location":         game.Location,
		"start_time":       game.StartTime, // nil becomes NULL
		"end_time":         game.EndTime,
		"duration_minutes": game.Duration,
		"home_team_id":     game.HomeTeamID,
		"away_team_id":     game.AwayTeamID,
	}

	var id pgtype.UUID
	row := r.db.QueryRow(ctx, q, args)
	if err := row.Scan(&id, &game.CreatedAt); err != nil {
		return domain.Game{}, fmt.Errorf("repo.GameRepo.Create: %w", err)
	}
	game.ID = uuid.UUID(id.Bytes)
	return game, nil
}

func (r *pgGameRepo) GetByExternalID(ctx context.Context, externalID int64) (domain.Game, error) {
	const q = `
		SELECT g.id, g.external_id, g.date, g.season, g.location, g.start_time,
		       g.end_time, g.duration_minutes, g.home_team_id, g.away_team_id,
		       ht.name, at.name, g.created_at
		FROM games g
		JOIN teams ht ON ht.id = g.home_team_id
		JOIN teams at ON at.id = g.away_team_id
		WHERE g.external_id = @external_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"external_id": externalID})
	result, err := scanGame(row)
	if err != nil {
		return domain.Game{}, fmt.Errorf("repo.GameRepo.GetByExternalID: %w", err)
	}
	return result, nil
}

func (r *pgGameRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Game, int64, error) {
	const countQ = `SELECT COUNT(*) FROM games`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.GameRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT g.id, g.external_id, g.date, g.season, g.location, g.start_time,
		       g.end_time, g.duration_minutes, g.home_team_id, g.away_team_id,
		       ht.name, at.name, g.created_at
		FROM games g
		JOIN teams ht ON ht.id = g.home_team_id
		JOIN teams at ON at.id = g.away_team_id
		ORDER BY g.date DESC, g.external_id DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.GameRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.GameRepo.ListPaged: scan: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.GameRepo.ListPaged: rows: %w", err)
	}

	return games, total, nil
}

func (r *pgGameRepo) ListSeasons(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT season FROM games ORDER BY season DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.GameRepo.ListSeasons: %w", err)
	}
	defer rows.Close()

	var seasons []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("repo.GameRepo.ListSeasons: scan: %w", err)
		}
		seasons = append(seasons, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.GameRepo.ListSeasons: rows: %w", err)
	}

	return seasons, nil
}

func (r *pgGameRepo) ListIDsFiltered(ctx context.Context, f GameFilter) ([]uuid.UUID, error) {
	const q = `
		SELECT g.id
		FROM games g
		JOIN teams ht ON ht.id = g.home_team_id
		JOIN teams at ON at.id = g.away_team_id
		WHERE (@team = '' OR ht.name = @team OR at.name = @team)
		  AND (CAST(@start_date AS timestamptz) IS NULL OR g.date >= @start_date)
		  AND (CAST(@end_date AS timestamptz) IS NULL OR g.date < @end_date)
		ORDER BY g.date DESC`

	// The end bound is made exclusive of the following midnight so a plain
	// YYYY-MM-DD end date covers its entire day.
	var end *time.Time
	if f.EndDate != nil {
		e := f.EndDate.AddDate(0, 0, 1)
		end = &e
	}

	args := pgx.NamedArgs{
		"team":       f.Team,
		"start_date": f.StartDate,
		"end_date":   end,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.GameRepo.ListIDsFiltered: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("repo.GameRepo.ListIDsFiltered: scan: %w", err)
		}
		ids = append(ids, uuid.UUID(id.Bytes))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.GameRepo.ListIDsFiltered: rows: %w", err)
	}

	return ids, nil
}

// scanGame maps a single database row (with joined team names) into a
// domain.Game. It handles the UUID and nullable time/duration conversions.
func scanGame(s scanner) (domain.Game, error) {
	var (
		g        domain.Game
		id       pgtype.UUID
		homeID   pgtype.UUID
		awayID   pgtype.UUID
		start    pgtype.Text
		end      pgtype.Text
		duration pgtype.Int4
	)

	err := s.Scan(&id, &g.ExternalID, &g.Date, &g.Season, &g.Location, &start,
		&end, &duration, &homeID, &awayID, &g.HomeTeam, &g.AwayTeam, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Game{}, domain.ErrNotFound
		}
		return domain.Game{}, err
	}

	g.ID = uuid.UUID(id.Bytes)
	g.HomeTeamID = uuid.UUID(homeID.Bytes)
	g.AwayTeamID = uuid.UUID(awayID.Bytes)
	if start.Valid {
		v := start.String
		g.StartTime = &v
	}
	if end.Valid {
		v := end.String
		g.EndTime = &v
	}
	if duration.Valid {
		v := int(duration.Int32)
		g.Duration = &v
	}

	return g, nil
}
