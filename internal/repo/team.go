package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mkoivu/stripes/backend/internal/domain"
)

// TeamRepo defines the persistence operations for Teams.
type TeamRepo interface {
	// UpsertByName returns the team with the given name, creating the record
	// on first encounter.
	UpsertByName(ctx context.Context, name string) (domain.Team, error)

	// List returns all teams ordered by name ascending.
	List(ctx context.Context) ([]domain.Team, error)
}

type pgTeamRepo struct {
	db db
}

// NewTeamRepo constructs a TeamRepo backed by the provided db.
func NewTeamRepo(db db) TeamRepo {
	return &pgTeamRepo{db: db}
}

func (r *pgTeamRepo) UpsertByName(ctx context.Context, name string) (domain.Team, error) {
	const q = `
		INSERT INTO teams (name)
		VALUES (@name)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at`

	var (
		t  domain.Team
		id pgtype.UUID
	)
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name})
	if err := row.Scan(&id, &t.Name, &t.CreatedAt); err != nil {
		return domain.Team{}, fmt.Errorf("repo.TeamRepo.UpsertByName: %w", err)
	}
	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}

func (r *pgTeamRepo) List(ctx context.Context) ([]domain.Team, error) {
	const q = `SELECT id, name, created_at FROM teams ORDER BY name ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TeamRepo.List: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var (
			t  domain.Team
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("repo.TeamRepo.List: scan: %w", err)
		}
		t.ID = uuid.UUID(id.Bytes)
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TeamRepo.List: rows: %w", err)
	}

	return teams, nil
}
