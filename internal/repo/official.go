package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mkoivu/stripes/backend/internal/domain"
)

// OfficialRepo defines the persistence operations for Officials.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows services to be unit-tested with a mock.
type OfficialRepo interface {
	// GetByID retrieves a single official by primary key.
	// Returns domain.ErrNotFound if no official with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Official, error)

	// UpsertByName returns the official with the given name, creating the
	// record on first encounter. Names are the identity the scraper works
	// with; existing rows are returned unchanged (flags are never touched).
	UpsertByName(ctx context.Context, name string) (domain.Official, error)

	// ListWithCounts returns every official with role-partitioned career
	// game counts, ordered by name ascending.
	ListWithCounts(ctx context.Context) ([]domain.OfficialSummary, error)
}

// pgOfficialRepo is the Postgres implementation of OfficialRepo.
type pgOfficialRepo struct {
	db db
}

// NewOfficialRepo constructs an OfficialRepo backed by the provided db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewOfficialRepo(db db) OfficialRepo {
	return &pgOfficialRepo{db: db}
}

func (r *pgOfficialRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Official, error) {
	const q = `
		SELECT id, name, original57, ahl, echl, pwhl, created_at, updated_at
		FROM officials
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanOfficial(row)
	if err != nil {
		return domain.Official{}, fmt.Errorf("repo.OfficialRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgOfficialRepo) UpsertByName(ctx context.Context, name string) (domain.Official, error) {
	// The no-op update makes RETURNING yield the existing row on conflict.
	const q = `
		INSERT INTO officials (name)
		VALUES (@name)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, original57, ahl, echl, pwhl, created_at, updated_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name})
	result, err := scanOfficial(row)
	if err != nil {
		return domain.Official{}, fmt.Errorf("repo.OfficialRepo.UpsertByName: %w", err)
	}
	return result, nil
}

func (r *pgOfficialRepo) ListWithCounts(ctx context.Context) ([]domain.OfficialSummary, error) {
	const q = `
		SELECT o.id, o.name,
		       COUNT(ga.id) AS total,
		       COUNT(ga.id) FILTER (WHERE ga.role = 'referee') AS referee,
		       COUNT(ga.id) FILTER (WHERE ga.role = 'linesperson') AS linesperson
		FROM officials o
		LEFT JOIN game_officials ga ON ga.official_id = o.id
		GROUP BY o.id, o.name
		ORDER BY o.name ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.OfficialRepo.ListWithCounts: %w", err)
	}
	defer rows.Close()

	var summaries []domain.OfficialSummary
	for rows.Next() {
		var (
			s  domain.OfficialSummary
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &s.Name, &s.TotalGames, &s.RefereeGames, &s.LinespersonGames); err != nil {
			return nil, fmt.Errorf("repo.OfficialRepo.ListWithCounts: scan: %w", err)
		}
		s.ID = uuid.UUID(id.Bytes)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.OfficialRepo.ListWithCounts: rows: %w", err)
	}

	return summaries, nil
}

// scanOfficial maps a single database row into a domain.Official.
func scanOfficial(s scanner) (domain.Official, error) {
	var (
		o  domain.Official
		id pgtype.UUID
	)

	err := s.Scan(&id, &o.Name, &o.Original57, &o.AHL, &o.ECHL, &o.PWHL, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Official{}, domain.ErrNotFound
		}
		return domain.Official{}, err
	}

	o.ID = uuid.UUID(id.Bytes)
	return o, nil
}
