package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mkoivu/stripes/backend/internal/domain"
)

// PenaltyRepo defines the persistence operations for Penalties.
type PenaltyRepo interface {
	// CreateBatch inserts all penalties for one game.
	CreateBatch(ctx context.Context, gameID uuid.UUID, penalties []domain.Penalty) error

	// ListByGameIDs returns every penalty recorded on the given games.
	ListByGameIDs(ctx context.Context, gameIDs []uuid.UUID) ([]domain.Penalty, error)
}

type pgPenaltyRepo struct {
	db db
}

// NewPenaltyRepo constructs a PenaltyRepo backed by the provided db.
func NewPenaltyRepo(db db) PenaltyRepo {
	return &pgPenaltyRepo{db: db}
}

func (r *pgPenaltyRepo) CreateBatch(ctx context.Context, gameID uuid.UUID, penalties []domain.Penalty) error {
	const q = `
		INSERT INTO penalties (game_id, period, minutes, offence, side)
		VALUES (@game_id, @period, @minutes, @offence, @side)`

	for _, p := range penalties {
		var side *string
		if p.Side != domain.SideUnknown {
			s := string(p.Side)
			side = &s
		}
		args := pgx.NamedArgs{
			"game_id": gameID,
			"period":  p.Period,
			"minutes": p.Minutes,
			"offence": p.Offence,
			"side":    side,
		}
		if _, err := r.db.Exec(ctx, q, args); err != nil {
			return fmt.Errorf("repo.PenaltyRepo.CreateBatch: %w", err)
		}
	}
	return nil
}

func (r *pgPenaltyRepo) ListByGameIDs(ctx context.Context, gameIDs []uuid.UUID) ([]domain.Penalty, error) {
	if len(gameIDs) == 0 {
		return nil, nil
	}

	const q = `
		SELECT id, game_id, period, minutes, offence, side
		FROM penalties
		WHERE game_id = ANY(@game_ids)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"game_ids": gameIDs})
	if err != nil {
		return nil, fmt.Errorf("repo.PenaltyRepo.ListByGameIDs: %w", err)
	}
	defer rows.Close()

	var penalties []domain.Penalty
	for rows.Next() {
		var (
			p      domain.Penalty
			id     pgtype.UUID
			gameID pgtype.UUID
			side   pgtype.Text
		)
		if err := rows.Scan(&id, &gameID, &p.Period, &p.Minutes, &p.Offence, &side); err != nil {
			return nil, fmt.Errorf("repo.PenaltyRepo.ListByGameIDs: scan: %w", err)
		}
		p.ID = uuid.UUID(id.Bytes)
		p.GameID = uuid.UUID(gameID.Bytes)
		if side.Valid {
			p.Side = domain.Side(side.String)
		}
		penalties = append(penalties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PenaltyRepo.ListByGameIDs: rows: %w", err)
	}

	return penalties, nil
}
