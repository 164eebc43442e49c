package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Repos bundles one repository per resource over a shared connection, so a
// multi-table write can run every statement on the same transaction.
type Repos struct {
	Officials   OfficialRepo
	Teams       TeamRepo
	Games       GameRepo
	Assignments AssignmentRepo
	Penalties   PenaltyRepo
}

// NewRepos constructs every repository over the given connection.
func NewRepos(db db) Repos {
	return Repos{
		Officials:   NewOfficialRepo(db),
		Teams:       NewTeamRepo(db),
		Games:       NewGameRepo(db),
		Assignments: NewAssignmentRepo(db),
		Penalties:   NewPenaltyRepo(db),
	}
}

// beginner is satisfied by *pgxpool.Pool and by pgx.Tx (which begins a
// savepoint, letting integration tests nest the runner inside their
// rollback transaction).
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner runs a function with all repositories bound to one transaction.
// The transaction commits when the function returns nil and rolls back when
// it returns an error, so a failing multi-table write leaves no partial rows.
type TxRunner interface {
	InTx(ctx context.Context, fn func(r Repos) error) error
}

type txRunner struct {
	pool beginner
}

func NewTxRunner(pool beginner) TxRunner {
	return &txRunner{pool: pool}
}

func (t *txRunner) InTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.TxRunner.InTx: %w", err)
	}
	// No-op after a successful commit.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.TxRunner.InTx: %w", err)
	}
	return nil
}
