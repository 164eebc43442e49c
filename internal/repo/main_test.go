package repo_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/mkoivu/stripes/backend/internal/domain"
	"github.com/mkoivu/stripes/backend/internal/repo"
	"github.com/mkoivu/stripes/backend/migrations"
	"github.com/mkoivu/stripes/backend/testutil"
)

// TestMain runs before any test in the repo_test package.
// It applies all pending migrations to the test database so individual tests
// never need to think about schema state.
func TestMain(m *testing.M) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		// No test DB configured, skip all tests in this package cleanly.
		os.Exit(m.Run())
	}

	// goose needs database/sql, not a pgx pool. Constructed manually because
	// TestMain has no *testing.T to pass to testutil.NewSQLDB.
	db := testutil.MustOpenSQLDB(os.Getenv("TEST_DATABASE_URL"))
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		log.Fatalf("TestMain: create goose provider: %v", err)
	}

	if _, err := provider.Up(context.Background()); err != nil {
		log.Fatalf("TestMain: run migrations: %v", err)
	}

	os.Exit(m.Run())
}

// testRepos bundles every repo backed by one shared transaction, so fixtures
// created through one repo are visible to the others within a test.
type testRepos struct {
	officials   repo.OfficialRepo
	teams       repo.TeamRepo
	games       repo.GameRepo
	assignments repo.AssignmentRepo
	penalties   repo.PenaltyRepo
}

// newTestRepos opens a transaction against the test database and returns all
// repos backed by it. The transaction is rolled back when the test finishes,
// giving free per-test isolation.
func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test.
		_ = tx.Rollback(context.Background())
	})

	return testRepos{
		officials:   repo.NewOfficialRepo(tx),
		teams:       repo.NewTeamRepo(tx),
		games:       repo.NewGameRepo(tx),
		assignments: repo.NewAssignmentRepo(tx),
		penalties:   repo.NewPenaltyRepo(tx),
	}
}

// createGame inserts a game between two (upserted) teams and returns it.
func createGame(t *testing.T, r testRepos, externalID int64, day time.Time, season, home, away string) domain.Game {
	t.Helper()
	ctx := context.Background()

	homeTeam, err := r.teams.UpsertByName(ctx, home)
	require.NoError(t, err)
	awayTeam, err := r.teams.UpsertByName(ctx, away)
	require.NoError(t, err)

	game, err := r.games.Create(ctx, domain.Game{
		ExternalID: externalID,
		Date:       day,
		Season:     season,
		Location:   "Harborview Arena",
		HomeTeamID: homeTeam.ID,
		AwayTeamID: awayTeam.ID,
	})
	require.NoError(t, err)
	return game
}

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
