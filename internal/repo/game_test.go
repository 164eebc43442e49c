package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoivu/stripes/backend/internal/domain"
	"github.com/mkoivu/stripes/backend/internal/repo"
)

func TestGameRepo_Create_And_GetByExternalID(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	created := createGame(t, r, 5001, testDate(2024, 10, 5), "2024-25", "Bears", "Comets")
	assert.False(t, created.CreatedAt.IsZero())

	got, err := r.games.GetByExternalID(ctx, 5001)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "2024-25", got.Season)
	assert.Equal(t, "Bears", got.HomeTeam)
	assert.Equal(t, "Comets", got.AwayTeam)
	assert.Nil(t, got.Duration)
}

func TestGameRepo_GetByExternalID_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.games.GetByExternalID(context.Background(), 424242)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGameRepo_Create_NullableFields(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	homeTeam, err := r.teams.UpsertByName(ctx, "Bears")
	require.NoError(t, err)
	awayTeam, err := r.teams.UpsertByName(ctx, "Comets")
	require.NoError(t, err)

	start, end, duration := "7:05 PM", "9:35 PM", 150
	_, err = r.games.Create(ctx, domain.Game{
		ExternalID: 5002,
		Date:       testDate(2024, 11, 12),
		Season:     "2024-25",
		StartTime:  &start,
		EndTime:    &end,
		Duration:   &duration,
		HomeTeamID: homeTeam.ID,
		AwayTeamID: awayTeam.ID,
	})
	require.NoError(t, err)

	got, err := r.games.GetByExternalID(ctx, 5002)
	require.NoError(t, err)
	require.NotNil(t, got.StartTime)
	assert.Equal(t, "7:05 PM", *got.StartTime)
	require.NotNil(t, got.Duration)
	assert.Equal(t, 150, *got.Duration)
}

func TestGameRepo_ListPaged(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	createGame(t, r, 101, testDate(2024, 10, 5), "2024-25", "Bears", "Comets")
	createGame(t, r, 102, testDate(2024, 11, 12), "2024-25", "Bears", "Drakes")
	createGame(t, r, 103, testDate(2025, 2, 20), "2024-25", "Comets", "Bears")

	page1, total, err := r.games.ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page1, 2)

	// Date descending.
	assert.Equal(t, int64(103), page1[0].ExternalID)
	assert.Equal(t, int64(102), page1[1].ExternalID)

	page2, _, err := r.games.ListPaged(ctx, domain.PaginationParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, int64(101), page2[0].ExternalID)
}

func TestGameRepo_ListSeasons(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	createGame(t, r, 101, testDate(2024, 10, 5), "2024-25", "Bears", "Comets")
	createGame(t, r, 102, testDate(2025, 10, 3), "2025-26", "Bears", "Comets")
	createGame(t, r, 103, testDate(2025, 2, 20), "2024-25", "Comets", "Bears")

	seasons, err := r.games.ListSeasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-26", "2024-25"}, seasons)
}

func TestGameRepo_ListIDsFiltered(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	g1 := createGame(t, r, 101, testDate(2024, 10, 5), "2024-25", "Bears", "Comets")
	g2 := createGame(t, r, 102, testDate(2024, 11, 12), "2024-25", "Bears", "Drakes")
	g3 := createGame(t, r, 103, testDate(2025, 2, 20), "2024-25", "Comets", "Drakes")

	// No filter matches everything.
	all, err := r.games.ListIDsFiltered(ctx, repo.GameFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Team matches home or away side.
	bears, err := r.games.ListIDsFiltered(ctx, repo.GameFilter{Team: "Bears"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{g1.ID, g2.ID}, []any{bears[0], bears[1]})

	// The end date covers its whole day.
	end := testDate(2024, 11, 12)
	upToNov12, err := r.games.ListIDsFiltered(ctx, repo.GameFilter{EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, upToNov12, 2)

	start := testDate(2025, 1, 1)
	from2025, err := r.games.ListIDsFiltered(ctx, repo.GameFilter{StartDate: &start})
	require.NoError(t, err)
	require.Len(t, from2025, 1)
	assert.Equal(t, g3.ID, from2025[0])
}
