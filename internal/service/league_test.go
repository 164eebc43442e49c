package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoivu/stripes/backend/internal/domain"
	"github.com/mkoivu/stripes/backend/internal/repo"
	"github.com/mkoivu/stripes/backend/internal/service"
)

func TestLeagueService_Stats(t *testing.T) {
	g1, g2 := uuid.New(), uuid.New()
	ref1, ref2, lin1 := uuid.New(), uuid.New(), uuid.New()

	svc := service.NewLeagueService(
		&mockGameRepo{
			listIDsFiltered: func(_ context.Context, f repo.GameFilter) ([]uuid.UUID, error) {
				assert.Equal(t, "Bears", f.Team)
				return []uuid.UUID{g1, g2}, nil
			},
		},
		&mockAssignmentRepo{
			listByGameIDs: func(_ context.Context, ids []uuid.UUID) ([]domain.AssignmentRow, error) {
				assert.ElementsMatch(t, []uuid.UUID{g1, g2}, ids)
				return []domain.AssignmentRow{
					{OfficialID: ref1, OfficialName: "Alex Carter", Role: domain.RoleReferee, GameID: g1},
					{OfficialID: ref1, OfficialName: "Alex Carter", Role: domain.RoleReferee, GameID: g2},
					{OfficialID: ref2, OfficialName: "Robin Vance", Role: domain.RoleReferee, GameID: g1},
					{OfficialID: lin1, OfficialName: "Sasha Lindholm", Role: domain.RoleLinesperson, GameID: g1},
				}, nil
			},
		},
		&mockPenaltyRepo{
			listByGameIDs: func(_ context.Context, _ []uuid.UUID) ([]domain.Penalty, error) {
				return []domain.Penalty{
					{GameID: g1, Minutes: 2, Offence: "Tripping", Side: domain.SideHome},
					{GameID: g1, Minutes: 2, Offence: "Tripping", Side: domain.SideAway},
					{GameID: g2, Minutes: 5, Offence: "Fighting", Side: domain.SideHome},
				}, nil
			},
		},
		nil,
	)

	got, err := svc.Stats(context.Background(), repo.GameFilter{Team: "Bears"})
	require.NoError(t, err)

	assert.Equal(t, 2, got.GameCount)
	assert.Equal(t, 9, got.Penalties.TotalPIM)
	assert.Equal(t, 2, got.Penalties.Minors)
	assert.Equal(t, 1, got.Penalties.Fights)

	require.Len(t, got.TopPenalties, 2)
	assert.Equal(t, "Tripping", got.TopPenalties[0].Offence)
	assert.Equal(t, 2, got.TopPenalties[0].Count)

	require.Len(t, got.TopReferees, 2)
	assert.Equal(t, "Alex Carter", got.TopReferees[0].Name)
	assert.Equal(t, 2, got.TopReferees[0].Games)
	assert.Equal(t, "Robin Vance", got.TopReferees[1].Name)
	require.Len(t, got.TopLinespeople, 1)
	assert.Equal(t, "Sasha Lindholm", got.TopLinespeople[0].Name)
}

func TestLeagueService_Stats_LeaderboardCapAndTiebreak(t *testing.T) {
	gameID := uuid.New()

	// Twelve referees tied at one game each; only ten survive, by name.
	var rows []domain.AssignmentRow
	for i := 0; i < 12; i++ {
		rows = append(rows, domain.AssignmentRow{
			OfficialID:   uuid.New(),
			OfficialName: fmt.Sprintf("Referee %02d", i),
			Role:         domain.RoleReferee,
			GameID:       gameID,
		})
	}

	svc := service.NewLeagueService(
		&mockGameRepo{
			listIDsFiltered: func(_ context.Context, _ repo.GameFilter) ([]uuid.UUID, error) {
				return []uuid.UUID{gameID}, nil
			},
		},
		&mockAssignmentRepo{
			listByGameIDs: func(_ context.Context, _ []uuid.UUID) ([]domain.AssignmentRow, error) {
				return rows, nil
			},
		},
		&mockPenaltyRepo{
			listByGameIDs: func(_ context.Context, _ []uuid.UUID) ([]domain.Penalty, error) {
				return nil, nil
			},
		},
		nil,
	)

	got, err := svc.Stats(context.Background(), repo.GameFilter{})
	require.NoError(t, err)
	require.Len(t, got.TopReferees, 10)
	assert.Equal(t, "Referee 00", got.TopReferees[0].Name)
	assert.Equal(t, "Referee 09", got.TopReferees[9].Name)
}

func TestLeagueService_Stats_NoGames(t *testing.T) {
	svc := service.NewLeagueService(
		&mockGameRepo{
			listIDsFiltered: func(_ context.Context, _ repo.GameFilter) ([]uuid.UUID, error) {
				return nil, nil
			},
		},
		&mockAssignmentRepo{}, &mockPenaltyRepo{}, nil,
	)

	got, err := svc.Stats(context.Background(), repo.GameFilter{Team: "Nobody"})
	require.NoError(t, err)
	assert.Equal(t, 0, got.GameCount)
	assert.NotNil(t, got.TopReferees)
	assert.Empty(t, got.TopReferees)
	assert.Equal(t, 0, got.Penalties.TotalPIM)
}

func TestLeagueService_Stats_PenaltySectionDegrades(t *testing.T) {
	gameID := uuid.New()
	svc := service.NewLeagueService(
		&mockGameRepo{
			listIDsFiltered: func(_ context.Context, _ repo.GameFilter) ([]uuid.UUID, error) {
				return []uuid.UUID{gameID}, nil
			},
		},
		&mockAssignmentRepo{
			listByGameIDs: func(_ context.Context, _ []uuid.UUID) ([]domain.AssignmentRow, error) {
				return []domain.AssignmentRow{
					{OfficialID: uuid.New(), OfficialName: "Alex Carter", Role: domain.RoleReferee, GameID: gameID},
				}, nil
			},
		},
		&mockPenaltyRepo{
			listByGameIDs: func(_ context.Context, _ []uuid.UUID) ([]domain.Penalty, error) {
				return nil, errors.New("relation does not exist")
			},
		},
		nil,
	)

	got, err := svc.Stats(context.Background(), repo.GameFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, got.GameCount)
	require.Len(t, got.TopReferees, 1)
	assert.Equal(t, 0, got.Penalties.TotalPIM)
	assert.Empty(t, got.TopPenalties)
}
