package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoivu/stripes/backend/internal/domain"
	"github.com/mkoivu/stripes/backend/internal/handler"
)

func TestListGames(t *testing.T) {
	s := handler.NewServer(nil, nil,
		&mockGameService{
			list: func(_ context.Context, page domain.PaginationParams) ([]domain.Game, domain.PageMeta, error) {
				assert.Equal(t, 1, page.Page)
				assert.Equal(t, 20, page.Limit)
				games := []domain.Game{{ExternalID: 101, HomeTeam: "Bears", AwayTeam: "Comets"}}
				return games, domain.NewPageMeta(page, 1), nil
			},
		},
		nil, nil,
	)

	rec := serve(t, s, http.MethodGet, "/api/games", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data       []domain.Game   `json:"data"`
		Pagination domain.PageMeta `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Bears", body.Data[0].HomeTeam)
	assert.Equal(t, int64(1), body.Pagination.TotalCount)
}

func TestListGames_LimitCapped(t *testing.T) {
	s := handler.NewServer(nil, nil,
		&mockGameService{
			list: func(_ context.Context, page domain.PaginationParams) ([]domain.Game, domain.PageMeta, error) {
				assert.Equal(t, 100, page.Limit)
				return nil, domain.NewPageMeta(page, 0), nil
			},
		},
		nil, nil,
	)

	rec := serve(t, s, http.MethodGet, "/api/games?limit=9000", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListSeasons(t *testing.T) {
	s := handler.NewServer(nil, nil,
		&mockGameService{
			seasons: func(_ context.Context) ([]string, error) {
				return []string{"2025-26", "2024-25"}, nil
			},
		},
		nil, nil,
	)

	rec := serve(t, s, http.MethodGet, "/api/seasons", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"2025-26", "2024-25"}, body.Data)
}
