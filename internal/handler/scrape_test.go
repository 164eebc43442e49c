package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoivu/stripes/backend/internal/domain"
	"github.com/mkoivu/stripes/backend/internal/handler"
	"github.com/mkoivu/stripes/backend/internal/service"
)

func TestRunScrape_Range(t *testing.T) {
	s := handler.NewServer(nil, nil, nil,
		&mockScrapeService{
			run: func(_ context.Context, ids []int64) (service.ScrapeResult, error) {
				require.Len(t, ids, 11)
				assert.Equal(t, int64(100), ids[0])
				assert.Equal(t, int64(110), ids[10])
				return service.ScrapeResult{Total: 11, Successful: 9, NotFound: 2, Errors: []service.ScrapeError{}}, nil
			},
		},
		nil,
	)

	rec := serve(t, s, http.MethodPost, "/api/scrape", `{"startId":100,"endId":110}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body service.ScrapeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 11, body.Total)
	assert.Equal(t, 9, body.Successful)
}

func TestRunScrape_ExplicitIDs(t *testing.T) {
	s := handler.NewServer(nil, nil, nil,
		&mockScrapeService{
			run: func(_ context.Context, ids []int64) (service.ScrapeResult, error) {
				assert.Equal(t, []int64{5001, 5007, 5030}, ids)
				return service.ScrapeResult{Total: 3, Successful: 3, Errors: []service.ScrapeError{}}, nil
			},
		},
		nil,
	)

	rec := serve(t, s, http.MethodPost, "/api/scrape", `{"gameIds":[5001,5007,5030]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body service.ScrapeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Successful)
}

func TestRunScrape_BadBody(t *testing.T) {
	s := handler.NewServer(nil, nil, nil, &mockScrapeService{}, nil)

	rec := serve(t, s, http.MethodPost, "/api/scrape", `from=1&to=2`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRunScrape_EmptyBody(t *testing.T) {
	s := handler.NewServer(nil, nil, nil, &mockScrapeService{}, nil)

	rec := serve(t, s, http.MethodPost, "/api/scrape", `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "gameIds or startId/endId")
}

func TestRunScrape_BothForms(t *testing.T) {
	s := handler.NewServer(nil, nil, nil, &mockScrapeService{}, nil)

	rec := serve(t, s, http.MethodPost, "/api/scrape", `{"gameIds":[1],"startId":1,"endId":2}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "not both")
}

func TestRunScrape_RangeTooLarge(t *testing.T) {
	s := handler.NewServer(nil, nil, nil, &mockScrapeService{}, nil)

	rec := serve(t, s, http.MethodPost, "/api/scrape", `{"startId":1,"endId":100000}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "range too large")
}

func TestRunScrape_InvalidRange(t *testing.T) {
	s := handler.NewServer(nil, nil, nil, &mockScrapeService{}, nil)

	rec := serve(t, s, http.MethodPost, "/api/scrape", `{"startId":50,"endId":10}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "valid range")
}

func TestRunScrape_ServiceValidation(t *testing.T) {
	s := handler.NewServer(nil, nil, nil,
		&mockScrapeService{
			run: func(_ context.Context, ids []int64) (service.ScrapeResult, error) {
				return service.ScrapeResult{}, fmt.Errorf("service.ScrapeService.Run: %w: invalid game id %d", domain.ErrValidation, ids[0])
			},
		},
		nil,
	)

	rec := serve(t, s, http.MethodPost, "/api/scrape", `{"gameIds":[-4]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid game id")
}
