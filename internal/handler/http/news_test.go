package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cardfeed/internal/domain/entity"
	"cardfeed/internal/usecase/aggregate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubNewsService returns canned results and records the parsed request.
type stubNewsService struct {
	result  *aggregate.Result
	cached  bool
	err     error
	lastReq aggregate.Request
}

func (s *stubNewsService) News(_ context.Context, req aggregate.Request) (*aggregate.Result, bool, error) {
	s.lastReq = req
	return s.result, s.cached, s.err
}

func doNews(t *testing.T, service NewsService, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	NewNewsHandler(service, nil).ServeHTTP(rec, req)
	return rec
}

func TestNewsHandler_Success(t *testing.T) {
	service := &stubNewsService{
		result: &aggregate.Result{
			Articles: []*entity.Article{{
				Title:    "Launch succeeds",
				URL:      "https://news.google.com/rss/articles/CCC",
				ImageURL: "https://lh3.googleusercontent.com/thumb",
				Category: entity.CategoryTechnology,
			}},
			Total: 1,
			Diagnostics: []aggregate.CategoryDiagnostics{
				{Category: entity.CategoryTechnology, Fetched: 3, Accepted: 1},
			},
		},
	}

	rec := doNews(t, service, "/news?categories=technology,business&country=DE")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp NewsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.False(t, resp.Cached)
	assert.Empty(t, resp.Partial)
	assert.Equal(t, "Launch succeeds", resp.Articles[0].Title)

	assert.Equal(t, []entity.Category{entity.CategoryTechnology, entity.CategoryBusiness},
		service.lastReq.Categories)
	assert.Equal(t, "de", service.lastReq.Country, "country is lowercased")
}

func TestNewsHandler_MissingCategories(t *testing.T) {
	rec := doNews(t, &stubNewsService{}, "/news?country=us")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "categories parameter is required")
}

func TestNewsHandler_DefaultsCountry(t *testing.T) {
	service := &stubNewsService{result: &aggregate.Result{}}

	doNews(t, service, "/news?categories=general")
	assert.Equal(t, "us", service.lastReq.Country)
}

func TestNewsHandler_DeduplicatesCategories(t *testing.T) {
	service := &stubNewsService{result: &aggregate.Result{}}

	doNews(t, service, "/news?categories=tech,%20technology%20,TECHNOLOGY")
	assert.Equal(t, []entity.Category{entity.CategoryGeneral, entity.CategoryTechnology},
		service.lastReq.Categories,
		"unknown names map to general; repeats collapse")
}

func TestNewsHandler_TotalFailureIs502(t *testing.T) {
	service := &stubNewsService{err: aggregate.ErrAllCategoriesFailed}

	rec := doNews(t, service, "/news?categories=technology")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "temporarily unavailable")
}

func TestNewsHandler_InternalErrorIsMasked(t *testing.T) {
	service := &stubNewsService{err: errors.New("dial tcp: connection refused")}

	rec := doNews(t, service, "/news?categories=technology")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "dial tcp")
}

func TestNewsHandler_PartialFailuresReported(t *testing.T) {
	service := &stubNewsService{result: &aggregate.Result{
		Diagnostics: []aggregate.CategoryDiagnostics{
			{Category: entity.CategoryTechnology, Accepted: 5},
			{Category: entity.CategoryBusiness, Err: "all relays failed"},
		},
	}}

	rec := doNews(t, service, "/news?categories=technology,business")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp NewsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Partial, 1)
	assert.Equal(t, "business", resp.Partial[0].Category)
	assert.NotNil(t, resp.Articles, "articles is always an array, never null")
}

func TestNewsHandler_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/news?categories=technology", nil)
	NewNewsHandler(&stubNewsService{}, nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
