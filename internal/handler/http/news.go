package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"cardfeed/internal/domain/entity"
	"cardfeed/internal/handler/http/respond"
	"cardfeed/internal/usecase/aggregate"
)

// NewsService is the aggregation entry point the handler depends on. The
// returned bool reports whether the result came from cache.
type NewsService interface {
	News(ctx context.Context, req aggregate.Request) (*aggregate.Result, bool, error)
}

// NewsHandler serves GET /news.
type NewsHandler struct {
	service NewsService
	logger  *slog.Logger
}

// NewNewsHandler creates a NewsHandler. A nil logger falls back to
// slog.Default.
func NewNewsHandler(service NewsService, logger *slog.Logger) *NewsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsHandler{service: service, logger: logger}
}

// ServeHTTP handles GET /news?categories=a,b&country=cc.
func (h *NewsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.Error(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	req, err := parseNewsRequest(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, cached, err := h.service.News(r.Context(), req)
	if err != nil {
		if errors.Is(err, aggregate.ErrAllCategoriesFailed) {
			respond.SafeError(w, http.StatusBadGateway, respond.NewAppError(
				http.StatusBadGateway,
				"news is temporarily unavailable, try again later", err))
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := NewsResponse{
		Articles: result.Articles,
		Total:    result.Total,
		Cached:   cached,
	}
	for _, diag := range result.Diagnostics {
		if diag.Failed() {
			resp.Partial = append(resp.Partial, CategoryFailureDTO{
				Category: string(diag.Category),
				Error:    "feed unavailable",
			})
		}
	}
	if resp.Articles == nil {
		resp.Articles = []*entity.Article{}
	}

	respond.JSON(w, http.StatusOK, resp)
}

// parseNewsRequest validates query parameters into an aggregation request.
func parseNewsRequest(r *http.Request) (aggregate.Request, error) {
	rawCategories := strings.TrimSpace(r.URL.Query().Get("categories"))
	if rawCategories == "" {
		return aggregate.Request{}, errors.New("categories parameter is required")
	}

	var categories []entity.Category
	seen := make(map[entity.Category]bool)
	for _, raw := range strings.Split(rawCategories, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		category := entity.ParseCategory(raw)
		if seen[category] {
			continue
		}
		seen[category] = true
		categories = append(categories, category)
	}
	if len(categories) == 0 {
		return aggregate.Request{}, errors.New("categories parameter is required")
	}
	if len(categories) > len(entity.AllCategories) {
		return aggregate.Request{}, fmt.Errorf("too many categories, maximum is %d",
			len(entity.AllCategories))
	}

	country := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("country")))
	if country == "" {
		country = "us"
	}

	return aggregate.Request{Categories: categories, Country: country}, nil
}
