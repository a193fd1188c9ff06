package http

import "cardfeed/internal/domain/entity"

// NewsResponse is the JSON body of GET /news.
type NewsResponse struct {
	Articles []*entity.Article    `json:"articles"`
	Total    int                  `json:"total"`
	Cached   bool                 `json:"cached"`
	Partial  []CategoryFailureDTO `json:"partialFailures,omitempty"`
}

// CategoryFailureDTO reports a category that contributed no articles.
type CategoryFailureDTO struct {
	Category string `json:"category"`
	Error    string `json:"error"`
}
