package aggregate

import "cardfeed/internal/domain/entity"

// CategoryDiagnostics summarizes the outcome of one category's pipeline run.
type CategoryDiagnostics struct {
	Category entity.Category `json:"category"`
	Fetched  int             `json:"fetched"`
	Rejected int             `json:"rejected"`
	Accepted int             `json:"accepted"`
	Err      string          `json:"error,omitempty"`
}

// Failed reports whether the category produced no articles because of an
// upstream error rather than quality filtering.
func (d CategoryDiagnostics) Failed() bool {
	return d.Err != ""
}
