package aggregate

import (
	"errors"
	"fmt"
)

// ErrNoCategoriesRequested indicates the caller supplied no categories.
var ErrNoCategoriesRequested = errors.New("no categories requested")

// ErrAllCategoriesFailed indicates every requested category failed to
// produce articles. Partial failures are reported through Diagnostics
// instead, since the remaining categories still yield a usable result.
var ErrAllCategoriesFailed = errors.New("all categories failed")

// RejectReason classifies why a feed item was dropped during normalization.
type RejectReason string

const (
	RejectRemovedTitle RejectReason = "removed_title"
	RejectShortSummary RejectReason = "short_summary"
	RejectInvalid      RejectReason = "invalid"
)

// RejectionError reports a quality-check failure for a single feed item.
// Rejections are expected in normal operation and only counted, never
// propagated to the caller.
type RejectionError struct {
	Reason RejectReason
	Detail string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("item rejected (%s): %s", e.Reason, e.Detail)
}

// IsRejection reports whether err is an item-quality rejection.
func IsRejection(err error) bool {
	var rejection *RejectionError
	return errors.As(err, &rejection)
}
