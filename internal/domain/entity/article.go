// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article and Category, along with
// their validation rules and domain-specific errors.
package entity

import (
	"strings"
	"time"
)

// RemovedMarker is the placeholder some upstream feeds emit in place of a
// retracted headline. Items carrying it never reach the client.
const RemovedMarker = "[Removed]"

// DefaultSourceName is used when a feed item carries no attribution.
const DefaultSourceName = "Google News"

// Category identifies one of the supported news verticals.
type Category string

// Supported categories. Unrecognized values degrade to CategoryGeneral
// rather than failing the request.
const (
	CategoryTechnology    Category = "technology"
	CategoryBusiness      Category = "business"
	CategorySports        Category = "sports"
	CategoryScience       Category = "science"
	CategoryHealth        Category = "health"
	CategoryEntertainment Category = "entertainment"
	CategoryGeneral       Category = "general"
	CategoryPolitics      Category = "politics"
)

// AllCategories lists every supported category in display order.
var AllCategories = []Category{
	CategoryTechnology,
	CategoryGeneral,
	CategoryBusiness,
	CategorySports,
	CategoryScience,
	CategoryHealth,
	CategoryEntertainment,
	CategoryPolitics,
}

// ParseCategory maps an arbitrary identifier onto a supported Category.
// Unknown identifiers fall back to CategoryGeneral.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCategories {
		if c == known {
			return c
		}
	}
	return CategoryGeneral
}

// Source is the attribution block of an Article.
type Source struct {
	Name string `json:"name"`
}

// ImageCredit carries attribution metadata for images obtained from the
// stock-photo fallback. It is nil for images resolved from the article itself.
type ImageCredit struct {
	Provider   string `json:"provider"`
	Creator    string `json:"creator,omitempty"`
	License    string `json:"license,omitempty"`
	LandingURL string `json:"landingUrl,omitempty"`
}

// Article is the canonical output unit of the aggregation pipeline.
// URL is the identity key: bookmarks, comments and votes downstream all key
// off it, and deduplication within one aggregation call uses it. Articles are
// never mutated after construction.
type Article struct {
	Title           string       `json:"title"`
	Summary         string       `json:"summary"`
	URL             string       `json:"url"`
	OriginalURL     string       `json:"originalUrl,omitempty"`
	ImageURL        string       `json:"imageUrl,omitempty"`
	ProxiedImageURL string       `json:"proxiedImageUrl,omitempty"`
	ImageCredit     *ImageCredit `json:"imageCredit,omitempty"`
	PublishedAt     time.Time    `json:"publishedAt"`
	Source          Source       `json:"source"`
	Category        Category     `json:"category"`
	Author          string       `json:"author,omitempty"`
}

// Validate checks the Article invariants that must hold for every article
// returned to a caller: non-empty title without the removal marker, a
// non-empty URL, and a non-empty plain-text summary.
func (a *Article) Validate() error {
	if a.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.Contains(a.Title, RemovedMarker) {
		return &ValidationError{Field: "title", Message: "title marks a removed item"}
	}
	if a.URL == "" {
		return &ValidationError{Field: "url", Message: "url is required"}
	}
	if a.Summary == "" {
		return &ValidationError{Field: "summary", Message: "summary is required"}
	}
	return nil
}
