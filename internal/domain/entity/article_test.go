package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Category
	}{
		{"known category", "technology", CategoryTechnology},
		{"uppercase is normalized", "SPORTS", CategorySports},
		{"surrounding whitespace", "  health ", CategoryHealth},
		{"unknown falls back to general", "astrology", CategoryGeneral},
		{"empty falls back to general", "", CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.input))
		})
	}
}

func TestArticle_Validate(t *testing.T) {
	valid := Article{
		Title:   "Go 1.26 released",
		Summary: "The Go team announced the release of Go 1.26 with improvements across the toolchain.",
		URL:     "https://news.google.com/articles/abc123",
		Source:  Source{Name: "The Verge"},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Article)
		field  string
	}{
		{"empty title", func(a *Article) { a.Title = "" }, "title"},
		{"removed marker", func(a *Article) { a.Title = "[Removed]" }, "title"},
		{"removed marker embedded", func(a *Article) { a.Title = "Breaking: [Removed] story" }, "title"},
		{"empty url", func(a *Article) { a.URL = "" }, "url"},
		{"empty summary", func(a *Article) { a.Summary = "" }, "summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)

			err := a.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
