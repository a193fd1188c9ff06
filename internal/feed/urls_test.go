package feed

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardfeed/internal/domain/entity"
)

func TestBuildFeedURL(t *testing.T) {
	loc := ResolveLocale("us")

	t.Run("each category yields a distinct endpoint", func(t *testing.T) {
		seen := map[string]entity.Category{}
		for _, c := range entity.AllCategories {
			u := BuildFeedURL(c, loc)
			if prev, dup := seen[u]; dup {
				t.Fatalf("categories %s and %s share endpoint %s", prev, c, u)
			}
			seen[u] = c
		}
	})

	t.Run("locale params are interpolated", func(t *testing.T) {
		u, err := url.Parse(BuildFeedURL(entity.CategoryTechnology, ResolveLocale("fr")))
		require.NoError(t, err)

		q := u.Query()
		assert.Equal(t, "fr-FR", q.Get("hl"))
		assert.Equal(t, "FR", q.Get("gl"))
		assert.Equal(t, "FR:fr", q.Get("ceid"))
	})

	t.Run("politics uses the search endpoint", func(t *testing.T) {
		u := BuildFeedURL(entity.CategoryPolitics, loc)
		assert.True(t, strings.HasPrefix(u, searchFeedBase))
		parsed, err := url.Parse(u)
		require.NoError(t, err)
		assert.Equal(t, "politics", parsed.Query().Get("q"))
	})

	t.Run("unknown category falls back to general", func(t *testing.T) {
		unknown := BuildFeedURL(entity.Category("astrology"), loc)
		general := BuildFeedURL(entity.CategoryGeneral, loc)
		assert.Equal(t, general, unknown)
	})
}
