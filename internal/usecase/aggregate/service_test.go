package aggregate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cardfeed/internal/domain/entity"
	"cardfeed/internal/feed"
	"cardfeed/internal/infra/feedparse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// topicFragment returns the full feed URL for a category so stubs can route
// responses per category.
func topicFragment(c entity.Category) string {
	return feed.BuildFeedURL(c, feed.ResolveLocale("us"))
}

// stubRetriever maps feed URLs (matched by substring) to bodies or errors.
type stubRetriever struct {
	bodies map[string]string
	errs   map[string]error
}

func (s *stubRetriever) Get(_ context.Context, url string) (string, error) {
	for key, err := range s.errs {
		if strings.Contains(url, key) {
			return "", err
		}
	}
	for key, body := range s.bodies {
		if strings.Contains(url, key) {
			return body, nil
		}
	}
	return "", errors.New("no stub for " + url)
}

type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, item feedparse.RawItem, _ string) ImageResult {
	if len(item.MediaRefs) > 0 {
		return ImageResult{URL: item.MediaRefs[0].URL, Strategy: "media"}
	}
	return ImageResult{URL: "https://flagcdn.com/w320/us.png", Strategy: "flag"}
}

func item(title, link, description string) string {
	return `<item><title>` + title + `</title><link>` + link + `</link>` +
		`<pubDate>Mon, 18 Aug 2025 09:30:00 GMT</pubDate>` +
		`<description><![CDATA[` + description + `]]></description>` +
		`<media:content url="https://lh3.googleusercontent.com/thumb" width="800" height="450"/>` +
		`</item>`
}

func feedDoc(items ...string) string {
	return `<?xml version="1.0"?><rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">` +
		`<channel><title>test</title>` + strings.Join(items, "") + `</channel></rss>`
}

const goodDescription = `<p>The launch went ahead on schedule after two weather delays earlier in the week. ` +
	`Engineers confirmed all systems performed within expected parameters during ascent.</p>`

func newTestService(retriever Retriever) *Service {
	return NewService(retriever, feedparse.NewParser(nil), stubResolver{}, nil)
}

func TestService_Aggregate_FiltersRejectedItems(t *testing.T) {
	body := feedDoc(
		item("[Removed]", "https://news.google.com/rss/articles/AAA", goodDescription),
		item("Too thin", "https://news.google.com/rss/articles/BBB", "<p>Short.</p>"),
		item("Launch succeeds on third attempt", "https://news.google.com/rss/articles/CCC", goodDescription),
	)
	service := newTestService(&stubRetriever{bodies: map[string]string{"news.google.com": body}})

	result, err := service.Aggregate(context.Background(), Request{
		Categories: []entity.Category{entity.CategoryTechnology},
		Country:    "us",
	})
	require.NoError(t, err)
	require.Len(t, result.Articles, 1)
	assert.Equal(t, 1, result.Total)

	article := result.Articles[0]
	assert.Equal(t, "Launch succeeds on third attempt", article.Title)
	assert.Equal(t, entity.CategoryTechnology, article.Category)
	assert.Equal(t, "https://lh3.googleusercontent.com/thumb", article.ImageURL)
	assert.Equal(t,
		"https://images.weserv.nl/?fit=cover&url=lh3.googleusercontent.com%2Fthumb&w=640",
		article.ProxiedImageURL)
	assert.Equal(t, time.Date(2025, 8, 18, 9, 30, 0, 0, time.UTC), article.PublishedAt)

	require.Len(t, result.Diagnostics, 1)
	diag := result.Diagnostics[0]
	assert.Equal(t, 3, diag.Fetched)
	assert.Equal(t, 2, diag.Rejected)
	assert.Equal(t, 1, diag.Accepted)
	assert.False(t, diag.Failed())
}

func TestService_Aggregate_IsolatesFailingCategory(t *testing.T) {
	techBody := feedDoc(item("Launch succeeds on third attempt",
		"https://news.google.com/rss/articles/CCC", goodDescription))

	// Business uses a distinct topic ID; technology resolves normally.
	service := newTestService(&stubRetriever{
		bodies: map[string]string{topicFragment(entity.CategoryTechnology): techBody},
		errs:   map[string]error{topicFragment(entity.CategoryBusiness): errors.New("all relays failed")},
	})

	result, err := service.Aggregate(context.Background(), Request{
		Categories: []entity.Category{entity.CategoryTechnology, entity.CategoryBusiness},
		Country:    "us",
	})
	require.NoError(t, err, "one healthy category keeps the run successful")
	assert.Len(t, result.Articles, 1)

	require.Len(t, result.Diagnostics, 2)
	assert.False(t, result.Diagnostics[0].Failed())
	assert.True(t, result.Diagnostics[1].Failed())
}

func TestService_Aggregate_AllCategoriesFailed(t *testing.T) {
	service := newTestService(&stubRetriever{
		errs: map[string]error{"news.google.com": errors.New("all relays failed")},
	})

	_, err := service.Aggregate(context.Background(), Request{
		Categories: []entity.Category{entity.CategoryTechnology, entity.CategoryBusiness},
		Country:    "us",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllCategoriesFailed)
}

func TestService_Aggregate_DeduplicatesAcrossCategories(t *testing.T) {
	shared := item("Launch succeeds on third attempt",
		"https://news.google.com/rss/articles/SHARED", goodDescription)

	service := newTestService(&stubRetriever{bodies: map[string]string{
		topicFragment(entity.CategoryTechnology): feedDoc(shared),
		topicFragment(entity.CategoryScience):    feedDoc(shared),
	}})

	result, err := service.Aggregate(context.Background(), Request{
		Categories: []entity.Category{entity.CategoryTechnology, entity.CategoryScience},
		Country:    "us",
	})
	require.NoError(t, err)
	require.Len(t, result.Articles, 1, "duplicate URLs collapse first-wins")
	assert.Equal(t, entity.CategoryTechnology, result.Articles[0].Category)
}

func TestService_Aggregate_PerCategoryCap(t *testing.T) {
	var items []string
	for i := 0; i < 15; i++ {
		items = append(items, item("Launch attempt number "+strings.Repeat("x", i+1),
			"https://news.google.com/rss/articles/ITEM"+strings.Repeat("A", i+1), goodDescription))
	}
	service := newTestService(&stubRetriever{bodies: map[string]string{"news.google.com": feedDoc(items...)}})

	result, err := service.Aggregate(context.Background(), Request{
		Categories: []entity.Category{entity.CategoryGeneral},
		Country:    "us",
	})
	require.NoError(t, err)
	assert.Len(t, result.Articles, perCategoryCap)
}

func TestService_Aggregate_NoCategories(t *testing.T) {
	service := newTestService(&stubRetriever{})

	_, err := service.Aggregate(context.Background(), Request{Country: "us"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoCategoriesRequested)
}

func TestService_Aggregate_Idempotent(t *testing.T) {
	body := feedDoc(item("Launch succeeds on third attempt",
		"https://news.google.com/rss/articles/CCC", goodDescription))
	service := newTestService(&stubRetriever{bodies: map[string]string{"news.google.com": body}})

	req := Request{Categories: []entity.Category{entity.CategoryTechnology}, Country: "us"}

	first, err := service.Aggregate(context.Background(), req)
	require.NoError(t, err)
	second, err := service.Aggregate(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, len(first.Articles), len(second.Articles))
	for i := range first.Articles {
		assert.Equal(t, first.Articles[i].URL, second.Articles[i].URL)
	}
}
