package aggregate

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"

	"cardfeed/internal/domain/entity"
	"cardfeed/internal/infra/feedparse"
)

// Normalization thresholds. Feed summaries are cleaned and re-segmented so
// every card shows a readable teaser; items that cannot produce one are
// rejected rather than rendered half-empty.
const (
	// minSentenceLength filters navigation fragments and source attributions
	// out of the sentence units considered for the summary.
	minSentenceLength = 20

	// maxSummarySentences caps the number of sentence units joined together.
	maxSummarySentences = 3

	// shortSummaryThreshold triggers the prefix fallback when sentence
	// segmentation produced too little text.
	shortSummaryThreshold = 80

	// fallbackPrefixLength bounds the word-boundary prefix used as fallback.
	fallbackPrefixLength = 200

	// minAcceptedSummaryLength rejects items whose summary stayed too short
	// even after the fallback.
	minAcceptedSummaryLength = 50
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	anchorPattern     = regexp.MustCompile(`<a\s[^>]*href="([^"]+)"`)
	sentenceEnd       = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// Normalizer converts raw feed items into validated articles.
//
// Thread safety: Normalizer is stateless and safe for concurrent use.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize produces an article from a raw feed item. It returns a
// RejectionError when the item fails quality checks; any other error means
// the item was structurally unusable.
func (n *Normalizer) Normalize(raw feedparse.RawItem, category entity.Category) (*entity.Article, error) {
	title := collapseWhitespace(html.UnescapeString(raw.Title))
	if title == "" || title == entity.RemovedMarker {
		return nil, &RejectionError{Reason: RejectRemovedTitle,
			Detail: "title empty or marked removed"}
	}

	summary := n.buildSummary(raw.DescriptionHTML)
	if len(summary) < minAcceptedSummaryLength {
		return nil, &RejectionError{Reason: RejectShortSummary,
			Detail: fmt.Sprintf("summary length %d below %d", len(summary), minAcceptedSummaryLength)}
	}

	sourceName := raw.SourceName
	if sourceName == "" {
		sourceName = entity.DefaultSourceName
	}

	article := &entity.Article{
		Title:       title,
		Summary:     summary,
		URL:         raw.Link,
		OriginalURL: originalURL(raw.DescriptionHTML, raw.Link),
		PublishedAt: raw.PublishedAt,
		Source:      entity.Source{Name: sourceName},
		Category:    category,
		Author:      raw.Author,
	}

	if err := article.Validate(); err != nil {
		return nil, &RejectionError{Reason: RejectInvalid, Detail: err.Error()}
	}
	return article, nil
}

// buildSummary strips markup from the description and re-segments it into at
// most three substantial sentence units. When segmentation yields too little
// text the full cleaned description is truncated at a word boundary instead.
func (n *Normalizer) buildSummary(descriptionHTML string) string {
	text := collapseWhitespace(html.UnescapeString(tagPattern.ReplaceAllString(descriptionHTML, " ")))
	if text == "" {
		return ""
	}

	var units []string
	for _, match := range sentenceEnd.FindAllString(text, -1) {
		unit := strings.TrimSpace(match)
		if len(unit) > minSentenceLength {
			units = append(units, unit)
		}
		if len(units) == maxSummarySentences {
			break
		}
	}

	summary := strings.Join(units, " ")
	if len(summary) >= shortSummaryThreshold {
		return summary
	}
	return truncateAtWord(text, fallbackPrefixLength)
}

// originalURL recovers the publisher URL from the first anchor in the
// description when it differs from the aggregator link. Google News items
// link to a redirect page; the anchor points at the actual story.
func originalURL(descriptionHTML, link string) string {
	match := anchorPattern.FindStringSubmatch(descriptionHTML)
	if match == nil {
		return ""
	}
	href := html.UnescapeString(match[1])
	if href == link || !strings.HasPrefix(href, "http") {
		return ""
	}
	return href
}

// truncateAtWord shortens text to at most limit bytes, cutting back to the
// previous word boundary and appending an ellipsis. Short text is returned
// unchanged.
func truncateAtWord(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := text[:limit]
	if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;:") + "…"
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
