package imageresolver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cardfeed/internal/domain/entity"
	"cardfeed/internal/infra/feedparse"
	"cardfeed/internal/usecase/aggregate"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// scrapeTimeout bounds one publisher page fetch. Scraping is best effort;
// a slow page must not stall the whole cascade.
const scrapeTimeout = 8 * time.Second

var anchorHrefPattern = regexp.MustCompile(`<a\s[^>]*href=["']([^"']+)["']`)

// Fetcher retrieves a page body. The transport package implementations
// satisfy it.
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

// ScrapeStrategy fetches the publisher page and extracts its lead image
// from, in order: Open Graph and Twitter card metadata, JSON-LD structured
// data, the legacy image_src link, the largest srcset candidate, and finally
// the first absolute image inside the readable article body. When the page
// declares a cross-host canonical URL the canonical page's metadata is
// merged in as well.
type ScrapeStrategy struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewScrapeStrategy creates a ScrapeStrategy. A nil logger falls back to
// slog.Default.
func NewScrapeStrategy(fetcher Fetcher, logger *slog.Logger) *ScrapeStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScrapeStrategy{fetcher: fetcher, logger: logger}
}

func (*ScrapeStrategy) Name() string { return "scrape" }

func (s *ScrapeStrategy) Resolve(ctx context.Context, item feedparse.RawItem, _ string) (aggregate.ImageResult, bool) {
	target := scrapeTarget(item)
	if target == "" {
		return aggregate.ImageResult{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, scrapeTimeout)
	defer cancel()

	candidate := s.scrapePage(ctx, target, true)
	if candidate == "" {
		return aggregate.ImageResult{}, false
	}
	return aggregate.ImageResult{URL: candidate}, true
}

// scrapeTarget prefers the publisher URL recovered from the description's
// first anchor over the aggregator redirect link.
func scrapeTarget(item feedparse.RawItem) string {
	if match := anchorHrefPattern.FindStringSubmatch(item.DescriptionHTML); match != nil {
		href := strings.TrimSpace(match[1])
		if href != item.Link && strings.HasPrefix(href, "http") {
			return href
		}
	}
	return item.Link
}

// scrapePage fetches one page and extracts an image candidate.
// followCanonical allows a single cross-host canonical hop.
func (s *ScrapeStrategy) scrapePage(ctx context.Context, pageURL string, followCanonical bool) string {
	// Feed markup is attacker-influenced; never dereference unsafe targets.
	if err := entity.ValidateURL(pageURL); err != nil {
		s.logger.Debug("scrape target rejected", slog.String("url", pageURL), slog.Any("error", err))
		return ""
	}

	body, err := s.fetcher.Get(ctx, pageURL)
	if err != nil {
		s.logger.Debug("page scrape failed", slog.String("url", pageURL), slog.Any("error", err))
		return ""
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		s.logger.Debug("page parse failed", slog.String("url", pageURL), slog.Any("error", err))
		return ""
	}

	if candidate := extractMetaImage(doc, base); candidate != "" {
		return candidate
	}

	if followCanonical {
		if canonical := crossHostCanonical(doc, base); canonical != "" {
			if candidate := s.scrapePage(ctx, canonical, false); candidate != "" {
				return candidate
			}
		}
	}

	if candidate := extractSrcsetImage(doc, base); candidate != "" {
		return candidate
	}
	return s.extractReadableImage(body, base)
}

// extractMetaImage checks page metadata in priority order.
func extractMetaImage(doc *goquery.Document, base *url.URL) string {
	selectors := []string{
		`meta[property="og:image"]`,
		`meta[property="og:image:url"]`,
		`meta[name="twitter:image"]`,
		`meta[property="twitter:image"]`,
	}
	for _, selector := range selectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if candidate := validCandidate(base, content); candidate != "" {
				return candidate
			}
		}
	}

	if candidate := extractJSONLDImage(doc, base); candidate != "" {
		return candidate
	}

	if href, ok := doc.Find(`link[rel="image_src"]`).First().Attr("href"); ok {
		if candidate := validCandidate(base, href); candidate != "" {
			return candidate
		}
	}
	return ""
}

// extractJSONLDImage digs an image URL out of JSON-LD blocks, tolerating the
// common shapes: a string, a list, or an ImageObject.
func extractJSONLDImage(doc *goquery.Document, base *url.URL) string {
	var found string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var payload map[string]any
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			return true
		}
		if candidate := validCandidate(base, jsonLDImageValue(payload["image"])); candidate != "" {
			found = candidate
			return false
		}
		return true
	})
	return found
}

func jsonLDImageValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			return jsonLDImageValue(v[0])
		}
	case map[string]any:
		if u, ok := v["url"].(string); ok {
			return u
		}
	}
	return ""
}

// extractSrcsetImage picks the srcset candidate with the largest declared
// width across all images on the page.
func extractSrcsetImage(doc *goquery.Document, base *url.URL) string {
	var best string
	var bestWidth int
	doc.Find("img[srcset]").Each(func(_ int, sel *goquery.Selection) {
		srcset, _ := sel.Attr("srcset")
		for _, entry := range strings.Split(srcset, ",") {
			fields := strings.Fields(strings.TrimSpace(entry))
			if len(fields) == 0 {
				continue
			}
			width := 0
			if len(fields) > 1 && strings.HasSuffix(fields[1], "w") {
				width, _ = strconv.Atoi(strings.TrimSuffix(fields[1], "w"))
			}
			candidate := validCandidate(base, fields[0])
			if candidate == "" {
				continue
			}
			// Bare entries carry no width; the first one still counts so a
			// descriptor-less srcset is not skipped wholesale.
			if best == "" || width > bestWidth {
				best, bestWidth = candidate, width
			}
		}
	})
	return best
}

// extractReadableImage falls back to the first acceptable image inside the
// readable article content, skipping page chrome outside it.
func (s *ScrapeStrategy) extractReadableImage(body string, base *url.URL) string {
	article, err := readability.FromReader(strings.NewReader(body), base)
	if err != nil {
		return ""
	}
	for _, match := range imgSrcPattern.FindAllStringSubmatch(article.Content, -1) {
		if candidate := validCandidate(base, match[1]); candidate != "" {
			return candidate
		}
	}
	return ""
}

// crossHostCanonical returns the canonical URL only when it points at a
// different host than the page itself.
func crossHostCanonical(doc *goquery.Document, base *url.URL) string {
	href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok {
		return ""
	}
	canonical, err := url.Parse(strings.TrimSpace(href))
	if err != nil || !canonical.IsAbs() || canonical.Host == base.Host {
		return ""
	}
	return canonical.String()
}

// validCandidate absolutizes and filters one candidate URL.
func validCandidate(base *url.URL, raw string) string {
	if raw == "" {
		return ""
	}
	resolved := absolutize(base, raw)
	if resolved == "" || !acceptableImageURL(resolved) {
		return ""
	}
	return resolved
}
