// Package feedparse converts raw RSS documents into structured items for the
// aggregation pipeline. It uses the gofeed RSS parser directly rather than the
// universal facade because Google News feeds carry data the facade drops: the
// per-item <source> element, dc:creator authors, and media RSS extensions.
package feedparse

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"
)

// MediaRef is a single media reference attached to a feed item, collected
// from enclosures and media RSS content/thumbnail extensions. Width and
// Height are zero when the feed did not declare them.
type MediaRef struct {
	URL    string
	Type   string
	Width  int
	Height int
}

// RawItem is one feed entry before normalization. DescriptionHTML is kept
// verbatim, markup included, for the normalizer and image resolver to mine.
type RawItem struct {
	Title           string
	DescriptionHTML string
	Link            string
	GUID            string
	PublishedAt     time.Time
	SourceName      string
	Author          string
	MediaRefs       []MediaRef
}

// Parser parses RSS documents fetched by a Transport.
//
// Thread safety: Parser is stateless and safe for concurrent use.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a Parser. A nil logger falls back to slog.Default.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse converts an RSS document body into raw items. An item needs a title
// and an address: the link element when present, otherwise the guid (Google
// News items sometimes carry only a permalink guid). Items with neither are
// skipped rather than failing the whole document; a document that cannot be
// parsed at all returns an error.
func (p *Parser) Parse(body string) ([]RawItem, error) {
	rp := &rss.Parser{}
	feed, err := rp.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse rss document: %w", err)
	}

	items := make([]RawItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil || it.Title == "" {
			p.logger.Debug("skipping feed item without title")
			continue
		}

		guid := ""
		if it.GUID != nil {
			guid = strings.TrimSpace(it.GUID.Value)
		}
		link := strings.TrimSpace(it.Link)
		if link == "" {
			link = guid
		}
		if link == "" {
			p.logger.Debug("skipping feed item without link or guid")
			continue
		}

		publishedAt := time.Now().UTC()
		if it.PubDateParsed != nil {
			publishedAt = it.PubDateParsed.UTC()
		}

		raw := RawItem{
			Title:           strings.TrimSpace(it.Title),
			DescriptionHTML: it.Description,
			Link:            link,
			GUID:            guid,
			PublishedAt:     publishedAt,
			Author:          itemAuthor(it),
			MediaRefs:       mediaRefs(it),
		}
		if it.Source != nil {
			raw.SourceName = strings.TrimSpace(it.Source.Title)
		}

		items = append(items, raw)
	}

	return items, nil
}

// itemAuthor prefers dc:creator over the RSS author element, matching how
// Google News feeds actually populate authorship.
func itemAuthor(it *rss.Item) string {
	if it.DublinCoreExt != nil && len(it.DublinCoreExt.Creator) > 0 {
		return strings.TrimSpace(it.DublinCoreExt.Creator[0])
	}
	return strings.TrimSpace(it.Author)
}

// mediaRefs collects media references from the enclosure and any media RSS
// content/thumbnail extensions, in that order.
func mediaRefs(it *rss.Item) []MediaRef {
	var refs []MediaRef

	if it.Enclosure != nil && it.Enclosure.URL != "" {
		refs = append(refs, MediaRef{
			URL:  it.Enclosure.URL,
			Type: it.Enclosure.Type,
		})
	}

	media, ok := it.Extensions["media"]
	if !ok {
		return refs
	}
	for _, name := range []string{"content", "thumbnail"} {
		for _, ext := range media[name] {
			url := ext.Attrs["url"]
			if url == "" {
				continue
			}
			refs = append(refs, MediaRef{
				URL:    url,
				Type:   ext.Attrs["type"],
				Width:  atoiOrZero(ext.Attrs["width"]),
				Height: atoiOrZero(ext.Attrs["height"]),
			})
		}
	}

	return refs
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
