package imageresolver

import (
	"context"
	"html"
	"regexp"

	"cardfeed/internal/infra/feedparse"
	"cardfeed/internal/usecase/aggregate"
)

var imgSrcPattern = regexp.MustCompile(`<img\s[^>]*src=["']([^"']+)["']`)

// InlineStrategy mines <img> tags out of the item's description markup.
// Google image CDN hosts win over arbitrary publisher hosts because they are
// the story thumbnail rather than incidental page imagery.
type InlineStrategy struct{}

func NewInlineStrategy() *InlineStrategy { return &InlineStrategy{} }

func (*InlineStrategy) Name() string { return "inline" }

func (*InlineStrategy) Resolve(_ context.Context, item feedparse.RawItem, _ string) (aggregate.ImageResult, bool) {
	var fallback string
	for _, match := range imgSrcPattern.FindAllStringSubmatch(item.DescriptionHTML, -1) {
		src := html.UnescapeString(match[1])
		if !acceptableImageURL(src) {
			continue
		}
		if preferredImageURL(src) {
			return aggregate.ImageResult{URL: src}, true
		}
		if fallback == "" {
			fallback = src
		}
	}
	if fallback != "" {
		return aggregate.ImageResult{URL: fallback}, true
	}
	return aggregate.ImageResult{}, false
}
