package imageresolver

import (
	"context"
	"strings"

	"cardfeed/internal/infra/feedparse"
	"cardfeed/internal/usecase/aggregate"
)

// minDeclaredDimension rejects media refs that declare icon-sized
// dimensions. Refs without declared dimensions are judged by URL alone.
const minDeclaredDimension = 64

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".avif"}

// MediaStrategy picks an image from the feed item's declared media
// references (enclosures and media RSS content/thumbnail elements).
type MediaStrategy struct{}

func NewMediaStrategy() *MediaStrategy { return &MediaStrategy{} }

func (*MediaStrategy) Name() string { return "media" }

func (*MediaStrategy) Resolve(_ context.Context, item feedparse.RawItem, _ string) (aggregate.ImageResult, bool) {
	var fallback string
	for _, ref := range item.MediaRefs {
		if !usableMediaRef(ref) {
			continue
		}
		if preferredImageURL(ref.URL) {
			return aggregate.ImageResult{URL: ref.URL}, true
		}
		if fallback == "" {
			fallback = ref.URL
		}
	}
	if fallback != "" {
		return aggregate.ImageResult{URL: fallback}, true
	}
	return aggregate.ImageResult{}, false
}

func usableMediaRef(ref feedparse.MediaRef) bool {
	if !acceptableImageURL(ref.URL) {
		return false
	}
	if ref.Width > 0 && ref.Width < minDeclaredDimension {
		return false
	}
	if ref.Height > 0 && ref.Height < minDeclaredDimension {
		return false
	}
	if ref.Type != "" {
		return strings.HasPrefix(ref.Type, "image/")
	}
	return hasImageExtension(ref.URL) || preferredImageURL(ref.URL)
}

func hasImageExtension(raw string) bool {
	lower := strings.ToLower(raw)
	if idx := strings.IndexAny(lower, "?#"); idx >= 0 {
		lower = lower[:idx]
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
