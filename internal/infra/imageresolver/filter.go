package imageresolver

import (
	"net/url"
	"strings"
)

// minStockPixels is the smallest width*height accepted from stock search
// results. Anything below renders blurry on a full-bleed card.
const minStockPixels = 640 * 360

// rejectedURLFragments mark tracking pixels, favicons, and site chrome that
// must never become a card image.
var rejectedURLFragments = []string{
	"1x1", "16x16", "32x32",
	"favicon", "logo", "sprite", "icon",
	"placeholder", "blank.", "spacer",
	"pixel.gif", "avatar", "badge",
}

// preferredImageHosts are the Google image CDNs that serve the actual story
// thumbnail. When several candidates exist these win.
var preferredImageHosts = []string{
	"lh3.googleusercontent.com",
	"encrypted-tbn",
}

// acceptableImageURL reports whether a candidate URL may be used as a card
// image. Data URIs, relative paths, and known chrome fragments are rejected.
func acceptableImageURL(raw string) bool {
	if raw == "" || strings.HasPrefix(raw, "data:") {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return false
	}
	lower := strings.ToLower(raw)
	for _, fragment := range rejectedURLFragments {
		if strings.Contains(lower, fragment) {
			return false
		}
	}
	return true
}

// preferredImageURL reports whether the URL is served by a preferred host.
func preferredImageURL(raw string) bool {
	for _, host := range preferredImageHosts {
		if strings.Contains(raw, host) {
			return true
		}
	}
	return false
}

// absolutize resolves candidate against base, returning "" when the result
// is not an absolute HTTP URL.
func absolutize(base *url.URL, candidate string) string {
	ref, err := url.Parse(strings.TrimSpace(candidate))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}
