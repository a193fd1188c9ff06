package aggregate

import (
	"net/url"
	"strings"
)

const (
	imageProxyBase  = "https://images.weserv.nl/"
	imageProxyWidth = "640"
)

// proxiedImageURL builds an images.weserv.nl URL that serves a resized,
// cached copy of src. The proxy expects the target without its scheme.
// Returns "" for empty input so callers can assign unconditionally.
func proxiedImageURL(src string) string {
	if src == "" {
		return ""
	}
	target := strings.TrimPrefix(strings.TrimPrefix(src, "https://"), "http://")
	q := url.Values{}
	q.Set("url", target)
	q.Set("w", imageProxyWidth)
	q.Set("fit", "cover")
	return imageProxyBase + "?" + q.Encode()
}
