package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLocale(t *testing.T) {
	tests := []struct {
		name    string
		country string
		want    LocaleParams
	}{
		{
			name:    "global sentinel",
			country: "global",
			want:    LocaleParams{LanguageTag: "en-US", RegionTag: "US", FeedLocaleTag: "US:en"},
		},
		{
			name:    "empty degrades to global",
			country: "",
			want:    LocaleParams{LanguageTag: "en-US", RegionTag: "US", FeedLocaleTag: "US:en"},
		},
		{
			name:    "known non-english country",
			country: "de",
			want:    LocaleParams{LanguageTag: "de-DE", RegionTag: "DE", FeedLocaleTag: "DE:de"},
		},
		{
			name:    "known english country",
			country: "gb",
			want:    LocaleParams{LanguageTag: "en-GB", RegionTag: "GB", FeedLocaleTag: "GB:en"},
		},
		{
			name:    "uppercase input",
			country: "JP",
			want:    LocaleParams{LanguageTag: "ja-JP", RegionTag: "JP", FeedLocaleTag: "JP:ja"},
		},
		{
			name:    "unknown country falls back to english",
			country: "zz",
			want:    LocaleParams{LanguageTag: "en-ZZ", RegionTag: "ZZ", FeedLocaleTag: "ZZ:en"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLocale(tt.country))
		})
	}
}

// The resolver must be total: no 2-character input may panic or produce an
// empty triple.
func TestResolveLocale_Total(t *testing.T) {
	for a := byte('a'); a <= 'z'; a++ {
		for b := byte('a'); b <= 'z'; b++ {
			loc := ResolveLocale(string([]byte{a, b}))
			assert.NotEmpty(t, loc.LanguageTag)
			assert.NotEmpty(t, loc.RegionTag)
			assert.NotEmpty(t, loc.FeedLocaleTag)
		}
	}

	// Garbage inputs still resolve to something usable.
	for _, in := range []string{"??", "1!", "  ", "ZZZZZ", "日本"} {
		loc := ResolveLocale(in)
		assert.NotEmpty(t, loc.LanguageTag, "input %q", in)
	}
}
