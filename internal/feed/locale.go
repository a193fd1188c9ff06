// Package feed maps requested categories and countries onto concrete,
// locale-aware feed endpoint URLs. Everything in this package is a pure
// function: no I/O, no failure modes, total over arbitrary input.
package feed

import "strings"

// GlobalCountry is the sentinel country code for the worldwide edition.
const GlobalCountry = "global"

// LocaleParams is the language/region triple interpolated into feed URLs as
// the hl, gl and ceid query parameters. It is a URL-building intermediate and
// is never persisted.
type LocaleParams struct {
	LanguageTag   string // hl, e.g. "en-US"
	RegionTag     string // gl, e.g. "US"
	FeedLocaleTag string // ceid, e.g. "US:en"
}

// defaultLocale is the worldwide English/US edition.
var defaultLocale = LocaleParams{
	LanguageTag:   "en-US",
	RegionTag:     "US",
	FeedLocaleTag: "US:en",
}

// primaryLanguages maps ISO-3166 alpha-2 country codes to the country's
// primary content language. Countries absent from the table degrade to
// English rather than failing; the feed host serves an English edition for
// every region.
var primaryLanguages = map[string]string{
	"ar": "es",
	"at": "de",
	"au": "en",
	"be": "nl",
	"bg": "bg",
	"br": "pt",
	"ca": "en",
	"ch": "de",
	"cl": "es",
	"cn": "zh",
	"co": "es",
	"cz": "cs",
	"de": "de",
	"dk": "da",
	"eg": "ar",
	"es": "es",
	"fi": "fi",
	"fr": "fr",
	"gb": "en",
	"gr": "el",
	"hk": "zh",
	"hu": "hu",
	"id": "id",
	"ie": "en",
	"il": "he",
	"in": "en",
	"it": "it",
	"jp": "ja",
	"kr": "ko",
	"mx": "es",
	"my": "ms",
	"ng": "en",
	"nl": "nl",
	"no": "no",
	"nz": "en",
	"pe": "es",
	"ph": "en",
	"pk": "en",
	"pl": "pl",
	"pt": "pt",
	"ro": "ro",
	"rs": "sr",
	"ru": "ru",
	"sa": "ar",
	"se": "sv",
	"sg": "en",
	"sk": "sk",
	"th": "th",
	"tr": "tr",
	"tw": "zh",
	"ua": "uk",
	"us": "en",
	"ve": "es",
	"vn": "vi",
	"za": "en",
}

// ResolveLocale derives the LocaleParams for a country code. The sentinel
// GlobalCountry maps to the English/US edition. Any other input is treated as
// an ISO-3166 alpha-2 code: the country's primary language is looked up and a
// "<lang>-<CC>" language tag is built; unknown countries degrade to
// "en-<CC>". The function never fails, whatever the input.
func ResolveLocale(country string) LocaleParams {
	cc := strings.ToLower(strings.TrimSpace(country))
	if cc == "" || cc == GlobalCountry {
		return defaultLocale
	}

	lang, ok := primaryLanguages[cc]
	if !ok || lang == "" {
		lang = "en"
	}

	region := strings.ToUpper(cc)
	return LocaleParams{
		LanguageTag:   lang + "-" + region,
		RegionTag:     region,
		FeedLocaleTag: region + ":" + lang,
	}
}
