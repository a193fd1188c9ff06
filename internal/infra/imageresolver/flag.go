package imageresolver

import (
	"context"
	"strings"

	"cardfeed/internal/feed"
	"cardfeed/internal/infra/feedparse"
	"cardfeed/internal/usecase/aggregate"
)

const (
	flagBaseURL = "https://flagcdn.com/w320/"

	// globalFlagCode is the flag shown for the worldwide edition.
	globalFlagCode = "un"
)

// FlagStrategy is the terminal fallback: the requesting country's flag.
// It always succeeds, guaranteeing every article has an image.
type FlagStrategy struct{}

func NewFlagStrategy() *FlagStrategy { return &FlagStrategy{} }

func (*FlagStrategy) Name() string { return "flag" }

func (*FlagStrategy) Resolve(_ context.Context, _ feedparse.RawItem, country string) (aggregate.ImageResult, bool) {
	return aggregate.ImageResult{URL: FlagURL(country)}, true
}

// FlagURL returns the flag image URL for a country code. The global edition
// and unrecognized codes map to the UN flag.
func FlagURL(country string) string {
	code := strings.ToLower(strings.TrimSpace(country))
	if code == "" || code == feed.GlobalCountry || len(code) != 2 {
		return flagBaseURL + globalFlagCode + ".png"
	}
	return flagBaseURL + code + ".png"
}
