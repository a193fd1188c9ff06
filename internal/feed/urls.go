package feed

import (
	"net/url"

	"cardfeed/internal/domain/entity"
)

const (
	topicFeedBase  = "https://news.google.com/rss/topics/"
	searchFeedBase = "https://news.google.com/rss/search"
)

// topicIDs maps each category to its feed-host topic identifier. Politics has
// no stable topic on the feed host and is served through the search endpoint
// instead (see BuildFeedURL).
var topicIDs = map[entity.Category]string{
	entity.CategoryTechnology:    "CAAqJggKIiBDQkFTRWdvSUwyMHZNRGRqTVhZU0FtVnVHZ0pWVXlnQVAB",
	entity.CategoryGeneral:       "CAAqJggKIiBDQkFTRWdvSUwyMHZNRFZxYUdjU0FtVnVHZ0pWVXlnQVAB",
	entity.CategoryBusiness:      "CAAqJggKIiBDQkFTRWdvSUwyMHZNRGx6TVdZU0FtVnVHZ0pWVXlnQVAB",
	entity.CategorySports:        "CAAqJggKIiBDQkFTRWdvSUwyMHZNRFp1ZEdvU0FtVnVHZ0pWVXlnQVAB",
	entity.CategoryScience:       "CAAqJggKIiBDQkFTRWdvSUwyMHZNRFp0Y0RvU0FtVnVHZ0pWVXlnQVAB",
	entity.CategoryHealth:        "CAAqIQgKIhtDQkFTRGdvSUwyMHZNR3QwTlRFU0FtVnVLQUFQAQ",
	entity.CategoryEntertainment: "CAAqJggKIiBDQkFTRWdvSUwyMHZNREpxYW5RU0FtVnVHZ0pWVXlnQVAB",
}

// BuildFeedURL maps a category and locale to the concrete feed endpoint URL.
// Unrecognized categories use the general template. Pure mapping, no failure
// mode.
func BuildFeedURL(category entity.Category, loc LocaleParams) string {
	q := url.Values{}
	q.Set("hl", loc.LanguageTag)
	q.Set("gl", loc.RegionTag)
	q.Set("ceid", loc.FeedLocaleTag)

	if category == entity.CategoryPolitics {
		q.Set("q", "politics")
		return searchFeedBase + "?" + q.Encode()
	}

	topic, ok := topicIDs[category]
	if !ok {
		topic = topicIDs[entity.CategoryGeneral]
	}
	return topicFeedBase + topic + "?" + q.Encode()
}
