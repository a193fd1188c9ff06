// Diagnostic tool that checks every category feed for a country: retrieval
// status, item count, latest publication date, and response time. Useful for
// verifying locale and relay behavior against the live upstream.
//
// Usage:
//
//	go run scripts/diagnose_feeds.go [-country us] [-relay] [-timeout 15s]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"cardfeed/internal/domain/entity"
	"cardfeed/internal/feed"
	"cardfeed/internal/infra/feedparse"
	"cardfeed/internal/infra/transport"
)

// FeedDiagnostic is the per-category result.
type FeedDiagnostic struct {
	Category     string `json:"category"`
	URL          string `json:"url"`
	Status       string `json:"status"` // "OK", "FETCH_ERROR", "PARSE_ERROR", "EMPTY"
	ItemCount    int    `json:"item_count"`
	LatestDate   string `json:"latest_date,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
}

func main() {
	country := flag.String("country", "us", "country code or \"global\"")
	useRelay := flag.Bool("relay", false, "fetch through the relay chain")
	timeout := flag.Duration("timeout", 15*time.Second, "per-feed timeout")
	flag.Parse()

	client := transport.NewHTTPClient(*timeout)
	var retriever transport.Transport
	if *useRelay {
		retriever = transport.NewRelayChainTransport(nil, client, *timeout)
	} else {
		retriever = transport.NewDirectTransport(client)
	}

	parser := feedparse.NewParser(nil)
	loc := feed.ResolveLocale(*country)
	log.Printf("diagnosing feeds: country=%s hl=%s gl=%s ceid=%s relay=%v",
		*country, loc.LanguageTag, loc.RegionTag, loc.FeedLocaleTag, *useRelay)

	results := make([]FeedDiagnostic, 0, len(entity.AllCategories))
	okCount := 0
	for _, category := range entity.AllCategories {
		diag := diagnose(retriever, parser, category, loc, *timeout)
		if diag.Status == "OK" {
			okCount++
		}
		results = append(results, diag)
		log.Printf("%-14s %-12s items=%-3d %dms %s",
			category, diag.Status, diag.ItemCount, diag.ResponseTime, diag.ErrorMessage)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		log.Fatalf("encode results: %v", err)
	}

	log.Printf("done: %d/%d feeds healthy", okCount, len(results))
	if okCount == 0 {
		os.Exit(1)
	}
}

func diagnose(retriever transport.Transport, parser *feedparse.Parser, category entity.Category, loc feed.LocaleParams, timeout time.Duration) FeedDiagnostic {
	url := feed.BuildFeedURL(category, loc)
	diag := FeedDiagnostic{Category: string(category), URL: url}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	body, err := retriever.Get(ctx, url)
	diag.ResponseTime = time.Since(start).Milliseconds()
	if err != nil {
		diag.Status = "FETCH_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	items, err := parser.Parse(body)
	if err != nil {
		diag.Status = "PARSE_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	diag.ItemCount = len(items)
	if len(items) == 0 {
		diag.Status = "EMPTY"
		return diag
	}

	diag.Status = "OK"
	latest := items[0].PublishedAt
	for _, item := range items[1:] {
		if item.PublishedAt.After(latest) {
			latest = item.PublishedAt
		}
	}
	diag.LatestDate = latest.Format(time.RFC3339)
	return diag
}
