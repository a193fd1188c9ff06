// Package resilience groups reliability patterns used around outbound HTTP
// calls: retry with exponential backoff (retry) and circuit breaking
// (circuitbreaker). The transport and image-resolution layers wrap every
// relay, scrape and search call with both.
package resilience
