// Package website crawls a site breadth-first from a start URL and
// aggregates the visible text of every page it fetches.
//
// Only links on the start URL's host are followed. Fetches are sequential
// and spaced by a token-bucket limiter; each fetch has its own timeout and
// the whole crawl may be bounded by a budget. Pages that fail to fetch or
// parse are logged and skipped.
package website
