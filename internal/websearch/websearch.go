// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch queries a web-search provider and returns raw snippet
// candidates. The adapter performs no filtering; the pipeline applies the
// minimum-content-length rule and the degrade-to-empty failure policy.
package websearch

import "context"

// Candidate is a raw search hit before any filtering. Title or Text may be
// empty depending on what the provider returned.
type Candidate struct {
	Title string
	Text  string
	URL   string
}

// Backend searches a single web-search provider.
type Backend interface {
	Name() string

	// Search returns up to count candidates for the query, in provider
	// order. Errors are transport or provider failures; the caller decides
	// how to degrade.
	Search(ctx context.Context, query string, count int) ([]Candidate, error)
}
