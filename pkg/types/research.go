// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the deepsearch pipeline.
package types

// Source is an accepted web-search result. A candidate becomes a Source only
// when its content exceeds the pipeline's minimum length; once collected it
// is never mutated.
type Source struct {
	// Title is the page title as returned by the search provider. Sources
	// found by a follow-up search carry the "[Follow-up] " prefix.
	Title string `json:"title" yaml:"title"`

	// Content is the raw retrieved text snippet.
	Content string `json:"content" yaml:"content"`

	// URL is the source page address.
	URL string `json:"url" yaml:"url"`
}

// ResearchResult is the record assembled by one pipeline invocation. It is
// immutable after construction and serializes losslessly to JSON.
//
// SourceCount always equals len(Sources). FollowUpQuery is set exactly when
// the two-pass flow ran.
type ResearchResult struct {
	// Query is the research question as entered by the operator.
	Query string `json:"query" yaml:"query"`

	// FollowUpQuery is the model-derived second-layer search query.
	// Empty for single-pass runs.
	FollowUpQuery string `json:"follow_up_query,omitempty" yaml:"follow_up_query,omitempty"`

	// SourceCount is the number of accepted sources across all layers.
	SourceCount int `json:"source_count" yaml:"source_count"`

	// Narrative is the verbatim synthesis text returned by the completion
	// provider. It is stored without parsing; callers must tolerate the
	// provider-failure sentinel appearing here.
	Narrative string `json:"narrative" yaml:"narrative"`

	// Sources lists the accepted sources in collection order, layer 1 first.
	Sources []Source `json:"sources" yaml:"sources"`
}
