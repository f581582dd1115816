// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates web search and completion into research runs.
//
// Two flows exist: a single-pass run (search, filter, synthesize) and a
// two-pass run that derives a follow-up query from layer-1 findings and
// merges a second search before the final synthesis. Both are strictly
// sequential.
//
// Failure policy is degrade-to-default and it is part of the contract, not
// an accidental swallow: a failed search behaves exactly like a search that
// found nothing, and a failed completion yields the sentinel narrative
// "Error: Could not get AI response". No provider error crosses the
// pipeline API; only credential validation at construction can fail.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/deepsearch/internal/completion"
	"github.com/pdiddy/deepsearch/internal/config"
	"github.com/pdiddy/deepsearch/internal/websearch"
	"github.com/pdiddy/deepsearch/pkg/types"
)

const (
	// minContentLength is the acceptance threshold: a candidate becomes a
	// Source only when its content is strictly longer than this.
	minContentLength = 200

	// Result counts requested per search call.
	basicResultCount = 5
	deepLayer1Count  = 6
	deepLayer2Count  = 4

	// Prompt context limits: how many sources go into each prompt and how
	// many characters of each are quoted.
	basicContextSources = 4
	basicContextChars   = 400
	deepContextSources  = 4
	deepContextChars    = 300
	finalContextSources = 7

	// followUpTitlePrefix marks layer-2 provenance on source titles.
	followUpTitlePrefix = "[Follow-up] "

	// noSourcesNarrative is returned when zero candidates survive the
	// filter; the completion provider is not called in that case.
	noSourcesNarrative = "No sources found"

	// completionFailedSentinel replaces the narrative when the completion
	// provider fails. Callers cannot distinguish it from model output.
	completionFailedSentinel = "Error: Could not get AI response"
)

const defaultHTTPTimeout = 30 * time.Second

// Pipeline runs research flows over a search backend and a completion
// backend. Both handles are stateless apart from held credentials and are
// treated as read-only for the pipeline's lifetime.
type Pipeline struct {
	search websearch.Backend
	model  completion.Backend
	w      io.Writer
}

// New builds a Pipeline over explicit backends. Progress notes are written
// to w; pass nil to discard them.
func New(search websearch.Backend, model completion.Backend, w io.Writer) *Pipeline {
	if w == nil {
		w = io.Discard
	}
	return &Pipeline{search: search, model: model, w: w}
}

// FromCredentials validates the credentials and wires live Exa and Cerebras
// backends. Validation happens before any network capability is created;
// a missing or placeholder key returns a *config.Error.
func FromCredentials(creds config.Credentials, cfg types.CompletionConfig, w io.Writer) (*Pipeline, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	client := &http.Client{Timeout: timeout}

	search := &websearch.ExaBackend{Client: client, APIKey: creds.ExaAPIKey}
	model := &completion.CerebrasBackend{Client: client, APIKey: creds.CerebrasAPIKey, Model: cfg.Model}
	return New(search, model, w), nil
}

// Research runs the single-pass flow: one search, the acceptance filter,
// and one synthesis completion. On zero accepted sources it returns the
// "No sources found" result without calling the completion provider.
func (p *Pipeline) Research(ctx context.Context, query string) *types.ResearchResult {
	fmt.Fprintf(p.w, "researching: %s\n", query)

	sources := p.collect(ctx, query, basicResultCount, "")
	fmt.Fprintf(p.w, "accepted %d sources\n", len(sources))

	if len(sources) == 0 {
		return &types.ResearchResult{Query: query, Narrative: noSourcesNarrative}
	}

	prompt, err := renderBasicPrompt(query, sources)
	narrative := p.synthesize(ctx, prompt, err)

	return &types.ResearchResult{
		Query:       query,
		SourceCount: len(sources),
		Narrative:   narrative,
		Sources:     sources,
	}
}

// DeepResearch runs the two-pass flow. Layer 1 mirrors Research with a
// larger request; the model then derives a follow-up query, layer 2 searches
// it, and the final synthesis covers the cumulative source list. Layer-1
// sources are never discarded.
func (p *Pipeline) DeepResearch(ctx context.Context, query string) *types.ResearchResult {
	fmt.Fprintf(p.w, "researching: %s\n", query)

	sources := p.collect(ctx, query, deepLayer1Count, "")
	fmt.Fprintf(p.w, "layer 1: %d sources\n", len(sources))

	if len(sources) == 0 {
		return &types.ResearchResult{Query: query, Narrative: noSourcesNarrative}
	}

	followUpPrompt, err := renderFollowUpPrompt(query, sources)
	followUp := trimFollowUp(p.synthesize(ctx, followUpPrompt, err))

	// The follow-up query is not validated: an empty or malformed query
	// (including the completion sentinel) is searched as-is.
	fmt.Fprintf(p.w, "layer 2: investigating %q\n", followUp)
	sources = append(sources, p.collect(ctx, followUp, deepLayer2Count, followUpTitlePrefix)...)
	fmt.Fprintf(p.w, "total sources: %d\n", len(sources))

	finalPrompt, err := renderFinalPrompt(query, followUp, sources)
	narrative := p.synthesize(ctx, finalPrompt, err)

	return &types.ResearchResult{
		Query:         query,
		FollowUpQuery: followUp,
		SourceCount:   len(sources),
		Narrative:     narrative,
		Sources:       sources,
	}
}

// collect searches the backend and applies the acceptance filter. A backend
// failure degrades to an empty slice after a warning: the caller sees a
// provider outage and a genuinely empty result set identically.
func (p *Pipeline) collect(ctx context.Context, query string, count int, titlePrefix string) []types.Source {
	candidates, err := p.search.Search(ctx, query, count)
	if err != nil {
		fmt.Fprintf(p.w, "warning: %s search failed: %v\n", p.search.Name(), err)
		return nil
	}

	var sources []types.Source
	for _, c := range candidates {
		if utf8.RuneCountInString(c.Text) <= minContentLength {
			continue
		}
		sources = append(sources, types.Source{
			Title:   titlePrefix + c.Title,
			Content: c.Text,
			URL:     c.URL,
		})
	}
	return sources
}

// synthesize calls the completion backend, substituting the sentinel string
// on any failure (including a prompt render error, which skips the call).
func (p *Pipeline) synthesize(ctx context.Context, prompt string, renderErr error) string {
	if renderErr != nil {
		fmt.Fprintf(p.w, "warning: rendering prompt: %v\n", renderErr)
		return completionFailedSentinel
	}

	text, err := p.model.Complete(ctx, prompt)
	if err != nil {
		fmt.Fprintf(p.w, "warning: completion failed: %v\n", err)
		return completionFailedSentinel
	}
	return text
}

// trimFollowUp strips surrounding whitespace and one layer of enclosing
// quotes from the model's follow-up response.
func trimFollowUp(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	return s
}
