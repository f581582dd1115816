// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/deepsearch/internal/history"
	"github.com/pdiddy/deepsearch/internal/pipeline"
	"github.com/pdiddy/deepsearch/internal/websearch"
	"github.com/pdiddy/deepsearch/pkg/types"
)

type menuSearch struct {
	calls []string
}

func (s *menuSearch) Name() string { return "menu-stub" }

func (s *menuSearch) Search(_ context.Context, query string, count int) ([]websearch.Candidate, error) {
	s.calls = append(s.calls, query)
	return []websearch.Candidate{
		{Title: "Stub Source", Text: strings.Repeat("x", 250), URL: "https://stub.example"},
	}, nil
}

type menuCompletion struct {
	calls int
}

func (c *menuCompletion) Complete(_ context.Context, prompt string) (string, error) {
	c.calls++
	return "SUMMARY: canned synthesis", nil
}

func menuPipeline() (*pipeline.Pipeline, *menuSearch, *menuCompletion) {
	search := &menuSearch{}
	model := &menuCompletion{}
	return pipeline.New(search, model, nil), search, model
}

func TestMenuExit(t *testing.T) {
	p, search, model := menuPipeline()
	var out strings.Builder

	err := runMenu(context.Background(), p, strings.NewReader("3\n"), &out, t.TempDir())
	if err != nil {
		t.Fatalf("runMenu: %v", err)
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Error("exit choice should print the farewell")
	}
	if len(search.calls) != 0 || model.calls != 0 {
		t.Error("exit should not touch the backends")
	}
}

func TestMenuEndOfInput(t *testing.T) {
	p, _, _ := menuPipeline()
	var out strings.Builder

	if err := runMenu(context.Background(), p, strings.NewReader(""), &out, t.TempDir()); err != nil {
		t.Fatalf("runMenu at EOF: %v", err)
	}
}

func TestMenuInvalidChoice(t *testing.T) {
	p, _, _ := menuPipeline()
	var out strings.Builder

	err := runMenu(context.Background(), p, strings.NewReader("7\n3\n"), &out, t.TempDir())
	if err != nil {
		t.Fatalf("runMenu: %v", err)
	}
	if !strings.Contains(out.String(), "Invalid choice") {
		t.Error("unknown choice should be reported")
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Error("menu should continue to the exit choice after an invalid one")
	}
}

func TestMenuBasicResearchWithoutSave(t *testing.T) {
	p, search, model := menuPipeline()
	var out strings.Builder

	input := "1\nsolar energy\nn\n3\n"
	err := runMenu(context.Background(), p, strings.NewReader(input), &out, t.TempDir())
	if err != nil {
		t.Fatalf("runMenu: %v", err)
	}

	if len(search.calls) != 1 || search.calls[0] != "solar energy" {
		t.Errorf("search calls = %v, want one call for the entered query", search.calls)
	}
	if model.calls != 1 {
		t.Errorf("completion calls = %d, want 1 for basic research", model.calls)
	}
	for _, want := range []string{
		"RESEARCH RESULTS",
		"Query: solar energy",
		"Sources analyzed: 1",
		"SUMMARY: canned synthesis",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out.String(), "Research saved to:") {
		t.Error("declined save should not write a report")
	}
}

func TestMenuDeepResearch(t *testing.T) {
	p, search, model := menuPipeline()
	var out strings.Builder

	input := "2\nwind power\nn\n3\n"
	err := runMenu(context.Background(), p, strings.NewReader(input), &out, t.TempDir())
	if err != nil {
		t.Fatalf("runMenu: %v", err)
	}

	if len(search.calls) != 2 {
		t.Errorf("search calls = %d, want 2 (both layers)", len(search.calls))
	}
	if model.calls != 2 {
		t.Errorf("completion calls = %d, want 2 (follow-up plus final)", model.calls)
	}
	if !strings.Contains(out.String(), "ENHANCED RESEARCH RESULTS") {
		t.Error("deep research should use the enhanced header")
	}
}

func TestMenuSaveWritesReportAndHistory(t *testing.T) {
	p, _, _ := menuPipeline()
	var out strings.Builder
	dir := t.TempDir()

	input := "1\ntidal power\ny\n3\n"
	err := runMenu(context.Background(), p, strings.NewReader(input), &out, dir)
	if err != nil {
		t.Fatalf("runMenu: %v", err)
	}

	reportPath := filepath.Join(dir, "research_tidal_power.json")
	if !strings.Contains(out.String(), "Research saved to: "+reportPath) {
		t.Errorf("output should announce the saved path, got:\n%s", out.String())
	}

	store, err := history.Open(types.HistoryConfig{OutputDir: dir})
	if err != nil {
		t.Fatalf("opening history: %v", err)
	}
	defer store.Close()

	records, err := store.List(context.Background(), history.QueryOptions{})
	if err != nil {
		t.Fatalf("listing history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("history records = %d, want 1", len(records))
	}
	if records[0].Query != "tidal power" || records[0].Mode != history.ModeBasic {
		t.Errorf("record = %+v, want query %q mode %q", records[0], "tidal power", history.ModeBasic)
	}
	if records[0].Path != reportPath {
		t.Errorf("record path = %q, want %q", records[0].Path, reportPath)
	}
}

func TestMenuEmptyQueryReturnsToMenu(t *testing.T) {
	p, search, _ := menuPipeline()
	var out strings.Builder

	input := "1\n\n3\n"
	err := runMenu(context.Background(), p, strings.NewReader(input), &out, t.TempDir())
	if err != nil {
		t.Fatalf("runMenu: %v", err)
	}
	if len(search.calls) != 0 {
		t.Error("empty query should not trigger a search")
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Error("menu should loop back after an empty query")
	}
}
