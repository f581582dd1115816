// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/deepsearch/internal/history"
	"github.com/pdiddy/deepsearch/internal/report"
	"github.com/pdiddy/deepsearch/pkg/types"
)

// writeResult prints a human-readable research report to w.
func writeResult(w io.Writer, header string, result *types.ResearchResult) {
	rule := strings.Repeat("=", 50)

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Query: %s\n", result.Query)
	if result.FollowUpQuery != "" {
		fmt.Fprintf(w, "Follow-up: %s\n", result.FollowUpQuery)
	}
	fmt.Fprintf(w, "Sources analyzed: %d\n", result.SourceCount)
	fmt.Fprintf(w, "\n%s\n", result.Narrative)
	fmt.Fprintln(w, rule)
}

// writeResultJSON prints the result as indented JSON to w.
func writeResultJSON(w io.Writer, result *types.ResearchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// saveResult persists the result as a JSON report and records the run in
// the history index. A history failure is a warning, not an error: the
// report on disk is the contractual output.
func saveResult(w io.Writer, result *types.ResearchResult, mode, dir, filename string) error {
	path, err := report.Save(result, dir, filename)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Research saved to: %s\n", path)

	recordRun(result, mode, dir, path)
	return nil
}

// recordRun appends the saved run to the SQLite history.
func recordRun(result *types.ResearchResult, mode, dir, path string) {
	store, err := history.Open(types.HistoryConfig{OutputDir: dir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	rec := history.RunRecord{
		Query:         result.Query,
		FollowUpQuery: result.FollowUpQuery,
		Mode:          mode,
		SourceCount:   result.SourceCount,
		Narrative:     result.Narrative,
		Path:          path,
	}
	if err := store.Record(context.Background(), &rec); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording run: %v\n", err)
	}
}
