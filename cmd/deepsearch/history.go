// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deepsearch/internal/history"
	"github.com/pdiddy/deepsearch/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "List saved research runs",
	Long: `History lists runs recorded when results were saved. With a query
argument it full-text-searches past queries and narratives (FTS5);
otherwise it lists the most recent runs.`,
	RunE: runHistory,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run history as YAML",
	RunE:  runHistoryExport,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().String("mode", "", "filter by run mode (basic or deep)")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	historyExportCmd.Flags().String("output", "", "export file path (default: <output-dir>/index/export.yaml)")

	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open(types.HistoryConfig{OutputDir: outputDir()})
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	mode, _ := cmd.Flags().GetString("mode")

	records, err := store.List(cmd.Context(), history.QueryOptions{
		Query: strings.TrimSpace(strings.Join(args, " ")),
		Mode:  mode,
		Limit: limit,
	})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-5s  %-50s  %-7s  %s\n",
		"ID", "Mode", "Query", "Sources", "Saved")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for _, r := range records {
		query := r.Query
		if len(query) > 50 {
			query = query[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-5s  %-50s  %-7d  %s\n",
			r.ID, r.Mode, query, r.SourceCount, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(os.Stdout, "\n%d run(s)\n", len(records))
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, err := history.Open(types.HistoryConfig{OutputDir: outputDir()})
	if err != nil {
		return err
	}
	defer store.Close()

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		path = filepath.Join(outputDir(), "index", "export.yaml")
	}

	if err := store.ExportYAML(cmd.Context(), path); err != nil {
		return err
	}
	fmt.Printf("History exported to: %s\n", path)
	return nil
}
