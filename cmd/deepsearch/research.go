// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deepsearch/internal/history"
	"github.com/pdiddy/deepsearch/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [query...]",
	Short: "Run a single-pass research query",
	Long: `Research searches the web for the query, keeps sources with substantial
text content, and asks the completion model for a short synthesis with
three key insights. Use --save to persist the result as a JSON report.`,
	RunE: runResearch,
}

var deepCmd = &cobra.Command{
	Use:   "deep [query...]",
	Short: "Run a two-pass research query",
	Long: `Deep runs the two-layer flow: an initial search, a model-derived
follow-up search, and a final synthesis over the combined sources.
Follow-up sources are marked with a "[Follow-up]" title prefix.`,
	RunE: runDeep,
}

func init() {
	for _, cmd := range []*cobra.Command{researchCmd, deepCmd} {
		cmd.Flags().String("query", "", "free-text research query (alternative to positional args)")
		cmd.Flags().Bool("json", false, "print the full result as JSON")
		cmd.Flags().Bool("save", false, "persist the result to the output directory")
		cmd.Flags().String("output", "", "filename for --save (default derived from the query)")
		rootCmd.AddCommand(cmd)
	}
}

func runResearch(cmd *cobra.Command, args []string) error {
	query, err := queryArg(cmd, args)
	if err != nil {
		return err
	}

	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}

	result := p.Research(cmd.Context(), query)
	return finishRun(cmd, result, history.ModeBasic, "RESEARCH RESULTS")
}

func runDeep(cmd *cobra.Command, args []string) error {
	query, err := queryArg(cmd, args)
	if err != nil {
		return err
	}

	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}

	result := p.DeepResearch(cmd.Context(), query)
	return finishRun(cmd, result, history.ModeDeep, "ENHANCED RESEARCH RESULTS")
}

// queryArg reads the query from --query or from the positional arguments.
func queryArg(cmd *cobra.Command, args []string) (string, error) {
	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		query = strings.TrimSpace(strings.Join(args, " "))
	}
	if query == "" {
		return "", fmt.Errorf("query is empty: provide a research question")
	}
	return query, nil
}

// finishRun displays the result and applies the --save flags.
func finishRun(cmd *cobra.Command, result *types.ResearchResult, mode, header string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		if err := writeResultJSON(os.Stdout, result); err != nil {
			return err
		}
	} else {
		writeResult(os.Stdout, header, result)
	}

	save, _ := cmd.Flags().GetBool("save")
	if !save {
		return nil
	}
	filename, _ := cmd.Flags().GetString("output")
	return saveResult(os.Stdout, result, mode, outputDir(), filename)
}
