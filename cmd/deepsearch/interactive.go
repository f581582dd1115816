// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deepsearch/internal/history"
	"github.com/pdiddy/deepsearch/internal/pipeline"
	"github.com/pdiddy/deepsearch/pkg/types"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Run the menu-driven research loop",
	Long: `Interactive serves a text menu: basic research, deep research, or exit.
Each run prompts for a free-text query, displays the synthesis, and offers
to save the result to the output directory.`,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	return runMenu(cmd.Context(), p, os.Stdin, os.Stdout, outputDir())
}

// runMenu drives the interactive loop. It returns on the exit choice or
// end of input; per-run problems are reported and the menu continues.
func runMenu(ctx context.Context, p *pipeline.Pipeline, in io.Reader, out io.Writer, dir string) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Options:")
		fmt.Fprintln(out, "1. Basic research")
		fmt.Fprintln(out, "2. Deep research (two-layer)")
		fmt.Fprintln(out, "3. Exit")
		fmt.Fprint(out, "\nEnter your choice (1-3): ")

		choice, ok := readLine(scanner)
		if !ok {
			return nil
		}

		switch choice {
		case "1", "2":
			fmt.Fprint(out, "\nEnter your research query: ")
			query, ok := readLine(scanner)
			if !ok {
				return nil
			}
			if query == "" {
				continue
			}

			var (
				result *types.ResearchResult
				mode   string
				header string
			)
			if choice == "1" {
				result = p.Research(ctx, query)
				mode, header = history.ModeBasic, "RESEARCH RESULTS"
			} else {
				result = p.DeepResearch(ctx, query)
				mode, header = history.ModeDeep, "ENHANCED RESEARCH RESULTS"
			}
			writeResult(out, header, result)

			fmt.Fprint(out, "\nSave results? (y/n): ")
			answer, ok := readLine(scanner)
			if !ok {
				return nil
			}
			if strings.EqualFold(answer, "y") {
				if err := saveResult(out, result, mode, dir, ""); err != nil {
					fmt.Fprintf(out, "Could not save: %v\n", err)
				}
			}

		case "3":
			fmt.Fprintln(out, "Goodbye!")
			return nil

		default:
			fmt.Fprintln(out, "Invalid choice")
		}
	}
}

// readLine returns the next trimmed input line, or ok=false at end of input.
func readLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}
