// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report persists research results as JSON files under the output
// directory. Serialization is lossless for the ResearchResult schema; an
// existing file at the target path is silently replaced.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/pdiddy/deepsearch/pkg/types"
)

// maxNameChars bounds the sanitized query portion of a derived filename.
const maxNameChars = 50

// DefaultFilename derives a filename from the query: alphanumerics, spaces,
// hyphens, and underscores are kept, trailing whitespace is dropped, spaces
// become underscores, and the result is truncated to 50 characters before
// the "research_" prefix and ".json" suffix are applied.
func DefaultFilename(query string) string {
	var b strings.Builder
	for _, r := range query {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}

	safe := strings.TrimRight(b.String(), " \t\n")
	safe = strings.ReplaceAll(safe, " ", "_")
	if runes := []rune(safe); len(runes) > maxNameChars {
		safe = string(runes[:maxNameChars])
	}

	return "research_" + safe + ".json"
}

// Save writes the result as indented JSON under dir, creating the directory
// if absent. An empty filename uses DefaultFilename(result.Query). Save
// returns the path written.
func Save(result *types.ResearchResult, dir, filename string) (string, error) {
	if filename == "" {
		filename = DefaultFilename(result.Query)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling result: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Load reads a saved result back from path.
func Load(path string) (*types.ResearchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var result types.ResearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &result, nil
}
