// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by capabilities that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// CompletionConfig holds settings for the completion capability.
type CompletionConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the completion model identifier
	// (e.g. "llama-4-scout-17b-16e-instruct").
	Model string `json:"model" yaml:"model"`
}

// HistoryConfig holds settings for the saved-run history index.
type HistoryConfig struct {
	// OutputDir is the base directory for saved runs (contains index/).
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MaxResults is the default maximum number of history query results
	// (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
