// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the deepsearch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deepsearch/internal/config"
	"github.com/pdiddy/deepsearch/internal/pipeline"
	"github.com/pdiddy/deepsearch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the deepsearch CLI.
var rootCmd = &cobra.Command{
	Use:   "deepsearch",
	Short: "Two-stage web research assistant",
	Long: `deepsearch searches the web for a research query, filters the retrieved
snippets, and asks a completion model to synthesize the findings. Deep mode
adds a second, model-derived follow-up search before the final synthesis.

Credentials come from EXA_API_KEY and CEREBRAS_API_KEY (environment or
.secrets/ key files). Results can be saved as JSON reports under the output
directory; saved runs are indexed in a local SQLite history.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./deepsearch.yaml or ~/.config/deepsearch/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of API key files")
	rootCmd.PersistentFlags().String("output-dir", "output", "directory for saved research reports")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deepsearch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "deepsearch"))
		}
	}

	viper.SetEnvPrefix("DEEPSEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newPipeline assembles credentials and constructs the research pipeline.
// Credential validation happens here, before any network capability exists.
func newPipeline(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	secretsDir, _ := rootCmd.PersistentFlags().GetString("secrets-dir")
	creds, err := config.Load(secretsDir)
	if err != nil {
		return nil, err
	}

	cfg := types.CompletionConfig{
		HTTPConfig: types.HTTPConfig{Timeout: viper.GetDuration("http_timeout")},
		Model:      viper.GetString("model"),
	}
	return pipeline.FromCredentials(creds, cfg, os.Stderr)
}

// outputDir returns the configured directory for saved reports.
func outputDir() string {
	dir, _ := rootCmd.PersistentFlags().GetString("output-dir")
	if dir == "" {
		dir = "output"
	}
	return dir
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
