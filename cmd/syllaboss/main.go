// Package main is the entry point for the syllaboss server and CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/syllaboss/internal/config"
	"github.com/dgallion1/syllaboss/internal/extract"
)

var rootCmd = &cobra.Command{
	Use:   "syllaboss",
	Short: "Turn course syllabus PDFs into structured Notion pages",
	Long: `syllaboss extracts course information from a syllabus PDF with an LLM,
fills a markdown template with it and optionally publishes the result to
Notion.

Run "syllaboss serve" for the web form and JSON API. The other subcommands
run single pipeline stages from the command line.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (yaml, json or toml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

// loadConfig reads settings using the --config flag.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// newExtractor builds the configured extraction provider. Calls are recorded
// in stats when it is non-nil.
func newExtractor(ctx context.Context, cfg config.Config, stats *extract.LLMStats, log *slog.Logger) (extract.Extractor, error) {
	var ex extract.Extractor
	switch cfg.ExtractProvider {
	case extract.ProviderGemini:
		g, err := extract.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiPollInterval, log)
		if err != nil {
			return nil, err
		}
		ex = g
	case extract.ProviderClaude:
		ex = extract.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL)
	default:
		return nil, fmt.Errorf("unknown extract provider %q", cfg.ExtractProvider)
	}
	if stats != nil {
		ex = extract.WithStats(ex, stats)
	}
	return ex, nil
}
