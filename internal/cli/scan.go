package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopcheck/credo/internal/llm"
	"github.com/shopcheck/credo/internal/models"
	"github.com/shopcheck/credo/internal/pipeline"
	"github.com/shopcheck/credo/internal/retrieve"
)

var scanProgress bool

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Analyze a single listing URL and print the result as JSON",
	Long: `Scan runs the full analysis pipeline for one listing URL without
starting the server, and prints the resulting verdict report to stdout.

Example:
  credo scan https://shop.example.com/products/widget
  credo scan --progress https://shop.example.com/products/widget`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanProgress, "progress", false, "print pipeline progress events to stderr")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var agent retrieve.Agent
	if !cfg.Pipeline.DevMode {
		agent, err = retrieve.NewAgent(&cfg.Retrieval)
		if err != nil {
			return fmt.Errorf("failed to initialize retrieval agent: %w", err)
		}
	}

	provider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM provider: %w", err)
	}

	orchestrator := pipeline.New(agent, llm.NewSummarizer(provider), &cfg.Pipeline)

	var sink pipeline.EventSink
	if scanProgress {
		sink = pipeline.SinkFunc(func(ev models.Event) {
			fmt.Fprintf(os.Stderr, "%s: %s\n", ev.Event, ev.Message)
		})
	}

	result := orchestrator.Analyze(context.Background(), args[0], sink)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
