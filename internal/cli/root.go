// Package cli wires the credo commands.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shopcheck/credo/internal/config"
)

var (
	cfgFile        string
	generateConfig bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "credo",
	Short: "Credo - listing trust verdicts from claims vs. policy text",
	Long: `Credo inspects an online product listing, extracts the concrete claims
made on the product page (returns, warranty, stock, price), extracts the
merchant's stated policy terms, and reports where the two contradict.

The output is a single verdict (good, caution, risk, unclear) with the
named flags and plain-language explanations that produced it. Credo reads
only what the page says; it does not judge the product itself.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("credo v1.0.0")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&generateConfig, "generate-config", false, "write a sample config file and exit")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig handles --generate-config, loads the config file and applies
// the logging settings. Commands call it at the top of their RunE.
func loadConfig() (*config.Config, error) {
	if generateConfig {
		if err := config.GenerateSample(cfgFile); err != nil {
			return nil, fmt.Errorf("failed to generate config: %w", err)
		}
		fmt.Printf("Sample configuration written to %s\n", cfgFile)
		os.Exit(0)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	setupLogging(&cfg.Logging)
	return cfg, nil
}

func setupLogging(cfg *config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
