package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "AI-powered adult fiction generation",
	Long: `Inkwell turns a short free-text prompt into a complete short story
using the OpenRouter API. It extracts thematic tags from the prompt,
matches them against a library of style examples, and assembles the
generation request so the output lands as clean, well-formatted prose.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads and validates the configuration from the --config path.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
