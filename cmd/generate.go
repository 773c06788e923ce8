package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/inkwell-app/inkwell/internal/story"
)

var (
	genModel     string
	genNoExample bool
	genTimeout   time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate a story from a prompt",
	Long: `Generates one story from a free-text prompt and prints it. With no
argument, the prompt is collected interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genModel, "model", "", "model to use (overrides config)")
	generateCmd.Flags().BoolVar(&genNoExample, "no-example", false, "skip tag extraction and style example matching")
	generateCmd.Flags().DurationVar(&genTimeout, "timeout", 3*time.Minute, "generation timeout")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var prompt string
	if len(args) > 0 {
		prompt = args[0]
	} else {
		prompt, err = askPrompt()
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(prompt) == "" {
		return story.ErrEmptyPrompt
	}

	generator, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), genTimeout)
	defer cancel()

	stop := startSpinner("Generating story")
	result, err := generator.Generate(ctx, story.Params{
		Prompt:     prompt,
		Model:      genModel,
		UseExample: !genNoExample,
	})
	stop()
	if err != nil {
		return err
	}

	fmt.Println(result.Title)
	fmt.Println()
	fmt.Println(result.Content)

	fmt.Fprintf(os.Stderr, "\n%d words | %d tokens | $%.4f\n",
		result.WordCount, result.Usage.TotalTokens, result.Usage.Cost)
	if verbose {
		if len(result.ExtractedTags) > 0 {
			fmt.Fprintf(os.Stderr, "Tags: %v\n", result.ExtractedTags)
		}
		if result.MatchedExample != "" {
			fmt.Fprintf(os.Stderr, "Style example: %s\n", result.MatchedExample)
		}
	}
	return nil
}

// askPrompt collects the story prompt interactively.
func askPrompt() (string, error) {
	p := promptui.Prompt{
		Label:     "Story prompt",
		AllowEdit: true,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("prompt must not be empty")
			}
			return nil
		},
	}
	result, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt input: %w", err)
	}
	return result, nil
}

// startSpinner shows an indeterminate progress spinner on stderr until the
// returned stop function is called.
func startSpinner(description string) func() {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bar.Add(1)
			}
		}
	}()
	return func() {
		close(done)
		bar.Finish()
	}
}
