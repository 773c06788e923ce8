package cmd

import (
	"fmt"

	"github.com/inkwell-app/inkwell/internal/config"
	"github.com/inkwell-app/inkwell/internal/llm"
	"github.com/inkwell-app/inkwell/internal/story"
)

// newProvider builds the OpenRouter provider from the config and the
// OPENROUTER_API_KEY environment variable, wrapped with the configured
// rate limit.
func newProvider(cfg *config.Config) (llm.Provider, error) {
	key := config.APIKey()
	if key == "" {
		return nil, llm.ErrNoAPIKey
	}
	provider := llm.NewOpenRouterProvider(key, cfg.Model, llm.OpenRouterOptions{
		BaseURL:  cfg.APIBase,
		Referer:  cfg.SiteURL,
		AppTitle: cfg.AppTitle,
	})
	return llm.NewRateLimitedProvider(provider, cfg.RequestsPerMinute), nil
}

// newLibrary loads the style example library from the configured file, or
// the built-in snippets when none is configured.
func newLibrary(cfg *config.Config) (*story.Library, error) {
	if cfg.ExamplesFile == "" {
		return story.NewLibrary(nil), nil
	}
	lib, err := story.LoadLibrary(cfg.ExamplesFile)
	if err != nil {
		return nil, fmt.Errorf("loading examples: %w", err)
	}
	return lib, nil
}

// newGenerator wires the full generation pipeline from the config.
func newGenerator(cfg *config.Config) (*story.Generator, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	lib, err := newLibrary(cfg)
	if err != nil {
		return nil, err
	}
	return story.NewGenerator(provider, lib, cfg.Model, cfg.TagModel), nil
}
