package story

import (
	"context"
	"errors"
	"strings"

	"github.com/inkwell-app/inkwell/internal/llm"
)

// Default models. Tag classification uses a cheap low-temperature call and
// defaults to the same model as generation.
const (
	DefaultModel    = "mistralai/mistral-small-creative"
	DefaultTagModel = "mistralai/mistral-small-creative"
)

// Story generation sampling parameters.
const (
	genTemperature      = 0.95
	genTopP             = 0.95
	genFrequencyPenalty = 0.5
	genPresencePenalty  = 0.5
	genMaxTokens        = 3000
)

// Params is the input to one generation request.
type Params struct {
	// Prompt is the user's free-text story prompt. Required.
	Prompt string
	// Model overrides the configured story model when set.
	Model string
	// UseExample enables tag extraction and style-example matching.
	UseExample bool
}

// Story is the result of one generation. Ownership passes entirely to the
// caller; the generator retains nothing.
type Story struct {
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Model          string    `json:"model"`
	WordCount      int       `json:"word_count"`
	ExtractedTags  []Tag     `json:"extracted_tags"`
	MatchedExample Tag       `json:"matched_example,omitempty"`
	SystemPrompt   string    `json:"system_prompt,omitempty"`
	UserPrompt     string    `json:"user_prompt,omitempty"`
	Usage          llm.Usage `json:"usage"`
}

// Generator runs the generation pipeline: tag extraction, example lookup,
// prompt assembly, the generation call, parsing, and sanitization. It is
// stateless apart from the read-only library, so concurrent invocations are
// fully independent.
type Generator struct {
	provider llm.Provider
	library  *Library
	model    string
	tagModel string
}

// NewGenerator creates a pipeline around the given provider and example
// library. Empty model names fall back to the package defaults.
func NewGenerator(provider llm.Provider, library *Library, model, tagModel string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	if tagModel == "" {
		tagModel = DefaultTagModel
	}
	if library == nil {
		library = NewLibrary(nil)
	}
	return &Generator{
		provider: provider,
		library:  library,
		model:    model,
		tagModel: tagModel,
	}
}

// ErrEmptyPrompt is returned when Params.Prompt is blank.
var ErrEmptyPrompt = errors.New("prompt is required")

// Generate runs the full pipeline for one prompt. The only hard failure
// points are transport-level: a non-success status or empty output from the
// generation call. Tag extraction and example lookup degrade silently.
func (g *Generator) Generate(ctx context.Context, params Params) (*Story, error) {
	if strings.TrimSpace(params.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	model := params.Model
	if model == "" {
		model = g.model
	}

	tags := []Tag{}
	var example *Example
	if params.UseExample {
		tags = append(tags, g.extractTags(ctx, params.Prompt)...)
		if len(tags) > 0 {
			example = g.library.ExampleFor(tags)
		}
	}

	systemPrompt := BuildSystemPrompt(example)
	userPrompt := BuildUserPrompt(params.Prompt)

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model: model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: userPrompt},
		},
		Temperature:      genTemperature,
		TopP:             genTopP,
		FrequencyPenalty: genFrequencyPenalty,
		PresencePenalty:  genPresencePenalty,
		MaxTokens:        genMaxTokens,
		JSONMode:         true,
	})
	if err != nil {
		return nil, err
	}

	parsed := Parse(resp.Content)
	// The sanitization pass runs unconditionally; word count is computed
	// from the sanitized text, never the raw parse.
	content := Sanitize(parsed.Content)

	result := &Story{
		Title:         parsed.Title,
		Content:       content,
		Model:         model,
		WordCount:     len(strings.Fields(content)),
		ExtractedTags: tags,
		SystemPrompt:  systemPrompt,
		UserPrompt:    userPrompt,
		Usage:         llm.UsageFor(model, resp.PromptTokens, resp.CompletionTokens, resp.TotalTokens),
	}
	if example != nil {
		result.MatchedExample = example.Tag
	}
	return result, nil
}
