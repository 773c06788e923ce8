package story

import (
	"context"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/inkwell-app/inkwell/internal/llm"
)

// stubProvider returns canned responses keyed by call order and records
// every request it sees.
type stubProvider struct {
	mu        sync.Mutex
	calls     []llm.CompletionRequest
	responses []*llm.CompletionResponse
	errs      []error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.calls)
	s.calls = append(s.calls, req)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return &llm.CompletionResponse{Content: `{"title": "T", "content": "C"}`}, nil
}

func (s *stubProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func textResponse(content string, prompt, completion int) *llm.CompletionResponse {
	return &llm.CompletionResponse{
		Content:          content,
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

func TestGenerateWithoutExampleStripsEmphasis(t *testing.T) {
	provider := &stubProvider{
		responses: []*llm.CompletionResponse{
			textResponse(`{"title":"Rain and Memory","content":"*She* smiled. It had been *years*."}`, 1200, 450),
		},
	}
	gen := NewGenerator(provider, NewLibrary(nil), "", "")

	got, err := gen.Generate(context.Background(), Params{
		Prompt:     "A quiet rainy evening, two old friends reconnecting",
		UseExample: false,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if got.Title != "Rain and Memory" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Content != "She smiled. It had been years." {
		t.Errorf("content = %q", got.Content)
	}
	if got.WordCount != 6 {
		t.Errorf("word count = %d, want 6", got.WordCount)
	}
	if len(got.ExtractedTags) != 0 {
		t.Errorf("expected no tags, got %v", got.ExtractedTags)
	}
	if got.MatchedExample != "" {
		t.Errorf("expected no matched example, got %q", got.MatchedExample)
	}

	// useExample=false must skip the tag extraction call entirely.
	if provider.callCount() != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.callCount())
	}

	wantCost := 1200.0/1e6*0.20 + 450.0/1e6*0.20
	if math.Abs(got.Usage.Cost-wantCost) > 1e-12 {
		t.Errorf("cost = %f, want %f", got.Usage.Cost, wantCost)
	}
	if got.Usage.TotalTokens != 1650 {
		t.Errorf("total tokens = %d, want 1650", got.Usage.TotalTokens)
	}
}

func TestGenerateWithExampleMatchesTag(t *testing.T) {
	provider := &stubProvider{
		responses: []*llm.CompletionResponse{
			textResponse(`{"tags": ["rough"]}`, 50, 5),
			textResponse(`{"title":"After Hours","content":"The office was empty."}`, 900, 700),
		},
	}
	gen := NewGenerator(provider, NewLibrary(nil), "", "")

	got, err := gen.Generate(context.Background(), Params{
		Prompt:     "Two colleagues alone after hours, rough and urgent",
		UseExample: true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if provider.callCount() != 2 {
		t.Fatalf("expected 2 provider calls, got %d", provider.callCount())
	}
	if len(got.ExtractedTags) != 1 || got.ExtractedTags[0] != "rough" {
		t.Errorf("tags = %v", got.ExtractedTags)
	}
	if got.MatchedExample != "rough" {
		t.Errorf("matched example = %q, want rough", got.MatchedExample)
	}
	if !strings.Contains(got.SystemPrompt, "STYLE REFERENCE") {
		t.Error("system prompt missing style reference section")
	}

	// First call is the tag classification with its fixed sampling.
	tagCall := provider.calls[0]
	if tagCall.Temperature != 0.2 || tagCall.MaxTokens != 80 || !tagCall.JSONMode {
		t.Errorf("unexpected tag call params: %+v", tagCall)
	}

	// Second call is the generation with its fixed sampling.
	genCall := provider.calls[1]
	if genCall.Temperature != 0.95 || genCall.TopP != 0.95 ||
		genCall.FrequencyPenalty != 0.5 || genCall.PresencePenalty != 0.5 ||
		genCall.MaxTokens != 3000 || !genCall.JSONMode {
		t.Errorf("unexpected generation params: %+v", genCall)
	}
}

func TestGenerateSurvivesTagExtractionFailure(t *testing.T) {
	provider := &stubProvider{
		errs: []error{&llm.APIError{StatusCode: 500, Message: "upstream down"}},
		responses: []*llm.CompletionResponse{
			nil, // consumed by the failing tag call
			textResponse(`{"title":"T","content":"Still works."}`, 10, 10),
		},
	}
	gen := NewGenerator(provider, NewLibrary(nil), "", "")

	got, err := gen.Generate(context.Background(), Params{Prompt: "anything", UseExample: true})
	if err != nil {
		t.Fatalf("tag extraction failure must not fail generation: %v", err)
	}
	if got.Content != "Still works." {
		t.Errorf("content = %q", got.Content)
	}
	if len(got.ExtractedTags) != 0 {
		t.Errorf("expected empty tags after failed extraction, got %v", got.ExtractedTags)
	}
}

func TestGeneratePropagatesTransportError(t *testing.T) {
	provider := &stubProvider{
		errs: []error{&llm.APIError{StatusCode: 402, Message: "insufficient credits"}},
	}
	gen := NewGenerator(provider, NewLibrary(nil), "", "")

	_, err := gen.Generate(context.Background(), Params{Prompt: "anything", UseExample: false})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*llm.APIError)
	if !ok {
		t.Fatalf("expected *llm.APIError, got %T", err)
	}
	if apiErr.StatusCode != 402 {
		t.Errorf("status = %d, want 402", apiErr.StatusCode)
	}
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	gen := NewGenerator(&stubProvider{}, NewLibrary(nil), "", "")
	if _, err := gen.Generate(context.Background(), Params{Prompt: "   "}); err != ErrEmptyPrompt {
		t.Errorf("expected ErrEmptyPrompt, got %v", err)
	}
}

func TestGenerateModelOverride(t *testing.T) {
	provider := &stubProvider{}
	gen := NewGenerator(provider, NewLibrary(nil), "", "")

	_, err := gen.Generate(context.Background(), Params{
		Prompt: "anything",
		Model:  "mistralai/mixtral-8x7b-instruct",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if provider.calls[0].Model != "mistralai/mixtral-8x7b-instruct" {
		t.Errorf("model = %q", provider.calls[0].Model)
	}
}

func TestGenerateFallbackParseNeverErrors(t *testing.T) {
	provider := &stubProvider{
		responses: []*llm.CompletionResponse{
			textResponse(`Sure! {title: Ocean Night, content: The waves rolled in`, 10, 10),
		},
	}
	gen := NewGenerator(provider, NewLibrary(nil), "", "")

	got, err := gen.Generate(context.Background(), Params{Prompt: "ocean", UseExample: false})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got.Title != "Untitled Story" {
		t.Errorf("title = %q, want placeholder", got.Title)
	}
	if got.Content == "" {
		t.Error("expected non-empty fallback content")
	}
}
