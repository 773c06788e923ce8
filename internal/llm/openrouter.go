package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultBaseURL is the OpenRouter OpenAI-compatible endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider implements Provider using the OpenRouter API
// (OpenAI-compatible). The same provider serves both the direct path
// (apiKey set, BaseURL pointing at OpenRouter) and the proxied path
// (apiKey empty, BaseURL pointing at a server that injects the credential).
type OpenRouterProvider struct {
	client *openai.Client
	model  string
}

// OpenRouterOptions configures the provider transport.
type OpenRouterOptions struct {
	BaseURL  string // defaults to DefaultBaseURL
	Referer  string // sent as HTTP-Referer on every request
	AppTitle string // sent as X-Title on every request
}

// NewOpenRouterProvider creates a new OpenRouter provider. model is the
// default model used when a request does not name one.
func NewOpenRouterProvider(apiKey, model string, opts OpenRouterOptions) *OpenRouterProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = DefaultBaseURL
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = &http.Client{
		Transport: &attributionTransport{referer: opts.Referer, title: opts.AppTitle},
	}
	return &OpenRouterProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *OpenRouterProvider) Name() string {
	return "openrouter"
}

func (p *OpenRouterProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	var messages []openai.ChatCompletionMessage
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	apiReq := openai.ChatCompletionRequest{
		Model:            model,
		Messages:         messages,
		MaxTokens:        req.MaxTokens,
		Temperature:      float32(req.Temperature),
		TopP:             float32(req.TopP),
		FrequencyPenalty: float32(req.FrequencyPenalty),
		PresencePenalty:  float32(req.PresencePenalty),
	}

	if req.JSONMode {
		apiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &APIError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		// Non-JSON error bodies surface as RequestError; fall back to the
		// status text since there is no provider message to report.
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return nil, &APIError{StatusCode: reqErr.HTTPStatusCode, Message: http.StatusText(reqErr.HTTPStatusCode)}
		}
		return nil, fmt.Errorf("completion request: %w", err)
	}

	var content, finishReason string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finishReason = string(resp.Choices[0].FinishReason)
	}
	if content == "" {
		return nil, ErrNoContent
	}

	return &CompletionResponse{
		Content:          content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		Model:            resp.Model,
		FinishReason:     finishReason,
	}, nil
}

// attributionTransport adds the OpenRouter attribution headers to every
// outbound request.
type attributionTransport struct {
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	return http.DefaultTransport.RoundTrip(req)
}
