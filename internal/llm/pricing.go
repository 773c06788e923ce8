package llm

// ModelPricing holds per-model pricing in USD per 1M tokens.
type ModelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// defaultPricing is used for models missing from the price table.
var defaultPricing = ModelPricing{InputPerMillion: 0.24, OutputPerMillion: 0.24}

// priceTable maps model identifiers to their pricing.
var priceTable = map[string]ModelPricing{
	"mistralai/mixtral-8x7b-instruct":  {InputPerMillion: 0.24, OutputPerMillion: 0.24},
	"mistralai/mistral-7b-instruct":    {InputPerMillion: 0.25, OutputPerMillion: 0.25},
	"mistralai/mistral-small-creative": {InputPerMillion: 0.20, OutputPerMillion: 0.20},
}

// PricingFor returns the pricing for the given model, falling back to the
// default pair when the model is unlisted.
func PricingFor(model string) ModelPricing {
	if pricing, ok := priceTable[model]; ok {
		return pricing
	}
	return defaultPricing
}

// Cost returns the cost in USD for the given model and token counts.
// Negative counts are treated as zero, so the result is never negative.
func Cost(model string, promptTokens, completionTokens int) float64 {
	pricing := PricingFor(model)
	inputCost := float64(max(promptTokens, 0)) / 1_000_000.0 * pricing.InputPerMillion
	outputCost := float64(max(completionTokens, 0)) / 1_000_000.0 * pricing.OutputPerMillion
	return inputCost + outputCost
}

// Usage is the token and cost accounting for one or more completion calls.
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	Cost             float64 `json:"cost"`
}

// UsageFor computes the usage record for a single call against the price
// table. Missing counts should be passed as zero.
func UsageFor(model string, promptTokens, completionTokens, totalTokens int) Usage {
	return Usage{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      totalTokens,
		Cost:             Cost(model, promptTokens, completionTokens),
	}
}

// Add returns the field-wise sum of two usage records. Addition is
// associative and order-independent, so running session totals can be
// accumulated across an initial generation and any number of continuations.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
		Cost:             u.Cost + other.Cost,
	}
}
