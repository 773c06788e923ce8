package llm

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for a chat completion request.
type CompletionRequest struct {
	Model            string
	Messages         []Message
	MaxTokens        int
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	JSONMode         bool
}

// CompletionResponse contains the result of a chat completion request.
// Token counts default to zero when the provider omits usage accounting.
type CompletionResponse struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
	FinishReason     string
}
