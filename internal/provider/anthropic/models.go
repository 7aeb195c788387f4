package anthropic

// ChatModel represents an Anthropic Claude chat model.
type ChatModel string

const (
	// Claude 4.5 family (current) - auto-updating aliases
	ClaudeOpus45   ChatModel = "claude-opus-4-5"
	ClaudeSonnet45 ChatModel = "claude-sonnet-4-5"
	ClaudeHaiku45  ChatModel = "claude-haiku-4-5"

	// Claude 3.5 family (legacy)
	Claude35Haiku ChatModel = "claude-3-5-haiku-latest"

	// DefaultChatModel is the recommended default model.
	DefaultChatModel ChatModel = ClaudeSonnet45
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
