package google

// Model pricing last verified: December 14, 2025
// Source: https://ai.google.dev/gemini-api/docs/pricing

// ChatModel represents a Google Gemini chat model.
type ChatModel string

const (
	// Gemini 3.0 (Latest - November 2025)
	Gemini3Pro       ChatModel = "gemini-3.0-pro"
	Gemini3DeepThink ChatModel = "gemini-3.0-deep-think"

	// Gemini 2.5 Series
	Gemini25Pro       ChatModel = "gemini-2.5-pro"
	Gemini25Flash     ChatModel = "gemini-2.5-flash"
	Gemini25FlashLite ChatModel = "gemini-2.5-flash-lite"

	// DefaultChatModel is the recommended default model.
	DefaultChatModel ChatModel = Gemini25Flash
)

// ChatModelPricing contains pricing per million tokens (USD).
// Some models have tiered pricing based on context length.
type ChatModelPricing struct {
	InputPerMillion      float64 // Standard (<=200K tokens)
	OutputPerMillion     float64 // Standard
	InputPerMillionLong  float64 // Long context (>200K tokens)
	OutputPerMillionLong float64 // Long context
}

// Pricing returns the pricing for this model.
func (m ChatModel) Pricing() ChatModelPricing {
	switch m {
	case Gemini3Pro:
		return ChatModelPricing{
			InputPerMillion: 2.00, OutputPerMillion: 12.00,
			InputPerMillionLong: 4.00, OutputPerMillionLong: 18.00,
		}
	case Gemini3DeepThink:
		return ChatModelPricing{
			InputPerMillion: 4.00, OutputPerMillion: 24.00,
			InputPerMillionLong: 8.00, OutputPerMillionLong: 36.00,
		}
	case Gemini25Pro:
		return ChatModelPricing{
			InputPerMillion: 1.25, OutputPerMillion: 10.00,
			InputPerMillionLong: 2.50, OutputPerMillionLong: 15.00,
		}
	case Gemini25Flash:
		return ChatModelPricing{
			InputPerMillion: 0.15, OutputPerMillion: 0.60,
			InputPerMillionLong: 0.15, OutputPerMillionLong: 0.60,
		}
	case Gemini25FlashLite:
		return ChatModelPricing{
			InputPerMillion: 0.075, OutputPerMillion: 0.30,
			InputPerMillionLong: 0.075, OutputPerMillionLong: 0.30,
		}
	default:
		return ChatModelPricing{}
	}
}

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
