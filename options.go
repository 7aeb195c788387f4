package seva

// Model identifies a chat model and the provider that serves it.
// Concrete models live in the model package.
type Model interface {
	// String returns the provider-facing model identifier.
	String() string
	// Provider returns which provider serves this model.
	Provider() Provider
}

// Options contains configuration for a chat request.
type Options struct {
	// Model selects the model for this request. If nil, the provider's
	// default (or the client's configured default) is used.
	Model Model

	// MaxTokens limits the number of tokens generated.
	MaxTokens int

	// Temperature is the sampling temperature (0.0 to 2.0).
	Temperature *float64

	// Tools lists the tools available to the model for this request.
	Tools []Tool

	// ToolChoice controls how the model uses the provided tools.
	ToolChoice ToolChoice
}

// Option is a functional option for configuring chat requests.
type Option func(*Options)

// WithModel sets the model to use for the request.
func WithModel(model Model) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature (0.0 to 2.0).
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithTools makes the given tools available to the model.
func WithTools(tools []Tool) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

// WithToolChoice controls how the model selects tools.
func WithToolChoice(choice ToolChoice) Option {
	return func(o *Options) {
		o.ToolChoice = choice
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
