package ollama

import "github.com/chriscorrea/astrelium/internal/llm/common"

// GenerateOptions contains Ollama-specific generation parameters
type GenerateOptions struct {
	common.GenerateOptions

	TopK          *int     // limits token selection to top K candidates
	RepeatPenalty *float64 // penalty for repeating tokens
	Seed          *int     // random seed for deterministic generation
}

// GenerateOption configures Ollama-specific generation parameters
type GenerateOption func(*GenerateOptions)

// NewGenerateOptions creates new GenerateOptions with functional options applied
func NewGenerateOptions(opts ...GenerateOption) *GenerateOptions {
	config := &GenerateOptions{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// WithTopK limits token selection to top K candidates
func WithTopK(topK int) GenerateOption {
	return func(c *GenerateOptions) {
		c.TopK = &topK
	}
}

// WithRepeatPenalty sets penalty for repeating tokens
func WithRepeatPenalty(penalty float64) GenerateOption {
	return func(c *GenerateOptions) {
		c.RepeatPenalty = &penalty
	}
}

// WithSeed enables deterministic generation
func WithSeed(seed int) GenerateOption {
	return func(c *GenerateOptions) {
		c.Seed = &seed
	}
}

// wrappers over the common options

// WithTemperature sets response randomness (0.0-2.0)
func WithTemperature(temp float64) GenerateOption {
	return func(c *GenerateOptions) {
		common.WithTemperature(temp)(&c.GenerateOptions)
	}
}

// WithTopP sets nucleus sampling threshold (0.0-1.0)
func WithTopP(topP float64) GenerateOption {
	return func(c *GenerateOptions) {
		common.WithTopP(topP)(&c.GenerateOptions)
	}
}

// WithMaxTokens sets num_predict
func WithMaxTokens(maxTokens int) GenerateOption {
	return func(c *GenerateOptions) {
		common.WithMaxTokens(maxTokens)(&c.GenerateOptions)
	}
}

// WithContextSize sets num_ctx
func WithContextSize(size int) GenerateOption {
	return func(c *GenerateOptions) {
		common.WithContextSize(size)(&c.GenerateOptions)
	}
}

// WithStop sets stop sequences to halt generation
func WithStop(stop []string) GenerateOption {
	return func(c *GenerateOptions) {
		common.WithStop(stop)(&c.GenerateOptions)
	}
}

// GetGenerateOptions returns the embedded common options
func (c *GenerateOptions) GetGenerateOptions() *common.GenerateOptions {
	return &c.GenerateOptions
}

// Override returns a copy of c with temperature and num_predict replaced;
// debug and advanced requests reuse the chat options this way
func (c *GenerateOptions) Override(temperature float64, maxTokens int) *GenerateOptions {
	out := *c
	out.Temperature = common.Float64Ptr(temperature)
	out.MaxTokens = common.IntPtr(maxTokens)
	return &out
}
