package common

// GenerateOptions contains the sampling parameters every backend understands
// nil means "leave it to the server default"
type GenerateOptions struct {
	Temperature *float64 // 0.0-2.0
	TopP        *float64 // nucleus sampling, 0.0-1.0
	MaxTokens   *int     // tokens to generate
	ContextSize *int     // prompt window in tokens
	Stop        []string // stop sequences
}

// GenerateOption configures generation parameters using the functional options pattern
type GenerateOption func(*GenerateOptions)

// NewGenerateOptions creates a new GenerateOptions with functional options applied
func NewGenerateOptions(opts ...GenerateOption) *GenerateOptions {
	config := &GenerateOptions{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// WithTemperature sets response randomness
func WithTemperature(temp float64) GenerateOption {
	return func(c *GenerateOptions) {
		c.Temperature = &temp
	}
}

// WithTopP sets nucleus sampling threshold (0.0-1.0)
func WithTopP(topP float64) GenerateOption {
	return func(c *GenerateOptions) {
		c.TopP = &topP
	}
}

// WithMaxTokens sets maximum tokens to generate
func WithMaxTokens(maxTokens int) GenerateOption {
	return func(c *GenerateOptions) {
		c.MaxTokens = &maxTokens
	}
}

// WithContextSize sets the context window
func WithContextSize(size int) GenerateOption {
	return func(c *GenerateOptions) {
		c.ContextSize = &size
	}
}

// WithStop sets stop sequences to halt generation
func WithStop(stop []string) GenerateOption {
	return func(c *GenerateOptions) {
		c.Stop = stop
	}
}

// pointer helpers for optional fields

// IntPtr returns a pointer to an int value
func IntPtr(i int) *int {
	return &i
}

// Float64Ptr returns a pointer to a float64 value
func Float64Ptr(f float64) *float64 {
	return &f
}
