package genai

type Model string

const (
	ModelFlash    Model = "gemini-2.0-flash-exp"
	ModelFlashV15 Model = "gemini-1.5-flash"
	ModelProV15   Model = "gemini-1.5-pro"
)

// Options tune one generation call. Zero fields fall back to the
// defaults the mentor persona was written against.
type Options struct {
	Model           Model
	Temperature     *float64
	TopP            *float64
	TopK            *int
	MaxOutputTokens *int
}

const (
	defaultTemperature     = 0.7
	defaultTopP            = 0.8
	defaultTopK            = 40
	defaultMaxOutputTokens = 8192
)

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = ModelFlash
	}
	if o.Temperature == nil {
		o.Temperature = ptr(defaultTemperature)
	}
	if o.TopP == nil {
		o.TopP = ptr(defaultTopP)
	}
	if o.TopK == nil {
		o.TopK = ptr(defaultTopK)
	}
	if o.MaxOutputTokens == nil {
		o.MaxOutputTokens = ptr(defaultMaxOutputTokens)
	}
	return o
}

func ptr[T any](v T) *T {
	return &v
}
