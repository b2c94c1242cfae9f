package llm

import (
	"fmt"
	"strings"
	"time"

	"WeeklyWatch/internal/ports"
)

// Provider names accepted in configuration.
const (
	ProviderNone      = "none"
	ProviderLocal     = "local"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Settings selects and parameterizes a summarization backend.
type Settings struct {
	Provider  string
	Endpoint  string
	ModelPath string
	Model     string
	APIKey    string
	Timeout   time.Duration
}

// New returns the configured summarizer, or nil when summarization is off.
func New(s Settings) (ports.Summarizer, error) {
	switch strings.ToLower(strings.TrimSpace(s.Provider)) {
	case "", ProviderNone:
		return nil, nil
	case ProviderLocal:
		model := s.ModelPath
		if model == "" {
			model = s.Model
		}
		return NewLocalClient(s.Endpoint, model, s.Timeout), nil
	case ProviderOpenAI:
		return NewOpenAIClient(s.APIKey, s.Model, s.Endpoint), nil
	case ProviderAnthropic:
		return NewAnthropicClient(s.APIKey, s.Model, s.Endpoint), nil
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", s.Provider)
	}
}
