package llm

import (
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/option"
)

// DefaultLocalBaseURL is the OpenAI-compatible API root of a local GPT4All server.
const DefaultLocalBaseURL = "http://localhost:4891/v1/"

const defaultLocalTimeout = 60 * time.Second

// NewLocalClient targets an OpenAI-compatible local inference server
// (GPT4All, llama.cpp) serving the given model file. A full
// .../chat/completions route is accepted and trimmed to its API root.
// Local servers get no retries and one combined user prompt.
func NewLocalClient(baseURL, model string, timeout time.Duration) *OpenAIClient {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	baseURL = strings.TrimSuffix(baseURL, "/chat/completions")
	if baseURL == "" {
		baseURL = DefaultLocalBaseURL
	}
	if timeout <= 0 {
		timeout = defaultLocalTimeout
	}

	c := newOpenAIClient(model,
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
		option.WithMaxRetries(0),
	)
	c.baseURL = baseURL
	c.singlePrompt = true
	return c
}
