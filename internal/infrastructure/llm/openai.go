package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"WeeklyWatch/internal/ports"
)

const defaultOpenAIModel = openai.ChatModelGPT4oMini

// OpenAIClient summarizes through the OpenAI chat completions API or any
// server speaking it.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	baseURL string
	// singlePrompt folds the instruction into the user message for small
	// local models that ignore system prompts.
	singlePrompt bool
}

var _ ports.Summarizer = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client; baseURL is only set for compatible gateways.
func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = defaultOpenAIModel
	}

	c := newOpenAIClient(model, opts...)
	c.baseURL = baseURL
	return c
}

func newOpenAIClient(model string, opts ...option.RequestOption) *OpenAIClient {
	client := openai.NewClient(opts...)
	return &OpenAIClient{client: &client, model: model}
}

func (c *OpenAIClient) Summarize(ctx context.Context, instruction, text string, maxTokens int) (string, error) {
	if c == nil || c.model == "" {
		return "", errors.New("summarizer model not configured")
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(instruction),
		openai.UserMessage(text),
	}
	if c.singlePrompt {
		messages = []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(instruction, text)),
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return cleanSummary(resp.Choices[0].Message.Content)
}
