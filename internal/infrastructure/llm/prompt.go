package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySummary is returned when a model answers with blank text.
var ErrEmptySummary = errors.New("model returned an empty summary")

func buildPrompt(instruction, text string) string {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		instruction = "Summarize the following text concisely."
	}
	return fmt.Sprintf("%s\n\n%s", instruction, strings.TrimSpace(text))
}

func cleanSummary(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptySummary
	}
	return text, nil
}
