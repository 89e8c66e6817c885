// Package llm provides an optional gloss-hint fallback for words the
// dictionary could not resolve. It is advisory only: hints are attached
// at the API boundary and never feed back into resolution or the caches.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/dkrebs/navilex/internal/model"
)

// Glosser asks a chat model for a one-line gloss of a Latin word form.
type Glosser struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewGlosser creates a glosser from config. A nil Glosser (Provider empty)
// means the feature is disabled; callers must treat nil as "no hints".
func NewGlosser(cfg model.LLMConfig) (*Glosser, error) {
	if cfg.Provider == "" {
		return nil, nil
	}
	if cfg.Provider != "openai" {
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm provider %q requires an API key", cfg.Provider)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 200
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Glosser{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     chatModel,
		maxTokens: maxTokens,
		timeout:   timeout,
	}, nil
}

// Gloss returns a short hint for a word form the dictionary did not know.
// The hint is best effort; any failure is returned to the caller to log
// and drop, never to surface as a lookup failure.
func (g *Glosser) Gloss(ctx context.Context, word string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a Latin dictionary assistant. Given a single Latin word form, " +
					"answer with one short line: the likely lemma and a German gloss. " +
					"If the form is not plausibly Latin, answer exactly: unbekannt.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: word,
			},
		},
		MaxTokens:   g.maxTokens,
		Temperature: 0.3,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("gloss %q: %w", word, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("gloss %q: empty response", word)
	}

	hint := strings.TrimSpace(resp.Choices[0].Message.Content)
	if hint == "" || strings.EqualFold(hint, "unbekannt") {
		return "", nil
	}
	return hint, nil
}
