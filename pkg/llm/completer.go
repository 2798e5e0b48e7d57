// Package llm wraps the external completion capability behind the Completer
// contract: prompt construction, tolerant response parsing and failure
// classification. Nothing else in the pipeline talks to the network.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// Failure taxonomy for fallback calls. Callers degrade the field to Unknown
// on any of these; only rate limiting additionally triggers a cooldown.
var (
	ErrRateLimited = errors.New("completion rate limited")
	ErrTransport   = errors.New("completion transport error")
	ErrUnparseable = errors.New("completion response unparseable")
)

// CompleterConfig represents the configuration for the completion adapter.
type CompleterConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	BaseURL     string
	APIKeys     []string // interchangeable token pool, one picked at construction
}

// Completer sends a system prompt plus one user turn to the model API.
type Completer struct {
	config CompleterConfig
	llm    llms.Model
}

// NewWithConfig creates a new Completer with the given configuration.
func NewWithConfig(config CompleterConfig) (*Completer, error) {
	if config.Model == "" {
		config.Model = "gpt-4-1106-preview"
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 1000
	}
	if len(config.APIKeys) == 0 {
		return nil, fmt.Errorf("at least one API key is required")
	}

	// The tokens are interchangeable, so any one of the pool will do for
	// the lifetime of this adapter.
	token := config.APIKeys[rand.Intn(len(config.APIKeys))]

	opts := []openai.Option{
		openai.WithModel(config.Model),
		openai.WithToken(token),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &Completer{
		config: config,
		llm:    llm,
	}, nil
}

// Complete sends the input text as the single user turn and returns the raw
// model output. Errors are classified into the package failure taxonomy.
func (c *Completer) Complete(ctx context.Context, systemPrompt, input string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, input),
	}

	response, err := c.llm.GenerateContent(ctx, content,
		llms.WithTemperature(c.config.Temperature),
		llms.WithMaxTokens(c.config.MaxTokens),
	)
	if err != nil {
		return "", classify(err)
	}
	if response == nil || len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnparseable)
	}

	return response.Choices[0].Content, nil
}

func classify(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rate_limit") || strings.Contains(msg, "quota") {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}
