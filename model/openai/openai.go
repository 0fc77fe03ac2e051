// Package openai provides a capability wrapper for the OpenAI Chat
// Completions API. It adapts the SDK to the single-prompt core.Capability
// contract and classifies API failures so the runtime's retry policy can tell
// transient rate limits from permanent request rejections.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/riskmesh/riskmesh/core"
)

// Options configure the OpenAI capability adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	APIKey              string
}

// Capability wraps the OpenAI Chat Completions API behind the core.Capability
// interface.
type Capability struct {
	client *openai.Client
	opts   Options
}

// New creates a new OpenAI capability using the official client.
func New(optFns ...func(o *Options)) *Capability {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := openai.NewClient(clientOpts...)
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI capability from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Capability {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.2,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Capability{client: client, opts: opts}
}

// Invoke implements core.Capability. The prompt is sent as a single user
// message; the first choice's content is returned.
func (c *Capability) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               c.opts.Model,
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxCompletionTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", core.TransientError(fmt.Errorf("openai api returned no content"))
	}
	return resp.Choices[0].Message.Content, nil
}

// Info implements core.Capability.
func (c *Capability) Info() core.CapabilityInfo {
	return core.CapabilityInfo{Name: c.opts.Model, Provider: "openai"}
}

// classify maps API errors to capability error kinds: rate limits, timeouts
// and server errors are retryable; other client errors are not.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 408 || apiErr.StatusCode == 429 || apiErr.StatusCode >= 500:
			return core.TransientError(fmt.Errorf("openai api error: %w", err))
		default:
			return core.PermanentError(fmt.Errorf("openai api error: %w", err))
		}
	}
	return core.TransientError(fmt.Errorf("openai api error: %w", err))
}
