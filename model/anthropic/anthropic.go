// Package anthropic provides a capability wrapper for the Anthropic Claude
// API. It adapts the Messages API to the single-prompt core.Capability
// contract and classifies API failures so the runtime's retry policy can tell
// transient rate limits from permanent request rejections.
package anthropic

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/riskmesh/riskmesh/core"
)

// Options configure the Anthropic capability adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Capability wraps the Anthropic Messages API behind the core.Capability
// interface.
type Capability struct {
	client *anthropic.Client
	opts   Options
}

// New creates a new Anthropic capability using the official client.
func New(optFns ...func(o *Options)) *Capability {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.2,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Capability{
		client: &client,
		opts:   opts,
	}
}

// NewFromClient creates a new Anthropic capability from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Capability {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.2,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Capability{
		client: client,
		opts:   opts,
	}
}

// Invoke implements core.Capability. The prompt is sent as a single user
// message; the concatenated text blocks of the response are returned.
func (c *Capability) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.opts.Model,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", classify(err)
	}

	var out string
	for _, block := range resp.Content {
		if block.Type == "text" {
			out += block.AsText().Text
		}
	}
	if out == "" {
		return "", core.TransientError(fmt.Errorf("anthropic api returned no text content"))
	}
	return out, nil
}

// Info implements core.Capability.
func (c *Capability) Info() core.CapabilityInfo {
	return core.CapabilityInfo{Name: string(c.opts.Model), Provider: "anthropic"}
}

// classify maps API errors to capability error kinds: rate limits, timeouts
// and server errors are retryable; other client errors are not.
func classify(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 408 || apiErr.StatusCode == 429 || apiErr.StatusCode >= 500:
			return core.TransientError(fmt.Errorf("anthropic api error: %w", err))
		default:
			return core.PermanentError(fmt.Errorf("anthropic api error: %w", err))
		}
	}
	// Network-level failures surface without a status code.
	return core.TransientError(fmt.Errorf("anthropic api error: %w", err))
}
