package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedOutput marks a response that could not be decoded into the
// expected record.
var ErrMalformedOutput = errors.New("malformed oracle output")

// single prompt sent to a language model
type Request struct {
	System string
	User   string
}

// interface for chat-style language model backends
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// language model provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

type Options struct {
	Model       string
	Temperature float64       // 0 keeps the provider default
	MaxTokens   int           // anthropic only (default 8192)
	MaxRetries  int           // SDK-level retries where supported
	Timeout     time.Duration // per request, 0 means no limit
}

// creates Completer based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Completer, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiCompleter(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAICompleter(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicCompleter(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported oracle provider: %s", provider)
	}
}

// withTimeout bounds a single request when a timeout is configured
func withTimeout(
	ctx context.Context,
	timeout time.Duration,
) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
