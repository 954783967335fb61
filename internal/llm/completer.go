package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"flyai/internal/metrics"
)

// Completion is a single persona-scoped prompt sent to a language model.
// System is optional; an empty System sends the prompt without a persona.
type Completion struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Completer is the provider-agnostic language-model contract used by the answer
// service and the intent classifier. Implementations return *UpstreamError on failure.
type Completer interface {
	Complete(ctx context.Context, c Completion) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, c Completion) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, c Completion) (string, error) {
	return f(ctx, c)
}

// ChatCompleter adapts the OpenAI-compatible Client to Completer.
type ChatCompleter struct {
	client Client
	model  string
}

// NewChatCompleter wraps client. An empty model uses the client's configured model.
func NewChatCompleter(client Client, model string) *ChatCompleter {
	return &ChatCompleter{client: client, model: model}
}

func (c *ChatCompleter) Complete(ctx context.Context, in Completion) (string, error) {
	messages := make([]ChatMessage, 0, 2)
	if in.System != "" {
		messages = append(messages, ChatMessage{Role: RoleSystem, Content: in.System})
	}
	messages = append(messages, ChatMessage{Role: RoleUser, Content: in.Prompt})

	resp, err := c.client.ChatCompletion(ctx, &ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: float32(in.Temperature),
		MaxTokens:   in.MaxTokens,
	})
	if err != nil {
		return "", asUpstream(providerOpenAI, err)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &UpstreamError{Provider: providerOpenAI, Err: errors.New("empty completion")}
	}
	return content, nil
}

// Close releases the underlying client's resources when it has any.
func (c *ChatCompleter) Close() error {
	if closer, ok := c.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

type instrumented struct {
	inner    Completer
	provider string
	logger   *zap.Logger
}

// Instrument wraps a Completer with request logging and llm_requests_total.
func Instrument(inner Completer, provider string, logger *zap.Logger) Completer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &instrumented{inner: inner, provider: provider, logger: logger.Named("completer")}
}

func (i *instrumented) Complete(ctx context.Context, c Completion) (string, error) {
	start := time.Now()
	out, err := i.inner.Complete(ctx, c)

	fields := []zap.Field{
		zap.String("provider", i.provider),
		zap.Bool("has_persona", c.System != ""),
		zap.Int("prompt_len", len(c.Prompt)),
		zap.Int("max_tokens", c.MaxTokens),
		zap.Float64("temperature", c.Temperature),
		zap.Duration("duration", time.Since(start)),
	}

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(i.provider, "error").Inc()
		i.logger.Warn("completion failed", append(fields, zap.Error(err))...)
		return "", asUpstream(i.provider, err)
	}

	metrics.LLMRequestsTotal.WithLabelValues(i.provider, "ok").Inc()
	i.logger.Debug("completion done", append(fields, zap.Int("answer_len", len(out)))...)
	return out, nil
}

// Close forwards to the wrapped Completer.
func (i *instrumented) Close() error {
	if closer, ok := i.inner.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
