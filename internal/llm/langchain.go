package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
)

const (
	providerAnthropic = "anthropic"
	providerOllama    = "ollama"

	DefaultOllamaHost = "http://localhost:11434"
)

// LangChainCompleter implements Completer on top of any langchaingo model.
type LangChainCompleter struct {
	model    llms.Model
	provider string
}

// NewLangChainCompleter wraps an existing langchaingo model.
func NewLangChainCompleter(model llms.Model, provider string) *LangChainCompleter {
	return &LangChainCompleter{model: model, provider: provider}
}

// NewAnthropicCompleter builds an Anthropic-backed Completer.
func NewAnthropicCompleter(apiKey, model string) (*LangChainCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic: API key required")
	}
	m, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create anthropic model: %w", err)
	}
	return NewLangChainCompleter(m, providerAnthropic), nil
}

// NewOllamaCompleter builds a Completer for a local Ollama server.
func NewOllamaCompleter(host, model string) (*LangChainCompleter, error) {
	if host == "" {
		host = DefaultOllamaHost
	}
	m, err := ollama.New(
		ollama.WithModel(model),
		ollama.WithServerURL(host),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama model: %w", err)
	}
	return NewLangChainCompleter(m, providerOllama), nil
}

func (l *LangChainCompleter) Complete(ctx context.Context, in Completion) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if in.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, in.System))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, in.Prompt))

	opts := []llms.CallOption{llms.WithTemperature(in.Temperature)}
	if in.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(in.MaxTokens))
	}

	resp, err := l.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", &UpstreamError{Provider: l.provider, Err: fmt.Errorf("generate content: %w", err)}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", &UpstreamError{Provider: l.provider, Err: errors.New("no response choices")}
	}
	return resp.Choices[0].Content, nil
}
