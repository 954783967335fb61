package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ProviderConfig selects and configures one language-model provider.
type ProviderConfig struct {
	Provider   string // openai (default), gemini, anthropic, ollama
	APIKey     string
	Model      string
	BaseURL    string // openai-compatible base URL or ollama host
	Timeout    time.Duration
	MaxRetries int
}

const DefaultOpenAIBaseURL = "https://api.openai.com"

// NewCompleter builds the configured provider and wraps it with Instrument.
func NewCompleter(ctx context.Context, cfg ProviderConfig, logger *zap.Logger) (Completer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = providerOpenAI
	}

	var (
		inner Completer
		err   error
	)
	switch provider {
	case providerOpenAI:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultOpenAIBaseURL
		}
		var c Client
		c, err = NewClient(Config{
			BaseURL:         baseURL,
			APIKey:          cfg.APIKey,
			Model:           cfg.Model,
			UpstreamTimeout: cfg.Timeout,
			MaxRetries:      cfg.MaxRetries,
		}, logger)
		if err == nil {
			inner = NewChatCompleter(c, "")
		}
	case providerGemini:
		inner, err = NewGeminiCompleter(ctx, cfg.APIKey, cfg.Model)
	case providerAnthropic:
		inner, err = NewAnthropicCompleter(cfg.APIKey, cfg.Model)
	case providerOllama:
		inner, err = NewOllamaCompleter(cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", provider, err)
	}

	logger.Info("llm provider ready",
		zap.String("provider", provider),
		zap.String("model", cfg.Model),
	)
	return Instrument(inner, provider, logger), nil
}
