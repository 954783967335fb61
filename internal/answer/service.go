package answer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"flyai/internal/cache"
	"flyai/internal/llm"
	"flyai/pkg/logging/logging"
)

// ErrEmptyPrompt is returned for prompts that are blank after normalization.
var ErrEmptyPrompt = errors.New("answer: prompt is empty")

// Config tunes the model call. MaxTokens <= 0 selects 500. Temperature is
// sent as given, so the zero value means a literal 0; a negative value
// selects 0.7. DefaultConfig returns 500 at 0.7.
type Config struct {
	Persona     string
	MaxTokens   int
	Temperature float64
}

func (c Config) withDefaults() Config {
	if c.MaxTokens <= 0 {
		c.MaxTokens = 500
	}
	if c.Temperature < 0 {
		c.Temperature = 0.7
	}
	return c
}

// DefaultConfig returns the persona-less defaults: 500 tokens at temperature 0.7.
func DefaultConfig() Config {
	return Config{MaxTokens: 500, Temperature: 0.7}
}

// Service answers free-text travel questions, serving repeats from the cache.
type Service struct {
	store     cache.Store
	completer llm.Completer
	cfg       Config
	logger    *zap.Logger
}

func NewService(store cache.Store, completer llm.Completer, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		completer: completer,
		cfg:       cfg.withDefaults(),
		logger:    logger.Named("answer"),
	}
}

// Answer returns the cached answer for prompt or asks the model and caches
// the result. Model failures are returned as *llm.UpstreamError.
// Cache failures never fail the call.
func (s *Service) Answer(ctx context.Context, prompt string) (string, error) {
	if cache.Normalize(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	logger := logging.FromContextOr(ctx, s.logger)

	entry, hit, err := s.store.Lookup(ctx, prompt)
	switch {
	case err != nil:
		logger.Warn("cache lookup failed, treating as miss", zap.Error(err))
	case hit:
		return entry.Answer, nil
	}

	// A completed answer is still cached if the client goes away mid-call.
	detached := context.WithoutCancel(ctx)

	text, err := s.completer.Complete(detached, llm.Completion{
		System:      s.cfg.Persona,
		Prompt:      prompt,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}

	if _, err := s.store.Insert(detached, prompt, text); err != nil {
		logger.Warn("cache insert failed, answer not cached", zap.Error(err))
	}
	return text, nil
}
