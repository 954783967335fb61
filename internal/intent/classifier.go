package intent

import (
	"context"

	"go.uber.org/zap"

	"flyai/internal/llm"
	"flyai/internal/metrics"
	"flyai/pkg/logging/logging"
)

// Answerer produces a chat answer. Implemented by *answer.Service.
type Answerer interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

type Config struct {
	Keywords              []string
	ExtractionMaxTokens   int     // default: 200
	ExtractionTemperature float64 // 0 keeps extraction deterministic
}

// Classifier decides whether a prompt is a flight search or a chat question.
// It holds no per-call state.
type Classifier struct {
	keywords  KeywordSet
	completer llm.Completer
	answerer  Answerer
	cfg       Config
	logger    *zap.Logger
}

func NewClassifier(completer llm.Completer, answerer Answerer, cfg Config, logger *zap.Logger) *Classifier {
	if cfg.ExtractionMaxTokens <= 0 {
		cfg.ExtractionMaxTokens = 200
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		keywords:  NewKeywordSet(cfg.Keywords),
		completer: completer,
		answerer:  answerer,
		cfg:       cfg,
		logger:    logger.Named("intent"),
	}
}

// Classify returns a FlightSearch when the model extracts one and a Chat
// answer otherwise. Extraction failures never surface; the only error is the
// answerer's upstream failure on the chat path.
func (c *Classifier) Classify(ctx context.Context, prompt string) (Result, error) {
	logger := logging.FromContextOr(ctx, c.logger)

	if !c.keywords.Match(prompt) {
		return c.chat(ctx, prompt, "keyword_gate")
	}

	raw, err := c.completer.Complete(ctx, llm.Completion{
		Prompt:      extractionPrompt(prompt),
		MaxTokens:   c.cfg.ExtractionMaxTokens,
		Temperature: c.cfg.ExtractionTemperature,
	})
	if err != nil {
		logger.Warn("extraction call failed, falling back to chat", zap.Error(err))
		return c.chat(ctx, prompt, "fallback")
	}

	ext, err := parseExtraction(raw)
	if err != nil {
		logger.Info("extraction reply malformed, falling back to chat",
			zap.Error(err),
			zap.Int("reply_len", len(raw)),
		)
		return c.chat(ctx, prompt, "fallback")
	}

	if ext.Action != KindSearchFlight {
		return c.chat(ctx, prompt, "extracted")
	}

	metrics.IntentClassificationsTotal.WithLabelValues(string(KindSearchFlight), "extracted").Inc()
	logger.Info("flight search intent",
		zap.String("origin", ext.From),
		zap.String("destination", ext.To),
		zap.Bool("has_date", ext.Date != nil),
	)
	return FlightSearch{Origin: ext.From, Destination: ext.To, Date: ext.Date}, nil
}

// chat answers the original prompt, never the extraction prompt.
func (c *Classifier) chat(ctx context.Context, prompt, path string) (Result, error) {
	metrics.IntentClassificationsTotal.WithLabelValues(string(KindChat), path).Inc()

	answer, err := c.answerer.Answer(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return Chat{Message: answer}, nil
}
