package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"flyai/internal/metrics"
	"flyai/pkg/logging/logging"
)

// LoggingStore wraps a Store with logging + metrics.
type LoggingStore struct {
	inner   Store
	backend string
}

// NewLoggingStore returns a cache that logs and records metrics.
func NewLoggingStore(inner Store, backend string) *LoggingStore {
	return &LoggingStore{inner: inner, backend: backend}
}

func (c *LoggingStore) Lookup(ctx context.Context, question string) (Entry, bool, error) {
	start := time.Now()
	entry, ok, err := c.inner.Lookup(ctx, question)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	result := "miss"
	if err != nil {
		result = "error"
	} else if ok {
		result = "hit"
	}
	metrics.CacheLookupsTotal.WithLabelValues(result).Inc()

	fields := []zap.Field{
		zap.String("cache_backend", c.backend),
		zap.String("cache_key", AnswerKey(question)),
		zap.String("cache_result", result), // hit | miss | error
		zap.Float64("latency_ms", latencyMs),
	}

	logger := logging.L(ctx)
	if err != nil {
		logger.Error("cache_lookup", append(fields, zap.Error(err))...)
	} else {
		logger.Info("cache_lookup", fields...)
	}

	return entry, ok, err
}

func (c *LoggingStore) Insert(ctx context.Context, question, answer string) (Entry, error) {
	start := time.Now()
	entry, err := c.inner.Insert(ctx, question, answer)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	fields := []zap.Field{
		zap.String("cache_backend", c.backend),
		zap.String("cache_key", AnswerKey(question)),
		zap.Int("answer_len", len(answer)),
		zap.Float64("latency_ms", latencyMs),
	}

	logger := logging.L(ctx)
	if err != nil {
		metrics.CacheInsertsTotal.WithLabelValues("error").Inc()
		logger.Error("cache_insert", append(fields, zap.Error(err))...)
	} else {
		metrics.CacheInsertsTotal.WithLabelValues("ok").Inc()
		logger.Info("cache_insert", fields...)
	}

	return entry, err
}

// Stats forwards to the wrapped backend when it reports stats.
func (c *LoggingStore) Stats(ctx context.Context) (Stats, error) {
	if r, ok := c.inner.(StatsReporter); ok {
		return r.Stats(ctx)
	}
	return Stats{Backend: c.backend, Entries: -1}, nil
}
