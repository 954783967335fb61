package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"flyai/internal/answer"
	"flyai/internal/cache"
	"flyai/internal/config"
	"flyai/internal/history"
	"flyai/internal/infra"
	"flyai/internal/intent"
	"flyai/internal/llm"
	"flyai/pkg/logging/logging"
)

// app holds the process-wide connections and services shared by the commands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	sqlite   *sql.DB
	postgres *pgxpool.Pool
	redis    *redis.Client

	cache     *cache.LoggingStore
	history   history.Store
	completer llm.Completer
}

// newApp loads config and opens storage. withLLM also builds the model provider.
func newApp(ctx context.Context, configPath string, withLLM bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewLogger(logging.Options{Env: cfg.Env, Level: cfg.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logging.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger}
	if err := a.openStorage(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.cache, err = cache.NewStore(cache.Config{
		Backend: cfg.Cache.Backend,
		Prefix:  cfg.Cache.RedisPrefix,
	}, cache.Handles{SQLite: a.sqlite, Postgres: a.postgres, Redis: a.redis})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create cache: %w", err)
	}

	if !withLLM {
		return a, nil
	}
	a.completer, err = llm.NewCompleter(ctx, llm.ProviderConfig{
		Provider:   cfg.LLM.Provider,
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.LLM.Model,
		BaseURL:    cfg.LLM.BaseURL,
		Timeout:    cfg.LLM.Timeout,
		MaxRetries: cfg.LLM.MaxRetries,
	}, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openStorage(ctx context.Context) error {
	var err error
	switch a.cfg.Storage.Driver {
	case "postgres":
		a.postgres, err = infra.OpenPostgres(ctx, a.cfg.Storage.PostgresDSN)
		if err != nil {
			return err
		}
		a.history = history.NewPostgresStore(a.postgres)
		a.logger.Info("postgres connection established")
	default:
		a.sqlite, err = infra.OpenSQLite(ctx, a.cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		a.history = history.NewSQLiteStore(a.sqlite)
		a.logger.Info("sqlite database opened", zap.String("path", a.cfg.Storage.SQLitePath))
	}

	if a.cfg.Cache.Backend == cache.BackendRedis {
		a.redis, err = infra.OpenRedis(ctx, infra.RedisOptions{
			Addr:     a.cfg.Cache.RedisAddr,
			Password: a.cfg.Cache.RedisPassword,
			DB:       a.cfg.Cache.RedisDB,
		})
		if err != nil {
			return err
		}
		a.logger.Info("redis connection established", zap.String("addr", a.cfg.Cache.RedisAddr))
	}
	return nil
}

func (a *app) answerService() *answer.Service {
	return answer.NewService(a.cache, a.completer, answer.Config{
		Persona:     a.cfg.LLM.Persona,
		MaxTokens:   a.cfg.LLM.MaxOutputTokens,
		Temperature: a.cfg.LLM.Temperature,
	}, a.logger)
}

func (a *app) classifier(answers intent.Answerer) *intent.Classifier {
	return intent.NewClassifier(a.completer, answers, intent.Config{
		Keywords:              a.cfg.Intent.Keywords,
		ExtractionMaxTokens:   a.cfg.Intent.ExtractionMaxTokens,
		ExtractionTemperature: a.cfg.Intent.ExtractionTemperature,
	}, a.logger)
}

// Close releases every opened resource.
func (a *app) Close() {
	if closer, ok := a.completer.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("close llm provider", zap.Error(err))
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.sqlite != nil {
		_ = a.sqlite.Close()
	}
	_ = a.logger.Sync()
}
