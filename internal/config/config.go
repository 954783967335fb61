package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPersona is the system prompt for general travel answers.
const DefaultPersona = "You are FlyAI, a friendly and knowledgeable travel assistant. " +
	"Answer questions about destinations, flights, airports and travel planning concisely."

// Config holds all FlyAI configuration.
type Config struct {
	Env       string          `yaml:"env"`
	LogLevel  string          `yaml:"log_level"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	LLM       LLMConfig       `yaml:"llm"`
	Intent    IntentConfig    `yaml:"intent"`
	Amadeus   AmadeusConfig   `yaml:"amadeus"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// TrustProxyHeaders keys rate limits and logs on X-Forwarded-For / X-Real-IP.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers"`
}

// StorageConfig selects the SQL engine shared by the cache and search history.
type StorageConfig struct {
	Driver      string `yaml:"driver"` // sqlite | postgres
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

type CacheConfig struct {
	Backend       string `yaml:"backend"` // sql | redis | memory
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
}

type LLMConfig struct {
	Provider        string        `yaml:"provider"` // openai | gemini | anthropic | ollama
	APIKey          string        `yaml:"api_key"`
	Model           string        `yaml:"model"`
	BaseURL         string        `yaml:"base_url"` // empty selects the provider default
	Timeout         time.Duration `yaml:"timeout"`
	MaxRetries      int           `yaml:"max_retries"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	Temperature     float64       `yaml:"temperature"`
	Persona         string        `yaml:"persona"`
}

type IntentConfig struct {
	Keywords              []string `yaml:"keywords"`
	ExtractionMaxTokens   int      `yaml:"extraction_max_tokens"`
	ExtractionTemperature float64  `yaml:"extraction_temperature"`
}

type AmadeusConfig struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	APISecret string        `yaml:"api_secret"`
	Timeout   time.Duration `yaml:"timeout"`
}

// RateLimitConfig holds requests per minute per client IP. Zero disables the limit.
type RateLimitConfig struct {
	Ask           int `yaml:"ask"`
	SmartAsk      int `yaml:"smart_ask"`
	SearchFlights int `yaml:"search_flights"`
	Airports      int `yaml:"airports"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// DefaultKeywords gate the intent extraction call (English and German).
var DefaultKeywords = []string{
	"flight", "flights", "fly", "to", "from", "trip",
	"flug", "flüge", "fliegen", "nach", "von", "reise",
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Env: "production",
		Server: ServerConfig{
			Port:            "8000",
			RequestTimeout:  60 * time.Second,
			MaxBodyBytes:    512 * 1024,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver:     "sqlite",
			SQLitePath: "flyai.db",
		},
		Cache: CacheConfig{
			Backend:     "sql",
			RedisAddr:   "127.0.0.1:6379",
			RedisPrefix: "flyai",
		},
		LLM: LLMConfig{
			Provider:        "openai",
			Timeout:         30 * time.Second,
			MaxOutputTokens: 500,
			Temperature:     0.7,
			Persona:         DefaultPersona,
		},
		Intent: IntentConfig{
			Keywords:              append([]string(nil), DefaultKeywords...),
			ExtractionMaxTokens:   200,
			ExtractionTemperature: 0,
		},
		Amadeus: AmadeusConfig{
			BaseURL: "https://test.api.amadeus.com",
			Timeout: 15 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Ask:           10,
			SmartAsk:      10,
			SearchFlights: 20,
			Airports:      60,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty) with environment variables expanded, then .env and
// process environment overrides. A missing .env file is ignored.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Env, "ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Server.Port, "PORT")

	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.APIKey, "OPENAI_API_KEY")
	// LLM_API_KEY wins over the provider specific variable
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")

	setString(&c.Amadeus.APIKey, "AMADEUS_API_KEY")
	setString(&c.Amadeus.APISecret, "AMADEUS_API_SECRET")

	setString(&c.Storage.SQLitePath, "FLYAI_DB_PATH")
	if v := os.Getenv("FLYAI_POSTGRES_DSN"); v != "" {
		c.Storage.PostgresDSN = v
		c.Storage.Driver = "postgres"
	}

	setString(&c.Cache.RedisAddr, "REDIS_ADDR")
	setString(&c.Cache.Backend, "CACHE_BACKEND")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that the selected backends and providers are usable.
// Missing provider credentials are not an error here: the serve command
// reports them when it builds the clients.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Port) == "" {
		errs = append(errs, errors.New("server.port is required"))
	}

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for sqlite"))
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("storage.postgres_dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q: want sqlite or postgres", c.Storage.Driver))
	}

	switch c.Cache.Backend {
	case "sql", "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend %q: want sql, redis or memory", c.Cache.Backend))
	}

	switch c.LLM.Provider {
	case "openai", "gemini", "anthropic", "ollama":
	default:
		errs = append(errs, fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, errors.New("llm.temperature must be between 0 and 2"))
	}
	if c.LLM.MaxOutputTokens <= 0 {
		errs = append(errs, errors.New("llm.max_output_tokens must be positive"))
	}
	if c.LLM.MaxRetries < 0 {
		errs = append(errs, errors.New("llm.max_retries must not be negative"))
	}

	if len(c.Intent.Keywords) == 0 {
		errs = append(errs, errors.New("intent.keywords must not be empty"))
	}
	if c.Intent.ExtractionMaxTokens <= 0 {
		errs = append(errs, errors.New("intent.extraction_max_tokens must be positive"))
	}

	rl := c.RateLimit
	if rl.Ask < 0 || rl.SmartAsk < 0 || rl.SearchFlights < 0 || rl.Airports < 0 {
		errs = append(errs, errors.New("rate_limit values must not be negative"))
	}

	return errors.Join(errs...)
}
