package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	LLMGoogleAI = "googleai"
	LLMOpenAI   = "openai"
)

// Config is the resolved runtime configuration of the storefront.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogLevel        string

	Storage     string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	CheckoutTimeout time.Duration
	Currency        currency.Unit

	LLMProvider  string
	LLMModel     string
	LLMAPIKey    string
	LLMMaxTokens int
	GuidePath    string
}

// configFile mirrors configs/default.yaml.
type configFile struct {
	HTTP struct {
		Addr            string `yaml:"addr"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"http"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Storage struct {
		Kind        string `yaml:"kind"`
		PostgresURL string `yaml:"postgres_url"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Auth struct {
		Secret   string `yaml:"secret"`
		Issuer   string `yaml:"issuer"`
		Audience string `yaml:"audience"`
	} `yaml:"auth"`
	Checkout struct {
		Timeout  string `yaml:"timeout"`
		Currency string `yaml:"currency"`
	} `yaml:"checkout"`
	Assistant struct {
		Provider  string `yaml:"provider"`
		Model     string `yaml:"model"`
		MaxTokens int    `yaml:"max_tokens"`
		GuidePath string `yaml:"guide_path"`
	} `yaml:"assistant"`
}

// Load resolves configuration in priority order: defaults, then file, then env.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Config{
		HTTPAddr:        ":8080",
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		Storage:         StorageMemory,
		CacheTTL:        15 * time.Minute,
		JWTIssuer:       "storefront",
		JWTAudience:     "storefront-web",
		CheckoutTimeout: 10 * time.Second,
		Currency:        currency.INR,
		LLMProvider:     LLMGoogleAI,
		LLMModel:        "gemini-1.5-flash",
		LLMMaxTokens:    512,
		GuidePath:       "configs/guide.txt",
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := applyFile(&cfg, raw); err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("os.ReadFile[%s]: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("cfg.Validate: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("database url is empty")
		}
	default:
		return fmt.Errorf("unknown storage[%s]", c.Storage)
	}

	switch c.LLMProvider {
	case "", LLMGoogleAI, LLMOpenAI:
	default:
		return fmt.Errorf("unknown llm provider[%s]", c.LLMProvider)
	}

	if c.JWTSecret == "" {
		return errors.New("jwt secret is empty")
	}
	if c.LLMMaxTokens <= 0 {
		return errors.New("llm max tokens is not positive")
	}
	if c.CheckoutTimeout <= 0 {
		return errors.New("checkout timeout is not positive")
	}

	return nil
}

func applyFile(cfg *Config, raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&cfg.HTTPAddr, f.HTTP.Addr)
	setString(&cfg.LogLevel, f.Log.Level)
	setString(&cfg.Storage, f.Storage.Kind)
	setString(&cfg.DatabaseURL, f.Storage.PostgresURL)
	setString(&cfg.RedisAddr, f.Redis.Addr)
	setString(&cfg.RedisPassword, f.Redis.Password)
	setString(&cfg.JWTSecret, f.Auth.Secret)
	setString(&cfg.JWTIssuer, f.Auth.Issuer)
	setString(&cfg.JWTAudience, f.Auth.Audience)
	setString(&cfg.LLMProvider, f.Assistant.Provider)
	setString(&cfg.LLMModel, f.Assistant.Model)
	setString(&cfg.GuidePath, f.Assistant.GuidePath)

	if f.Redis.DB > 0 {
		cfg.RedisDB = f.Redis.DB
	}
	if f.Assistant.MaxTokens > 0 {
		cfg.LLMMaxTokens = f.Assistant.MaxTokens
	}

	var err error
	if cfg.ShutdownTimeout, err = parseDuration(f.HTTP.ShutdownTimeout, cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("http.shutdown_timeout: %w", err)
	}
	if cfg.CacheTTL, err = parseDuration(f.Redis.TTL, cfg.CacheTTL); err != nil {
		return fmt.Errorf("redis.ttl: %w", err)
	}
	if cfg.CheckoutTimeout, err = parseDuration(f.Checkout.Timeout, cfg.CheckoutTimeout); err != nil {
		return fmt.Errorf("checkout.timeout: %w", err)
	}
	if cfg.Currency, err = parseCurrency(f.Checkout.Currency, cfg.Currency); err != nil {
		return fmt.Errorf("checkout.currency: %w", err)
	}

	return nil
}

func applyEnv(cfg *Config) error {
	cfg.HTTPAddr = envOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.Storage = strings.ToLower(envOrDefault("STORAGE", cfg.Storage))
	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisAddr = envOrDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = envOrDefault("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = envInt("REDIS_DB", cfg.RedisDB)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = envOrDefault("JWT_ISSUER", cfg.JWTIssuer)
	cfg.JWTAudience = envOrDefault("JWT_AUDIENCE", cfg.JWTAudience)
	cfg.LLMProvider = strings.ToLower(envOrDefault("LLM_PROVIDER", cfg.LLMProvider))
	cfg.LLMModel = envOrDefault("LLM_MODEL", cfg.LLMModel)
	cfg.LLMAPIKey = envOrDefault("LLM_API_KEY", cfg.LLMAPIKey)
	cfg.LLMMaxTokens = envInt("LLM_MAX_TOKENS", cfg.LLMMaxTokens)
	cfg.GuidePath = envOrDefault("GUIDE_PATH", cfg.GuidePath)

	var err error
	if cfg.CheckoutTimeout, err = parseDuration(os.Getenv("CHECKOUT_TIMEOUT"), cfg.CheckoutTimeout); err != nil {
		return fmt.Errorf("CHECKOUT_TIMEOUT: %w", err)
	}
	if cfg.CacheTTL, err = parseDuration(os.Getenv("CACHE_TTL"), cfg.CacheTTL); err != nil {
		return fmt.Errorf("CACHE_TTL: %w", err)
	}
	if cfg.Currency, err = parseCurrency(os.Getenv("CURRENCY"), cfg.Currency); err != nil {
		return fmt.Errorf("CURRENCY: %w", err)
	}

	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}

func parseCurrency(raw string, fallback currency.Unit) (currency.Unit, error) {
	if raw == "" {
		return fallback, nil
	}
	return currency.ParseISO(raw)
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt falls back on empty and invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
