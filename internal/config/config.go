package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration required by the API process.
// All values come from env, optionally seeded from a .env file.
// No business logic should depend on raw environment variables.
type Config struct {
	App     AppConfig
	Redis   RedisConfig
	Session SessionConfig
	Backend BackendConfig
	Token   TokenConfig
	Auth    AuthConfig
	Metrics MetricsConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type RedisConfig struct {
	Host string
	Port int
}

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type SessionConfig struct {
	// Store is memory or redis.
	Store    string
	TokenKey string
	// TokenTTL of zero keeps the token until logout.
	TokenTTL time.Duration
}

type BackendConfig struct {
	// BaseURL may be empty; features then fail as not configured.
	BaseURL string
	Timeout time.Duration
}

type TokenConfig struct {
	StrictDecoding bool
}

// AuthConfig enables the verified token path when JWTSecret is set.
type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	TokenTTL    time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

// LoadEnvFile seeds the environment from path. A missing file is not an error
// and variables already set are left alone.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.Session.Store = strings.ToLower(strings.TrimSpace(os.Getenv("SESSION_STORE")))
	c.Session.TokenKey = strings.TrimSpace(os.Getenv("SESSION_TOKEN_KEY"))
	c.Session.TokenTTL, parseErrs = appendDurationErr(parseErrs, "SESSION_TOKEN_TTL")

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	if v := strings.TrimSpace(os.Getenv("REDIS_PORT")); v != "" || c.Session.Store == StoreRedis {
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.Backend.BaseURL = strings.TrimSpace(os.Getenv("BACKEND_BASE_URL"))
	c.Backend.Timeout, parseErrs = appendDurationErr(parseErrs, "BACKEND_TIMEOUT")

	c.Token.StrictDecoding, parseErrs = appendBoolErr(parseErrs, "TOKEN_STRICT_DECODING")

	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	c.Auth.JWTIssuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	c.Auth.JWTAudience = strings.TrimSpace(os.Getenv("JWT_AUDIENCE"))
	c.Auth.TokenTTL, parseErrs = appendDurationErr(parseErrs, "JWT_TTL")

	c.Metrics.Enabled, parseErrs = appendBoolErr(parseErrs, "METRICS_ENABLED")

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// applyDefaults fills optional values left empty by the environment.
func (c *Config) applyDefaults() {
	if c.Session.Store == "" {
		c.Session.Store = StoreMemory
	}
	if c.Session.TokenKey == "" {
		c.Session.TokenKey = "auth:token"
	}
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = 10 * time.Second
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 12 * time.Hour
	}
}

func (c Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	switch c.Session.Store {
	case StoreMemory:
		if c.IsProduction() {
			errs = append(errs, errors.New("SESSION_STORE=memory is not allowed in production"))
		}
	case StoreRedis:
		if c.Redis.Host == "" {
			errs = append(errs, errors.New("REDIS_HOST is required when SESSION_STORE=redis"))
		}
		if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
			errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE must be one of memory, redis, got %q", c.Session.Store))
	}
	if c.Session.TokenTTL < 0 {
		errs = append(errs, errors.New("SESSION_TOKEN_TTL must not be negative"))
	}

	if c.Backend.BaseURL != "" {
		u, err := url.Parse(c.Backend.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("BACKEND_BASE_URL must be an absolute URL, got %q", c.Backend.BaseURL))
		}
	} else if c.IsProduction() {
		errs = append(errs, errors.New("BACKEND_BASE_URL is required in production"))
	}

	if c.IsProduction() && c.Auth.JWTSecret != "" {
		if c.Auth.JWTIssuer == "" {
			errs = append(errs, errors.New("JWT_ISSUER is required in production"))
		}
		if c.Auth.JWTAudience == "" {
			errs = append(errs, errors.New("JWT_AUDIENCE is required in production"))
		}
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

// VerifiedAuth reports whether session writes require a verified token.
func (c Config) VerifiedAuth() bool {
	return c.Auth.JWTSecret != ""
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

// appendDurationErr parses an optional duration; empty yields zero.
func appendDurationErr(errs []error, key string) (time.Duration, []error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, errs
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, append(errs, fmt.Errorf("%s must be a duration, got %q", key, v))
	}
	return d, errs
}

// appendBoolErr parses an optional bool; empty yields false.
func appendBoolErr(errs []error, key string) (bool, []error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, errs
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, append(errs, fmt.Errorf("%s must be a boolean, got %q", key, v))
	}
	return b, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
