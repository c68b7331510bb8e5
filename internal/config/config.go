// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App        AppConfig        `koanf:"app"`
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	Auth       AuthConfig       `koanf:"auth"`
	Plans      PlansConfig      `koanf:"plans"`
	Storage    StorageConfig    `koanf:"storage"`
	Stripe     StripeConfig     `koanf:"stripe"`
	RevenueCat RevenueCatConfig `koanf:"revenuecat"`
	OpenAI     OpenAIConfig     `koanf:"openai"`
	SMTP       SMTPConfig       `koanf:"smtp"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	CORS       CORSConfig       `koanf:"cors"`
	Log        LogConfig        `koanf:"log"`
	Otel       OtelConfig       `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	Migrate         bool          `koanf:"migrate"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

// AuthConfig covers the three token issuers the API accepts: Supabase
// verified locally with the shared JWT secret, Supabase verified remotely
// via the introspection endpoint when no local secret is configured, and
// the legacy issuer signed with our own secret.
type AuthConfig struct {
	SupabaseURL       string        `koanf:"supabase_url"`
	SupabaseJWTSecret string        `koanf:"supabase_jwt_secret"`
	SupabaseAnonKey   string        `koanf:"supabase_anon_key"`
	LegacyJWTSecret   string        `koanf:"legacy_jwt_secret"`
	LegacyTokenExpire time.Duration `koanf:"legacy_token_expire"`
	Issuer            string        `koanf:"issuer"`
}

// PlansConfig is the single source of truth for free-tier ceilings and
// the email allow-lists. The upstream app scattered inconsistent literals
// across call sites; every enforcement point reads these values instead.
type PlansConfig struct {
	FreeMaxClasses int      `koanf:"free_max_classes"`
	FreeMaxNotes   int      `koanf:"free_max_notes"`
	PremiumEmails  []string `koanf:"premium_emails"`
	AdminEmails    []string `koanf:"admin_emails"`
}

type StorageConfig struct {
	Endpoint        string `koanf:"endpoint"`
	Region          string `koanf:"region"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	Bucket          string `koanf:"bucket"`
	PublicBaseURL   string `koanf:"public_base_url"`
}

type StripeConfig struct {
	SecretKey     string `koanf:"secret_key"`
	WebhookSecret string `koanf:"webhook_secret"`
	PriceID       string `koanf:"price_id"`
	SuccessURL    string `koanf:"success_url"`
	CancelURL     string `koanf:"cancel_url"`
}

type RevenueCatConfig struct {
	APIKey      string `koanf:"api_key"`
	Entitlement string `koanf:"entitlement"`
}

type OpenAIConfig struct {
	APIKey string `koanf:"api_key"`
	Model  string `koanf:"model"`
}

type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
	AdminTo  string `koanf:"admin_to"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		k := koanf.New(".")

		if err := loadDefaults(k); err != nil {
			loadErr = fmt.Errorf("load defaults: %w", err)
			return
		}

		if configPath != "" {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				loadErr = fmt.Errorf("load config file: %w", err)
				return
			}
		}

		if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
			loadErr = fmt.Errorf("load env vars: %w", err)
			return
		}

		cfg = &Config{}
		if err := k.Unmarshal("", cfg); err != nil {
			loadErr = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		normalize(cfg)

		if err := validate(cfg); err != nil {
			loadErr = fmt.Errorf("validate config: %w", err)
			return
		}
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "JitsPlanner API",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "60s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.migrate":            true,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"auth.legacy_token_expire": "720h",
		"auth.issuer":              "jitsplanner",

		"plans.free_max_classes": 3,
		"plans.free_max_notes":   3,
		"plans.premium_emails":   []string{},
		"plans.admin_emails":     []string{},

		"storage.region": "auto",

		"revenuecat.entitlement": "premium",

		"openai.model": "gpt-4o-mini",

		"smtp.port": 587,

		"rate_limit.requests": 100,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    20,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "jitsplanner-api",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":          "database.url",
	"DATABASE_MIGRATE":      "database.migrate",
	"REDIS_URL":             "redis.url",
	"ENVIRONMENT":           "app.environment",
	"HOST":                  "server.host",
	"PORT":                  "server.port",
	"LOG_LEVEL":             "log.level",
	"LOG_FORMAT":            "log.format",
	"SUPABASE_URL":          "auth.supabase_url",
	"SUPABASE_JWT_SECRET":   "auth.supabase_jwt_secret",
	"SUPABASE_ANON_KEY":     "auth.supabase_anon_key",
	"JWT_SECRET":            "auth.legacy_jwt_secret",
	"R2_ENDPOINT":           "storage.endpoint",
	"R2_ACCESS_KEY_ID":      "storage.access_key_id",
	"R2_SECRET_ACCESS_KEY":  "storage.secret_access_key",
	"R2_BUCKET":             "storage.bucket",
	"R2_PUBLIC_BASE_URL":    "storage.public_base_url",
	"STRIPE_SECRET_KEY":     "stripe.secret_key",
	"STRIPE_WEBHOOK_SECRET": "stripe.webhook_secret",
	"STRIPE_PRICE_ID":       "stripe.price_id",
	"STRIPE_SUCCESS_URL":    "stripe.success_url",
	"STRIPE_CANCEL_URL":     "stripe.cancel_url",
	"REVENUECAT_API_KEY":    "revenuecat.api_key",
	"OPENAI_API_KEY":        "openai.api_key",
	"SMTP_HOST":             "smtp.host",
	"SMTP_PORT":             "smtp.port",
	"SMTP_USER":             "smtp.username",
	"SMTP_PASS":             "smtp.password",
	"SMTP_FROM":             "smtp.from",
	"SMTP_ADMIN_TO":         "smtp.admin_to",
	"RATE_LIMIT_REQUESTS":   "rate_limit.requests",
	"RATE_LIMIT_WINDOW":     "rate_limit.window",
	"RATE_LIMIT_BURST":      "rate_limit.burst",
	"OTEL_ENDPOINT":         "otel.endpoint",
	"OTEL_SERVICE_NAME":     "otel.service_name",
	"OTEL_ENABLED":          "otel.enabled",
	"OTEL_INSECURE":         "otel.insecure",
	"OTEL_SAMPLE_RATE":      "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

// normalize lowercases the email allow-lists once at load so membership
// checks are case-insensitive everywhere.
func normalize(c *Config) {
	for i, e := range c.Plans.PremiumEmails {
		c.Plans.PremiumEmails[i] = strings.ToLower(strings.TrimSpace(e))
	}
	for i, e := range c.Plans.AdminEmails {
		c.Plans.AdminEmails[i] = strings.ToLower(strings.TrimSpace(e))
	}
}

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Auth.LegacyJWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Auth.SupabaseJWTSecret == "" && c.Auth.SupabaseURL == "" {
		return fmt.Errorf(
			"one of SUPABASE_JWT_SECRET or SUPABASE_URL is required",
		)
	}

	if c.Plans.FreeMaxClasses < 0 || c.Plans.FreeMaxNotes < 0 {
		return fmt.Errorf("plan ceilings must be non-negative")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
