package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every variable read by this service.
const EnvPrefix = "ALMANAH_"

// Environment selects deployment-dependent toggles such as cookie attributes.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// CookiePolicy holds the attributes applied to the auth cookie.
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
}

// CookiePolicy derives cookie attributes from the environment.
func (e Environment) CookiePolicy() (CookiePolicy, error) {
	switch e {
	case EnvProduction:
		return CookiePolicy{Secure: true, SameSite: http.SameSiteNoneMode}, nil
	case EnvStaging:
		return CookiePolicy{Secure: true, SameSite: http.SameSiteLaxMode}, nil
	case EnvDevelopment:
		return CookiePolicy{Secure: false, SameSite: http.SameSiteLaxMode}, nil
	default:
		return CookiePolicy{}, fmt.Errorf("unknown environment %q", string(e))
	}
}

// RedisConfig configures the shared catalog count cache.
type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// DatabaseConfig configures the Postgres pool. An empty URL selects in-memory stores.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// KafkaConfig configures claim event publishing. No brokers means events are only logged.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"almanah.card_claimed"`
}

// RateLimitConfig sets per-user sliding windows. Buckets live in Redis when it
// is configured and in process memory otherwise.
type RateLimitConfig struct {
	Disabled    bool          `env:"DISABLED"`
	ClaimLimit  int           `env:"CLAIM_LIMIT" envDefault:"10"`
	LookupLimit int           `env:"LOOKUP_LIMIT" envDefault:"60"`
	Window      time.Duration `env:"WINDOW" envDefault:"1m"`
}

// Server captures configuration for cmd/server.
type Server struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	Environment     Environment   `env:"ENV" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	JWTSigningKey   string        `env:"JWT_SIGNING_KEY"`
	JWTIssuer       string        `env:"JWT_ISSUER"`
	AuthCookieName  string        `env:"AUTH_COOKIE_NAME" envDefault:"token"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ClaimTxTimeout  time.Duration `env:"CLAIM_TX_TIMEOUT" envDefault:"5s"`
	CatalogCache    int           `env:"CATALOG_CACHE_SIZE" envDefault:"1024"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
	OTelServiceName string        `env:"OTEL_SERVICE_NAME" envDefault:"almanah"`
	OTelEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	Database  DatabaseConfig
	Redis     RedisConfig `envPrefix:"REDIS_"`
	Kafka     KafkaConfig
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
}

// Migrate captures configuration for cmd/migrate.
type Migrate struct {
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	MongoURI      string `env:"MONGO_URI,notEmpty"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"almanah"`
	DatabaseURL   string `env:"DATABASE_URL,notEmpty"`
	BatchSize     int    `env:"IMPORT_BATCH_SIZE" envDefault:"500"`
}

// devSigningKey is only accepted outside production.
const devSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := parse(&cfg); err != nil {
		return Server{}, err
	}
	cfg.Environment = Environment(strings.ToLower(string(cfg.Environment)))
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	if cfg.JWTSigningKey == "" {
		cfg.JWTSigningKey = devSigningKey
	}
	return cfg, nil
}

// MigrateFromEnv builds the importer configuration.
func MigrateFromEnv() (Migrate, error) {
	var cfg Migrate
	if err := parse(&cfg); err != nil {
		return Migrate{}, err
	}
	if cfg.BatchSize < 1 {
		return Migrate{}, fmt.Errorf("IMPORT_BATCH_SIZE must be positive")
	}
	return cfg, nil
}

// Validate checks cross-field rules that env tags cannot express.
func (c Server) Validate() error {
	if _, err := c.Environment.CookiePolicy(); err != nil {
		return err
	}
	if c.Environment == EnvProduction && (c.JWTSigningKey == "" || c.JWTSigningKey == devSigningKey) {
		return fmt.Errorf("JWT_SIGNING_KEY must be set in production")
	}
	if c.CatalogCache < 1 {
		return fmt.Errorf("CATALOG_CACHE_SIZE must be positive")
	}
	if c.ClaimTxTimeout <= 0 {
		return fmt.Errorf("CLAIM_TX_TIMEOUT must be positive")
	}
	if !c.RateLimit.Disabled && (c.RateLimit.ClaimLimit < 1 || c.RateLimit.LookupLimit < 1 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("RATE_LIMIT limits and window must be positive")
	}
	return nil
}

func parse(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
