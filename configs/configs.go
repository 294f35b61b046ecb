package configs

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const envPrefix = ""

type Config struct {
	// -- Server --

	// Host to listen on, empty means all interfaces
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"3000"`
	// Sets the timeout for a single HTTP request
	ServerRequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`
	// Path to a directory that replaces the embedded operator console
	StaticDir string `env:"STATIC_DIR"`

	// -- Database --

	DatabaseDSN  string `env:"DATABASE_URL,notEmpty"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"psql"`
	// Request an encrypted connection without verifying the server certificate
	DatabaseInsecureTLS  bool `env:"DATABASE_INSECURE_TLS" envDefault:"false"`
	DatabaseMaxOpenConns int  `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	DatabaseMaxIdleConns int  `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`

	// -- Gateway --

	GatewayURL     string        `env:"GATEWAY_URL" envDefault:"https://api.gupshup.io/wa/api/v1/msg"`
	GatewayChannel string        `env:"GATEWAY_CHANNEL" envDefault:"whatsapp"`
	GatewayTimeout time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"30s"`

	// Maximum number of messages relayed per second, 0 means unlimited
	SendMaxRate int `env:"SEND_MAX_RATE" envDefault:"0"`
	// How long to keep the relay paused after the gateway could not be reached, 0 disables pausing
	PauseDuration time.Duration `env:"PAUSE_DURATION" envDefault:"0s"`

	// -- Encryption --

	// Encryption key type, one of: none, local, aws_kms, google_kms
	EncryptionKeyType string `env:"ENCRYPTION_KEY_TYPE" envDefault:"none"`
	// Local AES key (32 bytes), AWS KMS key ARN or Google KMS key resource name
	EncryptionKey string `env:"ENCRYPTION_KEY"`

	// -- Idempotency middleware --

	DisableIdempotencyMiddleware bool `env:"DISABLE_IDEMPOTENCY_MIDDLEWARE" envDefault:"false"`
	// Idempotency key store type, one of: local, shared, redis
	IdempotencyMiddlewareDatabaseType string `env:"IDEMPOTENCY_MIDDLEWARE_DATABASE_TYPE" envDefault:"local"`
	IdempotencyMiddlewareRedisURL     string `env:"IDEMPOTENCY_MIDDLEWARE_REDIS_URL"`
	// Reject POST requests without an Idempotency-Key header
	IdempotencyMiddlewareRequireKey bool          `env:"IDEMPOTENCY_MIDDLEWARE_REQUIRE_KEY" envDefault:"false"`
	IdempotencyMiddlewareExpiry     time.Duration `env:"IDEMPOTENCY_MIDDLEWARE_EXPIRY" envDefault:"1h"`

	// -- Tracing --

	TracingGCPProjectID string  `env:"TRACING_GCP_PROJECT_ID"`
	TracingSampleRatio  float64 `env:"TRACING_SAMPLE_RATIO" envDefault:"0.1"`

	// -- Logging --

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type Options struct {
	EnvFilePath string
}

// Parse parses environment variables and flags to a valid Config.
func Parse() (*Config, error) {
	return ParseConfig(&Options{EnvFilePath: ".env"})
}

// ParseConfig loads the optional env file before parsing the environment.
func ParseConfig(opt *Options) (*Config, error) {
	if opt != nil && opt.EnvFilePath != "" {
		if err := godotenv.Load(opt.EnvFilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		log.WithFields(log.Fields{"path": opt.EnvFilePath}).Trace("Loaded env file")
	}

	cfg := Config{}
	if err := env.Parse(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, err
	}

	return &cfg, nil
}
