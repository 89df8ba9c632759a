package config

import (
	"fmt"
	"net"
	"net/url"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
		// Base URL used to build links in outgoing notifications.
		PublicURL string `envconfig:"PUBLIC_URL"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret string `envconfig:"ACCESS_SECRET"`
		Issuer       string `envconfig:"ISSUER"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry              int    `envconfig:"MAX_RETRY" default:"3"`
			RetryWaitTime         int    `envconfig:"RETRY_WAIT_TIME" default:"2"`
			MaxOpenConns          int    `envconfig:"MAX_OPEN_CONNS" default:"10"`
			MaxIdleConns          int    `envconfig:"MAX_IDLE_CONNS" default:"10"`
			ConnMaxLifetimeMinute int    `envconfig:"CONN_MAX_LIFETIME_MINUTE" default:"30"`
			MigrationTable        string `envconfig:"MIGRATION_TABLE" default:"schema_migrations"`
			AutoMigrate           bool   `envconfig:"AUTO_MIGRATE"`
			Prefix                string `envconfig:"PREFIX"`

			Read  PostgresNode `envconfig:"READ"`
			Write PostgresNode `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Brokers       []string `envconfig:"BROKERS"`
		Enable        bool     `envconfig:"ENABLE"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topics struct {
			Reservation string `envconfig:"RESERVATION" default:"reservation.events"`
		} `envconfig:"TOPICS"`
	} `envconfig:"KAFKA"`

	Mail struct {
		Enable   bool   `envconfig:"ENABLE"`
		Host     string `envconfig:"HOST"`
		Port     int    `envconfig:"PORT"`
		Username string `envconfig:"USERNAME"`
		Password string `envconfig:"PASSWORD"`
		From     string `envconfig:"FROM"`
		Breaker  struct {
			MaxFailures    uint32 `envconfig:"MAX_FAILURES" default:"3"`
			TimeoutSeconds int    `envconfig:"TIMEOUT_SECONDS" default:"10"`
		} `envconfig:"BREAKER"`
	} `envconfig:"MAIL"`

	Worker struct {
		Size               int `envconfig:"SIZE" default:"4"`
		QueueSize          int `envconfig:"QUEUE_SIZE" default:"256"`
		TaskTimeoutSeconds int `envconfig:"TASK_TIMEOUT_SECONDS" default:"15"`
	} `envconfig:"WORKER"`

	Scheduler struct {
		Enable          bool `envconfig:"ENABLE"`
		IntervalSeconds int  `envconfig:"INTERVAL_SECONDS" default:"3600"`
	} `envconfig:"SCHEDULER"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			Region          string `envconfig:"REGION" default:"auto"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			AuditDirectory  string `envconfig:"AUDIT_DIRECTORY" default:"audits"`
		} `envconfig:"S3"`
	}
}

// PostgresNode is one side of the read/write split.
type PostgresNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT" default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

// URL renders the node as a postgres:// URL with credentials escaped. Prefix is prepended
// to the database name, which lets several environments share one server.
func (n PostgresNode) URL(prefix string) *url.URL {
	query := url.Values{}
	query.Set("sslmode", n.SSLMode)

	if n.Timezone != "" {
		query.Set("timezone", n.Timezone)
	}

	return &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(n.Username, n.Password),
		Host:     net.JoinHostPort(n.Host, n.Port),
		Path:     "/" + prefix + n.Name,
		RawQuery: query.Encode(),
	}
}

var (
	conf Config
	once sync.Once
)

// Load reads .env, when present, and then the process environment into a fresh Config.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file, using process environment only")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing environment variables: %w", err)
	}

	return cfg, nil
}

// Get loads the configuration once per process and exits if it is unusable.
func Get() *Config {
	once.Do(func() {
		cfg, err := Load()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load configuration")
		}

		conf = *cfg

		log.Info().Str("env", conf.Server.Env).Msg("configuration loaded")
	})

	return &conf
}
