package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	JWTIssuer string `env:"JWT_ISSUER, default=courier-tracking"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
	Route     RouteConfig
	Live      LiveConfig
	HTTP      HTTPConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=courier_tracking"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,  default=5s"`
}

// TelemetryConfig tunes the ingestion paths.
type TelemetryConfig struct {
	TopicPrefix     string        `env:"TELEMETRY_TOPIC_PREFIX,     default=telemetry.courier."`
	Workers         int           `env:"TELEMETRY_WORKERS,          default=8"`
	BatchTimeout    time.Duration `env:"TELEMETRY_BATCH_TIMEOUT,    default=10s"`
	MaxBatchSize    int           `env:"TELEMETRY_MAX_BATCH_SIZE,   default=500"`
	DedupTTL        time.Duration `env:"TELEMETRY_DEDUP_TTL,        default=10m"`
	ChannelTokenTTL time.Duration `env:"TELEMETRY_CHANNEL_TOKEN_TTL, default=15m"`
}

// RouteConfig holds the route cleaning thresholds and response caps.
type RouteConfig struct {
	MinStepMeters   float64 `env:"ROUTE_MIN_STEP_METERS,   default=2"`
	MaxSpeedKmh     float64 `env:"ROUTE_MAX_SPEED_KMH,     default=160"`
	MaxJumpMeters   float64 `env:"ROUTE_MAX_JUMP_METERS,   default=400"`
	SmoothingWindow int     `env:"ROUTE_SMOOTHING_WINDOW,  default=3"`
	PublicMaxPoints int     `env:"ROUTE_PUBLIC_MAX_POINTS, default=200"`
	DetailMaxPoints int     `env:"ROUTE_DETAIL_MAX_POINTS, default=2000"`
}

// LiveConfig tunes the WebSocket feeds and the position cache.
type LiveConfig struct {
	SendBuffer         int           `env:"LIVE_SEND_BUFFER,          default=64"`
	PositionStaleAfter time.Duration `env:"LIVE_POSITION_STALE_AFTER, default=30m"`
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT,     default=15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT,    default=30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT, default=15s"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith is Load over an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Telemetry.Workers <= 0 {
		errs = append(errs, errors.New("TELEMETRY_WORKERS must be positive"))
	}
	if c.Telemetry.BatchTimeout < 0 {
		errs = append(errs, errors.New("TELEMETRY_BATCH_TIMEOUT must not be negative"))
	}
	if c.Telemetry.MaxBatchSize < 0 {
		errs = append(errs, errors.New("TELEMETRY_MAX_BATCH_SIZE must not be negative"))
	}
	if c.Telemetry.DedupTTL <= 0 {
		errs = append(errs, errors.New("TELEMETRY_DEDUP_TTL must be positive"))
	}
	if c.Telemetry.TopicPrefix == "" {
		errs = append(errs, errors.New("TELEMETRY_TOPIC_PREFIX is required"))
	}
	if c.Route.PublicMaxPoints <= 0 || c.Route.DetailMaxPoints <= 0 {
		errs = append(errs, errors.New("ROUTE_*_MAX_POINTS must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}
