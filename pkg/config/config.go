package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Stream       StreamConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BIDHAUS_APP_ENV" required:"true"`
	Port         string `envconfig:"BIDHAUS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BIDHAUS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BIDHAUS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BIDHAUS_DB_DSN"`
	Driver string `envconfig:"BIDHAUS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BIDHAUS_DB_HOST"`
	Port     int    `envconfig:"BIDHAUS_DB_PORT" default:"5432"`
	User     string `envconfig:"BIDHAUS_DB_USER"`
	Password string `envconfig:"BIDHAUS_DB_PASSWORD"`
	Name     string `envconfig:"BIDHAUS_DB_NAME"`
	SSLMode  string `envconfig:"BIDHAUS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BIDHAUS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BIDHAUS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BIDHAUS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BIDHAUS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if strings.TrimSpace(d.DSN) != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either BIDHAUS_DB_DSN or BIDHAUS_DB_HOST/USER/NAME must be set")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"BIDHAUS_REDIS_URL" required:"true"`
	Password     string        `envconfig:"BIDHAUS_REDIS_PASSWORD"`
	DB           int           `envconfig:"BIDHAUS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BIDHAUS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BIDHAUS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BIDHAUS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BIDHAUS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BIDHAUS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BIDHAUS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BIDHAUS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BIDHAUS_JWT_EXPIRATION_MINUTES" default:"30"`
	SessionTTLMinutes int    `envconfig:"BIDHAUS_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type StreamConfig struct {
	SendBufferSize   int           `envconfig:"BIDHAUS_STREAM_SEND_BUFFER" default:"32"`
	WriteWait        time.Duration `envconfig:"BIDHAUS_STREAM_WRITE_WAIT" default:"10s"`
	PongWait         time.Duration `envconfig:"BIDHAUS_STREAM_PONG_WAIT" default:"60s"`
	ReadLimitBytes   int64         `envconfig:"BIDHAUS_STREAM_READ_LIMIT" default:"4096"`
	AllowedOriginAny bool          `envconfig:"BIDHAUS_STREAM_ALLOW_ANY_ORIGIN" default:"false"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BIDHAUS_FEATURE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"BIDHAUS_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	Enabled     bool   `envconfig:"BIDHAUS_PUBSUB_ENABLED" default:"false"`
	DomainTopic string `envconfig:"BIDHAUS_PUBSUB_DOMAIN_TOPIC" default:"bidhaus-domain-events"`
}
