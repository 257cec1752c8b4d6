package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server ServerConfig
	App    AppConfig
	Scan   ScanConfig
	DB     DBConfig
	Cache  CacheConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"7000"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"120s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"sera-scan-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	LoginKey    string `envconfig:"LOGIN_KEY" default:""` // Admin surface login key
}

// ScanConfig holds ingestion pipeline settings.
type ScanConfig struct {
	// WriteTimeout bounds one snapshot's whole transaction; expiry rolls it
	// back so an abandoned client cannot pin a pooled connection.
	WriteTimeout time.Duration `envconfig:"SCAN_WRITE_TIMEOUT" default:"60s"`
}

// DBConfig holds scan store settings. The env names match what the base
// deployment has always used.
type DBConfig struct {
	Type     string `envconfig:"SCAN_DB_TYPE" default:"postgres"` // postgres or sqlite
	IP       string `envconfig:"DB_IP" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	Name     string `envconfig:"DB_NAME" default:"sera"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	PoolSize int    `envconfig:"DB_POOL_SIZE" default:"3"`
	// SQLite settings
	Path string `envconfig:"SCAN_DB_PATH" default:"./data/scans.db"`
}

// CacheConfig holds stats cache settings.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"` // memory or redis
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"24h"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// PostgresDSN returns the PostgreSQL connection string.
func (d *DBConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.IP, d.Port, d.Name, d.SSLMode)
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
