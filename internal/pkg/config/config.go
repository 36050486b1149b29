package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Session   SessionConfig   `mapstructure:"session"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	AllowOrigins string `mapstructure:"allow_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BackendConfig points at the organization/product API and the country
// polygon dataset.
type BackendConfig struct {
	ServerURL      string `mapstructure:"server_url"`
	CountriesURL   string `mapstructure:"countries_url"`
	TimeoutSeconds int    `mapstructure:"timeout"`
	CacheTTL       int    `mapstructure:"cache_ttl"`
}

// StorageConfig selects where saved styles live.
type StorageConfig struct {
	Backend  string `mapstructure:"backend"` // postgres, valkey or memory
	StyleKey string `mapstructure:"style_key"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	TaskQueue string `mapstructure:"task_queue"`
}

type SessionConfig struct {
	IdleTTLMinutes int `mapstructure:"idle_ttl"`
}

var storageBackends = map[string]bool{"postgres": true, "valkey": true, "memory": true}

// Load reads configuration from .env, an optional config file and
// environment variables, in increasing order of precedence.
func Load(service string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.allow_origins", "http://localhost:3000, http://localhost:5173")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("backend.server_url", "http://localhost:4000")
	v.SetDefault("backend.countries_url",
		"https://raw.githubusercontent.com/vasturiano/react-globe.gl/master/example/datasets/ne_110m_admin_0_countries.geojson")
	v.SetDefault("backend.timeout", 10)
	v.SetDefault("backend.cache_ttl", 60)
	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.style_key", "globe-style")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "globeview")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "globeview")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.task_queue", "catalog-refresh")
	v.SetDefault("session.idle_ttl", 30)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: GLOBEVIEW_BACKEND_SERVER_URL → backend.server_url
	v.SetEnvPrefix("GLOBEVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Backend.ServerURL == "" {
		errs = append(errs, "backend.server_url is required")
	}
	if c.Backend.CountriesURL == "" {
		errs = append(errs, "backend.countries_url is required")
	}
	if c.Backend.TimeoutSeconds <= 0 {
		errs = append(errs, "backend.timeout must be positive")
	}
	if c.Backend.CacheTTL < 0 {
		errs = append(errs, "backend.cache_ttl must not be negative")
	}
	if !storageBackends[c.Storage.Backend] {
		errs = append(errs, fmt.Sprintf("storage.backend must be postgres, valkey or memory, got %q", c.Storage.Backend))
	}
	if c.Storage.StyleKey == "" {
		errs = append(errs, "storage.style_key is required")
	}
	if c.Storage.Backend == "postgres" {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	}
	if c.Storage.Backend == "valkey" && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Session.IdleTTLMinutes <= 0 {
		errs = append(errs, "session.idle_ttl must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
