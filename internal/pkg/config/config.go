package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Overpass  OverpassConfig  `mapstructure:"overpass"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	AllowOrigins string `mapstructure:"allow_origins"`
	RateLimit    int    `mapstructure:"rate_limit"` // requests per minute per IP
	OpenAPIPath  string `mapstructure:"openapi_path"`
}

// Directory sources.
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

type DirectoryConfig struct {
	Source       string `mapstructure:"source"`
	Path         string `mapstructure:"path"`
	URL          string `mapstructure:"url"`
	FallbackCity string `mapstructure:"fallback_city"`
}

type OverpassConfig struct {
	URL          string  `mapstructure:"url"`
	Timeout      int     `mapstructure:"timeout"`       // HTTP client timeout, seconds
	QueryTimeout int     `mapstructure:"query_timeout"` // [timeout:N] sent to Overpass
	RateLimit    float64 `mapstructure:"rate_limit"`    // requests per second
	UserAgent    string  `mapstructure:"user_agent"`
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
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type ValkeyConfig struct {
	Addr    string `mapstructure:"addr"`
	Enabled bool   `mapstructure:"enabled"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.allow_origins", "http://localhost:3000, http://localhost:8080")
	v.SetDefault("server.rate_limit", 120)
	v.SetDefault("server.openapi_path", "api/openapi.yaml")
	v.SetDefault("directory.source", SourceFile)
	v.SetDefault("directory.path", "data/vietnam_locations.json")
	v.SetDefault("directory.url", "")
	v.SetDefault("directory.fallback_city", "TP. Hồ Chí Minh")
	v.SetDefault("overpass.url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("overpass.timeout", 35)
	v.SetDefault("overpass.query_timeout", 25)
	v.SetDefault("overpass.rate_limit", 1.0)
	v.SetDefault("overpass.user_agent", "hotelfinder/1.0")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "hotelfinder")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "hotelfinder")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.enabled", false)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: HOTELFINDER_OVERPASS_URL → overpass.url
	v.SetEnvPrefix("HOTELFINDER")
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

	switch c.Directory.Source {
	case SourceFile:
		if c.Directory.Path == "" {
			errs = append(errs, "directory.path is required for the file source")
		}
	case SourceHTTP:
		if c.Directory.URL == "" {
			errs = append(errs, "directory.url is required for the http source")
		}
	case SourcePostgres:
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required for the postgres source")
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
	default:
		errs = append(errs, fmt.Sprintf("directory.source must be one of file, http, postgres, got %q", c.Directory.Source))
	}
	if c.Directory.FallbackCity == "" {
		errs = append(errs, "directory.fallback_city is required")
	}

	if c.Overpass.URL == "" {
		errs = append(errs, "overpass.url is required")
	}
	if c.Overpass.Timeout <= 0 {
		errs = append(errs, "overpass.timeout must be positive")
	}
	if c.Overpass.QueryTimeout <= 0 {
		errs = append(errs, "overpass.query_timeout must be positive")
	}
	if c.Overpass.RateLimit <= 0 {
		errs = append(errs, "overpass.rate_limit must be positive")
	}

	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats is enabled")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
