package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Detection  DetectionConfig  `mapstructure:"detection"`
	Reputation ReputationConfig `mapstructure:"reputation"`
	Scanner    ScannerConfig    `mapstructure:"scanner"`
	Auth       AuthConfig       `mapstructure:"auth"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// DetectionConfig overrides the engine's built-in reference tables. Empty
// slices fall back to the defaults compiled into the engine package.
type DetectionConfig struct {
	Brands         []string `mapstructure:"brands"`
	SuspiciousTLDs []string `mapstructure:"suspicious_tlds"`
}

// ReputationConfig configures the remote reputation lookup.
type ReputationConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	APIURL      string        `mapstructure:"api_url"`
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MinInterval time.Duration `mapstructure:"min_interval"`
}

// ScannerConfig configures the page scan service.
type ScannerConfig struct {
	HighlightThreshold int           `mapstructure:"highlight_threshold"`
	MaxBatchSize       int           `mapstructure:"max_batch_size"`
	Concurrency        int           `mapstructure:"concurrency"`
	SafeCacheTTL       time.Duration `mapstructure:"safe_cache_ttl"`
	FlaggedCacheTTL    time.Duration `mapstructure:"flagged_cache_ttl"`
}

// AuthConfig configures the credential gate.
type AuthConfig struct {
	SessionTTL       time.Duration `mapstructure:"session_ttl"`
	MinPasswordScore int           `mapstructure:"min_password_score"`
}

// Default returns a configuration that works with no file at all, suitable
// for the CLI and tests.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "linkshield",
			Environment: "development",
			Version:     "1.0.0",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			HTTPPort:        8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "linkshield",
			DBName:          "linkshield",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			Host:      "localhost",
			Port:      6379,
			KeyPrefix: "linkshield:",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 120,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "console",
		},
		Reputation: ReputationConfig{
			Timeout:     10 * time.Second,
			MinInterval: time.Second,
		},
		Scanner: ScannerConfig{
			HighlightThreshold: 70,
			MaxBatchSize:       200,
			Concurrency:        8,
			SafeCacheTTL:       5 * time.Minute,
			FlaggedCacheTTL:    time.Hour,
		},
		Auth: AuthConfig{
			SessionTTL:       24 * time.Hour,
			MinPasswordScore: 2,
		},
	}
}

// Load reads configuration from file and environment variables. A missing
// config file is not an error; defaults plus environment apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/linkshield")
	}

	// Environment variables
	v.SetEnvPrefix("LINKSHIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.host", "LINKSHIELD_REDIS_HOST")
	v.BindEnv("redis.port", "LINKSHIELD_REDIS_PORT")
	v.BindEnv("redis.password", "LINKSHIELD_REDIS_PASSWORD")
	v.BindEnv("database.host", "LINKSHIELD_DATABASE_HOST")
	v.BindEnv("database.port", "LINKSHIELD_DATABASE_PORT")
	v.BindEnv("database.user", "LINKSHIELD_DATABASE_USER")
	v.BindEnv("database.password", "LINKSHIELD_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "LINKSHIELD_DATABASE_DBNAME")
	v.BindEnv("reputation.api_url", "LINKSHIELD_REPUTATION_API_URL")
	v.BindEnv("reputation.api_key", "LINKSHIELD_REPUTATION_API_KEY")
	v.BindEnv("app.environment", "LINKSHIELD_APP_ENVIRONMENT")

	cfg := Default()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}
