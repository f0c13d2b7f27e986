package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var current atomic.Pointer[Config]

// Get returns the active configuration, or nil before Load or Set.
func Get() *Config {
	return current.Load()
}

// Set replaces the active configuration.
func Set(c *Config) {
	current.Store(c)
}

// Config struct is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Sessions  SessionsConfig  `mapstructure:"sessions"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	SessionSecret string `mapstructure:"session_secret"`
	CookieMaxAge  int    `mapstructure:"cookie_max_age"`
	SecureCookie  bool   `mapstructure:"secure_cookie"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Host          string        `mapstructure:"host"`
	Port          string        `mapstructure:"port"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	DBName        string        `mapstructure:"dbname"`
	SSLMode       string        `mapstructure:"sslmode"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
}

// DSN builds the libpq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode)
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory    string `mapstructure:"directory"`
	ConsoleLevel string `mapstructure:"console_level"`
	MaxSize      int    `mapstructure:"max_size"`
	MaxBackups   int    `mapstructure:"max_backups"`
	MaxAge       int    `mapstructure:"max_age"`
	Compress     bool   `mapstructure:"compress"`
}

// SessionsConfig controls the lifetime of in-memory assessment sessions.
type SessionsConfig struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// RateLimitConfig bounds how often a client may start sessions or score.
type RateLimitConfig struct {
	Limit  uint          `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Sessions.IdleTimeout <= 0 {
		return fmt.Errorf("sessions.idle_timeout must be positive, got %s", c.Sessions.IdleTimeout)
	}
	if c.Sessions.SweepInterval <= 0 {
		return fmt.Errorf("sessions.sweep_interval must be positive, got %s", c.Sessions.SweepInterval)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", c.RateLimit.Window)
	}
	return nil
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5050")
	v.SetDefault("server.session_secret", "")
	v.SetDefault("server.cookie_max_age", 86400)
	v.SetDefault("server.secure_cookie", false)

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "clinscore")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.console_level", "info")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Session defaults
	v.SetDefault("sessions.idle_timeout", 2*time.Hour)
	v.SetDefault("sessions.sweep_interval", time.Minute)

	// Rate limit defaults
	v.SetDefault("rate_limit.limit", 30)
	v.SetDefault("rate_limit.window", time.Minute)
}

// Load reads config/config.yaml under projectRoot, applies CLINSCORE_*
// environment overrides, validates the result and makes it active.
func Load(projectRoot string) (*viper.Viper, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("CLINSCORE") // e.g., CLINSCORE_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	Set(&conf)
	return v, nil
}

// Watch reloads the active configuration whenever the config file changes
// and passes the new value to each onChange hook. Invalid files are logged
// and ignored.
//
// Only sessions.idle_timeout is applied to a running server, through the
// hook serve installs. The server, cookie, database, logging, rate limit
// and sweep interval settings are read once at startup and need a restart.
func Watch(v *viper.Viper, log *zap.Logger, onChange ...func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := reload(v, onChange...); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})
	v.WatchConfig()
}

func reload(v *viper.Viper, onChange ...func(*Config)) error {
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	Set(&conf)
	for _, fn := range onChange {
		fn(&conf)
	}
	return nil
}
