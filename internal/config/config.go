// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Database types
const (
	SQLiteDatabase   = "sqlite"
	PostgresDatabase = "postgres"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	AppPort     string   `mapstructure:"appport"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`

	// Form settings
	MaxUploadSizeInMb int `mapstructure:"maxuploadsizeinmb"`

	// File paths
	DatabasePath          string `mapstructure:"storagepath"`
	DatabaseName          string `mapstructure:"-"` // Derived from other settings
	PublicDirectory       string `mapstructure:"publicdir"`
	PublicAssetsUrlPrefix string `mapstructure:"publicassetsurlprefix"`

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	// Database settings
	DatabaseType         string `mapstructure:"dbtype"`
	DatabaseURL          string `mapstructure:"dbdsn"`
	DatabaseMaxOpenConns int    `mapstructure:"dbmaxopenconns"`
	DatabaseMaxIdleConns int    `mapstructure:"dbmaxidleconns"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		loaded, err := Load()
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	})
	return cfg
}

// Load reads the configuration from defaults and environment variables.
// Unlike GetConfig it does not cache and reports errors instead of exiting.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("appname", "videoprofiles")
	v.SetDefault("appport", "3000")
	v.SetDefault("environment", Development)
	v.SetDefault("loglevel", string(LogLevelDebug))
	v.SetDefault("maxuploadsizeinmb", 4)
	v.SetDefault("storagepath", "storage")
	v.SetDefault("publicdir", "public")
	v.SetDefault("publicassetsurlprefix", "/")
	v.SetDefault("logsdir", "logs")
	v.SetDefault("logsmaxsizeinmb", 20)
	v.SetDefault("logsmaxbackups", 10)
	v.SetDefault("logsmaxageindays", 30)
	v.SetDefault("dbtype", SQLiteDatabase)
	v.SetDefault("dbdsn", "")
	v.SetDefault("dbmaxopenconns", 0)
	v.SetDefault("dbmaxidleconns", 0)

	v.BindEnv("appname", "VIDEOPROFILES_APP_NAME")
	v.BindEnv("appport", "VIDEOPROFILES_APP_PORT")
	v.BindEnv("environment", "VIDEOPROFILES_ENV")
	v.BindEnv("loglevel", "VIDEOPROFILES_LOG_LEVEL")
	v.BindEnv("maxuploadsizeinmb", "VIDEOPROFILES_MAX_UPLOAD_SIZE_IN_MB")
	v.BindEnv("storagepath", "VIDEOPROFILES_STORAGE_PATH")
	v.BindEnv("publicdir", "VIDEOPROFILES_PUBLIC_DIR")
	v.BindEnv("publicassetsurlprefix", "VIDEOPROFILES_PUBLIC_ASSETS_URL_PREFIX")
	v.BindEnv("logsdir", "VIDEOPROFILES_LOGS_DIR")
	v.BindEnv("logsmaxsizeinmb", "VIDEOPROFILES_LOGS_MAX_SIZE_IN_MB")
	v.BindEnv("logsmaxbackups", "VIDEOPROFILES_LOGS_MAX_BACKUPS")
	v.BindEnv("logsmaxageindays", "VIDEOPROFILES_LOGS_MAX_AGE_IN_DAYS")
	v.BindEnv("dbtype", "VIDEOPROFILES_DB_TYPE")
	v.BindEnv("dbdsn", "VIDEOPROFILES_DB_DSN")
	v.BindEnv("dbmaxopenconns", "VIDEOPROFILES_DB_MAX_OPEN_CONNS")
	v.BindEnv("dbmaxidleconns", "VIDEOPROFILES_DB_MAX_IDLE_CONNS")

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Set derived values
	c.DatabaseName = c.GetDatabasePath()

	return c, nil
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	validDBTypes := map[string]bool{
		SQLiteDatabase:   true,
		PostgresDatabase: true,
	}
	if !validDBTypes[c.DatabaseType] {
		return fmt.Errorf("invalid database type: %s", c.DatabaseType)
	}

	if c.DatabaseType == PostgresDatabase && c.DatabaseURL == "" {
		return fmt.Errorf("database type %s requires VIDEOPROFILES_DB_DSN", PostgresDatabase)
	}

	if c.MaxUploadSizeInMb <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.MaxUploadSizeInMb)
	}

	return nil
}

// GetDatabasePath returns the appropriate database path based on environment
func (c *Config) GetDatabasePath() string {
	if c.DatabaseName == "" {
		c.DatabaseName = filepath.Join(c.DatabasePath,
			fmt.Sprintf("%s-%s.db", c.AppName, c.Environment))
	}
	return c.DatabaseName
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// IsPostgres reports whether profiles are stored in PostgreSQL.
func (c *Config) IsPostgres() bool {
	return c.DatabaseType == PostgresDatabase
}

// GetPort returns the HTTP server port.
func (c *Config) GetPort() string {
	return c.AppPort
}

// GetAppName returns the application name.
func (c *Config) GetAppName() string {
	return c.AppName
}

// DatabaseDSN returns the database connection string for the configured database type.
func (c *Config) DatabaseDSN() string {
	if c.IsPostgres() {
		return c.DatabaseURL
	}
	return c.GetDatabasePath()
}

// GetMaxUploadBytes returns the request body limit for form submissions.
func (c *Config) GetMaxUploadBytes() int {
	return c.MaxUploadSizeInMb * 1024 * 1024
}

// GetMaxOpenConns returns the appropriate MaxOpenConns value based on environment
// If explicitly set via env var, uses that value. Otherwise:
// - Test: 1
// - Development/Production: 10
func (c *Config) GetMaxOpenConns() int {
	if c.DatabaseMaxOpenConns > 0 {
		return c.DatabaseMaxOpenConns
	}

	if c.Environment == Test {
		return 1
	}

	return 10
}

// GetMaxIdleConns returns the appropriate MaxIdleConns value based on environment
// If explicitly set via env var, uses that value. Otherwise:
// - Test: 1
// - Development/Production: 5
func (c *Config) GetMaxIdleConns() int {
	if c.DatabaseMaxIdleConns > 0 {
		return c.DatabaseMaxIdleConns
	}

	if c.Environment == Test {
		return 1
	}

	return 5
}

// GetLogLevel returns the log level as a string (implements cartridge.LogConfigProvider).
func (c *Config) GetLogLevel() string {
	return string(c.LogLevel)
}

// GetLogDirectory returns the logs directory (implements cartridge.LogConfigProvider).
func (c *Config) GetLogDirectory() string {
	return c.LogsDirectory
}

// GetLogMaxSizeMB returns the max log file size in MB (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxSizeMB() int {
	return c.LogsMaxSizeInMb
}

// GetLogMaxBackups returns the max number of log backups (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxBackups() int {
	return c.LogsMaxBackups
}

// GetLogMaxAgeDays returns the max age in days for log files (implements cartridge.LogConfigProvider).
func (c *Config) GetLogMaxAgeDays() int {
	return c.LogsMaxAgeInDays
}

// GetPublicDirectory returns the path to public/static assets (implements cartridge.Config interface).
func (c *Config) GetPublicDirectory() string {
	return c.PublicDirectory
}

// GetAssetsPrefix returns the URL prefix for static assets (implements cartridge.Config interface).
func (c *Config) GetAssetsPrefix() string {
	return c.PublicAssetsUrlPrefix
}

// Reset clears the cached configuration; intended for tests.
func Reset() {
	once = sync.Once{}
	cfg = nil
}
