package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Backend  BackendConfig  `mapstructure:"backend" validate:"required"`
	Console  ConsoleConfig  `mapstructure:"console" validate:"required"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Logging  LoggingConfig  `mapstructure:"logging" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

// BackendConfig contains the connection settings of the virtualization backend API
type BackendConfig struct {
	BaseURL            string        `mapstructure:"base_url" validate:"required,url" example:"http://localhost:8000/api"`
	Token              string        `mapstructure:"token" example:"secret"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout" validate:"required" example:"30s"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify" example:"false"`
}

// ConsoleConfig contains the polling and pagination behaviour of the console views
type ConsoleConfig struct {
	RefreshMinutes      int           `mapstructure:"refresh_minutes" validate:"required,min=1" example:"5"`
	RefreshOptions      []int         `mapstructure:"refresh_options" validate:"required,min=1,dive,min=1" example:"5,10,30,60,120"`
	FastInterval        time.Duration `mapstructure:"fast_interval" validate:"required" example:"15s"`
	FastWindow          time.Duration `mapstructure:"fast_window" validate:"required" example:"5m"`
	TaskRefreshInterval time.Duration `mapstructure:"task_refresh_interval" validate:"required" example:"3s"`
	TaskPageSize        int           `mapstructure:"task_page_size" validate:"min=1,max=100" example:"5"`
	VMPageSize          int           `mapstructure:"vm_page_size" validate:"min=1,max=500" example:"10"`
	SearchDebounce      time.Duration `mapstructure:"search_debounce" validate:"required" example:"500ms"`
	DashboardRefresh    time.Duration `mapstructure:"dashboard_refresh" validate:"required" example:"30s"`
	SyncRefreshDelay    time.Duration `mapstructure:"sync_refresh_delay" example:"2s"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port" validate:"min=1,max=65535" example:"8080"`
	Host         string        `mapstructure:"host" example:"0.0.0.0"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"required" example:"10s"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"required" example:"10s"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" validate:"required" example:"60s"`
	EnableCORS   bool          `mapstructure:"enable_cors" example:"true"`
	TLSConfig    TLSConfig     `mapstructure:"tls"`
}

// TLSConfig contains TLS configuration
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled" example:"false"`
	CertFile string `mapstructure:"cert_file" example:"/path/to/cert.pem"`
	KeyFile  string `mapstructure:"key_file" example:"/path/to/key.pem"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `mapstructure:"level" validate:"required,oneof=debug info warn error" example:"info"`
	Format   string `mapstructure:"format" validate:"required,oneof=json text" example:"json"`
	Output   string `mapstructure:"output" validate:"required,oneof=stdout stderr file" example:"stdout"`
	FilePath string `mapstructure:"file_path" example:"/var/log/esxi-console.log"`
}

// DatabaseConfig contains the local preferences database configuration
type DatabaseConfig struct {
	Type     string `mapstructure:"type" validate:"required,oneof=sqlite postgres mysql" example:"sqlite"`
	Host     string `mapstructure:"host" example:"localhost"`
	Port     int    `mapstructure:"port" validate:"min=0,max=65535" example:"5432"`
	Name     string `mapstructure:"name" validate:"required" example:"./data/esxi_console.db"`
	User     string `mapstructure:"user" example:"postgres"`
	Password string `mapstructure:"password" example:"secret"`
	SSLMode  string `mapstructure:"ssl_mode" example:"disable"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:        "http://localhost:8000/api",
			RequestTimeout: 30 * time.Second,
		},
		Console: ConsoleConfig{
			RefreshMinutes:      5,
			RefreshOptions:      []int{5, 10, 30, 60, 120},
			FastInterval:        15 * time.Second,
			FastWindow:          5 * time.Minute,
			TaskRefreshInterval: 3 * time.Second,
			TaskPageSize:        5,
			VMPageSize:          10,
			SearchDebounce:      500 * time.Millisecond,
			DashboardRefresh:    30 * time.Second,
			SyncRefreshDelay:    2 * time.Second,
		},
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
			EnableCORS:   true,
			TLSConfig: TLSConfig{
				Enabled: false,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			Name:    "./data/esxi_console.db",
			SSLMode: "disable",
		},
	}
}

// Load loads configuration from multiple sources with the following precedence:
// 1. Environment variables (highest)
// 2. Configuration file
// 3. Default values (lowest)
func Load(configFile string) (*Config, error) {
	config := DefaultConfig()

	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/esxi-console/")
		v.AddConfigPath("$HOME/.esxi-console/")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("ESXC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, continue with defaults and env vars
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// bindEnvKeys registers the keys that are commonly overridden from the
// environment, AutomaticEnv alone does not see keys absent from the file.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"backend.base_url",
		"backend.token",
		"backend.request_timeout",
		"backend.insecure_skip_verify",
		"console.refresh_minutes",
		"server.port",
		"server.host",
		"logging.level",
		"logging.format",
		"logging.output",
		"database.type",
		"database.name",
	} {
		_ = v.BindEnv(key)
	}
}

// ValidateConfig validates the configuration using struct tags
func ValidateConfig(config *Config) error {
	validate := validator.New()

	if err := validate.Struct(config); err != nil {
		return err
	}

	if err := validateBackendConfig(&config.Backend); err != nil {
		return fmt.Errorf("backend config validation failed: %w", err)
	}

	if err := validateConsoleConfig(&config.Console); err != nil {
		return fmt.Errorf("console config validation failed: %w", err)
	}

	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := validateLoggingConfig(&config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	if err := validateDatabaseConfig(&config.Database); err != nil {
		return fmt.Errorf("database config validation failed: %w", err)
	}

	return nil
}

func validateBackendConfig(config *BackendConfig) error {
	u, err := url.Parse(config.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must use http or https, got %q", u.Scheme)
	}
	if config.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

func validateConsoleConfig(config *ConsoleConfig) error {
	if !slices.Contains(config.RefreshOptions, config.RefreshMinutes) {
		return fmt.Errorf("refresh_minutes %d is not one of refresh_options %v", config.RefreshMinutes, config.RefreshOptions)
	}
	if config.FastInterval >= config.FastWindow {
		return fmt.Errorf("fast_interval (%s) must be shorter than fast_window (%s)", config.FastInterval, config.FastWindow)
	}
	if config.SyncRefreshDelay < 0 {
		return fmt.Errorf("sync_refresh_delay must not be negative")
	}
	return nil
}

func validateServerConfig(config *ServerConfig) error {
	if config.TLSConfig.Enabled {
		if config.TLSConfig.CertFile == "" {
			return fmt.Errorf("cert_file is required when TLS is enabled")
		}
		if config.TLSConfig.KeyFile == "" {
			return fmt.Errorf("key_file is required when TLS is enabled")
		}

		if _, err := os.Stat(config.TLSConfig.CertFile); os.IsNotExist(err) {
			return fmt.Errorf("cert_file does not exist: %s", config.TLSConfig.CertFile)
		}
		if _, err := os.Stat(config.TLSConfig.KeyFile); os.IsNotExist(err) {
			return fmt.Errorf("key_file does not exist: %s", config.TLSConfig.KeyFile)
		}
	}

	return nil
}

func validateLoggingConfig(config *LoggingConfig) error {
	if config.Output == "file" && config.FilePath == "" {
		return fmt.Errorf("file_path is required when output is set to 'file'")
	}

	return nil
}

func validateDatabaseConfig(config *DatabaseConfig) error {
	if config.Type != "sqlite" {
		if config.Host == "" {
			return fmt.Errorf("database host is required for %s", config.Type)
		}
		if config.User == "" {
			return fmt.Errorf("database user is required for %s", config.Type)
		}
		if config.Port == 0 {
			return fmt.Errorf("database port is required for %s", config.Type)
		}
	}

	return nil
}

// GetAddress returns the server address in host:port format
func (c *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsTLSEnabled returns true if TLS is enabled
func (c *ServerConfig) IsTLSEnabled() bool {
	return c.TLSConfig.Enabled
}

// GetDSN returns the database DSN (Data Source Name) for GORM
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "sqlite":
		return c.Name
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Name)
	default:
		return ""
	}
}
