// Package config handles configuration loading for pfadmin.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAPIURL is the local Prefect Server GraphQL endpoint.
const DefaultAPIURL = "http://localhost:4200/graphql"

// Config represents the application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Queries QueriesConfig `mapstructure:"queries" yaml:"queries"`
}

// APIConfig represents the GraphQL endpoint configuration.
type APIConfig struct {
	URL      string            `mapstructure:"url" yaml:"url" validate:"required,url"`
	APIKey   string            `mapstructure:"api_key" yaml:"api_key"`
	TenantID string            `mapstructure:"tenant_id" yaml:"tenant_id"`
	Headers  map[string]string `mapstructure:"headers" yaml:"headers,omitempty"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json yaml"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=auto console json"`
	Output string `mapstructure:"output" yaml:"output"`
	Config string `mapstructure:"config" yaml:"config,omitempty"` // logging config file
}

// HistoryConfig represents the local operation history.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// QueriesConfig represents the descriptor file directory.
type QueriesConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Load loads the configuration from files and environment variables. A
// non-empty path selects the config file explicitly.
func Load(path string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set defaults
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Add config paths
		v.AddConfigPath(".")
		v.AddConfigPath("./pfadmin")
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	// Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Bind environment variables
	v.SetEnvPrefix("PFADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also support the Prefect client variable names
	v.BindEnv("api.url", "PFADMIN_API_URL", "PREFECT__CLOUD__API")
	v.BindEnv("api.api_key", "PFADMIN_API_KEY", "PREFECT__CLOUD__API_KEY")
	v.BindEnv("api.tenant_id", "PFADMIN_TENANT_ID", "PREFECT__CLOUD__TENANT_ID")

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Expand environment variables and home in paths
	cfg.History.Path = expandPath(cfg.History.Path)
	cfg.Queries.Dir = expandPath(cfg.Queries.Dir)
	cfg.Logging.Config = expandPath(cfg.Logging.Config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid config: %s failed %q check (value %q)", strings.ToLower(fe.Namespace()), fe.Tag(), fmt.Sprint(fe.Value()))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.url", DefaultAPIURL)

	// Output defaults
	v.SetDefault("output.format", "text")

	// Logging defaults
	v.SetDefault("logging.level", "W")
	v.SetDefault("logging.format", "auto")
	v.SetDefault("logging.output", "stderr")

	// History defaults
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", GetDefaultHistoryPath())

	// Query descriptor defaults
	v.SetDefault("queries.dir", filepath.Join(configDirOrDot(), "queries"))
}

// ConfigDir returns the user configuration directory.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "pfadmin"), nil
}

// ConfigPath returns the default config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// GetDefaultHistoryPath returns the default history database path.
func GetDefaultHistoryPath() string {
	return filepath.Join(configDirOrDot(), "history.db")
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// EnsureHistoryDir ensures the directory for the history path exists.
func EnsureHistoryDir(historyPath string) error {
	dir := filepath.Dir(historyPath)
	return os.MkdirAll(dir, 0755)
}

func configDirOrDot() string {
	dir, err := ConfigDir()
	if err != nil {
		return "."
	}
	return dir
}

func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
