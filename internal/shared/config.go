package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// APIKeyEnv overrides [TodoistConfig.APIKey] when set.
const APIKeyEnv = "TDQ_TODOIST_API_KEY"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Todoist  TodoistConfig  `toml:"todoist"`
	Settings SettingsConfig `toml:"settings"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	Queries  []QueryConfig  `toml:"queries"`
}

// TodoistConfig contains the Todoist API credentials and transport settings.
type TodoistConfig struct {
	APIKey            string      `toml:"api_key"`
	APIURL            string      `toml:"api_url"`
	RequestsPerSecond float64     `toml:"requests_per_second"`
	TimeoutSeconds    int         `toml:"timeout_seconds"`
	Paths             PathsConfig `toml:"paths"`
}

// Timeout returns the HTTP client timeout, zero meaning none.
func (c TodoistConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PathsConfig binds each endpoint family to its path.
type PathsConfig struct {
	Tasks         string `toml:"tasks"`
	Projects      string `toml:"projects"`
	FilteredTasks string `toml:"filtered_tasks"`
	Labels        string `toml:"labels"`
	Sync          string `toml:"sync"` // reminders are only read through the sync endpoint
}

// SettingsConfig holds fallback user settings used when no device is known.
type SettingsConfig struct {
	TimeZone string `toml:"time_zone"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port for [http.Server].
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig sets the minimum log level (debug, info, warn, error).
type LogConfig struct {
	Level string `toml:"level"`
}

// QueryConfig is a saved, named set of filter directives.
//
// Filters use the directive syntax accepted by the CLI: name, name=value, name=start..end or name=p1,p2.
type QueryConfig struct {
	Name     string   `toml:"name"`
	Filters  []string `toml:"filters"`
	Ordering []string `toml:"ordering"`
}

// Query looks up a saved query by name.
func (c *Config) Query(name string) (QueryConfig, bool) {
	for _, q := range c.Queries {
		if q.Name == name {
			return q, true
		}
	}
	return QueryConfig{}, false
}

// Validate checks the fields every Todoist call depends on.
func (c *Config) Validate() error {
	if c.Todoist.APIURL == "" {
		return fmt.Errorf("%w: todoist.api_url is empty", ErrInvalidConfig)
	}
	if c.Todoist.Paths.Tasks == "" || c.Todoist.Paths.Projects == "" || c.Todoist.Paths.FilteredTasks == "" {
		return fmt.Errorf("%w: todoist.paths must define tasks, projects and filtered_tasks", ErrInvalidConfig)
	}
	if c.Settings.TimeZone != "" {
		if _, err := time.LoadLocation(c.Settings.TimeZone); err != nil {
			return fmt.Errorf("%w: settings.time_zone: %v", ErrInvalidConfig, err)
		}
	}
	seen := make(map[string]bool, len(c.Queries))
	for _, q := range c.Queries {
		if q.Name == "" {
			return fmt.Errorf("%w: saved query without a name", ErrInvalidConfig)
		}
		if seen[q.Name] {
			return fmt.Errorf("%w: duplicate saved query %q", ErrInvalidConfig, q.Name)
		}
		seen[q.Name] = true
	}
	return nil
}

// applyEnv lets the API key come from the environment instead of the file.
func (c *Config) applyEnv() {
	if key := os.Getenv(APIKeyEnv); key != "" {
		c.Todoist.APIKey = key
	}
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	config.Queries = nil
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
