package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"zenflow/internal/domain"
)

// Store backends
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds all configuration options for zenflow
type Config struct {
	Store       StoreConfig       `yaml:"store"`
	Focus       FocusConfig       `yaml:"focus"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	Application ApplicationConfig `yaml:"application"`
	HTTP        HTTPConfig        `yaml:"http"`
}

// StoreConfig selects and tunes the record store
type StoreConfig struct {
	Backend        string        `yaml:"backend" env:"ZF_STORE_BACKEND"`
	Dir            string        `yaml:"dir" env:"ZF_STORE_DIR"`
	Filename       string        `yaml:"filename" env:"ZF_STORE_FILENAME"`
	RedisURL       string        `yaml:"redis_url" env:"ZF_REDIS_URL"`
	RedisPrefix    string        `yaml:"redis_prefix" env:"ZF_REDIS_PREFIX"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"ZF_STORE_WRITE_TIMEOUT"`
	DirPermissions uint32        `yaml:"dir_permissions" env:"ZF_STORE_DIR_PERMISSIONS"`
}

// FocusConfig holds the default focus durations in minutes
type FocusConfig struct {
	WorkMinutes  int `yaml:"work_minutes" env:"ZF_FOCUS_WORK"`
	BreakMinutes int `yaml:"break_minutes" env:"ZF_FOCUS_BREAK"`
}

// ScheduleConfig controls day and week boundaries
type ScheduleConfig struct {
	WeekStart string `yaml:"week_start" env:"ZF_WEEK_START"`
	Location  string `yaml:"location" env:"ZF_TIMEZONE"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"ZF_APP_TIMEOUT"`
	Verbose bool          `yaml:"verbose" env:"ZF_APP_VERBOSE"`
}

// HTTPConfig holds the local HTTP surface settings
type HTTPConfig struct {
	Addr string `yaml:"addr" env:"ZF_HTTP_ADDR"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Store: StoreConfig{
			Backend:        BackendSQLite,
			Dir:            filepath.Join(homeDir, ".zenflow"),
			Filename:       "zenflow.db",
			RedisURL:       "redis://localhost:6379",
			RedisPrefix:    "zenflow:",
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0o755,
		},
		Focus: FocusConfig{
			WorkMinutes:  domain.DefaultWorkMinutes,
			BreakMinutes: domain.DefaultBreakMinutes,
		},
		Schedule: ScheduleConfig{
			WeekStart: "monday",
			Location:  "Local",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
		},
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:7420",
		},
	}
}

// GetDatabasePath returns the full path to the sqlite file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Store.Dir, c.Store.Filename)
}

// WeekStartDay parses Schedule.WeekStart, Monday when unrecognised
func (c *Config) WeekStartDay() time.Weekday {
	if wd, ok := parseWeekday(c.Schedule.WeekStart); ok {
		return wd
	}
	return time.Monday
}

// TimeLocation resolves Schedule.Location, time.Local when empty or unknown
func (c *Config) TimeLocation() *time.Location {
	if c.Schedule.Location == "" || strings.EqualFold(c.Schedule.Location, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Schedule.Location)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadFromEnvironment overlays ZF_* environment variables
func (c *Config) LoadFromEnvironment() error {
	// Store configuration
	if v := os.Getenv("ZF_STORE_BACKEND"); v != "" {
		c.Store.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("ZF_STORE_DIR"); v != "" {
		c.Store.Dir = v
	}
	if v := os.Getenv("ZF_STORE_FILENAME"); v != "" {
		c.Store.Filename = v
	}
	if v := os.Getenv("ZF_REDIS_URL"); v != "" {
		c.Store.RedisURL = v
	}
	if v := os.Getenv("ZF_REDIS_PREFIX"); v != "" {
		c.Store.RedisPrefix = v
	}
	if v := os.Getenv("ZF_STORE_WRITE_TIMEOUT"); v != "" {
		c.Store.WriteTimeout = ParseDurationWithFallback(v, c.Store.WriteTimeout)
	}
	if v := os.Getenv("ZF_STORE_DIR_PERMISSIONS"); v != "" {
		c.Store.DirPermissions = ParseUint32WithFallback(v, 8, c.Store.DirPermissions)
	}

	// Focus configuration
	if v := os.Getenv("ZF_FOCUS_WORK"); v != "" {
		c.Focus.WorkMinutes = ParseIntWithFallback(v, c.Focus.WorkMinutes)
	}
	if v := os.Getenv("ZF_FOCUS_BREAK"); v != "" {
		c.Focus.BreakMinutes = ParseIntWithFallback(v, c.Focus.BreakMinutes)
	}

	// Schedule configuration
	if v := os.Getenv("ZF_WEEK_START"); v != "" {
		c.Schedule.WeekStart = v
	}
	if v := os.Getenv("ZF_TIMEZONE"); v != "" {
		c.Schedule.Location = v
	}

	// Application configuration
	if v := os.Getenv("ZF_APP_TIMEOUT"); v != "" {
		c.Application.Timeout = ParseDurationWithFallback(v, c.Application.Timeout)
	}
	if v := os.Getenv("ZF_APP_VERBOSE"); v != "" {
		c.Application.Verbose = ParseBoolWithFallback(v, c.Application.Verbose)
	}

	// HTTP configuration
	if v := os.Getenv("ZF_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}

	return nil
}

// Normalize clamps the focus durations into range. Out-of-range values are never rejected.
func (c *Config) Normalize() {
	c.Focus.WorkMinutes = domain.ClampInt(c.Focus.WorkMinutes, domain.MinWorkMinutes, domain.MaxWorkMinutes)
	c.Focus.BreakMinutes = domain.ClampInt(c.Focus.BreakMinutes, domain.MinBreakMinutes, domain.MaxBreakMinutes)
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite:
		if c.Store.Dir == "" {
			return &ConfigError{Field: "store.dir", Message: "store directory cannot be empty"}
		}
		if c.Store.Filename == "" {
			return &ConfigError{Field: "store.filename", Message: "store filename cannot be empty"}
		}
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return &ConfigError{Field: "store.redis_url", Message: "redis url cannot be empty"}
		}
	case BackendMemory:
	default:
		return &ConfigError{Field: "store.backend", Message: "backend must be one of sqlite, memory, redis"}
	}
	if c.Store.WriteTimeout <= 0 {
		return &ConfigError{Field: "store.write_timeout", Message: "write timeout must be positive"}
	}

	if _, ok := parseWeekday(c.Schedule.WeekStart); !ok {
		return &ConfigError{Field: "schedule.week_start", Message: "week start must be a weekday name"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}
	if c.HTTP.Addr == "" {
		return &ConfigError{Field: "http.addr", Message: "http address cannot be empty"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func parseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, true
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), true
	}
	return time.Sunday, false
}
