package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"zenflow/internal/logging"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config   *Config
	envFiles []string
	file     string
}

// NewLoader creates a loader that reads .env from the working directory
func NewLoader() *Loader {
	return &Loader{
		config:   NewConfig(),
		envFiles: []string{".env"},
	}
}

// WithEnvFiles replaces the dotenv files to read
func (l *Loader) WithEnvFiles(files ...string) *Loader {
	l.envFiles = files
	return l
}

// WithFile sets an explicit YAML config file
func (l *Loader) WithFile(path string) *Loader {
	l.file = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML file (ZF_CONFIG, or config.yaml in the store dir)
// 3. Override with .env files and environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDotEnv(); err != nil {
		return nil, err
	}

	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	l.config.Normalize()
	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		overrides.Apply(config)
	}

	config.Normalize()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadDotEnv reads dotenv files without overriding variables already set. Missing files are skipped.
func (l *Loader) loadDotEnv() error {
	for _, f := range l.envFiles {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
		logging.Debugf("loaded environment from %s\n", f)
	}
	return nil
}

func (l *Loader) configFilePath() (string, bool) {
	if l.file != "" {
		return l.file, true
	}
	if p := os.Getenv("ZF_CONFIG"); p != "" {
		return p, true
	}
	dir := l.config.Store.Dir
	if d := os.Getenv("ZF_STORE_DIR"); d != "" {
		dir = d
	}
	return filepath.Join(dir, "config.yaml"), false
}

// loadFile overlays the YAML config file. An implicit default path may be absent; an explicit one may not.
func (l *Loader) loadFile() error {
	path, explicit := l.configFilePath()
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, l.config); err != nil {
		return &ConfigError{Field: "file", Message: fmt.Sprintf("invalid YAML in %s: %v", path, err)}
	}
	logging.Debugf("loaded config file %s\n", path)
	return nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	StoreBackend  *string
	StoreDir      *string
	StoreFilename *string
	RedisURL      *string
	WriteTimeout  *time.Duration

	WorkMinutes  *int
	BreakMinutes *int

	WeekStart *string
	Timezone  *string

	Timeout *time.Duration
	Verbose *bool

	HTTPAddr *string
}

// Apply copies every set override onto config
func (o *ConfigOverrides) Apply(config *Config) {
	if o.StoreBackend != nil {
		config.Store.Backend = *o.StoreBackend
	}
	if o.StoreDir != nil {
		config.Store.Dir = *o.StoreDir
	}
	if o.StoreFilename != nil {
		config.Store.Filename = *o.StoreFilename
	}
	if o.RedisURL != nil {
		config.Store.RedisURL = *o.RedisURL
	}
	if o.WriteTimeout != nil {
		config.Store.WriteTimeout = *o.WriteTimeout
	}

	if o.WorkMinutes != nil {
		config.Focus.WorkMinutes = *o.WorkMinutes
	}
	if o.BreakMinutes != nil {
		config.Focus.BreakMinutes = *o.BreakMinutes
	}

	if o.WeekStart != nil {
		config.Schedule.WeekStart = *o.WeekStart
	}
	if o.Timezone != nil {
		config.Schedule.Location = *o.Timezone
	}

	if o.Timeout != nil {
		config.Application.Timeout = *o.Timeout
	}
	if o.Verbose != nil {
		config.Application.Verbose = *o.Verbose
	}

	if o.HTTPAddr != nil {
		config.HTTP.Addr = *o.HTTPAddr
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
