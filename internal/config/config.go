package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in Config.Backend.
const (
	// BackendFile stores timers in a JSON document.
	BackendFile = "file"
	// BackendSQLite stores timers in an SQLite database.
	BackendSQLite = "sqlite"
	// BackendMemory keeps timers in memory only.
	BackendMemory = "memory"
)

// Config holds the settings shared by the countdown commands.
type Config struct {
	// Backend selects the persistence implementation.
	Backend string `yaml:"backend"`
	// DataFile is the path of the JSON document or SQLite database.
	DataFile string `yaml:"data_file"`
	// StorageKey is the key the timer list is stored under.
	StorageKey string `yaml:"storage_key"`
	// ServerAddress is the gRPC address of the countdown daemon.
	ServerAddress string `yaml:"server_addr"`
	// Timeout bounds each RPC made against the daemon.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level written to the log.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "countdown-settings.yaml"

	// DefaultDataFilename is the default file holding persisted timers.
	DefaultDataFilename = "countdown-timers.json"

	// DefaultSQLiteFilename is the default database used by the sqlite backend.
	DefaultSQLiteFilename = "countdown-timers.db"

	// DefaultStorageKey is the key the timer list is stored under.
	DefaultStorageKey = "timers"

	// DefaultServerAddress is where the daemon listens when nothing else is configured.
	DefaultServerAddress = "127.0.0.1:50061"

	// DefaultTimeout is the default duration for RPC calls.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for settings and data files.
	DefaultFilePermissions = 0o600

	// DefaultDirPermissions is used when creating parent directories for data files.
	DefaultDirPermissions = 0o700
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownBackend is returned for an unsupported backend name.
	errUnknownBackend = errors.New("unknown storage backend")
)

// Default returns a configuration filled with defaults.
func Default() *Config {
	cfg := new(Config)

	// Empty settings always validate.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults for empty fields.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	settings.Backend = strings.ToLower(strings.TrimSpace(settings.Backend))
	if settings.Backend == "" {
		settings.Backend = BackendFile
	}

	switch settings.Backend {
	case BackendFile:
		if settings.DataFile == "" {
			settings.DataFile = DefaultDataFilename
		}
	case BackendSQLite:
		if settings.DataFile == "" {
			settings.DataFile = DefaultSQLiteFilename
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: %q", errUnknownBackend, settings.Backend)
	}

	if settings.StorageKey == "" {
		settings.StorageKey = DefaultStorageKey
	}

	if settings.ServerAddress == "" {
		settings.ServerAddress = DefaultServerAddress
	}

	if _, _, err := net.SplitHostPort(settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	// Set default timeout if not specified
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	return nil
}
