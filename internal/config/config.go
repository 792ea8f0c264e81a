package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. HRP_SERVER_PORT.
const EnvPrefix = "HRP"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Upload   UploadConfig   `yaml:"upload" envconfig:"UPLOAD"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"60s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// UploadConfig bounds the in-memory workbook store
type UploadConfig struct {
	MaxSizeBytes    int64         `yaml:"max_size_bytes" envconfig:"MAX_SIZE_BYTES" default:"20971520"`
	TTL             time.Duration `yaml:"ttl" envconfig:"TTL" default:"30m"`
	MaxEntries      int           `yaml:"max_entries" envconfig:"MAX_ENTRIES" default:"32"`
	JanitorInterval time.Duration `yaml:"janitor_interval" envconfig:"JANITOR_INTERVAL" default:"1m"`
}

// Load loads configuration from a .env file, environment variables and the config file
func Load() (*Config, error) {
	// .env is optional; variables already set in the environment win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := cfg.ValidatePaths(); err != nil {
		return nil, fmt.Errorf("path validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs overlays file values onto the env config.
// A value set explicitly in the environment always wins; otherwise a non-zero
// file value replaces the env default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	m := envConfig
	f := fileConfig

	pick("SERVER_PORT", f.Server.Port, &m.Server.Port)
	pick("SERVER_READ_TIMEOUT", f.Server.ReadTimeout, &m.Server.ReadTimeout)
	pick("SERVER_WRITE_TIMEOUT", f.Server.WriteTimeout, &m.Server.WriteTimeout)
	pick("SERVER_IDLE_TIMEOUT", f.Server.IdleTimeout, &m.Server.IdleTimeout)
	pick("SERVER_MAX_HEADER_BYTES", f.Server.MaxHeaderBytes, &m.Server.MaxHeaderBytes)
	pick("SERVER_SHUTDOWN_TIMEOUT", f.Server.ShutdownTimeout, &m.Server.ShutdownTimeout)
	pick("SERVER_REQUEST_TIMEOUT", f.Server.RequestTimeout, &m.Server.RequestTimeout)

	if len(f.Security.AllowedOrigins) > 0 && !envSet("SECURITY_ALLOWED_ORIGINS") {
		m.Security.AllowedOrigins = f.Security.AllowedOrigins
	}
	pick("SECURITY_RATE_LIMIT_RPS", f.Security.RateLimit.RPS, &m.Security.RateLimit.RPS)
	pick("SECURITY_RATE_LIMIT_BURST", f.Security.RateLimit.Burst, &m.Security.RateLimit.Burst)

	pick("LOGGING_LEVEL", f.Logging.Level, &m.Logging.Level)
	pick("LOGGING_FILE_PATH", f.Logging.FilePath, &m.Logging.FilePath)

	pick("PATHS_DATA_DIR", f.Paths.DataDir, &m.Paths.DataDir)
	pick("PATHS_LOGS_DIR", f.Paths.LogsDir, &m.Paths.LogsDir)

	pick("UPLOAD_MAX_SIZE_BYTES", f.Upload.MaxSizeBytes, &m.Upload.MaxSizeBytes)
	pick("UPLOAD_TTL", f.Upload.TTL, &m.Upload.TTL)
	pick("UPLOAD_MAX_ENTRIES", f.Upload.MaxEntries, &m.Upload.MaxEntries)
	pick("UPLOAD_JANITOR_INTERVAL", f.Upload.JanitorInterval, &m.Upload.JanitorInterval)

	return m
}

func pick[T comparable](key string, fileValue T, dst *T) {
	var zero T
	if fileValue == zero || envSet(key) {
		return
	}
	*dst = fileValue
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + key)
	return ok
}

// resolvePaths records the executable directory paths are resolved against
func (c *Config) resolvePaths() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}
	c.Paths.ExecutableDir = paths.ExecutableDir
	return nil
}

// ValidatePaths creates the configured data, reports and logs directories
func (c *Config) ValidatePaths() error {
	if err := c.ResolvedPaths().EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}
	return nil
}

// GetDataDir returns the resolved data directory path
func (c *Config) GetDataDir() string {
	return c.resolve(c.Paths.DataDir)
}

// GetLogsDir returns the resolved logs directory path
func (c *Config) GetLogsDir() string {
	return c.resolve(c.Paths.LogsDir)
}

// GetReportsDir returns the directory CSV exports are written to
func (c *Config) GetReportsDir() string {
	return filepath.Join(c.GetDataDir(), "reports")
}

// ResolvedPaths lays the configured directories out as Paths
func (c *Config) ResolvedPaths() *Paths {
	return &Paths{
		ExecutableDir: c.Paths.ExecutableDir,
		DataDir:       c.GetDataDir(),
		ReportsDir:    c.GetReportsDir(),
		LogsDir:       c.GetLogsDir(),
	}
}

func (c *Config) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Paths.ExecutableDir, dir)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Upload.MaxSizeBytes <= 0 {
		return fmt.Errorf("upload size limit must be positive")
	}

	if c.Upload.TTL <= 0 {
		return fmt.Errorf("upload ttl must be positive")
	}

	if c.Upload.MaxEntries <= 0 {
		return fmt.Errorf("upload store must hold at least one workbook")
	}

	if c.Upload.JanitorInterval <= 0 {
		c.Upload.JanitorInterval = DefaultJanitorInterval
	}

	// JSON to stdout and file, always
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.Output != "both" && c.Logging.Output != "file" {
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
		"../../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir: DefaultDataDir,
			LogsDir: DefaultLogsDir,
		},
		Upload: UploadConfig{
			MaxSizeBytes:    DefaultMaxUploadBytes,
			TTL:             DefaultUploadTTL,
			MaxEntries:      DefaultMaxUploads,
			JanitorInterval: DefaultJanitorInterval,
		},
	}
}
