package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-well-inspection/internal/geo"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort           = 8080
	DefaultHost           = "127.0.0.1"
	DefaultLogLevel       = "info"
	DefaultMaxFileSize    = 20 * 1024 * 1024 // 20MB per photo
	DefaultMaxImagePixels = 1600
	DefaultGPSMode        = string(geo.ModeAuto)
	DefaultCacheVersion   = "pozo-v1"

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable
	EnvPrefix = "WELL_INSPECTION"
)

// ErrVersionRequested is returned by LoadFromFlags when --version is given
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the inspection server
type Config struct {
	// Server configuration
	Mode string `validate:"oneof=stdio server"`
	Host string `validate:"required"`
	Port int    `validate:"min=1,max=65535"`

	// Report configuration
	OutputDirectory string `validate:"required"`
	StrictImages    bool
	MaxImagePixels  int   `validate:"gte=0"`
	MaxFileSize     int64 `validate:"gt=0"` // Maximum photo size in bytes

	// Geolocation configuration
	GPSMode      string `validate:"oneof=auto manual"`
	GPSPosition  string // fixed "lat, lon" used as the device position
	PhotoBaseDir string

	// Offline asset cache configuration
	CacheDirectory string
	CacheVersion   string   `validate:"required,excludesall=/\\"`
	CacheBaseURL   string   `validate:"omitempty,url"`
	CacheManifest  []string `validate:"dive,required"`

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string `validate:"oneof=debug info warn error"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:            ModeStdio, // Default to stdio mode for MCP compatibility
		Host:            DefaultHost,
		Port:            DefaultPort,
		OutputDirectory: currentDir,
		MaxImagePixels:  DefaultMaxImagePixels,
		MaxFileSize:     DefaultMaxFileSize,
		GPSMode:         DefaultGPSMode,
		PhotoBaseDir:    currentDir,
		CacheDirectory:  filepath.Join(currentDir, ".cache"),
		CacheVersion:    DefaultCacheVersion,
		Version:         "1.0.0",
		ServerName:      "mcp-well-inspection",
		LogLevel:        DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
// Values come from flags, then WELL_INSPECTION_* environment variables
// (a .env file in the working directory is loaded first), then defaults.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	// A missing .env file is not an error
	_ = godotenv.Load()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	for _, p := range []*string{&cfg.OutputDirectory, &cfg.PhotoBaseDir, &cfg.CacheDirectory} {
		if *p == "" {
			continue
		}
		if expandedPath, err := filepath.Abs(*p); err == nil {
			*p = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("output", cfg.OutputDirectory)
	viper.SetDefault("strict-images", cfg.StrictImages)
	viper.SetDefault("max-image-pixels", cfg.MaxImagePixels)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("gps-mode", cfg.GPSMode)
	viper.SetDefault("gps-position", cfg.GPSPosition)
	viper.SetDefault("photo-dir", cfg.PhotoBaseDir)
	viper.SetDefault("cache-dir", cfg.CacheDirectory)
	viper.SetDefault("cache-version", cfg.CacheVersion)
	viper.SetDefault("cache-base-url", cfg.CacheBaseURL)
	viper.SetDefault("cache-manifest", cfg.CacheManifest)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for streamable HTTP")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("output", cfg.OutputDirectory, "Directory the PDF report is written to")
	pflag.Bool("strict-images", cfg.StrictImages, "Abort the export when a photo cannot be decoded")
	pflag.Int("max-image-pixels", cfg.MaxImagePixels, "Downsample photos to this longest side before embedding (0 keeps originals)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum photo size in bytes")
	pflag.String("gps-mode", cfg.GPSMode, "Initial GPS mode: 'auto' or 'manual'")
	pflag.String("gps-position", cfg.GPSPosition, "Fixed device position as \"lat, lon\" used in auto mode")
	pflag.String("photo-dir", cfg.PhotoBaseDir, "Directory relative photo paths are resolved against")
	pflag.String("cache-dir", cfg.CacheDirectory, "Directory of the offline asset cache")
	pflag.String("cache-version", cfg.CacheVersion, "Offline asset cache version; other versions are evicted")
	pflag.String("cache-base-url", cfg.CacheBaseURL, "Base URL relative asset keys are fetched from")
	pflag.StringSlice("cache-manifest", cfg.CacheManifest, "Assets downloaded into the cache at startup")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

var flagNames = []string{
	"mode", "host", "port", "output", "strict-images", "max-image-pixels", "maxfilesize",
	"gps-mode", "gps-position", "photo-dir", "cache-dir", "cache-version", "cache-base-url",
	"cache-manifest", "loglevel",
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range flagNames {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Well Inspection - gas well inspection form and PDF report server\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # stdio mode, reports in current directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --output=/srv/reports             # custom report directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --gps-position=\"19.43, -99.13\"   # fixed device position\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --port=8081          # streamable HTTP server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables (also read from .env):\n")
		names := append([]string(nil), flagNames...)
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(os.Stderr, "  %s_%s\n", EnvPrefix, strings.ToUpper(strings.ReplaceAll(name, "-", "_")))
		}
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.OutputDirectory = viper.GetString("output")
	cfg.StrictImages = viper.GetBool("strict-images")
	cfg.MaxImagePixels = viper.GetInt("max-image-pixels")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.GPSMode = viper.GetString("gps-mode")
	cfg.GPSPosition = viper.GetString("gps-position")
	cfg.PhotoBaseDir = viper.GetString("photo-dir")
	cfg.CacheDirectory = viper.GetString("cache-dir")
	cfg.CacheVersion = viper.GetString("cache-version")
	cfg.CacheBaseURL = viper.GetString("cache-base-url")
	cfg.CacheManifest = viper.GetStringSlice("cache-manifest")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return describeValidationErrors(verrs)
		}
		return err
	}

	if c.GPSPosition != "" {
		if _, err := geo.ParseCoordinates(c.GPSPosition); err != nil {
			return fmt.Errorf("invalid gps position: %w", err)
		}
	}

	// Check if the output directory exists, create if it doesn't
	if _, err := os.Stat(c.OutputDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDirectory, err)
	}

	return nil
}

func describeValidationErrors(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s (got %v)", fe.Field(), fe.Tag(), fe.Value()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Locator returns the geolocation source described by the configuration
func (c *Config) Locator() geo.Locator {
	if c.GPSPosition == "" {
		return geo.UnsupportedLocator{}
	}
	pos, err := geo.ParseCoordinates(c.GPSPosition)
	if err != nil {
		return geo.UnsupportedLocator{}
	}
	return geo.FixedLocator{Position: pos}
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, OutputDirectory: %s, GPSMode: %s, "+
		"StrictImages: %t, MaxImagePixels: %d, CacheVersion: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.OutputDirectory, c.GPSMode,
		c.StrictImages, c.MaxImagePixels, c.CacheVersion, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
