// Package config loads settings from defaults, an optional config file,
// environment variables and command line flags, in increasing priority.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys. Environment variables are the upper-case form (DATA_DIR, ...).
const (
	KeyPort           = "port"
	KeyDataDir        = "data_dir"
	KeyOutputDir      = "output_dir"
	KeyCORSOrigins    = "cors_allowed_origins"
	KeyWorkers        = "workers"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
	KeyProjectLatLon  = "project_latlon"
	KeyVerifyChecksum = "verify_checksums"
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	Port               string
	DataDir            string
	OutputDir          string
	CORSAllowedOrigins []string
	Workers            int
	LogLevel           string
	LogFormat          string
	ProjectLatLon      bool
	VerifyChecksums    bool
}

// New returns a viper instance with defaults and environment lookup set up.
// A non-empty configFile is read and must exist.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyDataDir, "./data")
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyCORSOrigins, "")
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyProjectLatLon, false)
	v.SetDefault(KeyVerifyChecksum, true)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

// BindFlags binds the flags that exist in fs to their keys. Flag names use
// dashes in place of underscores.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range []string{KeyPort, KeyDataDir, KeyOutputDir, KeyWorkers, KeyLogLevel, KeyLogFormat, KeyProjectLatLon, KeyVerifyChecksum} {
		f := fs.Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
		}
	}
	return nil
}

// Load reads the configuration out of v and validates it. Zero workers
// means one per CPU.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:            v.GetString(KeyPort),
		DataDir:         v.GetString(KeyDataDir),
		OutputDir:       v.GetString(KeyOutputDir),
		Workers:         v.GetInt(KeyWorkers),
		LogLevel:        strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:       strings.ToLower(v.GetString(KeyLogFormat)),
		ProjectLatLon:   v.GetBool(KeyProjectLatLon),
		VerifyChecksums: v.GetBool(KeyVerifyChecksum),
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	for _, o := range strings.Split(v.GetString(KeyCORSOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.LogFormat)
	}
	return nil
}
