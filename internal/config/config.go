package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	configData Config
	v          = viper.New()
)

// Config holds all configuration settings.
type Config struct {
	// Pool sizing and lifetimes
	Pool struct {
		MaxSize         int           `mapstructure:"max_size"`
		Prewarm         int           `mapstructure:"prewarm"`
		DefaultLifetime time.Duration `mapstructure:"default_lifetime"`
	}
	// Template manifests
	Templates struct {
		Path string
	}
	// Frame loop
	Loop struct {
		TickRate int `mapstructure:"tick_rate"`
	}
	// Admin console
	Server struct {
		Enabled bool
		Host    string
		Port    int
	}
	// Prometheus endpoint
	Metrics struct {
		Addr string
	}
	// Logging configuration
	Log struct {
		Level  string
		Format string
	}
}

// Initialize sets up the configuration system. A non-empty file replaces the search paths.
func Initialize(file string) error {
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")         // name of config file (without extension)
		v.SetConfigType("yaml")           // config file type
		v.AddConfigPath(".")              // optionally look for config in working directory
		v.AddConfigPath("$HOME/.go_pool") // look for config in .go_pool directory in home
		v.AddConfigPath("/etc/go_pool/")  // path to look for the config file in
	}

	setDefaults()

	v.SetEnvPrefix("GOPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file == "" {
		if err := ensureConfig(); err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Defaults are enough when no config file exists.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	configData = Config{}
	if err := v.Unmarshal(&configData); err != nil {
		return fmt.Errorf("unable to decode into config struct: %w", err)
	}

	return nil
}

// setDefaults sets default values for all configuration options.
func setDefaults() {
	v.SetDefault("pool.max_size", 10000)
	v.SetDefault("pool.prewarm", 0)
	v.SetDefault("pool.default_lifetime", "0s")

	v.SetDefault("templates.path", "templates")

	v.SetDefault("loop.tick_rate", 60)

	v.SetDefault("server.enabled", true)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 1600)

	v.SetDefault("metrics.addr", ":9108")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "human")
}

const defaultConfig = `# go_pool configuration file
pool:
  max_size: 10000
  prewarm: 0
  default_lifetime: 0s

templates:
  path: templates

loop:
  tick_rate: 60

server:
  enabled: true
  host: localhost
  port: 1600

metrics:
  addr: ":9108"

log:
  level: info
  format: human
`

// ensureConfig creates a default config file if none exists.
func ensureConfig() error {
	dir := filepath.Join(os.Getenv("HOME"), ".go_pool")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := os.WriteFile(configFile, []byte(defaultConfig), 0o644); err != nil {
			return err
		}
	}

	return nil
}

// Get returns the current configuration.
func Get() *Config {
	return &configData
}

// GetViper returns the viper instance.
func GetViper() *viper.Viper {
	return v
}

// Reset discards every setting, flag binding and search path.
func Reset() {
	v = viper.New()
	configData = Config{}
}
