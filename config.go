package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/wricardo/memory-match/game/engine"
)

const (
	defaultHost            = "localhost"
	defaultPort            = 8080
	defaultSessionTTL      = 24 * time.Hour
	defaultCleanupInterval = time.Hour
	defaultLogLevel        = "info"
)

// appConfig holds the application settings. Values come from defaults, the
// config file, MEMORY_* environment variables and finally command line flags.
type appConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	PresetsDir      string        `mapstructure:"presets-dir"`
	DefaultPreset   string        `mapstructure:"default-preset"`
	MismatchDelay   time.Duration `mapstructure:"mismatch-delay"`
	SessionTTL      time.Duration `mapstructure:"session-ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup-interval"`
	AllowedOrigins  []string      `mapstructure:"allowed-origins"`
	LogLevel        string        `mapstructure:"log-level"`
	PrettyLogs      bool          `mapstructure:"pretty-logs"`

	NgrokEnabled   bool   `mapstructure:"ngrok-enabled"`
	NgrokAuthtoken string `mapstructure:"ngrok-authtoken"`
	NgrokDomain    string `mapstructure:"ngrok-domain"`

	ConfigPath string `mapstructure:"-"`
}

// Addr returns the host:port the HTTP server binds to.
func (c appConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BaseURL returns the URL local clients use to reach the HTTP server.
func (c appConfig) BaseURL() string {
	return "http://" + c.Addr()
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	v := viper.New()
	v.SetEnvPrefix("MEMORY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("host", defaultHost)
	v.SetDefault("port", defaultPort)
	v.SetDefault("presets-dir", "")
	v.SetDefault("default-preset", "")
	v.SetDefault("mismatch-delay", engine.DefaultMismatchDelay)
	v.SetDefault("session-ttl", defaultSessionTTL)
	v.SetDefault("cleanup-interval", defaultCleanupInterval)
	v.SetDefault("allowed-origins", []string{})
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("pretty-logs", false)
	v.SetDefault("ngrok-enabled", false)
	v.SetDefault("ngrok-authtoken", "")
	v.SetDefault("ngrok-domain", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, ".config", "memory-match", "config.yml"))
	}

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var configFileNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
				return cfg, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	// The ngrok agent's own variable is honored when no MEMORY_ one is set.
	if cfg.NgrokAuthtoken == "" {
		cfg.NgrokAuthtoken = os.Getenv("NGROK_AUTHTOKEN")
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c appConfig) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.MismatchDelay < 0 || c.MismatchDelay > engine.MaxMismatchDelay {
		return fmt.Errorf("invalid mismatch-delay: %s (max %s)", c.MismatchDelay, engine.MaxMismatchDelay)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("invalid session-ttl: %s", c.SessionTTL)
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("invalid cleanup-interval: %s", c.CleanupInterval)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log-level: %q", c.LogLevel)
	}
	return nil
}

// setupLogging configures the global zerolog logger. Logs always go to w,
// which is stderr in every mode so stdio MCP traffic on stdout stays clean.
func setupLogging(cfg appConfig, w io.Writer) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.PrettyLogs {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
