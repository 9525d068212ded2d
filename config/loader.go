package config

// Viper configuration loader: reads config.yaml from the user config directory.

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all application configuration loaded from config.yaml.
type Config struct {
	// Logging configuration
	Logging struct {
		Level string `mapstructure:"level"` // "debug", "info", "warn", "error"
	} `mapstructure:"logging"`

	// Output configuration
	Output struct {
		Format string `mapstructure:"format"` // "pretty", "simple", "json"
	} `mapstructure:"output"`

	// Database mirror configuration
	Database struct {
		Enabled bool   `mapstructure:"enabled"` // read Things sqlite directly
		Path    string `mapstructure:"path"`    // override auto-detected path
	} `mapstructure:"database"`

	// Bulk operation safety rails
	Bulk struct {
		Limit            int `mapstructure:"limit"`            // max todos a bulk op may touch
		ConfirmThreshold int `mapstructure:"confirmThreshold"` // prompt above this many
	} `mapstructure:"bulk"`

	// Appearance configuration
	Appearance struct {
		Theme string `mapstructure:"theme"` // "dark", "light", "auto"
	} `mapstructure:"appearance"`
}

var appConfig *Config

// LoadConfig loads configuration from config.yaml in the user config
// directory, falling back to the current directory for development. Missing
// files are fine; defaults apply.
func LoadConfig() (*Config, error) {
	// Reset viper to clear any previous configuration
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(GetConfigDir())
	viper.AddConfigPath(".")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("no config.yaml found, using defaults")
		} else {
			slog.Error("error reading config file", "error", err)
			return nil, err
		}
	} else {
		slog.Debug("loaded configuration", "file", viper.ConfigFileUsed())
	}

	// Allow environment variables to override config file, e.g.
	// CLINGS_OUTPUT_FORMAT=json
	viper.SetEnvPrefix("CLINGS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := bindFlags(); err != nil {
		slog.Warn("failed to bind command line flags", "error", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		slog.Error("failed to unmarshal config", "error", err)
		return nil, err
	}

	appConfig = cfg
	return cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("logging.level", "error")
	viper.SetDefault("output.format", "pretty")
	viper.SetDefault("database.enabled", true)
	viper.SetDefault("database.path", "")
	viper.SetDefault("bulk.limit", 50)
	viper.SetDefault("bulk.confirmThreshold", 5)
	viper.SetDefault("appearance.theme", "auto")
}

// bindFlags binds supported command line flags to viper so they can override
// config values. Unknown flags are ignored here; each subcommand parses its
// own flag set.
func bindFlags() error {
	flagSet := pflag.NewFlagSet("clings", pflag.ContinueOnError)
	flagSet.ParseErrorsWhitelist.UnknownFlags = true
	flagSet.SetOutput(io.Discard)

	flagSet.String("log-level", "", "Log level (debug, info, warn, error)")
	flagSet.StringP("output", "o", "", "Output format (pretty, simple, json)")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	if err := viper.BindPFlag("logging.level", flagSet.Lookup("log-level")); err != nil {
		return err
	}
	return viper.BindPFlag("output.format", flagSet.Lookup("output"))
}

// GetConfig returns the loaded configuration
// If config hasn't been loaded yet, it loads it first
func GetConfig() *Config {
	if appConfig == nil {
		cfg, err := LoadConfig()
		if err != nil {
			// If loading fails, return a config with defaults
			slog.Warn("failed to load config, using defaults", "error", err)
			setDefaults()
			cfg = &Config{}
			_ = viper.Unmarshal(cfg)
		}
		appConfig = cfg
	}
	return appConfig
}

// GetString is a convenience method to get a string value from config
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool is a convenience method to get a boolean value from config
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetInt is a convenience method to get an integer value from config
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetOutputFormat returns the configured output format, defaulting to pretty.
func GetOutputFormat() string {
	switch f := viper.GetString("output.format"); f {
	case "pretty", "simple", "json":
		return f
	default:
		return "pretty"
	}
}

// GetBulkLimit returns the maximum number of todos a bulk operation may
// touch. Values below 1 fall back to the default.
func GetBulkLimit() int {
	limit := viper.GetInt("bulk.limit")
	if limit < 1 {
		return 50
	}
	return limit
}

// GetBulkConfirmThreshold returns the batch size above which bulk
// operations prompt for confirmation.
func GetBulkConfirmThreshold() int {
	threshold := viper.GetInt("bulk.confirmThreshold")
	if threshold < 1 {
		return 5
	}
	return threshold
}

// GetTheme returns the appearance theme setting
func GetTheme() string {
	theme := viper.GetString("appearance.theme")
	if theme == "" {
		return "auto"
	}
	return theme
}

// GetEffectiveTheme resolves "auto" to actual theme based on terminal detection
func GetEffectiveTheme() string {
	theme := GetTheme()
	if theme != "auto" {
		return theme
	}
	// Detect via COLORFGBG env var (format: "fg;bg")
	if colorfgbg := os.Getenv("COLORFGBG"); colorfgbg != "" {
		parts := strings.Split(colorfgbg, ";")
		if len(parts) >= 2 {
			bg := parts[len(parts)-1]
			// 0-7 = dark colors, 8+ = light colors
			if bg >= "8" {
				return "light"
			}
		}
	}
	return "dark" // default fallback
}
