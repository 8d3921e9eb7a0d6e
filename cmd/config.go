package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/TFMV/findexec/internal/dispatch"
	"github.com/TFMV/findexec/internal/logging"
)

// Config holds the settings that do not come from the command line.
type Config struct {
	LogLevel       logging.LogLevel
	LogOutput      string
	MaxMatches     int
	MaxRetries     int
	NormalizeNames bool
	Watch          bool
	WatchTimeout   time.Duration
	MetricsFile    string
}

// newViper returns a viper instance with defaults and FINDEXEC_ environment
// bindings.
func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("log-level", "")
	v.SetDefault("log-output", "stderr")
	v.SetDefault("max-matches", dispatch.DefaultMaxMatches)
	v.SetDefault("max-retries", dispatch.DefaultMaxRetries)
	v.SetDefault("normalize-names", false)
	v.SetDefault("watch", false)
	v.SetDefault("watch-timeout", time.Duration(0))
	v.SetDefault("metrics-file", "")

	v.SetEnvPrefix("FINDEXEC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // read in environment variables that match

	return v
}

// initConfig reads the config file named by FINDEXEC_CONFIG, or
// $HOME/.findexec.yaml when present.
func initConfig(v *viper.Viper) error {
	if cfgFile := os.Getenv("FINDEXEC_CONFIG"); cfgFile != "" {
		// Use config file from the environment.
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("Can't read config file: %w", err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	// Search config in home directory with name ".findexec" (without extension).
	v.AddConfigPath(home)
	v.SetConfigType("yaml")
	v.SetConfigName(".findexec")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("Can't read config file: %w", err)
	}
	return nil
}

// loadConfig validates the merged configuration.
func loadConfig(v *viper.Viper) (Config, error) {
	level, err := logging.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return Config{}, fmt.Errorf("Invalid configuration: %w", err)
	}

	cfg := Config{
		LogLevel:       level,
		LogOutput:      v.GetString("log-output"),
		MaxMatches:     v.GetInt("max-matches"),
		MaxRetries:     v.GetInt("max-retries"),
		NormalizeNames: v.GetBool("normalize-names"),
		Watch:          v.GetBool("watch"),
		WatchTimeout:   v.GetDuration("watch-timeout"),
		MetricsFile:    v.GetString("metrics-file"),
	}

	if cfg.MaxMatches <= 0 {
		return Config{}, fmt.Errorf("Invalid configuration: max-matches must be positive, got %d", cfg.MaxMatches)
	}
	if cfg.MaxRetries <= 0 {
		return Config{}, fmt.Errorf("Invalid configuration: max-retries must be positive, got %d", cfg.MaxRetries)
	}
	if cfg.WatchTimeout < 0 {
		return Config{}, fmt.Errorf("Invalid configuration: watch-timeout must not be negative, got %s", cfg.WatchTimeout)
	}
	return cfg, nil
}
