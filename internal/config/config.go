// Package config loads this core's runtime tunables (default date
// format, EXPLAIN verbosity, ROUND precision). None of them changes
// query semantics. The shell reads only DateFormat; the other two
// values are loaded and not read by any code in the module.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the engine's non-semantic tunables.
type Config struct {
	// DateFormat is a DATE_FORMAT pattern. The shell shows it in its
	// unknown-command message; result rows are printed with each value's
	// String form, which does not use this pattern.
	DateFormat string `mapstructure:"date_format"`
	// ExplainVerbose is loaded but not read: EXPLAIN output always
	// includes each node's estimated row count and never any timing.
	ExplainVerbose bool `mapstructure:"explain_verbose"`
	// RoundDefaultPrecision is loaded but not read: ROUND called with a
	// single argument always rounds to 0 digits.
	RoundDefaultPrecision int `mapstructure:"round_default_precision"`
}

func defaults() Config {
	return Config{
		DateFormat:            "%Y-%m-%d",
		ExplainVerbose:        false,
		RoundDefaultPrecision: 0,
	}
}

// Load reads configuration from (in ascending priority) built-in
// defaults, a config file named relcore.yaml/.json/.toml on the given
// search paths, and RELCORE_-prefixed environment variables.
func Load(searchPaths ...string) (Config, error) {
	v := viper.New()
	cfg := defaults()

	v.SetDefault("date_format", cfg.DateFormat)
	v.SetDefault("explain_verbose", cfg.ExplainVerbose)
	v.SetDefault("round_default_precision", cfg.RoundDefaultPrecision)

	v.SetConfigName("relcore")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("RELCORE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}
