// Package config loads sumflow settings from defaults, a config file,
// SUMFLOW_* environment variables and command line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"nickandperla.net/sumflow/internal/diag"
)

// Config holds resolved settings.
type Config struct {
	DB        string             `mapstructure:"db"`
	LogLevel  string             `mapstructure:"log_level"`
	Locale    string             `mapstructure:"locale"`
	Precision int                `mapstructure:"precision"`
	Color     bool               `mapstructure:"color"`
	Rates     map[string]float64 `mapstructure:"rates"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		DB:        "sumflow.db",
		LogLevel:  "warn",
		Locale:    "en-US",
		Precision: 4,
		Color:     true,
	}
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"db":        "db",
	"log-level": "log_level",
	"locale":    "locale",
	"precision": "precision",
	"color":     "color",
}

// Load resolves the configuration. path names an explicit config file; when
// empty, sumflow.yaml is looked up in the working directory and in
// $HOME/.config/sumflow, and its absence is not an error. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	d := Defaults()
	v.SetDefault("db", d.DB)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("locale", d.Locale)
	v.SetDefault("precision", d.Precision)
	v.SetDefault("color", d.Color)

	v.SetEnvPrefix("SUMFLOW")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sumflow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "sumflow"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Rates = upperKeys(cfg.Rates)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and formats.
func (c Config) Validate() error {
	if _, err := diag.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("locale %q: %w", c.Locale, err)
	}
	if c.Precision < 1 || c.Precision > 15 {
		return fmt.Errorf("precision must be between 1 and 15, got %d", c.Precision)
	}
	for code, rate := range c.Rates {
		if rate <= 0 {
			return fmt.Errorf("rate for %s must be positive, got %v", code, rate)
		}
	}
	return nil
}

// Tag returns the parsed locale.
func (c Config) Tag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

// viper lower-cases map keys; currency codes are upper case.
func upperKeys(m map[string]float64) map[string]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[strings.ToUpper(k)] = v
	}
	return out
}
