// Package config loads application configuration in layers: built-in
// defaults, an optional YAML file, PULT_-prefixed environment
// variables, and finally command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the full application configuration.
type Config struct {
	Listen      string `koanf:"listen" validate:"required"`
	DBPath      string `koanf:"db" validate:"required"`
	ReposDir    string `koanf:"repos_dir" validate:"required"`
	SyncOnStart bool   `koanf:"sync_on_start"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Listen:   ":8080",
		DBPath:   "pult.db",
		ReposDir: "repos",
	}
}

// Flags defines the command-line flag set the config understands. The
// flag names double as koanf keys.
func Flags() *pflag.FlagSet {
	f := pflag.NewFlagSet("pult", pflag.ContinueOnError)
	d := Defaults()
	f.String("config", "", "path to a YAML config file")
	f.String("listen", d.Listen, "address to listen on")
	f.String("db", d.DBPath, "path to the SQLite database file")
	f.String("repos_dir", d.ReposDir, "directory for mirrored git deck sources")
	f.Bool("sync_on_start", d.SyncOnStart, "sync all deck sources on startup")
	return f
}

// Load builds the configuration from all layers and validates it.
func Load(flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path, _ := flags.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.ProviderWithValue("PULT_", ".", func(key, value string) (string, interface{}) {
		return strings.ToLower(strings.TrimPrefix(key, "PULT_")), value
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load flags: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
