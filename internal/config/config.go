// Package config loads lpk settings from built-in defaults, an optional
// YAML file and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the root configuration.
type Config struct {
	Log    LogConfig    `koanf:"log"`
	Bus    BusConfig    `koanf:"bus"`
	Run    RunConfig    `koanf:"run"`
	Script ScriptConfig `koanf:"script"`
	Watch  WatchConfig  `koanf:"watch"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level   string `koanf:"level"`
	Format  string `koanf:"format"`
	NoColor bool   `koanf:"no_color"`
}

// BusConfig holds event bus settings.
type BusConfig struct {
	// IgnoreDuplicates makes a repeated subscription a no-op.
	IgnoreDuplicates bool `koanf:"ignore_duplicates"`
}

// RunConfig holds scene run settings.
type RunConfig struct {
	// Frames to simulate; zero runs until the timeline is exhausted.
	Frames int           `koanf:"frames"`
	Step   time.Duration `koanf:"step"`
}

// ScriptConfig holds Lua settings.
type ScriptConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// WatchConfig holds scene watcher settings.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info", Format: "console"},
		Run:    RunConfig{Step: time.Second / 60},
		Script: ScriptConfig{Timeout: time.Second},
		Watch:  WatchConfig{Debounce: 100 * time.Millisecond},
	}
}

func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"log.level":             d.Log.Level,
		"log.format":            d.Log.Format,
		"log.no_color":          d.Log.NoColor,
		"bus.ignore_duplicates": d.Bus.IgnoreDuplicates,
		"run.frames":            d.Run.Frames,
		"run.step":              d.Run.Step.String(),
		"script.timeout":        d.Script.Timeout.String(),
		"watch.debounce":        d.Watch.Debounce.String(),
	}
}

// FlagKeys maps command-line flag names to configuration keys. Flags not
// listed here are not configuration.
var FlagKeys = map[string]string{
	"log-level":         "log.level",
	"log-format":        "log.format",
	"no-color":          "log.no_color",
	"ignore-duplicates": "bus.ignore_duplicates",
	"frames":            "run.frames",
	"step":              "run.step",
	"script-timeout":    "script.timeout",
	"debounce":          "watch.debounce",
}

// Load merges the defaults, the YAML file at path and the flags that were
// set. An empty path skips the file; a path that does not exist is an
// error.
func Load(flags *pflag.FlagSet, path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := FlagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	var errs []error
	if c.Run.Frames < 0 {
		errs = append(errs, fmt.Errorf("run.frames must not be negative, got %d", c.Run.Frames))
	}
	if c.Run.Step <= 0 {
		errs = append(errs, fmt.Errorf("run.step must be positive, got %s", c.Run.Step))
	}
	if c.Script.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("script.timeout must be positive, got %s", c.Script.Timeout))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}
	return errors.Join(errs...)
}
