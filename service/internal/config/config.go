// Package config loads the service configuration: built-in defaults, then an
// optional YAML file, then SPIDER_* environment variables (a .env file in the
// working directory is honoured).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	engine "github.com/yaguri-afk/spider-solitaire/engine"
)

// ErrInvalidDifficulty is returned for a difficulty other than 1, 2 or 4 suits.
var ErrInvalidDifficulty = errors.New("invalid difficulty")

// Environment variable names.
const (
	EnvConfigFile        = "SPIDER_CONFIG"
	EnvAddr              = "SPIDER_ADDR"
	EnvLogLevel          = "SPIDER_LOG_LEVEL"
	EnvLogFormat         = "SPIDER_LOG_FORMAT"
	EnvDifficulty        = "SPIDER_DIFFICULTY"
	EnvMaxUndos          = "SPIDER_MAX_UNDOS"
	EnvAutoCompleteLimit = "SPIDER_AUTOCOMPLETE_LIMIT"
	EnvAutoCompleteDelay = "SPIDER_AUTOCOMPLETE_DELAY"
	EnvLoopThreshold     = "SPIDER_LOOP_THRESHOLD"
	EnvAllowedOrigins    = "SPIDER_ALLOWED_ORIGINS"
)

// Config holds the service settings.
type Config struct {
	Addr      string `yaml:"addr" json:"addr"`
	LogLevel  string `yaml:"log_level" json:"logLevel"`   // logrus level name
	LogFormat string `yaml:"log_format" json:"logFormat"` // "text" or "json"

	// Difficulty is the default for new games; see ParseDifficulty.
	Difficulty string `yaml:"difficulty" json:"difficulty"`

	// MaxUndos must be at least 1; the engine treats 0 as its default of 3.
	MaxUndos              uint8         `yaml:"max_undos" json:"maxUndos"`
	AutoCompleteLimit     int           `yaml:"autocomplete_limit" json:"autoCompleteLimit"`
	AutoCompleteStepDelay time.Duration `yaml:"autocomplete_step_delay" json:"autoCompleteStepDelay"`
	LoopThreshold         int           `yaml:"loop_threshold" json:"loopThreshold"`

	// AllowedOrigins lists the browser origins allowed to open a socket.
	// Empty means same-origin only.
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowedOrigins"`
}

// Default returns the built-in configuration.
func Default() Config {
	rules := engine.DefaultRules()
	return Config{
		Addr:                  ":8080",
		LogLevel:              "info",
		LogFormat:             "text",
		Difficulty:            "1",
		MaxUndos:              rules.MaxUndos,
		AutoCompleteLimit:     rules.AutoCompleteLimit,
		AutoCompleteStepDelay: 120 * time.Millisecond,
		LoopThreshold:         3,
	}
}

// Load builds the configuration from defaults, the YAML file named by
// SPIDER_CONFIG (if any) and SPIDER_* overrides, then validates it.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a YAML file over the defaults and validates the result.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv(EnvDifficulty); v != "" {
		c.Difficulty = v
	}
	if v := os.Getenv(EnvMaxUndos); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxUndos, err)
		}
		c.MaxUndos = uint8(n)
	}
	if v := os.Getenv(EnvAutoCompleteLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAutoCompleteLimit, err)
		}
		c.AutoCompleteLimit = n
	}
	if v := os.Getenv(EnvAutoCompleteDelay); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAutoCompleteDelay, err)
		}
		c.AutoCompleteStepDelay = d
	}
	if v := os.Getenv(EnvLoopThreshold); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLoopThreshold, err)
		}
		c.LoopThreshold = n
	}
	if v := os.Getenv(EnvAllowedOrigins); v != "" {
		c.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}
	return nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format %q: want text or json", c.LogFormat))
	}
	if _, err := ParseDifficulty(c.Difficulty); err != nil {
		errs = append(errs, err)
	}
	if c.MaxUndos == 0 {
		errs = append(errs, errors.New("max_undos 0: want at least 1"))
	}
	if c.AutoCompleteLimit < 0 {
		errs = append(errs, fmt.Errorf("autocomplete_limit %d is negative", c.AutoCompleteLimit))
	}
	if c.AutoCompleteStepDelay < 0 {
		errs = append(errs, fmt.Errorf("autocomplete_step_delay %s is negative", c.AutoCompleteStepDelay))
	}
	if c.LoopThreshold < 1 {
		errs = append(errs, fmt.Errorf("loop_threshold %d: want at least 1", c.LoopThreshold))
	}
	return errors.Join(errs...)
}

// DefaultDifficulty returns the parsed default difficulty. It falls back to
// one suit if the config was never validated.
func (c Config) DefaultDifficulty() engine.Difficulty {
	d, err := ParseDifficulty(c.Difficulty)
	if err != nil {
		return engine.OneSuit
	}
	return d
}

// Rules returns the engine rules for new games.
func (c Config) Rules() engine.Rules {
	return engine.Rules{MaxUndos: c.MaxUndos, AutoCompleteLimit: c.AutoCompleteLimit}
}

// ParseDifficulty maps "1", "2", "4" or their names to a difficulty.
func ParseDifficulty(s string) (engine.Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "one", "easy":
		return engine.OneSuit, nil
	case "2", "two", "medium":
		return engine.TwoSuits, nil
	case "4", "four", "hard":
		return engine.FourSuits, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
}
