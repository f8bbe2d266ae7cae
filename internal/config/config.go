// Package config loads runtime settings for the personform binaries from
// built-in defaults, an optional YAML file, an optional .env file and
// PERSONFORM_* environment variables, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-personform/pkg/render"
	"github.com/goliatone/go-personform/pkg/submit"
	"github.com/goliatone/go-personform/pkg/validation"
)

// Config holds all application configuration values.
type Config struct {
	Submit     SubmitConfig     `yaml:"submit"`
	Validation ValidationConfig `yaml:"validation"`
	Output     OutputConfig     `yaml:"output"`
	Log        LogConfig        `yaml:"log"`
	HTTP       HTTPConfig       `yaml:"http"`
}

// SubmitConfig controls the simulated save.
type SubmitConfig struct {
	// Delay before a submission completes. ENV: PERSONFORM_SUBMIT_DELAY
	Delay time.Duration `yaml:"delay" env:"PERSONFORM_SUBMIT_DELAY"`
}

// ValidationConfig controls the password sentinel rule.
type ValidationConfig struct {
	// ENV: PERSONFORM_PASSWORD_SENTINEL
	PasswordSentinel string `yaml:"password_sentinel" env:"PERSONFORM_PASSWORD_SENTINEL"`
	// ENV: PERSONFORM_REQUIRE_SENTINEL
	RequireSentinel bool `yaml:"require_sentinel" env:"PERSONFORM_REQUIRE_SENTINEL"`
}

// OutputConfig selects how submitted values are printed by the CLI.
type OutputConfig struct {
	// json, form or pretty. ENV: PERSONFORM_OUTPUT_FORMAT
	Format string `yaml:"format" env:"PERSONFORM_OUTPUT_FORMAT"`
}

// LogConfig sets the slog level.
type LogConfig struct {
	// debug, info, warn or error. ENV: PERSONFORM_LOG_LEVEL
	Level string `yaml:"level" env:"PERSONFORM_LOG_LEVEL"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	// ENV: PERSONFORM_HTTP_ADDR
	Addr string `yaml:"addr" env:"PERSONFORM_HTTP_ADDR"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Submit: SubmitConfig{Delay: submit.DefaultDelay},
		Validation: ValidationConfig{
			PasswordSentinel: validation.DefaultPasswordSentinel,
			RequireSentinel:  true,
		},
		Output: OutputConfig{Format: string(render.OutputFormatJSON)},
		Log:    LogConfig{Level: "info"},
		HTTP:   HTTPConfig{Addr: ":8080"},
	}
}

// Load layers file (when non-empty) and the environment over Default. Each
// dotenv path is loaded into the process environment first; missing dotenv
// files are skipped, existing variables are never overwritten.
func Load(file string, dotenv ...string) (Config, error) {
	cfg := Default()

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", file, err)
		}
	}

	for _, path := range dotenv {
		if path == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate rejects settings the binaries cannot honour.
func (c Config) Validate() error {
	var errs []error
	if c.Submit.Delay < 0 {
		errs = append(errs, fmt.Errorf("config: submit.delay must not be negative, got %s", c.Submit.Delay))
	}
	if _, err := render.ParseOutputFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("config: output.format: %w", err))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Validation.RequireSentinel && strings.TrimSpace(c.Validation.PasswordSentinel) == "" {
		errs = append(errs, errors.New("config: validation.password_sentinel is required when require_sentinel is set"))
	}
	return errors.Join(errs...)
}

// LogLevel parses Log.Level; an empty level means info.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(c.Log.Level) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}

// OutputFormat returns the parsed output format, defaulting to JSON.
func (c Config) OutputFormat() render.OutputFormat {
	format, err := render.ParseOutputFormat(c.Output.Format)
	if err != nil {
		return render.OutputFormatJSON
	}
	return format
}

// SchemaOptions translates the validation settings into schema options.
func (c Config) SchemaOptions() []validation.Option {
	if !c.Validation.RequireSentinel {
		return []validation.Option{validation.WithoutPasswordSentinel()}
	}
	return []validation.Option{validation.WithPasswordSentinel(c.Validation.PasswordSentinel)}
}

// Sentinel reports the active sentinel, or "" when the rule is disabled.
func (c Config) Sentinel() string {
	if !c.Validation.RequireSentinel {
		return ""
	}
	return c.Validation.PasswordSentinel
}
