// Package config provides configuration types, defaults, and loading for
// workbench.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/fivemoreminix/workbench/internal/log"
	"github.com/fivemoreminix/workbench/pkg/syntax"
)

// LocalPath is the project config file, looked up relative to the working
// directory before the user config.
const LocalPath = ".workbench/config.yaml"

// ErrInvalidConfig is wrapped by every error Validate returns.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configuration options for workbench.
type Config struct {
	Appearance string          `mapstructure:"appearance"` // "light", "dark", or "auto"
	Editor     EditorConfig    `mapstructure:"editor"`
	Highlight  HighlightConfig `mapstructure:"highlight"`
	Watch      WatchConfig     `mapstructure:"watch"`
	Log        LogConfig       `mapstructure:"log"`
}

// EditorConfig holds text editing options.
type EditorConfig struct {
	TabSize     int  `mapstructure:"tab_size"`
	HardTabs    bool `mapstructure:"hard_tabs"`
	LineNumbers bool `mapstructure:"line_numbers"`
}

// HighlightConfig holds syntax highlighting options.
type HighlightConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxLength    int           `mapstructure:"max_length"` // In runes; longer content is not highlighted
	MatchTimeout time.Duration `mapstructure:"match_timeout"`
	MaskClaimed  bool          `mapstructure:"mask_claimed"` // Keep numbers and keywords out of strings and comments
}

// WatchConfig holds options for reloading open files changed on disk.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// LogConfig holds debug log options. Logging is off when Path is empty.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Appearance: "auto",
		Editor: EditorConfig{
			TabSize:     4,
			HardTabs:    true,
			LineNumbers: true,
		},
		Highlight: HighlightConfig{
			Enabled:      true,
			MaxLength:    syntax.DefaultMaxLength,
			MatchTimeout: syntax.DefaultMatchTimeout,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 200 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that every option has a usable value.
func (c Config) Validate() error {
	if err := validateAppearance(c.Appearance); err != nil {
		return err
	}
	if c.Editor.TabSize < 1 || c.Editor.TabSize > 16 {
		return fmt.Errorf("%w: editor.tab_size must be between 1 and 16, got %d", ErrInvalidConfig, c.Editor.TabSize)
	}
	if c.Highlight.MaxLength < 0 {
		return fmt.Errorf("%w: highlight.max_length must not be negative, got %d", ErrInvalidConfig, c.Highlight.MaxLength)
	}
	if c.Highlight.MatchTimeout < 0 {
		return fmt.Errorf("%w: highlight.match_timeout must not be negative, got %v", ErrInvalidConfig, c.Highlight.MatchTimeout)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce must not be negative, got %v", ErrInvalidConfig, c.Watch.Debounce)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

func validateAppearance(a string) error {
	switch a {
	case "auto", "light", "dark":
		return nil
	}
	return fmt.Errorf("%w: appearance must be \"light\", \"dark\", or \"auto\", got %q", ErrInvalidConfig, a)
}

// HighlightOptions converts the highlight section into engine options.
func (c Config) HighlightOptions() syntax.Options {
	return syntax.Options{
		MaxLength:    c.Highlight.MaxLength,
		MatchTimeout: c.Highlight.MatchTimeout,
		MaskClaimed:  c.Highlight.MaskClaimed,
	}
}

// hasDarkBackground asks the terminal for its background color.
var hasDarkBackground = lipgloss.HasDarkBackground

// ResolveAppearance turns the configured appearance into a concrete one.
// "auto" uses the background from COLORFGBG when the terminal sets it, and
// otherwise asks the terminal.
func (c Config) ResolveAppearance() syntax.Appearance {
	if a, err := syntax.ParseAppearance(c.Appearance); err == nil {
		return a
	}
	if a, ok := appearanceFromColorFGBG(os.Getenv("COLORFGBG")); ok {
		return a
	}
	if hasDarkBackground() {
		return syntax.Dark
	}
	return syntax.Light
}

// appearanceFromColorFGBG reads the background of a "fg;bg" value. ANSI
// colors 7 and 9 to 15 are light backgrounds.
func appearanceFromColorFGBG(v string) (syntax.Appearance, bool) {
	if v == "" {
		return 0, false
	}
	fields := strings.Split(v, ";")
	bg, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || bg < 0 {
		return 0, false
	}
	if bg == 7 || (bg >= 9 && bg <= 15) {
		return syntax.Light, true
	}
	return syntax.Dark, true
}

// DefaultPath returns the user config file, ~/.config/workbench/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return LocalPath
	}
	return filepath.Join(home, ".config", "workbench", "config.yaml")
}

// Load reads the configuration. The lookup order is `path` when set, then
// LocalPath, then the user config. Environment variables prefixed with
// WORKBENCH_ override the file. Finding no file is not an error: defaults
// are returned. The path of the file that was read is returned, or "".
func Load(path string) (Config, string, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix("workbench")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else if _, err := os.Stat(LocalPath); err == nil {
		v.SetConfigFile(LocalPath)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}

	log.Debug(log.CatConfig, "Loaded config", "path", v.ConfigFileUsed())
	return cfg, v.ConfigFileUsed(), nil
}

// setDefaults registers every key so environment overrides and Unmarshal see
// them even without a config file.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("appearance", d.Appearance)
	v.SetDefault("editor.tab_size", d.Editor.TabSize)
	v.SetDefault("editor.hard_tabs", d.Editor.HardTabs)
	v.SetDefault("editor.line_numbers", d.Editor.LineNumbers)
	v.SetDefault("highlight.enabled", d.Highlight.Enabled)
	v.SetDefault("highlight.max_length", d.Highlight.MaxLength)
	v.SetDefault("highlight.match_timeout", d.Highlight.MatchTimeout)
	v.SetDefault("highlight.mask_claimed", d.Highlight.MaskClaimed)
	v.SetDefault("watch.enabled", d.Watch.Enabled)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Workbench Configuration

# Color appearance: "light", "dark", or "auto" (follow the terminal)
appearance: auto

editor:
  tab_size: 4
  hard_tabs: true       # Insert '\t' instead of spaces
  line_numbers: true

highlight:
  enabled: true
  max_length: 1048576   # Content longer than this many characters is not highlighted
  match_timeout: 250ms  # A rule taking longer than this on one file is skipped
  mask_claimed: false   # Keep numbers and keywords out of strings and comments

# Reload open files when they change on disk (unless they have unsaved edits)
watch:
  enabled: true
  debounce: 200ms

# Debug log, off when path is empty
log:
  # path: /tmp/workbench.log
  level: info
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
