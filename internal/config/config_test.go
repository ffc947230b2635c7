package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fivemoreminix/workbench/pkg/syntax"
)

// chdir changes the working directory to dir for the rest of the test, like
// testing.T.Chdir (Go 1.24), restoring the previous one on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults_Valid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"appearance", func(c *Config) { c.Appearance = "sepia" }},
		{"tab size zero", func(c *Config) { c.Editor.TabSize = 0 }},
		{"tab size large", func(c *Config) { c.Editor.TabSize = 17 }},
		{"max length", func(c *Config) { c.Highlight.MaxLength = -1 }},
		{"match timeout", func(c *Config) { c.Highlight.MatchTimeout = -time.Second }},
		{"debounce", func(c *Config) { c.Watch.Debounce = -time.Second }},
		{"log level", func(c *Config) { c.Log.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
appearance: light
editor:
  tab_size: 2
  hard_tabs: false
highlight:
  match_timeout: 50ms
  mask_claimed: true
watch:
  enabled: false
`)

	cfg, used, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, used)

	require.Equal(t, "light", cfg.Appearance)
	require.Equal(t, 2, cfg.Editor.TabSize)
	require.False(t, cfg.Editor.HardTabs)
	require.True(t, cfg.Editor.LineNumbers, "unset keys keep their defaults")
	require.Equal(t, 50*time.Millisecond, cfg.Highlight.MatchTimeout)
	require.True(t, cfg.Highlight.MaskClaimed)
	require.Equal(t, syntax.DefaultMaxLength, cfg.Highlight.MaxLength)
	require.False(t, cfg.Watch.Enabled)
	require.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "appearance: light\n")
	t.Setenv("WORKBENCH_APPEARANCE", "dark")
	t.Setenv("WORKBENCH_EDITOR_TAB_SIZE", "8")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "dark", cfg.Appearance)
	require.Equal(t, 8, cfg.Editor.TabSize)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "editor:\n  tab_size: 0\n")

	_, _, err := Load(path)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, used, err := Load("")
	require.NoError(t, err)
	require.Empty(t, used)
	require.Equal(t, Defaults(), cfg)
}

func TestLoad_LocalFileFirst(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".workbench"), 0o750))
	writeFile(t, dir, LocalPath, "appearance: dark\n")

	cfg, used, err := Load("")
	require.NoError(t, err)
	require.Equal(t, LocalPath, used)
	require.Equal(t, "dark", cfg.Appearance)
}

func TestResolveAppearance(t *testing.T) {
	orig := hasDarkBackground
	t.Cleanup(func() { hasDarkBackground = orig })
	hasDarkBackground = func() bool { return false }

	tests := []struct {
		appearance string
		colorfgbg  string
		want       syntax.Appearance
	}{
		{"light", "15;0", syntax.Light},
		{"dark", "0;15", syntax.Dark},
		{"auto", "15;0", syntax.Dark},
		{"auto", "0;15", syntax.Light},
		{"auto", "0;default;7", syntax.Light},
		{"auto", "", syntax.Light},       // Asks the terminal
		{"auto", "garbage", syntax.Light}, // Asks the terminal
	}
	for _, tt := range tests {
		t.Run(tt.appearance+"/"+tt.colorfgbg, func(t *testing.T) {
			t.Setenv("COLORFGBG", tt.colorfgbg)
			cfg := Defaults()
			cfg.Appearance = tt.appearance
			require.Equal(t, tt.want, cfg.ResolveAppearance())
		})
	}
}

func TestHighlightOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Highlight.MaskClaimed = true
	require.Equal(t, syntax.Options{
		MaxLength:    syntax.DefaultMaxLength,
		MatchTimeout: syntax.DefaultMatchTimeout,
		MaskClaimed:  true,
	}, cfg.HighlightOptions())
}

func TestWriteDefaultConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	cfg, _, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}
