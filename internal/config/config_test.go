package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the XDG dirs at a temp dir and clears every
// environment override.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	for _, env := range envKeys {
		t.Setenv(env, "")
	}
	return home
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("weekly", pflag.ContinueOnError)
	fs.String("file", "", "")
	fs.String("editor", "", "")
	fs.Bool("backup", false, "")
	fs.String("log-level", "", "")
	fs.String("log-format", "", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(filepath.Join(home, "missing.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "TODO.md"), cfg.File)
	assert.Equal(t, "nvim", cfg.Editor)
	assert.False(t, cfg.Backup.Enabled)
	assert.Equal(t, 10, cfg.Backup.Keep)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, filepath.Join(home, "state", "weekly", "weekly.log"), cfg.Log.File)
	assert.Empty(t, Validate(cfg))
}

func TestDefaultPath(t *testing.T) {
	isolate(t)
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg-test")
	assert.Equal(t, "/etc/xdg-test/weekly/config.yaml", DefaultPath())
}

func TestLoadFileThenEnv(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"file: ~/notes/week.md\n"+
			"editor: hx\n"+
			"backup:\n  enabled: true\n  keep: 3\n"+
			"log:\n  level: debug\n  format: json\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes", "week.md"), cfg.File)
	assert.Equal(t, "hx", cfg.Editor)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, 3, cfg.Backup.Keep)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	t.Setenv("TODO_FILEPATH", "/tmp/env.md")
	t.Setenv("EDITOR", "vim")
	cfg, err = Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.md", cfg.File)
	assert.Equal(t, "vim", cfg.Editor)
}

func TestLoadChangedFlagsWin(t *testing.T) {
	home := isolate(t)
	t.Setenv("TODO_FILEPATH", "/tmp/env.md")
	t.Setenv("EDITOR", "vim")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--file", "/tmp/flag.md", "--log-level", "warn"}))

	cfg, err := Load(filepath.Join(home, "missing.yaml"), fs)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.md", cfg.File)
	assert.Equal(t, "vim", cfg.Editor, "unset flags do not mask the environment")
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("file: [unterminated\n"), 0o644))

	_, err := Load(path, nil)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "cfg", "weekly", "config.yaml")

	want := DefaultConfig()
	want.File = filepath.Join(home, "todo.md")
	want.Editor = "code --wait"
	want.Backup.Enabled = true
	want.Backup.Dir = filepath.Join(home, "bk")
	want.Log.Format = "json"
	require.NoError(t, Save(path, want))

	got, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.File = " "
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"

	errs := Validate(cfg)
	require.Len(t, errs, 3)
	assert.EqualError(t, errs[0], "file is required")
	assert.EqualError(t, errs[1], "invalid log level: loud")
	assert.EqualError(t, errs[2], "invalid log format: xml")
}
