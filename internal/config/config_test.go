package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huanfeng/wearhub-cli/internal/errors"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(home))
	t.Cleanup(func() { os.Chdir(wd) })
	return home
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "raw", cfg.CDN)
	assert.Equal(t, "https://raw.githubusercontent.com/AstralSightStudios/AstroBox-Repo/main", cfg.RemoteRoot)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.NotEmpty(t, cfg.CacheDir)
}

func TestLoad_FileAndEnv(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"cdn: ghfast\npage_size: 5\ncache_dir: ~/wh\nhttp:\n  timeout: 5s\nlog:\n  level: debug\n"), 0644))
	t.Setenv("WEARHUB_PAGE_SIZE", "7")
	t.Setenv("WEARHUB_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ghfast", cfg.CDN)
	assert.Equal(t, 7, cfg.PageSize)
	assert.Equal(t, filepath.Join(home, "wh"), cfg.CacheDir)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_SearchPath(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "wearhub")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wearhub.yaml"), []byte("lang: zh\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "zh", cfg.Lang)
}

func TestLoad_Invalid(t *testing.T) {
	home := isolate(t)

	_, err := Load(filepath.Join(home, "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(home, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: 0\n"), 0644))
	_, err = Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
}

func TestSaveTemplate_RoundTrip(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "conf", "wearhub.yaml")

	require.NoError(t, SaveTemplate(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# WearHub configuration file")
	assert.Contains(t, string(data), "timeout: 30s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
