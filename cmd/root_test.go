package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huanfeng/wearhub-cli/internal/i18n"
)

const cliIndex = "id,name,restype,repo_owner,repo_name,repo_commit_hash,icon,cover,tags,device_vendors,devices,paid_type\n" +
	"w1,Blue,watchface,alice,faces,abc,icon.png,cover.png,,xiaomi,o66,\n" +
	"q1,Timer,quickapp,bob,apps,def,icon.png,cover.png,,xiaomi,o66,\n"

const cliDevices = `{"xiaomi": {"o66": {"id": "xmb10", "name": "Xiaomi Smart Band 10", "description": "", "chip": "bes", "fetch": true}}}`

// runCLI executes the root command against a local repository root
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	defer shutdown()
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setupCLI(t *testing.T) string {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/index_v2.csv", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(cliIndex)) })
	mux.HandleFunc("/devices_v2.json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(cliDevices)) })
	mux.HandleFunc("/explore_v2.json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"banners":[]}`)) })
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv(i18n.LangEnv, "en")
	t.Setenv("WEARHUB_REMOTE_ROOT", server.URL)
	t.Setenv("WEARHUB_CACHE_DIR", filepath.Join(home, "cache"))
	require.NoError(t, i18n.Init("en"))
	return home
}

func TestCLI_UpdateAndList(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "update")
	require.NoError(t, err)
	assert.Contains(t, out, "Index updated: 2 items via raw")

	out, err = runCLI(t, "list", "--sort", "name")
	require.NoError(t, err)
	assert.Contains(t, out, "w1")
	assert.Contains(t, out, "Timer")
	assert.Contains(t, out, "Page 1, 2 shown, 2 items in index")
}

func TestCLI_SearchJSON(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "search", "Blu", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "w1"`)
	assert.NotContains(t, out, "q1")
}

func TestCLI_Categories(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "watchface")
	assert.Contains(t, out, "Xiaomi Smart Band 10")
}

func TestCLI_InvalidSort(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "list", "--sort", "size")
	require.Error(t, err)
}

func TestCLI_ConfigInit(t *testing.T) {
	home := setupCLI(t)
	path := filepath.Join(home, "conf", "wearhub.yaml")

	out, err := runCLI(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = runCLI(t, "config", "init", path)
	require.Error(t, err, "existing file needs --force")

	_, err = runCLI(t, "config", "init", path, "--force")
	require.NoError(t, err)
}

func TestCLI_CacheInfoEmpty(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "cache", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "The download cache is empty.")
}

func TestExecute_ClosesAppWhenCommandFails(t *testing.T) {
	setupCLI(t)

	var seen *appContext
	failing := &cobra.Command{
		Use: "always-fails",
		RunE: func(cmd *cobra.Command, args []string) error {
			seen = app
			return errors.New("boom")
		},
	}
	rootCmd.AddCommand(failing)
	rootCmd.SetArgs([]string{"always-fails"})
	t.Cleanup(func() {
		rootCmd.RemoveCommand(failing)
		rootCmd.SetArgs(nil)
	})

	err := execute(context.Background())
	require.EqualError(t, err, "boom")
	require.NotNil(t, seen)
	assert.True(t, seen.closed)
	assert.Nil(t, app)
}
