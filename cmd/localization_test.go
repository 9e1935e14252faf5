package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huanfeng/wearhub-cli/internal/i18n"
)

func TestFlagMessageID(t *testing.T) {
	assert.Equal(t, "flags.config", flagMessageID("config"))
	assert.Equal(t, "flags.noProgress", flagMessageID("no-progress"))
	assert.Equal(t, "flags.olderThan", flagMessageID("older-than"))
	assert.Equal(t, "flags.logFormat", flagMessageID("log-format"))
}

func TestCommandMessagePrefix(t *testing.T) {
	assert.Equal(t, "cmd.root", commandMessagePrefix(rootCmd))
	assert.Equal(t, "cmd.download", commandMessagePrefix(downloadCmd))
	assert.Equal(t, "cmd.cache.prune", commandMessagePrefix(cachePruneCmd))
	assert.Equal(t, "cmd.config.init", commandMessagePrefix(configInitCmd))
}

func TestApplyCommandLocalization(t *testing.T) {
	t.Setenv(i18n.LangEnv, "")
	require.NoError(t, i18n.Init("zh"))
	t.Cleanup(func() {
		_ = i18n.Init("en")
		applyCommandLocalization()
	})

	applyCommandLocalization()
	assert.Equal(t, "下载资源", downloadCmd.Short)
	assert.Equal(t, "删除过期的未完成下载", cachePruneCmd.Short)
	assert.Equal(t, "不显示进度条", downloadCmd.Flags().Lookup("no-progress").Usage)
	assert.Equal(t, "启用调试日志", rootCmd.PersistentFlags().Lookup("debug").Usage)
}

func TestScanFlag(t *testing.T) {
	args := []string{"list", "--lang", "zh", "--config=/tmp/w.yaml", "--", "--lang", "en"}
	assert.Equal(t, "zh", scanFlag(args, "lang"))
	assert.Equal(t, "/tmp/w.yaml", scanFlag(args, "config"))
	assert.Empty(t, scanFlag(args, "cdn"))
	assert.Empty(t, scanFlag([]string{"--lang"}, "lang"))
}
