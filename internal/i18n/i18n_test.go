package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestInit_Override(t *testing.T) {
	t.Setenv(LangEnv, "")

	require.NoError(t, Init("zh"))
	assert.Equal(t, language.Chinese, CurrentLanguage())
	assert.Equal(t, "刷新资源索引", T("cmd.update.short"))

	require.NoError(t, Init("en"))
	assert.Equal(t, language.English, CurrentLanguage())
	assert.Equal(t, "Refresh the content index", T("cmd.update.short"))
}

func TestInit_EnvironmentFallback(t *testing.T) {
	t.Setenv(LangEnv, "zh_CN.UTF-8")

	require.NoError(t, Init(""))
	assert.Equal(t, language.Chinese, CurrentLanguage())

	require.NoError(t, Init("en-US"))
	assert.Equal(t, language.English, CurrentLanguage(), "explicit override wins")
}

func TestInit_UnsupportedLanguage(t *testing.T) {
	t.Setenv(LangEnv, "")

	require.NoError(t, Init("fr"))
	assert.Equal(t, language.English, CurrentLanguage())
}

func TestT_UnknownID(t *testing.T) {
	require.NoError(t, Init("en"))
	assert.Equal(t, "no.such.message", T("no.such.message"))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	ids := []string{
		"cmd.root.short", "cmd.list.footer", "cmd.info.desc", "cmd.cache.info.short",
		"cmd.config.init.short", "flags.olderThan", "table.ident",
	}
	for _, lang := range []string{"en", "zh"} {
		require.NoError(t, Init(lang))
		for _, id := range ids {
			assert.NotEqual(t, id, T(id), "%s missing in %s", id, lang)
		}
	}
}

func TestParseLocale(t *testing.T) {
	cases := map[string]struct {
		want language.Tag
		ok   bool
	}{
		"zh_CN.UTF-8": {language.MustParse("zh-CN"), true},
		"en_US@euro":  {language.MustParse("en-US"), true},
		"C":           {language.Tag{}, false},
		"POSIX":       {language.Tag{}, false},
		"":            {language.Tag{}, false},
	}
	for in, tc := range cases {
		got, ok := parseLocale(in)
		assert.Equal(t, tc.ok, ok, in)
		if tc.ok {
			assert.Equal(t, tc.want, got, in)
		}
	}
}
