package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huanfeng/wearhub-cli/pkg/models"
)

func TestLegacyDeviceKey(t *testing.T) {
	assert.Equal(t, "xmws3", LegacyDeviceKey("n62"))
	assert.Equal(t, "xmb10nfc", LegacyDeviceKey("o66nfc"))
	assert.Equal(t, "xmrw6", LegacyDeviceKey("p65"))
	assert.Equal(t, "xmws5", LegacyDeviceKey("xmws5"))
	assert.Equal(t, "mystery", LegacyDeviceKey("mystery"))
}

func TestConvertV1ToV2(t *testing.T) {
	doc := `{
	  "item": {
	    "id": "old",
	    "name": "Old Face",
	    "description": "legacy",
	    "preview": ["a.png", 3, "b.png"],
	    "icon": "icon.png",
	    "author": [{"name": "bob", "bindABAccount": true}, {"name": "eve"}]
	  },
	  "links": [
	    {"title": "", "url": ""},
	    {"title": "Site", "url": "https://example.com", "icon": ""},
	    {"title": "Repo", "url": "https://git.example.com", "icon": "gh.png"}
	  ],
	  "downloads": {
	    "o62m": {
	      "version": "2.0",
	      "file_name": "face.bin",
	      "url": "https://example.com/face.bin",
	      "updatelogs": [
	        {"version": "2.0", "content": "new"},
	        {"version": "1.0"},
	        {"content": "orphan"},
	        {"version": 1, "content": "numeric"}
	      ]
	    },
	    "abc": {"version": "1.0", "file_name": "x.bin", "updatelogs": [{"version": "1.0"}]}
	  },
	  "ext": {"k": [1, 2]}
	}`

	m, err := ConvertV1ToV2([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "old", m.Item.ID)
	assert.Equal(t, []string{"a.png", "b.png"}, m.Item.Preview)
	assert.Equal(t, "icon.png", m.Item.Cover)
	assert.Equal(t, []models.ManifestAuthor{
		{Name: "bob", BoundAccount: true},
		{Name: "eve"},
	}, m.Item.Author)

	require.Len(t, m.Links, 2)
	assert.Nil(t, m.Links[0].Icon)
	require.NotNil(t, m.Links[1].Icon)
	assert.Equal(t, "gh.png", *m.Links[1].Icon)

	assert.Equal(t, []string{"abc", "xmws4xring"}, m.DownloadKeys())
	dl := m.Downloads["xmws4xring"]
	assert.Equal(t, "face.bin", dl.FileName)
	require.NotNil(t, dl.URL)
	assert.Nil(t, dl.SHA256)
	assert.Equal(t, []models.UpdateLog{{Version: "2.0", Content: "new"}}, dl.UpdateLogs)
	assert.Nil(t, m.Downloads["abc"].UpdateLogs)

	assert.JSONEq(t, `{"k":[1,2]}`, string(m.Ext))
}

func TestConvertV1ToV2_Defaults(t *testing.T) {
	m, err := ConvertV1ToV2([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, m.Item.ID)
	assert.Empty(t, m.Item.Cover)
	assert.Empty(t, m.Links)
	assert.Empty(t, m.Downloads)
	assert.Equal(t, "null", string(m.Ext))

	m, err = ConvertV1ToV2([]byte(`{"item": {"icon": "i.png", "cover": ""}}`))
	require.NoError(t, err)
	assert.Equal(t, "", m.Item.Cover)
}

func TestConvertV1ToV2_RejectsNonObjects(t *testing.T) {
	_, err := ConvertV1ToV2([]byte(`[1, 2]`))
	assert.Error(t, err)
	_, err = ConvertV1ToV2([]byte(`{`))
	assert.Error(t, err)
}
