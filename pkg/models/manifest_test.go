package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectDownload_FallbackOrder(t *testing.T) {
	m := &Manifest{Downloads: map[string]ManifestDownload{
		"xmws5":   {FileName: "s5.bin"},
		"default": {FileName: "any.bin"},
		"aaa":     {FileName: "aaa.bin"},
	}}

	key, dl, ok := m.SelectDownload("xmws5")
	assert.True(t, ok)
	assert.Equal(t, "xmws5", key)
	assert.Equal(t, "s5.bin", dl.FileName)

	key, dl, ok = m.SelectDownload("xmb10")
	assert.True(t, ok)
	assert.Equal(t, "default", key)
	assert.Equal(t, "any.bin", dl.FileName)

	delete(m.Downloads, "default")
	key, _, ok = m.SelectDownload("xmb10")
	assert.True(t, ok)
	assert.Equal(t, "aaa", key)

	empty := &Manifest{}
	_, _, ok = empty.SelectDownload("xmb10")
	assert.False(t, ok)
}

func TestClone_IsDeep(t *testing.T) {
	m := &Manifest{
		Item:      ManifestItem{Preview: []string{"a"}},
		Downloads: map[string]ManifestDownload{"k": {UpdateLogs: []UpdateLog{{Version: "1"}}}},
	}
	c := m.Clone()
	c.Item.Preview[0] = "b"
	c.Downloads["k"].UpdateLogs[0].Version = "2"
	c.Downloads["new"] = ManifestDownload{}

	assert.Equal(t, "a", m.Item.Preview[0])
	assert.Equal(t, "1", m.Downloads["k"].UpdateLogs[0].Version)
	assert.Len(t, m.Downloads, 1)
}

func TestSortedUpdateLogs(t *testing.T) {
	d := ManifestDownload{UpdateLogs: []UpdateLog{
		{Version: "1.2.0"},
		{Version: "beta"},
		{Version: "1.10.0"},
		{Version: "v1.9"},
	}}

	var got []string
	for _, l := range d.SortedUpdateLogs() {
		got = append(got, l.Version)
	}
	assert.Equal(t, []string{"1.10.0", "v1.9", "1.2.0", "beta"}, got)
}

func TestParseSortRule(t *testing.T) {
	r, err := ParseSortRule("Name")
	assert.NoError(t, err)
	assert.Equal(t, SortName, r)

	r, err = ParseSortRule("")
	assert.NoError(t, err)
	assert.Equal(t, SortTime, r)

	_, err = ParseSortRule("size")
	assert.Error(t, err)
}

func TestProviderStateString(t *testing.T) {
	assert.Equal(t, "ready", Ready().String())
	assert.Equal(t, "failed: boom", Failed("boom").String())
}
