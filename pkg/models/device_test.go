package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceMap_ObjectFormKeepsOrder(t *testing.T) {
	doc := `{
		"xiaomi": {
			"o66": {"id": "xmb10", "name": "Band 10", "description": "", "chip": "bes", "fetch": true},
			"n62": {"id": "xmws3", "name": "Watch S3", "description": "", "chip": "bes", "fetch": false},
			"p62": {"id": "xmws5", "name": "Watch S5", "description": "", "chip": "xring", "fetch": true}
		},
		"vivo": {}
	}`

	var m DeviceMap
	require.NoError(t, json.Unmarshal([]byte(doc), &m))

	assert.Equal(t, []string{"o66", "n62", "p62"}, m.Xiaomi.Keys())
	assert.Equal(t, 0, m.Vivo.Len())

	dev, ok := m.Xiaomi.Lookup("p62")
	require.True(t, ok)
	assert.Equal(t, "xmws5", dev.ID)
	assert.Equal(t, ChipXRing, dev.Chip)

	name, ok := m.NameByID("xmws3")
	require.True(t, ok)
	assert.Equal(t, "Watch S3", name)

	id, ok := m.IDByName("Band 10")
	require.True(t, ok)
	assert.Equal(t, "xmb10", id)

	_, ok = m.NameByID("missing")
	assert.False(t, ok)
}

func TestDeviceMap_ArrayForm(t *testing.T) {
	doc := `{"xiaomi": [{"id": "xmws4", "name": "Watch S4", "description": "d", "chip": "bes", "fetch": true}], "vivo": null}`

	var m DeviceMap
	require.NoError(t, json.Unmarshal([]byte(doc), &m))

	dev, ok := m.Xiaomi.Lookup("xmws4")
	require.True(t, ok)
	assert.Equal(t, "Watch S4", dev.Name)
	assert.Len(t, m.All(), 1)
}

func TestDeviceVendor_MarshalRoundTrip(t *testing.T) {
	v := NewDeviceVendor(
		DeviceModel{Key: "b", Device: Device{ID: "2", Name: "Two"}},
		DeviceModel{Key: "a", Device: Device{ID: "1", Name: "One"}},
	)
	data, err := json.Marshal(v)
	require.NoError(t, err)

	var back DeviceVendor
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"b", "a"}, back.Keys())
}

func TestDeviceVendor_RejectsScalar(t *testing.T) {
	var v DeviceVendor
	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &v))
}
