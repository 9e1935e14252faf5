package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ChipKind is the SoC family of a device
type ChipKind string

const (
	ChipXRing ChipKind = "xring"
	ChipBes   ChipKind = "bes"
)

// Device is one entry of devices_v2.json
type Device struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Chip        ChipKind `json:"chip"`
	Fetch       bool     `json:"fetch"`
}

// DeviceVendor keeps a vendor's devices keyed by model key in document order
type DeviceVendor struct {
	keys    []string
	devices map[string]Device
}

// NewDeviceVendor builds a vendor bucket from (model key, device) pairs
func NewDeviceVendor(pairs ...DeviceModel) DeviceVendor {
	var v DeviceVendor
	for _, p := range pairs {
		v.put(p.Key, p.Device)
	}
	return v
}

// DeviceModel pairs a vendor model key with its device
type DeviceModel struct {
	Key    string
	Device Device
}

func (v *DeviceVendor) put(key string, dev Device) {
	if v.devices == nil {
		v.devices = make(map[string]Device)
	}
	if _, exists := v.devices[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.devices[key] = dev
}

// Lookup finds a device by its vendor model key
func (v DeviceVendor) Lookup(modelKey string) (Device, bool) {
	dev, ok := v.devices[modelKey]
	return dev, ok
}

// Keys returns model keys in document order
func (v DeviceVendor) Keys() []string {
	return append([]string(nil), v.keys...)
}

// All returns devices in document order
func (v DeviceVendor) All() []Device {
	out := make([]Device, 0, len(v.keys))
	for _, k := range v.keys {
		out = append(out, v.devices[k])
	}
	return out
}

// Len returns the number of devices
func (v DeviceVendor) Len() int {
	return len(v.keys)
}

// UnmarshalJSON accepts either {"model_key": {...}} or a plain array of devices.
// Array members are keyed by device id.
func (v *DeviceVendor) UnmarshalJSON(data []byte) error {
	*v = DeviceVendor{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '[' {
		var list []Device
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		for _, dev := range list {
			v.put(dev.ID, dev)
		}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("device vendor: expected object or array, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("device vendor: unexpected key %v", keyTok)
		}
		var dev Device
		if err := dec.Decode(&dev); err != nil {
			return fmt.Errorf("device vendor: model %q: %w", key, err)
		}
		v.put(key, dev)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON writes the bucket back as an ordered object
func (v DeviceVendor) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range v.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v.devices[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DeviceMap is the decoded devices_v2.json document
type DeviceMap struct {
	Xiaomi DeviceVendor `json:"xiaomi"`
	Vivo   DeviceVendor `json:"vivo"`
}

// All returns every device, Xiaomi first
func (m DeviceMap) All() []Device {
	return append(m.Xiaomi.All(), m.Vivo.All()...)
}

// NameByID returns the display name of the device with the given id
func (m DeviceMap) NameByID(id string) (string, bool) {
	for _, dev := range m.All() {
		if dev.ID == id {
			return dev.Name, true
		}
	}
	return "", false
}

// IDByName returns the id of the first device carrying the given display name
func (m DeviceMap) IDByName(name string) (string, bool) {
	for _, dev := range m.All() {
		if dev.Name == name {
			return dev.ID, true
		}
	}
	return "", false
}
