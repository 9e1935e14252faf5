package models

import (
	"encoding/json"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// Manifest is the v2 per-item document (manifest_v2.json)
type Manifest struct {
	Item      ManifestItem                `json:"item"`
	Links     []ManifestLink              `json:"links"`
	Downloads map[string]ManifestDownload `json:"downloads"`
	Ext       json.RawMessage             `json:"ext,omitempty"`
}

// ManifestItem holds display metadata for an item
type ManifestItem struct {
	ID           string           `json:"id"`
	ResourceType ResourceType     `json:"restype,omitempty"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Preview      []string         `json:"preview"`
	Icon         string           `json:"icon"`
	Cover        string           `json:"cover"`
	Author       []ManifestAuthor `json:"author"`
}

// ManifestAuthor is one credited author
type ManifestAuthor struct {
	Name         string `json:"name"`
	BoundAccount bool   `json:"bindABAccount"`
}

// ManifestLink is an external link shown with the item
type ManifestLink struct {
	Icon  *string `json:"icon,omitempty"`
	Title string  `json:"title"`
	URL   string  `json:"url"`
}

// ManifestDownload is the artifact for one device key
type ManifestDownload struct {
	Version     string      `json:"version"`
	FileName    string      `json:"file_name"`
	URL         *string     `json:"url,omitempty"`
	SHA256      *string     `json:"sha256,omitempty"`
	DisplayName *string     `json:"display_name,omitempty"`
	UpdateLogs  []UpdateLog `json:"updatelogs,omitempty"`
}

// UpdateLog is a changelog entry of a download
type UpdateLog struct {
	Version string `json:"version"`
	Content string `json:"content"`
}

// DefaultDownloadKey is the catch-all device key in a download map
const DefaultDownloadKey = "default"

// DownloadKeys returns the download map keys in sorted order
func (m *Manifest) DownloadKeys() []string {
	keys := make([]string, 0, len(m.Downloads))
	for k := range m.Downloads {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SelectDownload picks the entry for device, falling back to "default" and
// then to the first key in sorted order. ok is false only for an empty map.
func (m *Manifest) SelectDownload(device string) (key string, dl ManifestDownload, ok bool) {
	if d, found := m.Downloads[device]; found {
		return device, d, true
	}
	if d, found := m.Downloads[DefaultDownloadKey]; found {
		return DefaultDownloadKey, d, true
	}
	keys := m.DownloadKeys()
	if len(keys) == 0 {
		return "", ManifestDownload{}, false
	}
	return keys[0], m.Downloads[keys[0]], true
}

// Clone returns a deep copy that can be modified without touching m
func (m *Manifest) Clone() *Manifest {
	out := &Manifest{
		Item:  m.Item,
		Links: append([]ManifestLink(nil), m.Links...),
		Ext:   append(json.RawMessage(nil), m.Ext...),
	}
	out.Item.Preview = append([]string(nil), m.Item.Preview...)
	out.Item.Author = append([]ManifestAuthor(nil), m.Item.Author...)
	if m.Downloads != nil {
		out.Downloads = make(map[string]ManifestDownload, len(m.Downloads))
		for k, d := range m.Downloads {
			d.UpdateLogs = append([]UpdateLog(nil), d.UpdateLogs...)
			out.Downloads[k] = d
		}
	}
	return out
}

// SortedUpdateLogs returns the update logs newest first. Versions that parse as
// semver are ordered semantically; the rest fall back to string order.
func (d ManifestDownload) SortedUpdateLogs() []UpdateLog {
	logs := append([]UpdateLog(nil), d.UpdateLogs...)
	sort.SliceStable(logs, func(i, j int) bool {
		vi, errI := semver.NewVersion(logs[i].Version)
		vj, errJ := semver.NewVersion(logs[j].Version)
		switch {
		case errI == nil && errJ == nil:
			return vi.GreaterThan(vj)
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return logs[i].Version > logs[j].Version
		}
	})
	return logs
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
