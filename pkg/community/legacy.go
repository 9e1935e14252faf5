package community

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/huanfeng/wearhub-cli/pkg/models"
)

// legacyDeviceKeys maps v1 hardware codes to canonical device keys.
// The v1 format is frozen so this table does not grow.
var legacyDeviceKeys = map[string]string{
	// Xiaomi Watch S3
	"n62": "xmws3",
	// Xiaomi Watch S4
	"o62":  "xmws4",
	"o62m": "xmws4xring",
	// Xiaomi Watch S5
	"p62":  "xmws5",
	"p62m": "xmws5xring",
	// REDMI Watch 5
	"o65":  "xmrw5",
	"o65m": "xmrw5xring",
	// Xiaomi Smart Band
	"n66":    "xmb9",
	"n67":    "xmb9p",
	"o66":    "xmb10",
	"o66nfc": "xmb10nfc",
	// REDMI Watch 6
	"p65": "xmrw6",
}

// LegacyDeviceKey translates a v1 download key. Unknown keys pass through.
func LegacyDeviceKey(key string) string {
	if mapped, ok := legacyDeviceKeys[key]; ok {
		return mapped
	}
	return key
}

// ConvertV1ToV2 decodes a legacy manifest.json document into the v2 shape
func ConvertV1ToV2(doc []byte) (*models.Manifest, error) {
	var raw any
	if err := sonic.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("decode legacy manifest: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode legacy manifest: expected a JSON object, got %T", raw)
	}
	return ConvertV1ToV2Value(obj), nil
}

// ConvertV1ToV2Value converts an already decoded legacy document. Missing or
// mistyped fields take their zero values.
func ConvertV1ToV2Value(doc map[string]any) *models.Manifest {
	item := objectField(doc, "item")

	m := &models.Manifest{
		Item: models.ManifestItem{
			ID:          stringField(item, "id"),
			Name:        stringField(item, "name"),
			Description: stringField(item, "description"),
			Preview:     stringList(item["preview"]),
			Icon:        stringField(item, "icon"),
		},
		Links:     []models.ManifestLink{},
		Downloads: map[string]models.ManifestDownload{},
		Ext:       json.RawMessage("null"),
	}

	if cover, ok := item["cover"].(string); ok {
		m.Item.Cover = cover
	} else {
		m.Item.Cover = m.Item.Icon
	}

	if authors, ok := item["author"].([]any); ok {
		for _, a := range authors {
			author, _ := a.(map[string]any)
			bound, _ := author["bindABAccount"].(bool)
			m.Item.Author = append(m.Item.Author, models.ManifestAuthor{
				Name:         stringField(author, "name"),
				BoundAccount: bound,
			})
		}
	}

	if links, ok := doc["links"].([]any); ok {
		for _, l := range links {
			link, _ := l.(map[string]any)
			title, url := stringField(link, "title"), stringField(link, "url")
			if title == "" && url == "" {
				continue
			}
			out := models.ManifestLink{Title: title, URL: url}
			if icon := stringField(link, "icon"); icon != "" {
				out.Icon = models.StringPtr(icon)
			}
			m.Links = append(m.Links, out)
		}
	}

	for key, v := range objectField(doc, "downloads") {
		entry, _ := v.(map[string]any)
		m.Downloads[LegacyDeviceKey(key)] = models.ManifestDownload{
			Version:     stringField(entry, "version"),
			FileName:    stringField(entry, "file_name"),
			URL:         optionalString(entry, "url"),
			SHA256:      optionalString(entry, "sha256"),
			DisplayName: optionalString(entry, "display_name"),
			UpdateLogs:  legacyUpdateLogs(entry["updatelogs"]),
		}
	}

	if ext, ok := doc["ext"]; ok {
		if data, err := sonic.Marshal(ext); err == nil {
			m.Ext = data
		}
	}

	return m
}

// legacyUpdateLogs keeps entries that carry both a version and a content string
func legacyUpdateLogs(v any) []models.UpdateLog {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var logs []models.UpdateLog
	for _, e := range arr {
		entry, _ := e.(map[string]any)
		version, vok := entry["version"].(string)
		content, cok := entry["content"].(string)
		if !vok || !cok {
			continue
		}
		logs = append(logs, models.UpdateLog{Version: version, Content: content})
	}
	return logs
}

func objectField(obj map[string]any, key string) map[string]any {
	v, _ := obj[key].(map[string]any)
	return v
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func optionalString(obj map[string]any, key string) *string {
	if s, ok := obj[key].(string); ok {
		return &s
	}
	return nil
}

func stringList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
