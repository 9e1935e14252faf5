package community

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	hubErrors "github.com/huanfeng/wearhub-cli/internal/errors"
)

// CacheDir inspects and cleans a provider's download root
type CacheDir struct {
	Root string
}

// CachedFile is one file inside an item directory
type CachedFile struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	Partial bool      `json:"partial"`
}

// CachedItem is the download directory of one item
type CachedItem struct {
	ID    string       `json:"id"`
	Path  string       `json:"path"`
	Files []CachedFile `json:"files"`
	Size  int64        `json:"size"`
}

// CacheStats summarises the download root
type CacheStats struct {
	Root         string `json:"root"`
	Items        int    `json:"items"`
	Files        int    `json:"files"`
	PartialFiles int    `json:"partial_files"`
	TotalSize    int64  `json:"total_size"`
}

// Items lists item directories sorted by id. A missing root is empty.
func (d CacheDir) Items() ([]CachedItem, error) {
	entries, err := os.ReadDir(d.Root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, hubErrors.NewFileSystemError(err, "failed to read cache directory").WithContext("path", d.Root)
	}

	var items []CachedItem
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		item := CachedItem{ID: entry.Name(), Path: filepath.Join(d.Root, entry.Name())}
		files, err := os.ReadDir(item.Path)
		if err != nil {
			return nil, hubErrors.NewFileSystemError(err, "failed to read item directory").WithContext("path", item.Path)
		}
		for _, f := range files {
			if !f.Type().IsRegular() {
				continue
			}
			info, err := f.Info()
			if err != nil {
				continue
			}
			item.Files = append(item.Files, CachedFile{
				Name:    f.Name(),
				Size:    info.Size(),
				ModTime: info.ModTime(),
				Partial: strings.HasSuffix(f.Name(), partSuffix),
			})
			item.Size += info.Size()
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Stats totals Items
func (d CacheDir) Stats() (*CacheStats, error) {
	items, err := d.Items()
	if err != nil {
		return nil, err
	}
	stats := &CacheStats{Root: d.Root, Items: len(items)}
	for _, item := range items {
		stats.TotalSize += item.Size
		for _, f := range item.Files {
			stats.Files++
			if f.Partial {
				stats.PartialFiles++
			}
		}
	}
	return stats, nil
}

// ClearItem removes the download directory of one item
func (d CacheDir) ClearItem(id string) error {
	path := filepath.Join(d.Root, SanitizeFileName(id))
	if err := os.RemoveAll(path); err != nil {
		return hubErrors.NewFileSystemError(err, "failed to remove item directory").WithContext("path", path)
	}
	return nil
}

// Clear removes every item directory and returns how many were removed
func (d CacheDir) Clear() (int, error) {
	items, err := d.Items()
	if err != nil {
		return 0, err
	}

	removed := 0
	var failed []string
	for _, item := range items {
		if err := os.RemoveAll(item.Path); err != nil {
			failed = append(failed, err.Error())
			continue
		}
		removed++
	}
	if len(failed) > 0 {
		return removed, hubErrors.NewFileSystemError(
			fmt.Errorf("%s", strings.Join(failed, ", ")), "failed to remove some item directories").
			WithContext("path", d.Root)
	}
	return removed, nil
}

// Prune removes .part files last modified before olderThan ago, which are
// left behind by interrupted processes. Younger ones may belong to a
// download in flight.
func (d CacheDir) Prune(olderThan time.Duration) (int, error) {
	items, err := d.Items()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, item := range items {
		for _, f := range item.Files {
			if !f.Partial || f.ModTime.After(cutoff) {
				continue
			}
			path := filepath.Join(item.Path, f.Name)
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return removed, hubErrors.NewFileSystemError(err, "failed to remove partial file").WithContext("path", path)
			}
			removed++
		}
	}
	return removed, nil
}
