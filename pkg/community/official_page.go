package community

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"

	hubErrors "github.com/huanfeng/wearhub-cli/internal/errors"
	"github.com/huanfeng/wearhub-cli/pkg/cdn"
	"github.com/huanfeng/wearhub-cli/pkg/models"
)

// categoryPrefix lists the pseudo categories shown before device names
var categoryPrefix = []string{"hidden_paid", "hidden_force_paid", "quickapp", "watchface"}

// GetPage returns one page of item summaries. Sorting and chunking happen on
// the whole index; the category and keyword filters then apply within the
// selected page. A page past the end yields an empty slice.
func (p *OfficialProvider) GetPage(ctx context.Context, page, limit int, search models.SearchConfig) ([]models.Manifest, error) {
	if limit <= 0 {
		return nil, hubErrors.NewValidationError(hubErrors.CodeInvalidArgument,
			fmt.Sprintf("page size must be positive, got %d", limit))
	}

	rule := search.Sort
	if rule == "" {
		rule = models.SortTime
	}

	idx := p.index.Load()
	snap := p.pages.Load()
	if snap == nil || snap.limit != limit || snap.sort != rule || snap.generation != idx.generation {
		snap = paginate(idx, limit, rule)
		p.pages.Store(snap)
	}

	if page < 0 || page >= len(snap.pages) {
		return []models.Manifest{}, nil
	}

	c := p.CDN()
	out := make([]models.Manifest, 0, len(snap.pages[page]))
	for _, entry := range snap.pages[page] {
		if search.Category != nil && !entry.HasAnyDevice(search.Category) {
			continue
		}
		if search.Filter != nil && !entry.Matches(*search.Filter) {
			continue
		}
		out = append(out, summarize(c, entry))
	}
	return out, nil
}

func paginate(idx *indexSnapshot, limit int, rule models.SortRule) *pageSnapshot {
	entries := slices.Clone(idx.entries)

	switch rule {
	case models.SortRandom:
		rand.Shuffle(len(entries), func(i, j int) {
			entries[i], entries[j] = entries[j], entries[i]
		})
	case models.SortName:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Name < entries[j].Name
		})
	default:
		// the feed is chronological, newest last
		slices.Reverse(entries)
	}

	snap := &pageSnapshot{generation: idx.generation, limit: limit, sort: rule}
	for start := 0; start < len(entries); start += limit {
		end := min(start+limit, len(entries))
		snap.pages = append(snap.pages, entries[start:end])
	}
	return snap
}

// summarize projects an index entry into a manifest carrying only item metadata
func summarize(c cdn.CDN, e models.IndexEntry) models.Manifest {
	base := repoBaseURL(c, e)
	cover := resolveAsset(base, e.Cover)
	return models.Manifest{
		Item: models.ManifestItem{
			ID:           e.ID,
			ResourceType: e.ResourceType,
			Name:         e.Name,
			Preview:      []string{cover},
			Icon:         resolveAsset(base, e.Icon),
			Cover:        cover,
		},
		Links:     []models.ManifestLink{},
		Downloads: map[string]models.ManifestDownload{},
	}
}

// GetCategories returns the pseudo categories followed by the distinct
// Xiaomi device names
func (p *OfficialProvider) GetCategories(ctx context.Context) ([]string, error) {
	devices := p.devices.Load()

	out := slices.Clone(categoryPrefix)
	seen := make(map[string]struct{}, len(out))
	for _, c := range out {
		seen[c] = struct{}{}
	}
	for _, dev := range devices.Xiaomi.All() {
		if _, ok := seen[dev.Name]; ok {
			continue
		}
		seen[dev.Name] = struct{}{}
		out = append(out, dev.Name)
	}
	return out, nil
}
