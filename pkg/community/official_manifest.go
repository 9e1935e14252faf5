package community

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	hubErrors "github.com/huanfeng/wearhub-cli/internal/errors"
	"github.com/huanfeng/wearhub-cli/pkg/cdn"
	"github.com/huanfeng/wearhub-cli/pkg/models"
)

// GetItemManifest fetches the manifest of an indexed item with asset URLs
// resolved and device display names attached
func (p *OfficialProvider) GetItemManifest(ctx context.Context, itemID string) (*models.Manifest, error) {
	entry, ok := p.Entry(itemID)
	if !ok {
		return nil, itemNotFound(itemID)
	}

	c := p.CDN()
	shared, err := p.manifest(ctx, c, entry)
	if err != nil {
		return nil, err
	}

	m := shared.Clone()
	base := repoBaseURL(c, entry)

	if m.Item.ID == "" {
		m.Item.ID = entry.ID
	}
	if m.Item.ResourceType == "" {
		m.Item.ResourceType = entry.ResourceType
	}
	if m.Item.Icon == "" {
		m.Item.Icon = entry.Icon
	}
	if m.Item.Cover == "" {
		m.Item.Cover = entry.Cover
	}
	m.Item.Icon = resolveAsset(base, m.Item.Icon)
	m.Item.Cover = resolveAsset(base, m.Item.Cover)
	for i, preview := range m.Item.Preview {
		m.Item.Preview[i] = resolveAsset(base, preview)
	}

	devices := p.devices.Load()
	for key, dl := range m.Downloads {
		if name, ok := devices.NameByID(key); ok {
			dl.DisplayName = models.StringPtr(name)
			m.Downloads[key] = dl
		}
	}

	return m, nil
}

// manifest returns the raw manifest of entry. Results are memoised per
// commit, which is immutable; callers must Clone before modifying. A caller
// giving up does not fail others waiting on the same commit.
func (p *OfficialProvider) manifest(ctx context.Context, c cdn.CDN, entry models.IndexEntry) (*models.Manifest, error) {
	key := entry.RepoOwner + "/" + entry.RepoName + "/" + entry.RepoCommitHash
	m, err := p.manifests.ComputeIfAbsentContext(ctx, key, func(loadCtx context.Context) (*models.Manifest, error) {
		return p.loadManifest(loadCtx, c, entry)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, hubErrors.WrapError(ctxErr, hubErrors.ErrorTypeTimeout, hubErrors.CodeDownloadCancelled, "request aborted").
				WithContext("item", entry.ID)
		}
		return nil, err
	}
	return m, nil
}

func (p *OfficialProvider) loadManifest(ctx context.Context, c cdn.CDN, entry models.IndexEntry) (*models.Manifest, error) {
	base := repoBaseURL(c, entry)

	url := base + "/" + manifestFile
	body, err := p.fetcher.get(ctx, url)
	if err == nil {
		var m models.Manifest
		if err := sonic.Unmarshal(body, &m); err != nil {
			return nil, hubErrors.NewParsingError(err, "failed to parse manifest").
				WithContext("url", url).
				WithContext("stage", "manifest_v2").
				WithContext("item", entry.ID)
		}
		return &m, nil
	}
	if !IsNotFound(err) {
		return nil, withItem(withStage(err, "manifest_v2"), entry.ID)
	}

	p.logger.Debug("manifest_v2 missing, trying legacy manifest", zap.String("item", entry.ID))

	url = base + "/" + legacyManifestFile
	body, err = p.fetcher.get(ctx, url)
	if err != nil {
		return nil, withItem(withStage(err, "legacy manifest"), entry.ID)
	}
	m, err := ConvertV1ToV2(body)
	if err != nil {
		return nil, hubErrors.NewParsingError(err, "failed to parse legacy manifest").
			WithContext("url", url).
			WithContext("stage", "legacy manifest").
			WithContext("item", entry.ID)
	}
	return m, nil
}

func itemNotFound(id string) error {
	return hubErrors.NewNotFoundError(hubErrors.CodeItemNotFound, fmt.Sprintf("item %q not found", id)).
		WithContext("item", id)
}

func withItem(err error, id string) error {
	if hubErr, ok := hubErrors.As(err); ok {
		return hubErr.WithContext("item", id)
	}
	return err
}
