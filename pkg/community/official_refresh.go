package community

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	hubErrors "github.com/huanfeng/wearhub-cli/internal/errors"
	"github.com/huanfeng/wearhub-cli/pkg/cdn"
	"github.com/huanfeng/wearhub-cli/pkg/models"
)

// RefreshConfig is the JSON object accepted by OfficialProvider.Refresh
type RefreshConfig struct {
	CDN string `json:"cdn,omitempty"`
}

// Encode renders the config as Refresh input
func (c RefreshConfig) Encode() json.RawMessage {
	data, _ := sonic.Marshal(c)
	return data
}

func parseRefreshConfig(raw json.RawMessage) (cdn.CDN, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return cdn.Raw, nil
	}
	var cfg RefreshConfig
	if err := sonic.Unmarshal(trimmed, &cfg); err != nil {
		return cdn.Raw, hubErrors.WrapError(err, hubErrors.ErrorTypeValidation, hubErrors.CodeInvalidConfig, "invalid refresh config")
	}
	return cdn.Parse(cfg.CDN), nil
}

// Refresh reloads the index, device map and explore documents.
// A failure leaves the provider Failed with the error's description.
func (p *OfficialProvider) Refresh(ctx context.Context, config json.RawMessage) error {
	p.setState(models.Updating())

	if err := p.refresh(ctx, config); err != nil {
		p.logger.Warn("refresh failed", zap.Error(err))
		p.setState(models.Failed(err.Error()))
		return err
	}

	p.setState(models.Ready())
	return nil
}

func (p *OfficialProvider) refresh(ctx context.Context, config json.RawMessage) error {
	selected, err := parseRefreshConfig(config)
	if err != nil {
		return err
	}
	p.cdn.Store(&selected)
	p.logger.Debug("refreshing", zap.Stringer("cdn", selected), zap.String("root", p.remoteRoot))

	indexURL := p.rootURL(selected, indexFile)
	body, err := p.fetcher.get(ctx, indexURL)
	if err != nil {
		return withStage(err, "index")
	}
	parsed, err := models.ParseIndexCSV(bytes.NewReader(body))
	if err != nil {
		return hubErrors.NewParsingError(err, "failed to parse index").
			WithContext("url", indexURL).
			WithContext("stage", "index")
	}
	for _, dropped := range parsed.Dropped {
		p.logger.Warn("dropped index row", zap.Int("line", dropped.Line), zap.Error(dropped.Err))
	}
	p.storeIndex(parsed.Entries)

	var (
		devices models.DeviceMap
		explore json.RawMessage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url := p.rootURL(selected, devicesFile)
		data, err := p.fetcher.get(gctx, url)
		if err != nil {
			return withStage(err, "devices")
		}
		if err := sonic.Unmarshal(data, &devices); err != nil {
			return hubErrors.NewParsingError(err, "failed to parse device map").
				WithContext("url", url).
				WithContext("stage", "devices")
		}
		return nil
	})
	g.Go(func() error {
		url := p.rootURL(selected, exploreFile)
		data, err := p.fetcher.get(gctx, url)
		if err != nil {
			return withStage(err, "explore")
		}
		var probe any
		if err := sonic.Unmarshal(data, &probe); err != nil {
			return hubErrors.NewParsingError(err, "failed to parse explore document").
				WithContext("url", url).
				WithContext("stage", "explore")
		}
		explore = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	p.devices.Store(&devices)
	p.explore.Store(&explore)

	p.logger.Info("refresh complete",
		zap.Int("items", len(parsed.Entries)),
		zap.Int("dropped", len(parsed.Dropped)),
		zap.Int("devices", len(devices.All())))
	return nil
}

// storeIndex publishes a new index generation, which invalidates pagination
func (p *OfficialProvider) storeIndex(entries []models.IndexEntry) {
	p.index.Store(&indexSnapshot{
		entries:    entries,
		generation: p.generation.Add(1),
	})
}

func withStage(err error, stage string) error {
	if hubErr, ok := hubErrors.As(err); ok {
		return hubErr.WithContext("stage", stage)
	}
	return err
}
