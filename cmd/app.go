package cmd

import (
	"context"
	"net/http"
	"os"

	"go.uber.org/zap"

	hubErrors "github.com/huanfeng/wearhub-cli/internal/errors"
	"github.com/huanfeng/wearhub-cli/pkg/cdn"
	"github.com/huanfeng/wearhub-cli/pkg/community"
	"github.com/huanfeng/wearhub-cli/pkg/models"
	"github.com/huanfeng/wearhub-cli/pkg/utils"
)

// appContext holds what a command needs once configuration is loaded
type appContext struct {
	cfg      *models.Config
	logger   *zap.Logger
	errs     *hubErrors.ErrorHandler
	official *community.OfficialProvider
	registry *community.Registry
	closed   bool
}

func newApp(cfg *models.Config) *appContext {
	logger := utils.InitGlobalLogger(&utils.LoggerConfig{
		Level:  cfg.Log.Level,
		Format: utils.LogFormat(cfg.Log.Format),
		Output: os.Stderr,
	})

	official := community.NewOfficialProvider(
		community.WithHTTPClient(&http.Client{Timeout: cfg.HTTP.Timeout}),
		community.WithCDN(cdn.Parse(cfg.CDN)),
		community.WithRemoteRoot(cfg.RemoteRoot),
		community.WithCacheRoot(cfg.CacheDir),
		community.WithUserAgent(cfg.HTTP.UserAgent),
		community.WithChecksumVerification(cfg.VerifyChecksum),
		community.WithLogger(logger),
	)

	return &appContext{
		cfg:      cfg,
		logger:   logger,
		errs:     hubErrors.NewErrorHandler(logger),
		official: official,
		registry: community.NewRegistry(official),
	}
}

// ready refreshes the official provider unless it already holds an index
func (a *appContext) ready(ctx context.Context) error {
	if a.official.State().Kind == models.StateReady {
		return nil
	}
	return a.refresh(ctx)
}

func (a *appContext) refresh(ctx context.Context) error {
	a.logger.Debug("refreshing index", zap.String("cdn", a.cfg.CDN), zap.String("root", a.cfg.RemoteRoot))
	return a.official.Refresh(ctx, community.RefreshConfig{CDN: a.cfg.CDN}.Encode())
}

func (a *appContext) cacheDir() community.CacheDir {
	return community.CacheDir{Root: a.official.DownloadRoot()}
}

func (a *appContext) close() {
	if a.closed {
		return
	}
	a.closed = true
	a.official.Close()
	_ = a.logger.Sync()
}
