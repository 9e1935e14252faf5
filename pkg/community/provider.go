// Package community discovers, lists and downloads community content for
// wearable devices from pluggable content providers.
package community

import (
	"context"
	"encoding/json"

	"github.com/huanfeng/wearhub-cli/pkg/models"
)

// ProgressFunc receives download progress events. It is called from the
// downloading goroutine and must not block for long.
type ProgressFunc func(models.Progress)

// Provider is a source of community content.
//
// Query methods read immutable snapshots and may run concurrently with each
// other and with Refresh. Refresh itself must not be called concurrently on
// the same provider.
type Provider interface {
	Name() string
	State() models.ProviderState

	// Refresh reloads the provider caches. config is a JSON object whose
	// accepted keys are provider specific.
	Refresh(ctx context.Context, config json.RawMessage) error

	GetPage(ctx context.Context, page, limit int, search models.SearchConfig) ([]models.Manifest, error)
	GetCategories(ctx context.Context) ([]string, error)
	GetItemManifest(ctx context.Context, itemID string) (*models.Manifest, error)

	// Download fetches the artifact of itemID for device and returns the path
	// of the committed file.
	Download(ctx context.Context, itemID, device string, onProgress ProgressFunc) (string, error)

	GetTotalItems(ctx context.Context) (int, error)
}
