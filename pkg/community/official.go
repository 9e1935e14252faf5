package community

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/huanfeng/wearhub-cli/internal/cache"
	"github.com/huanfeng/wearhub-cli/pkg/cdn"
	"github.com/huanfeng/wearhub-cli/pkg/models"
)

const (
	// OfficialProviderName is the registry name of the official provider
	OfficialProviderName = "OfficialV2"

	// DefaultRemoteRoot is the canonical location of the official index
	DefaultRemoteRoot = cdn.RawPrefix + "AstralSightStudios/AstroBox-Repo/main"

	defaultManifestTTL = 30 * time.Minute
	defaultUserAgent   = "WearHub-CLI"

	indexFile   = "index_v2.csv"
	devicesFile = "devices_v2.json"
	exploreFile = "explore_v2.json"

	manifestFile       = "manifest_v2.json"
	legacyManifestFile = "manifest.json"
)

// indexSnapshot is an immutable index tagged with the refresh that built it
type indexSnapshot struct {
	entries    []models.IndexEntry
	generation uint64
}

// pageSnapshot is the sorted and chunked view of one index generation
type pageSnapshot struct {
	generation uint64
	limit      int
	sort       models.SortRule
	pages      [][]models.IndexEntry
}

// OfficialProvider serves the official community repository.
//
// Every shared cache is an immutable value behind an atomic pointer. Refresh
// replaces them one by one, so a reader racing a refresh may pair a new index
// with the previous device map.
type OfficialProvider struct {
	fetcher    *fetcher
	logger     *zap.Logger
	remoteRoot string
	cacheRoot  string
	verifySum  bool

	manifestTTL time.Duration
	manifests   *cache.Cache[*models.Manifest]

	state   atomic.Pointer[models.ProviderState]
	cdn     atomic.Pointer[cdn.CDN]
	index   atomic.Pointer[indexSnapshot]
	pages   atomic.Pointer[pageSnapshot]
	devices atomic.Pointer[models.DeviceMap]
	explore atomic.Pointer[json.RawMessage]

	generation atomic.Uint64
}

// OfficialOption configures an OfficialProvider
type OfficialOption func(*OfficialProvider)

// WithHTTPClient sets the HTTP client. Timeouts are the client's concern.
func WithHTTPClient(client *http.Client) OfficialOption {
	return func(p *OfficialProvider) {
		if client != nil {
			p.fetcher.client = client
		}
	}
}

// WithCDN sets the mirror used until the next Refresh
func WithCDN(c cdn.CDN) OfficialOption {
	return func(p *OfficialProvider) {
		p.cdn.Store(&c)
	}
}

// WithRemoteRoot overrides the repository root holding the index documents
func WithRemoteRoot(root string) OfficialOption {
	return func(p *OfficialProvider) {
		if root = strings.TrimRight(strings.TrimSpace(root), "/"); root != "" {
			p.remoteRoot = root
		}
	}
}

// WithCacheRoot sets the directory downloads are stored under
func WithCacheRoot(dir string) OfficialOption {
	return func(p *OfficialProvider) {
		p.cacheRoot = dir
	}
}

func WithLogger(logger *zap.Logger) OfficialOption {
	return func(p *OfficialProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithManifestTTL sets how long fetched manifests are memoised
func WithManifestTTL(ttl time.Duration) OfficialOption {
	return func(p *OfficialProvider) {
		if ttl > 0 {
			p.manifestTTL = ttl
		}
	}
}

func WithUserAgent(ua string) OfficialOption {
	return func(p *OfficialProvider) {
		if ua != "" {
			p.fetcher.userAgent = ua
		}
	}
}

// WithChecksumVerification makes Download compare the artifact against the
// manifest's sha256 when one is published
func WithChecksumVerification(enabled bool) OfficialOption {
	return func(p *OfficialProvider) {
		p.verifySum = enabled
	}
}

// NewOfficialProvider creates a provider in the Updating state with empty caches
func NewOfficialProvider(opts ...OfficialOption) *OfficialProvider {
	p := &OfficialProvider{
		fetcher:     &fetcher{client: http.DefaultClient, userAgent: defaultUserAgent},
		logger:      zap.NewNop(),
		remoteRoot:  DefaultRemoteRoot,
		manifestTTL: defaultManifestTTL,
	}

	state := models.Updating()
	p.state.Store(&state)
	direct := cdn.Raw
	p.cdn.Store(&direct)
	p.index.Store(&indexSnapshot{})
	p.devices.Store(&models.DeviceMap{})
	empty := json.RawMessage("null")
	p.explore.Store(&empty)

	for _, opt := range opts {
		opt(p)
	}
	if p.cacheRoot == "" {
		p.cacheRoot = filepath.Join(".", "cache")
	}

	p.manifests = cache.New[*models.Manifest](p.manifestTTL)
	p.logger = p.logger.With(zap.String("provider", OfficialProviderName))
	return p
}

// Close releases the manifest cache
func (p *OfficialProvider) Close() {
	p.manifests.Close()
}

func (p *OfficialProvider) Name() string {
	return OfficialProviderName
}

func (p *OfficialProvider) State() models.ProviderState {
	return *p.state.Load()
}

func (p *OfficialProvider) setState(s models.ProviderState) {
	p.state.Store(&s)
}

// CDN returns the mirror selected by the last Refresh
func (p *OfficialProvider) CDN() cdn.CDN {
	return *p.cdn.Load()
}

// DeviceMap returns the device map of the last Refresh
func (p *OfficialProvider) DeviceMap() models.DeviceMap {
	return *p.devices.Load()
}

// Explore returns the opaque explore document of the last Refresh
func (p *OfficialProvider) Explore() json.RawMessage {
	return *p.explore.Load()
}

// DownloadRoot is the directory holding one subdirectory per downloaded item
func (p *OfficialProvider) DownloadRoot() string {
	return filepath.Join(p.cacheRoot, "community", "official_v2")
}

func (p *OfficialProvider) GetTotalItems(ctx context.Context) (int, error) {
	return len(p.index.Load().entries), nil
}

// FetchAsset downloads an arbitrary asset through the selected mirror
func (p *OfficialProvider) FetchAsset(ctx context.Context, url string) ([]byte, error) {
	return p.fetcher.get(ctx, p.CDN().Convert(url))
}

// Entry returns the index entry with the given id
func (p *OfficialProvider) Entry(id string) (models.IndexEntry, bool) {
	for _, e := range p.index.Load().entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.IndexEntry{}, false
}

// entryForDownload matches by id first and then by name, since v1 content
// has no stable id
func (p *OfficialProvider) entryForDownload(idOrName string) (models.IndexEntry, bool) {
	if e, ok := p.Entry(idOrName); ok {
		return e, true
	}
	for _, e := range p.index.Load().entries {
		if e.Name == idOrName {
			return e, true
		}
	}
	return models.IndexEntry{}, false
}

func (p *OfficialProvider) rootURL(c cdn.CDN, file string) string {
	return c.Convert(p.remoteRoot + "/" + file)
}

// repoRawURL is the canonical raw-content base of an item's repository
func repoRawURL(e models.IndexEntry) string {
	return cdn.RawPrefix + e.RepoOwner + "/" + e.RepoName + "/" + e.RepoCommitHash
}

func repoBaseURL(c cdn.CDN, e models.IndexEntry) string {
	return c.Convert(repoRawURL(e))
}

var uriScheme = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)

// resolveAsset joins a repository relative asset path onto base. Absolute
// URLs, any URI with a scheme (data:, blob:, asset://, ...) and rooted paths
// are returned unchanged.
func resolveAsset(base, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "/") || uriScheme.MatchString(ref) {
		return ref
	}
	return base + "/" + strings.TrimPrefix(ref, "./")
}
