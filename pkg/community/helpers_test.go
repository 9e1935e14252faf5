package community

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/huanfeng/wearhub-cli/pkg/cdn"
)

const testIndexHeader = "id,name,restype,repo_owner,repo_name,repo_commit_hash,icon,cover,tags,device_vendors,devices,paid_type\n"

const testDevices = `{
  "xiaomi": {
    "o66": {"id": "xmb10", "name": "Xiaomi Smart Band 10", "description": "", "chip": "bes", "fetch": true},
    "p62": {"id": "xmws5", "name": "Xiaomi Watch S5", "description": "", "chip": "xring", "fetch": true},
    "p62m": {"id": "xmws5xring", "name": "Xiaomi Watch S5", "description": "", "chip": "xring", "fetch": false}
  },
  "vivo": {}
}`

// fakeRepo serves files by URL path and counts requests
type fakeRepo struct {
	mu       sync.Mutex
	files    map[string]string
	handlers map[string]http.HandlerFunc
	hits     map[string]int
	server   *httptest.Server
}

func newFakeRepo(t *testing.T) *fakeRepo {
	t.Helper()
	r := &fakeRepo{
		files:    map[string]string{},
		handlers: map[string]http.HandlerFunc{},
		hits:     map[string]int{},
	}
	r.server = httptest.NewServer(http.HandlerFunc(r.serve))
	t.Cleanup(r.server.Close)
	return r
}

func (r *fakeRepo) serve(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.hits[req.URL.Path]++
	body, ok := r.files[req.URL.Path]
	handler := r.handlers[req.URL.Path]
	r.mu.Unlock()

	if handler != nil {
		handler(w, req)
		return
	}
	if !ok {
		http.NotFound(w, req)
		return
	}
	w.Write([]byte(body))
}

func (r *fakeRepo) set(path, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[path] = body
}

func (r *fakeRepo) handle(path string, h http.HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[path] = h
}

func (r *fakeRepo) count(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits[path]
}

// seedRoot serves an index plus valid device and explore documents
func (r *fakeRepo) seedRoot(rows ...string) {
	r.set("/org/repo/main/index_v2.csv", testIndexHeader+strings.Join(rows, "\n")+"\n")
	r.set("/org/repo/main/devices_v2.json", testDevices)
	r.set("/org/repo/main/explore_v2.json", `{"banners":[{"id":"w1"}]}`)
}

// rewriteTransport sends every request to target while keeping the path,
// so canonical and mirrored URLs both reach the fake server
type rewriteTransport struct {
	target *url.URL
	hosts  sync.Map
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.hosts.Store(req.URL.Host, true)
	out := req.Clone(req.Context())
	out.URL.Scheme = t.target.Scheme
	out.URL.Host = t.target.Host
	out.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

func (t *rewriteTransport) sawHost(host string) bool {
	_, ok := t.hosts.Load(host)
	return ok
}

func newTestProvider(t *testing.T, repo *fakeRepo, opts ...OfficialOption) (*OfficialProvider, *rewriteTransport) {
	t.Helper()
	target, err := url.Parse(repo.server.URL)
	if err != nil {
		t.Fatal(err)
	}
	transport := &rewriteTransport{target: target}
	base := []OfficialOption{
		WithHTTPClient(&http.Client{Transport: transport}),
		WithRemoteRoot(cdn.RawPrefix + "org/repo/main"),
		WithCacheRoot(t.TempDir()),
		WithLogger(zap.NewNop()),
	}
	p := NewOfficialProvider(append(base, opts...)...)
	t.Cleanup(p.Close)
	return p, transport
}
