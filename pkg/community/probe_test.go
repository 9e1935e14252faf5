package community

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huanfeng/wearhub-cli/pkg/cdn"
)

func TestProbeMirrors(t *testing.T) {
	repo := newFakeRepo(t)
	repo.seedRoot(row("w1", "Blue", "d1", ""))
	repo.set("/ghoss/org/repo/main/index_v2.csv", testIndexHeader)
	// wrapping mirrors keep the original host in the path
	repo.handle("/raw.githubusercontent.com/org/repo/main/index_v2.csv", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	})
	p, transport := newTestProvider(t, repo)

	results := p.ProbeMirrors(context.Background(), cdn.Raw, cdn.AstroBox, cdn.GhProxy)
	require.Len(t, results, 3)

	assert.Equal(t, "raw", results[0].Name)
	assert.True(t, results[0].Reachable)
	assert.Equal(t, http.StatusOK, results[0].StatusCode)

	assert.True(t, results[1].Reachable)
	assert.Equal(t, "https://api.astrobox.online/ghoss/org/repo/main/index_v2.csv", results[1].URL)

	assert.False(t, results[2].Reachable)
	assert.Equal(t, http.StatusServiceUnavailable, results[2].StatusCode)
	assert.NotEmpty(t, results[2].Error)
	assert.True(t, transport.sawHost("gh-proxy.com"))
}

func TestProbeMirrors_DefaultsToAllAndReportsMissingIndex(t *testing.T) {
	repo := newFakeRepo(t)
	p, _ := newTestProvider(t, repo)

	results := p.ProbeMirrors(context.Background())
	require.Len(t, results, len(cdn.All()))
	for i, r := range results {
		assert.Equal(t, cdn.All()[i], r.CDN)
		assert.False(t, r.Reachable)
		assert.Equal(t, http.StatusNotFound, r.StatusCode)
	}
}

func TestFastest(t *testing.T) {
	results := []MirrorStatus{
		{Name: "raw", Reachable: true, Latency: 300 * time.Millisecond},
		{Name: "astrobox", Reachable: true, Latency: 80 * time.Millisecond},
		{Name: "ghfast", Reachable: false, Latency: 10 * time.Millisecond},
	}
	best, ok := Fastest(results)
	require.True(t, ok)
	assert.Equal(t, "astrobox", best.Name)

	_, ok = Fastest([]MirrorStatus{{Name: "raw"}})
	assert.False(t, ok)
}
