package community

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huanfeng/wearhub-cli/pkg/cdn"
)

const maxConcurrentProbes = 4

// MirrorStatus is the outcome of fetching the index through one mirror
type MirrorStatus struct {
	CDN        cdn.CDN       `json:"-"`
	Name       string        `json:"name"`
	URL        string        `json:"url"`
	Reachable  bool          `json:"reachable"`
	StatusCode int           `json:"status_code,omitempty"`
	Latency    time.Duration `json:"latency"`
	Error      string        `json:"error,omitempty"`
}

// ProbeMirrors requests the index document through each mirror, all mirrors
// when none are given. Results keep the order of mirrors. Only response
// headers are awaited; the body is not read.
func (p *OfficialProvider) ProbeMirrors(ctx context.Context, mirrors ...cdn.CDN) []MirrorStatus {
	if len(mirrors) == 0 {
		mirrors = cdn.All()
	}

	results := make([]MirrorStatus, len(mirrors))
	var g errgroup.Group
	g.SetLimit(maxConcurrentProbes)
	for i, c := range mirrors {
		g.Go(func() error {
			results[i] = p.probe(ctx, c)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (p *OfficialProvider) probe(ctx context.Context, c cdn.CDN) MirrorStatus {
	st := MirrorStatus{CDN: c, Name: c.String(), URL: p.rootURL(c, indexFile)}

	start := time.Now()
	resp, err := p.fetcher.open(ctx, st.URL)
	st.Latency = time.Since(start)
	if err != nil {
		st.Error = err.Error()
		var statusErr *HTTPStatusError
		if errors.As(err, &statusErr) {
			st.StatusCode = statusErr.StatusCode
		}
		p.logger.Debug("mirror unreachable", zap.String("cdn", st.Name), zap.Error(err))
		return st
	}
	resp.Body.Close()

	st.Reachable = true
	st.StatusCode = resp.StatusCode
	p.logger.Debug("mirror reachable", zap.String("cdn", st.Name), zap.Duration("latency", st.Latency))
	return st
}

// Fastest returns the reachable mirror with the lowest latency
func Fastest(results []MirrorStatus) (MirrorStatus, bool) {
	var best MirrorStatus
	found := false
	for _, r := range results {
		if !r.Reachable {
			continue
		}
		if !found || r.Latency < best.Latency {
			best, found = r, true
		}
	}
	return best, found
}
