package cdn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvert_IdentityOutsideRawPrefix(t *testing.T) {
	urls := []string{
		"",
		"https://example.com/a/b.png",
		"http://raw.githubusercontent.com/o/r/c/a.png",
		"/abs/local/path.bin",
		"https://api.astrobox.online/ghoss/o/r/c/a.png",
		"https://ghfast.top/raw.githubusercontent.com/o/r/c/a.png",
		"data:image/png;base64,AAAA",
	}
	for _, c := range All() {
		for _, u := range urls {
			assert.Equal(t, u, c.Convert(u), "cdn=%s url=%s", c, u)
		}
	}
}

func TestConvert_Rewrites(t *testing.T) {
	src := "https://raw.githubusercontent.com/owner/repo/abc123/manifest_v2.json"

	cases := []struct {
		cdn  CDN
		want string
	}{
		{Raw, src},
		{AstroBox, "https://api.astrobox.online/ghoss/owner/repo/abc123/manifest_v2.json"},
		{AstroBoxWaterFlames, "https://api-astrobox.waterflames.cn/ghoss/owner/repo/abc123/manifest_v2.json"},
		{GhFast, "https://ghfast.top/raw.githubusercontent.com/owner/repo/abc123/manifest_v2.json"},
		{GhProxy, "https://gh-proxy.com/raw.githubusercontent.com/owner/repo/abc123/manifest_v2.json"},
	}
	for _, tc := range cases {
		t.Run(tc.cdn.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cdn.Convert(src))
		})
	}
}

func TestParse(t *testing.T) {
	cases := map[string]CDN{
		"":                             Raw,
		"raw":                          Raw,
		"Direct":                       Raw,
		"unknown-mirror":               Raw,
		"astrobox":                     AstroBox,
		"AstroBoxProMirror":            AstroBox,
		"astrobox_waterflames":         AstroBoxWaterFlames,
		"astrobox-waterflames":         AstroBoxWaterFlames,
		"AstroBoxProMirrorWaterFlames": AstroBoxWaterFlames,
		"GhFast":                       GhFast,
		" ghproxy ":                    GhProxy,
	}
	for in, want := range cases {
		assert.Equal(t, want, Parse(in), "input %q", in)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, c := range All() {
		assert.Equal(t, c, Parse(c.String()))
	}
}
