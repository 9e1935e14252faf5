package cdn

import "strings"

// RawPrefix is the canonical raw-content prefix every rewrite keys on.
const RawPrefix = "https://raw.githubusercontent.com/"

// CDN selects how raw GitHub content URLs are rewritten
type CDN int

const (
	// Raw fetches straight from raw.githubusercontent.com
	Raw CDN = iota
	// AstroBox substitutes the host with the AstroBox object proxy
	AstroBox
	// AstroBoxWaterFlames substitutes the host with the WaterFlames-hosted proxy
	AstroBoxWaterFlames
	// GhFast wraps the full URL behind ghfast.top
	GhFast
	// GhProxy wraps the full URL behind gh-proxy.com
	GhProxy
)

type rule struct {
	name    string
	aliases []string
	// substitute replaces RawPrefix; wrap is prepended to the scheme-less URL
	substitute string
	wrap       string
}

var rules = map[CDN]rule{
	Raw:                 {name: "raw", aliases: []string{"direct", "githubraw"}},
	AstroBox:            {name: "astrobox", aliases: []string{"astroboxpromirror"}, substitute: "https://api.astrobox.online/ghoss/"},
	AstroBoxWaterFlames: {name: "astrobox_waterflames", aliases: []string{"astroboxpromirrorwaterflames"}, substitute: "https://api-astrobox.waterflames.cn/ghoss/"},
	GhFast:              {name: "ghfast", wrap: "https://ghfast.top/"},
	GhProxy:             {name: "ghproxy", wrap: "https://gh-proxy.com/"},
}

// All returns every known CDN in declaration order
func All() []CDN {
	return []CDN{Raw, AstroBox, AstroBoxWaterFlames, GhFast, GhProxy}
}

// Parse resolves a CDN by name. Unknown or empty names select Raw.
func Parse(name string) CDN {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	if key == "" {
		return Raw
	}
	for _, c := range All() {
		r := rules[c]
		if key == r.name || strings.ReplaceAll(key, "_", "") == strings.ReplaceAll(r.name, "_", "") {
			return c
		}
		for _, alias := range r.aliases {
			if key == alias || strings.ReplaceAll(key, "_", "") == alias {
				return c
			}
		}
	}
	return Raw
}

// String returns the canonical configuration name
func (c CDN) String() string {
	if r, ok := rules[c]; ok {
		return r.name
	}
	return rules[Raw].name
}

// Convert rewrites a raw-content URL for this mirror. URLs outside the
// raw-content prefix are returned unchanged.
func (c CDN) Convert(url string) string {
	if !strings.HasPrefix(url, RawPrefix) {
		return url
	}

	r, ok := rules[c]
	if !ok {
		return url
	}

	switch {
	case r.substitute != "":
		return r.substitute + strings.TrimPrefix(url, RawPrefix)
	case r.wrap != "":
		return r.wrap + strings.TrimPrefix(url, "https://")
	default:
		return url
	}
}
