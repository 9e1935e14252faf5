package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X github.com/huanfeng/wearhub-cli/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Build describes the running binary
type Build struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	Platform  string
}

// Current returns the build description. Commit and date fall back to the
// VCS stamp embedded by the go command when not set at link time.
func Current() Build {
	b := Build{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && b.Commit == "unknown":
				b.Commit = s.Value
			case s.Key == "vcs.time" && b.BuildDate == "unknown":
				b.BuildDate = s.Value
			}
		}
	}
	return b
}

func (b Build) String() string {
	lines := []string{
		"WearHub CLI " + b.Version,
		"Commit: " + b.Commit,
		"Built: " + b.BuildDate,
		"Go: " + b.GoVersion,
		"OS/Arch: " + b.Platform,
	}
	return strings.Join(lines, "\n")
}

// Info returns the multi-line version report printed by `wearhub version`
func Info() string {
	return Current().String()
}

func Short() string {
	return Version
}

// UserAgent is sent with every HTTP request
func UserAgent() string {
	return fmt.Sprintf("WearHub-CLI/%s (%s)", Version, runtime.GOOS)
}
