package version

import (
	"fmt"
	"runtime"
)

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/scriptbrowser/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/scriptbrowser/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/scriptbrowser/internal/version.Date={{.Date}}
)

// Info is the build information in json and yaml output.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	Go      string `json:"go" yaml:"go"`
}

// Get returns the build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Go: runtime.Version()}
}

func (i Info) String() string {
	return fmt.Sprintf("scriptbrowser %s (commit %s, built %s, %s)", i.Version, i.Commit, i.Date, i.Go)
}
