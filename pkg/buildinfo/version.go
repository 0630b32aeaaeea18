// Package buildinfo reports which pagereview build is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/asteria/pagereview/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/asteria/pagereview/pkg/buildinfo.Commit=$(git rev-parse HEAD)"
//
// Builds installed with go install carry module and VCS information
// instead, which [Get] falls back to.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is a resolved build description.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get returns the ldflags values, filling unstamped fields from the
// binary's embedded build information when available.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	return fill(info, bi)
}

func fill(info Info, bi *debug.BuildInfo) Info {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		}
	}
	return info
}

// String returns the multi-line form printed by --version.
func (i Info) String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
}

// Template returns the cobra version template for the running build.
func Template() string {
	return "{{.Name}} " + Get().String() + "\n"
}
