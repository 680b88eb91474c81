// Package version reports the build version of storeimport.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set at link time:
//
//	go build -ldflags "-X StoreImport/internal/version.Release=1.2.0 -X StoreImport/internal/version.Commit=abc1234"
var (
	Release = "1.0.0"
	Commit  = ""
)

type Version struct {
	Major  int
	Minor  int
	Micro  int
	Commit string
}

// String renders major.minor.micro, with the short commit appended when known.
func (v *Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
	if v.Commit != "" {
		s += "+" + v.Commit
	}
	return s
}

func GetVersion() *Version {
	return Parse(Release, commit())
}

// Parse reads a release such as "v1.2" or "1.2.3-rc1". Missing or unreadable
// parts are zero.
func Parse(release, commit string) *Version {
	v := &Version{Commit: commit}
	release = strings.TrimPrefix(strings.TrimSpace(release), "v")
	if i := strings.IndexAny(release, "-+"); i >= 0 {
		release = release[:i]
	}
	parts := []*int{&v.Major, &v.Minor, &v.Micro}
	for i, p := range strings.SplitN(release, ".", len(parts)) {
		_, _ = fmt.Sscanf(p, "%d", parts[i])
	}
	return v
}

func commit() string {
	c := Commit
	if c == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return c
}
