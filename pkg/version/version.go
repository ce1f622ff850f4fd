package version

import (
	"runtime"
	"strconv"
	"time"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

// These variables typically come from -ldflags settings.
var (
	GITVERSION = "v0.0.0-dev"
	GITCOMMIT  = ""
	BUILDDATE  = ""
)

// BuildVersionInfo is the version of a binary.
type BuildVersionInfo struct {
	Major      string    `json:"Major,omitempty"`
	Minor      string    `json:"Minor,omitempty"`
	GitVersion string    `json:"GitVersion"`
	GitCommit  string    `json:"GitCommit"`
	BuildDate  time.Time `json:"BuildDate"`
	GOOS       string    `json:"GOOS"`
	GOARCH     string    `json:"GOARCH"`
}

// Get returns the version the binary was built from.
func Get() (*BuildVersionInfo, error) {
	return parse(GITVERSION, GITCOMMIT, BUILDDATE)
}

func parse(gitVersion, gitCommit, buildDate string) (*BuildVersionInfo, error) {
	s, err := semver.NewVersion(gitVersion)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse GITVERSION %q", gitVersion)
	}
	info := &BuildVersionInfo{
		GitVersion: gitVersion,
		Major:      strconv.FormatInt(s.Major(), 10), //nolint:gomnd // base10
		Minor:      strconv.FormatInt(s.Minor(), 10), //nolint:gomnd // base10
		GitCommit:  gitCommit,
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}
	if buildDate != "" {
		if info.BuildDate, err = time.Parse("2006-01-02T15:04:05Z", buildDate); err != nil {
			return nil, errors.Wrapf(err, "could not parse BUILDDATE %q", buildDate)
		}
	}
	return info, nil
}
