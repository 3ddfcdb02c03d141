package contracts

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	// ProductName is shown on the pages and in version strings.
	ProductName = "YSI Analyzer"

	// Version follows semver; a "-suffix" marks a prerelease.
	Version = "1.0.0"

	// APIVersion is the path segment of the JSON API, as in /api/v1.
	APIVersion = "v1"
)

// Build metadata, set with -ldflags "-X ysianalyzer/pkg/contracts.GitCommit=...".
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

// VersionInfo is the body of GET /api/version.
type VersionInfo struct {
	Product      string `json:"product"`
	Version      string `json:"version"`
	Prerelease   bool   `json:"prerelease"`
	APIVersion   string `json:"api_version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GitBranch    string `json:"git_branch"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
}

// GetVersionInfo collects the build and runtime details of this binary.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Product:      ProductName,
		Version:      Version,
		Prerelease:   IsPrerelease(),
		APIVersion:   APIVersion,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GitBranch:    GitBranch,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}
}

// GetVersionString returns "YSI Analyzer v1.0.0".
func GetVersionString() string {
	return fmt.Sprintf("%s v%s", ProductName, Version)
}

// GetFullVersionString is printed by the -version flag.
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("%s (api %s, commit %s on %s, built %s, %s %s/%s)",
		GetVersionString(), info.APIVersion, info.GitCommit, info.GitBranch,
		info.BuildTime, info.GoVersion, info.OS, info.Architecture)
}

// IsPrerelease reports whether Version carries a prerelease suffix.
func IsPrerelease() bool {
	return strings.Contains(Version, "-")
}
