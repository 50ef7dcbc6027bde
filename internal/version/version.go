package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// These variables can be set at build time via ldflags:
//
//	go build -ldflags="-X github.com/muurk/petpal/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/petpal/internal/version.Commit=abc123"
//
// If not set, they are filled from the module build info, falling back to
// "dev" and "unknown".
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

func init() {
	if Version == "" || Commit == "" {
		populateFromBuildInfo()
	}

	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// populateFromBuildInfo reads the main module version (set by go install
// module@version) and the VCS revision stamped by go build.
func populateFromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = strings.TrimPrefix(info.Main.Version, "v")
	}

	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if Commit == "" && revision != "" {
		Commit = shortRevision(revision, modified)
	}
}

func shortRevision(revision string, modified bool) string {
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if modified {
		revision += "-dirty"
	}
	return revision
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s, %s/%s)", Version, Commit, runtime.GOOS, runtime.GOARCH)
}

// UserAgent returns the User-Agent value sent to the PetPal service
func UserAgent() string {
	return "petpal/" + Version
}
