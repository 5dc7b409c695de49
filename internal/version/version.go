package version

import "fmt"

var (
	// Version is the robotmap release, set with -ldflags at build time
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build information for -version output.
func String() string {
	return fmt.Sprintf("robotmap %s (%s, built %s)", Version, GitSHA, BuildTime)
}
