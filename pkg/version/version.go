// Package version holds the build version, set at link time with
// -ldflags "-X github.com/maxvaer/livecheck/pkg/version.Version=...".
package version

// Version is the livecheck release version.
var Version = "dev"
