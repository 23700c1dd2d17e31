// Package version holds build metadata injected at link time.
package version

// Version is the application version, set with
// -ldflags "-X github.com/ndewijer/portfolio-insights/internal/version.Version=v1.2.3".
var Version = "dev"
