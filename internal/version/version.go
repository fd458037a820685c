// Package version exposes build information stamped at link time.
package version

// Version is overridden at build time via
// -ldflags "-X .../internal/version.Version=v1.2.3".
var Version = "dev"
