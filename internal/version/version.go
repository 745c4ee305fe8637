// Package version holds the build version, set with
// -ldflags "-X ksites/internal/version.Version=v1.2.3".
package version

var Version = "dev"
