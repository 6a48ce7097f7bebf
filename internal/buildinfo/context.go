// Package buildinfo contains build-time metadata separate from user configuration
package buildinfo

import "fmt"

// BuildInfo provides an interface for accessing build-time metadata.
type BuildInfo interface {
	// GetVersion returns the build version string
	GetVersion() string
	// GetBuildDate returns the build date string
	GetBuildDate() string
}

// Context contains build-time metadata that is not user-configurable.
// Values are injected with -ldflags at build time.
type Context struct {
	// Version holds the Git version tag from build
	Version string

	// BuildDate is the time when the binary was built
	BuildDate string
}

// GetVersion implements BuildInfo.GetVersion
func (c *Context) GetVersion() string {
	if c == nil || c.Version == "" {
		return "unknown"
	}
	return c.Version
}

// GetBuildDate implements BuildInfo.GetBuildDate
func (c *Context) GetBuildDate() string {
	if c == nil || c.BuildDate == "" {
		return "unknown"
	}
	return c.BuildDate
}

// String renders the version line printed by --version.
func (c *Context) String() string {
	return fmt.Sprintf("%s (built %s)", c.GetVersion(), c.GetBuildDate())
}
