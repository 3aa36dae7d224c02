// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Reprise is the canonical application identifier used for filesystem paths and CLI branding.
	Reprise = "reprise"

	// Version is the current application semantic version string.
	Version = "0.3.0"
)

// Build metadata, injected at link time via -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
