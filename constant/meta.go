// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Coursa is the canonical application identifier used for filesystem paths and CLI branding.
	Coursa = "coursa"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// Manifest is the filename of the course description document expected at the root of every course folder.
	Manifest = "course.json"

	// ProgressSchemaVersion tags the persisted progress file format. A single value is supported.
	ProgressSchemaVersion = "1.0"
)

// Build metadata, overridden at link time by the release pipeline.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
