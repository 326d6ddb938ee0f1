package system

// Build metadata, overridden at link time via -ldflags.
var (
	// Name is the application name recorded in audit integrity metadata.
	Name = "tellerguard"

	// Version is the application version recorded in audit integrity metadata.
	Version = "0.0.0-dev"

	// Commit is the git commit the binary was built from.
	Commit = "unknown"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)
