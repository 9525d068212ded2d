package config

// Build metadata, overridden at release time via
// -ldflags "-X github.com/clings-dev/clings/config.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)
