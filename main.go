package main

import (
	"runtime/debug"

	"github.com/segmentio/aws-mfa/cmd"
)

// AnalyticsWriteKey is only set by release builds; empty disables analytics
var AnalyticsWriteKey = ""

// overrideable by linker flags, but if not overridden, will be looked up from
// module build info
var Version = ""

func init() {
	if Version != "" {
		return
	}

	Version = "dev"
	if buildinfo, ok := debug.ReadBuildInfo(); ok && buildinfo.Main.Version != "(devel)" {
		Version = buildinfo.Main.Version
	}
}

func main() {
	// vars set by linker flags must be strings...
	cmd.Execute(Version, AnalyticsWriteKey)
}
