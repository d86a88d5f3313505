package main

import (
	"os"
	"runtime"

	"github.com/bnema/dcshell/internal/cli/cmd"
	"github.com/bnema/dcshell/internal/domain/build"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	enableCrashForensics()

	cmd.SetBuildInfo(build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	})
	os.Exit(cmd.Execute())
}
