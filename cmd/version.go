package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "triagez", resolvedVersion(version, debug.ReadBuildInfo))
	},
}

// resolvedVersion prefers the ldflags value, then the module version
// recorded by go install.
func resolvedVersion(ldflags string, buildInfo func() (*debug.BuildInfo, bool)) string {
	if ldflags != "(devel)" && ldflags != "" {
		return ldflags
	}
	if info, ok := buildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
