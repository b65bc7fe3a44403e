package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// SetVersionInfo records the build metadata injected into main
func SetVersionInfo(v, commit, built string) {
	version = v
	gitCommit = commit
	buildTime = built
	rootCmd.Version = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "convo %s (commit %s, built %s)\n", version, gitCommit, buildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
