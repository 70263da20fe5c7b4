package cmd

import (
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/armadaproject/qpp/cmd/qpp/cmd.ReleaseVersion=...".
var (
	ReleaseVersion = "dev"
	GitCommit      = "unknown"
)

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 1, 1, 1, ' ', 0)
			fmt.Fprintf(w, "Version:\t%s\n", ReleaseVersion)
			fmt.Fprintf(w, "Commit:\t%s\n", GitCommit)
			fmt.Fprintf(w, "Go version:\t%s\n", runtime.Version())
			return w.Flush()
		},
	}
	return cmd
}
