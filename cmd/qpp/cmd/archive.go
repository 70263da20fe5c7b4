package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/armadaproject/qpp/internal/common"
	"github.com/armadaproject/qpp/internal/common/util"
	"github.com/armadaproject/qpp/internal/qpp"
	"github.com/armadaproject/qpp/internal/qpp/archive"
)

func archiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect the measurement archive",
	}
	cmd.AddCommand(archiveShowCmd())
	return cmd
}

func archiveShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the persisted archive snapshot",
		Long:  "Print the dimensions, write cursor and stored measurements of the snapshot in the configured archive store.",
		PreRun: func(cmd *cobra.Command, args []string) {
			common.ConfigureCommandLineLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// loadConfig applies the service log format; keep the configured level only.
			common.ConfigureCommandLineLogging()
			store, closer, err := qpp.CreateArchiveStore(config)
			if err != nil {
				return err
			}
			defer util.CloseResource("archive store", closer)

			snap, err := store.Load()
			if errors.Is(err, archive.ErrSnapshotNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No archive snapshot has been persisted yet")
				return nil
			}
			if err != nil {
				return err
			}
			if err := snap.Validate(); err != nil {
				return errors.WithMessage(err, "persisted snapshot is invalid")
			}
			printSnapshot(cmd, snap)
			return nil
		},
	}
	return cmd
}

func printSnapshot(cmd *cobra.Command, snap *archive.Snapshot) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 1, 1, 1, ' ', 0)
	fmt.Fprintf(w, "Qubits:\t%d\n", snap.Qubits)
	fmt.Fprintf(w, "Capacity:\t%d\n", snap.Capacity)
	fmt.Fprintf(w, "Current position:\t%d\n", snap.CurrentPos)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Position\tMeasurement\n")
	for i, v := range snap.Results {
		marker := ""
		if uint(i) == snap.CurrentPos {
			marker = "\t<- next write"
		}
		fmt.Fprintf(w, "%d\t%s%s\n", i, v, marker)
	}
	w.Flush()
}
