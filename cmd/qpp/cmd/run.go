package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/armadaproject/qpp/internal/common"
	"github.com/armadaproject/qpp/internal/common/app"
	"github.com/armadaproject/qpp/internal/common/health"
	"github.com/armadaproject/qpp/internal/qpp"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Serve the qpp http api",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			shutdownMetricServer := common.ServeMetrics(config.MetricsPort)
			defer shutdownMetricServer()

			ctx := app.CreateContextWithShutdown(log.NewEntry(log.StandardLogger()))
			if err := qpp.Serve(ctx, config, health.NewMultiChecker()); err != nil {
				log.Errorf("qpp server exited with error: %+v", err)
				return err
			}
			return nil
		},
	}
	return cmd
}
