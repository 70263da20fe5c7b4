package cmd

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/armadaproject/qpp/internal/common"
	commonconfig "github.com/armadaproject/qpp/internal/common/config"
	"github.com/armadaproject/qpp/internal/common/logging"
	"github.com/armadaproject/qpp/internal/qpp/configuration"
)

const (
	CustomConfigLocation = "config"
	defaultConfigPath    = "./config/qpp"
)

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "qpp",
		Short:         "qpp runs quantum programs on a shared pool of simulated qubits.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	addConfigFlag(cmd.PersistentFlags())

	cmd.AddCommand(
		runCmd(),
		archiveCmd(),
		versionCmd(),
	)
	return cmd
}

func addConfigFlag(flags *pflag.FlagSet) {
	flags.StringSlice(
		CustomConfigLocation,
		nil,
		"Fully qualified path to application configuration file (for multiple config files repeat this arg or separate paths with commas)",
	)
}

// loadConfig reads the default config, overlays the files passed with --config and validates the result.
func loadConfig(cmd *cobra.Command) (*configuration.QppConfig, error) {
	userSpecifiedConfigs, err := cmd.Flags().GetStringSlice(CustomConfigLocation)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var config configuration.QppConfig
	if _, err := common.LoadConfig(&config, defaultConfigPath, userSpecifiedConfigs); err != nil {
		return nil, err
	}
	if err := commonconfig.Validate(config); err != nil {
		commonconfig.LogValidationErrors(err)
		return nil, errors.New("invalid configuration")
	}
	if err := logging.Configure(config.Logging); err != nil {
		return nil, err
	}
	log.Debugf("Config %+v", config)
	return &config, nil
}
