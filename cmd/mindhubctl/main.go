package main

import (
	"fmt"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/drivers/logger"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type cli struct {
	log            *logrus.Logger
	driverConfig   *config.DriverConfig
	internalConfig *config.InternalConfig
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "mindhubctl",
		Short:         "Administrative tasks for the MindHub service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newTemplateCmd(c), newOpsCmd(c))
	return root
}

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig, err := config.NewInternalConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	c := &cli{
		log:            logger.NewLogrusLogger(internalConfig.App.Env, driverConfig.Logger.Level),
		driverConfig:   driverConfig,
		internalConfig: internalConfig,
	}

	if err := newRootCmd(c).Execute(); err != nil {
		c.log.WithError(err).Error("mindhubctl failed")
		os.Exit(1)
	}
}
