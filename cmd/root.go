// Package cmd assembles the reefkb command line.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reefgenomics/reefkb/cmd/initdb"
	"github.com/reefgenomics/reefkb/cmd/photos"
	"github.com/reefgenomics/reefkb/cmd/runs"
	"github.com/reefgenomics/reefkb/cmd/seed"
	"github.com/reefgenomics/reefkb/cmd/submission"
	"github.com/reefgenomics/reefkb/internal/buildinfo"
	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/logger"
	"github.com/reefgenomics/reefkb/internal/telemetry"
)

// RootCommand creates and returns the root command. settings is filled in
// before any subcommand runs.
func RootCommand(settings *conf.Settings, info buildinfo.BuildInfo) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "reefkb",
		Short:         "Coral reef research data catalogue",
		Version:       info.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, &configFile); err != nil {
		logger.Global().Module("main").Warn("failed to bind flags", logger.Error(err))
	}

	// Add sub-commands to the root command.
	rootCmd.AddCommand(
		initdb.Command(settings),
		seed.Command(settings),
		submission.Command(settings),
		runs.Command(settings),
		photos.Command(settings),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initialize(settings, info, configFile)
	}

	return rootCmd
}

// initialize loads the configuration, then sets up logging and telemetry.
// Flags bound to viper take precedence over the config file.
func initialize(settings *conf.Settings, info buildinfo.BuildInfo, configFile string) error {
	if configFile != "" {
		if err := os.Setenv(conf.ConfigFileEnv, configFile); err != nil {
			return fmt.Errorf("failed to select config file: %w", err)
		}
	}

	loaded, err := conf.Load()
	if err != nil {
		return err
	}
	*settings = *loaded

	logging := settings.Logging
	if settings.Debug {
		logging.DefaultLevel = "debug"
		if logging.Console != nil {
			logging.Console.Level = "debug"
		}
	}
	central, err := logger.NewCentralLogger(&logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.SetGlobal(central)

	// Telemetry is optional; a bad DSN must not stop the command.
	if err := telemetry.InitSentry(settings, info); err != nil {
		logger.Global().Module("main").Warn("sentry initialization failed", logger.Error(err))
	}
	return nil
}

// Shutdown flushes telemetry and log output. Call it once the root command
// has returned.
func Shutdown() {
	telemetry.Flush(2 * time.Second)
	if err := logger.Global().Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close log output: %v\n", err)
	}
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, configFile *string) error {
	rootCmd.PersistentFlags().StringVarP(configFile, "config", "c", "", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug output")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
