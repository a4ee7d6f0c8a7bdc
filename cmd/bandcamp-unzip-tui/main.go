package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/handiism/bandcamp-unzip/internal/config"
	"github.com/handiism/bandcamp-unzip/internal/logging"
	"github.com/handiism/bandcamp-unzip/internal/tui"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:           "bandcamp-unzip-tui",
		Short:         "Interactive Bandcamp archive extractor",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.DefaultSettings()
			if configPath != "" {
				var err error
				if settings, err = config.Load(configPath); err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}

			// the screen belongs to Bubble Tea, so only the log file is written
			logger, closeLog, err := logging.New(logging.Options{
				File:  settings.LogFile,
				Level: settings.LogLevel,
			})
			if err != nil {
				return err
			}
			defer closeLog()

			return tui.Run(settings, logger)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Settings file (.json or .toml)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
