package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"court-fitter/internal/config"
	"court-fitter/internal/monitoring"
	"court-fitter/internal/version"
)

// rootOptions holds the persistent flags and the loaded configuration.
type rootOptions struct {
	configPath string
	quiet      bool

	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{cfg: &config.Config{}}

	cmd := &cobra.Command{
		Use:   "courtfit",
		Short: "Fit court models to sports images",
		Long: `courtfit detects painted court lines in an image, splits them into
horizontal and vertical families and searches for the placement of a court
model that best explains them.`,
		Version:      version.Version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (.json, .yaml or .yml)")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress progress logging")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if opts.quiet {
			monitoring.SetLogger(nil)
		}
		if opts.configPath == "" {
			return nil
		}
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		opts.cfg = cfg
		return nil
	}

	// Add subcommands
	cmd.AddCommand(newFitCommand(opts))
	cmd.AddCommand(newCourtsCommand())
	cmd.AddCommand(newHistoryCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String("courtfit"))
		},
	}
}
