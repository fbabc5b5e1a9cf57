package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"court-fitter/internal/court"
)

func newCourtsCommand() *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "courts [name]",
		Short: "List registered courts",
		Long: `List the registered court specifications with their dimensions.

With a court name and --export, the court layout is written as JSON so it
can be edited and passed back to "fit --court-file".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showCourt(cmd, args[0], exportPath)
			}
			for _, name := range court.ListSpecs() {
				spec := court.GetSpec(name)
				w, l := spec.Dimensions()
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %6.2f m x %6.2f m  %d horizontal, %d vertical lines\n",
					name, w, l, len(spec.HorizontalLines()), len(spec.VerticalLines()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "Write the named court spec to this JSON file")

	return cmd
}

func showCourt(cmd *cobra.Command, name, exportPath string) error {
	spec := court.GetSpec(name)
	if spec == nil {
		return fmt.Errorf("unknown court %q (known: %v)", name, court.ListSpecs())
	}

	for _, seg := range court.Segments(spec) {
		pairable := ""
		if seg.Pairable {
			pairable = " *"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %-26s (%6.3f, %6.3f) - (%6.3f, %6.3f)%s\n",
			seg.Name, seg.Start.X, seg.Start.Y, seg.End.X, seg.End.Y, pairable)
	}

	if exportPath == "" {
		return nil
	}
	base, ok := spec.(*court.BaseSpec)
	if !ok {
		return fmt.Errorf("court %q cannot be exported", name)
	}
	if err := base.SaveToFile(exportPath); err != nil {
		return fmt.Errorf("exporting court: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportPath)
	return nil
}
