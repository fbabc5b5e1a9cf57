package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"court-fitter/internal/store"
)

func newHistoryCommand() *cobra.Command {
	var (
		dbPath    string
		imagePath string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show stored fit results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if len(args) == 1 {
				f, err := db.Get(args[0])
				if err != nil {
					return err
				}
				printFit(cmd, f)
				fmt.Fprintf(cmd.OutOrStdout(), "  homography: %v\n", f.H)
				return nil
			}

			fits, err := db.List(imagePath, limit)
			if err != nil {
				return err
			}
			for _, f := range fits {
				printFit(cmd, f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "fits.db", "SQLite database of fit results")
	cmd.Flags().StringVar(&imagePath, "image", "", "Only show fits of this image")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of fits to show (0 = all)")

	return cmd
}

func printFit(cmd *cobra.Command, f *store.Fit) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-10s score %9.1f (search %9.1f)  lines %d/%d  %s\n",
		f.RunID, f.CreatedAt.Format("2006-01-02 15:04:05"), f.Court, f.Score, f.SearchScore,
		f.HorizontalLines, f.VerticalLines, f.ImagePath)
}
