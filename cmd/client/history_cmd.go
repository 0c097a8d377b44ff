package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lorekeep/lorekeep/internal/client/history"
)

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past import runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := currentConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.HistoryDb)
			if err != nil {
				return err
			}
			defer store.Close()

			reports, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Println(gray.Render("no imports yet"))
				return nil
			}

			for _, r := range reports {
				fmt.Printf("%s  %s\n", titleStyle.Render(r.FileName), gray.Render(humanize.Time(r.CreatedAt)))
				fmt.Printf("  imported %d of %d (%d new, %d updated, %d errors)\n",
					r.Imported, r.Total, r.Creates, r.Updates, r.Errors)
				if r.ReportURL != "" {
					fmt.Printf("  %s\n", gray.Render(r.ReportURL))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}
