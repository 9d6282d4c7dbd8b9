package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-breathfree/internal/presentation/formatter"
)

func newProgressCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "progress",
		Aliases: []string{"journey"},
		Short:   "Show streak, savings, credits and skill levels",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.discover(cmd, "tab_journey")
			return o.print(cmd, formatter.ProgressView{Report: o.app.Report(), Balance: o.app.Balance()})
		},
	}
}

func newStatsCmd(o *rootOptions) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Per-day resisted and consumed counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 || days > 366 {
				return fmt.Errorf("--days must be between 1 and 366, got %d", days)
			}
			return o.print(cmd, formatter.NewStatsView(o.app.DailyCounts(days)))
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Number of days to show")
	return cmd
}
