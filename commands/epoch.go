package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-breathfree/internal/core/journal"
	"github.com/penwyp/go-breathfree/internal/presentation/formatter"
	"github.com/penwyp/go-breathfree/internal/util"
)

func newEpochCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "epoch",
		Aliases: []string{"quit-date"},
		Short:   "Show or change the quit date",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the quit date and streak",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.print(cmd, o.epochView())
			},
		},
		&cobra.Command{
			Use:   "set <YYYY-MM-DD [HH:MM]>",
			Short: "Set the quit date; future times are clamped to now",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ts, err := journal.ParseLocalDateTime(strings.Join(args, " "), util.GetTimeProvider().Location())
				if err != nil {
					return err
				}
				o.app.SetEpoch(ts)
				return o.print(cmd, o.epochView())
			},
		},
		&cobra.Command{
			Use:   "start",
			Short: "Start the smoke-free timer now",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				o.app.StartNow()
				return o.print(cmd, o.epochView())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget the quit date",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				o.app.ClearEpoch()
				return o.notice(cmd, nil, "Quit date cleared.")
			},
		},
	)
	return cmd
}

func (o *rootOptions) epochView() formatter.EpochView {
	r := o.app.Report()
	return formatter.EpochView{Epoch: o.app.Epoch().Ptr(), Streak: r.Streak, StreakMs: r.StreakMs}
}
