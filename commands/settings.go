package commands

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/penwyp/go-breathfree/internal/core/model"
	"github.com/penwyp/go-breathfree/internal/presentation/formatter"
)

func newSettingsCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.print(cmd, o.settingsView())
		},
	}

	gamification := &cobra.Command{
		Use:       "gamification <on|off>",
		Short:     "Turn credits, discoveries and games rewards on or off",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch strings.ToLower(args[0]) {
			case "on", "true", "1":
				o.app.SetGamification(true)
			case "off", "false", "0":
				o.app.SetGamification(false)
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			return o.print(cmd, o.settingsView())
		},
	}

	cards := &cobra.Command{
		Use:   "cards <section...>",
		Short: "Reorder the live dashboard sections",
		Long: "Reorder the live dashboard sections. Known sections: " +
			strings.Join(model.DefaultCardOrder, ", ") + ".\nSections left out keep their default place at the end.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.app.SetCardOrder(args)
			return o.print(cmd, o.settingsView())
		},
	}

	cmd.AddCommand(gamification, cards, newRemindCmd(o))
	return cmd
}

func (o *rootOptions) settingsView() formatter.SettingsView {
	return formatter.SettingsView{
		Gamification: o.app.Settings().EnableGamification,
		CardOrder:    o.app.CardOrder(),
	}
}

func newRemindCmd(o *rootOptions) *cobra.Command {
	var note model.RemindMe
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Show or edit your reasons for quitting",
		Example: `  go-breathfree settings remind --motivation "Run a 10k with my daughter"
  go-breathfree settings remind --journal "Day 3, the morning coffee was hard"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := model.ParseRemindMe(o.app.RemindMe())
			flags := cmd.Flags()
			edited := false
			for _, name := range []string{"motivation", "strategies", "benefits", "journal"} {
				edited = edited || flags.Changed(name)
			}
			if !edited {
				o.discover(cmd, "remind_expanded")
				return o.print(cmd, formatter.RemindView{RemindMe: current})
			}

			wasSetup := current.IsSetup
			if flags.Changed("motivation") {
				current.Motivation = note.Motivation
			}
			if flags.Changed("strategies") {
				current.Strategies = note.Strategies
			}
			if flags.Changed("benefits") {
				current.Benefits = note.Benefits
			}
			if flags.Changed("journal") {
				current.Journal = note.Journal
			}
			current.IsSetup = strings.TrimSpace(current.Motivation) != ""

			raw, err := sonic.Marshal(current)
			if err != nil {
				return err
			}
			if err := o.app.SetRemindMe(raw); err != nil {
				return err
			}
			if current.IsSetup && !wasSetup {
				o.discover(cmd, "remind_setup_complete")
			}
			return o.print(cmd, formatter.RemindView{RemindMe: current})
		},
	}
	cmd.Flags().StringVar(&note.Motivation, "motivation", "", "Why you are quitting")
	cmd.Flags().StringVar(&note.Strategies, "strategies", "", "What you do when a craving hits")
	cmd.Flags().StringVar(&note.Benefits, "benefits", "", "What you have noticed since quitting")
	cmd.Flags().StringVar(&note.Journal, "journal", "", "Free-form journal text")
	return cmd
}
