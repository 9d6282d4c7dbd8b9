package commands

import (
	"github.com/spf13/cobra"

	"github.com/penwyp/go-breathfree/internal/coach"
	"github.com/penwyp/go-breathfree/internal/presentation/display"
	"github.com/penwyp/go-breathfree/internal/presentation/formatter"
	"github.com/penwyp/go-breathfree/internal/presentation/layout"
	"github.com/penwyp/go-breathfree/internal/util"
)

func newCoachCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "coach",
		Short: "Ask the AI coach for an insight on your recent log",
		Long: `Sends your 50 most recent entries to the configured model and prints an
insight and a practical tip. Set the key in the environment variable named
by coach.api_key_env (GEMINI_API_KEY by default). Without a key, or when the
request fails, a built-in message is shown instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := o.cfg.Coach
			svc := coach.NewFromConfig(cmd.Context(), coach.Config{
				Enabled:   cfg.Enabled,
				Model:     cfg.Model,
				APIKeyEnv: cfg.APIKeyEnv,
				Timeout:   o.cfg.CoachTimeout(),
			}, util.GetTimeProvider().Location())

			advice := svc.Advise(cmd.Context(), o.app.Entries())
			if !o.interactive() {
				return o.print(cmd, formatter.AdviceView{Advice: advice})
			}
			display.Boxed(cmd.OutOrStdout(), "Coach", advice.Message+"\n\nTip: "+advice.Tip, layout.Sizer{}.GetMaxWidth())
			return nil
		},
	}
}
