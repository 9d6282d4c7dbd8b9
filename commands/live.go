package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-breathfree/internal/application/app"
	"github.com/penwyp/go-breathfree/internal/core/model"
	"github.com/penwyp/go-breathfree/internal/presentation/display"
	"github.com/penwyp/go-breathfree/internal/presentation/interaction"
	"github.com/penwyp/go-breathfree/internal/presentation/layout"
	"github.com/penwyp/go-breathfree/internal/util"
)

const historyDays = 7

func newLiveCmd(o *rootOptions) *cobra.Command {
	var (
		timeFormat string
		minimal    bool
	)
	cmd := &cobra.Command{
		Use:     "live",
		Aliases: []string{"top", "dashboard"},
		Short:   "Live dashboard that updates every second",
		Long: `Live dashboard of streak, savings, credits and skill levels, updated every
second and immediately after a resume, a terminal focus change, or a write
to the data directory by another go-breathfree process.

Keys: r refresh · t toggle layout · p pause · h help · q quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if timeFormat != "12h" && timeFormat != "24h" {
				return fmt.Errorf("invalid time format '%s': must be either '12h' or '24h'", timeFormat)
			}
			kr, err := interaction.NewKeyboardReader()
			if err != nil {
				return err
			}
			defer kr.Close()

			var opts []app.TickerOption
			if w, err := app.NewWatcher(o.cfg.DataDir); err != nil {
				util.LogWarn("file watching disabled", util.F("error", err))
			} else {
				defer w.Close()
				opts = append(opts, app.WithWatcher(w))
			}
			ticker := app.NewTicker(o.app, o.cfg.RefreshInterval(), opts...)

			s := &liveSession{
				app:        o.app,
				display:    display.NewTerminalDisplay(cmd.OutOrStdout()),
				timeFormat: timeFormat,
			}
			if minimal {
				s.state.LayoutStyle = layout.StyleMinimal
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			s.display.EnterAlternateScreen()
			defer s.display.ExitAlternateScreen()

			go s.handleKeys(ctx, kr.Events(), ticker, cancel)
			return ticker.Run(ctx, s.render)
		},
	}
	cmd.Flags().StringVar(&timeFormat, "time-format", "24h", "Time format (12h or 24h)")
	cmd.Flags().BoolVar(&minimal, "minimal", false, "Start with the one-line layout")
	return cmd
}

// liveSession owns the interactive state shared by the key handler and
// the ticker's render callback.
type liveSession struct {
	app        *app.App
	display    *display.TerminalDisplay
	timeFormat string

	mu    sync.Mutex
	state display.State
	last  *app.Frame
}

func (s *liveSession) render(f app.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Paused && s.last != nil && f.Trigger == app.TriggerTick {
		return
	}
	s.last = &f
	s.display.Render(s.dashboard(f), s.state)
	s.state.StatusMessage = ""
}

func (s *liveSession) dashboard(f app.Frame) layout.Dashboard {
	return layout.Dashboard{
		Report:     f.Report,
		Balance:    f.Balance,
		Cards:      s.app.CardOrder(),
		Gamified:   s.app.Settings().EnableGamification,
		History:    s.app.DailyCounts(historyDays),
		RemindMe:   model.ParseRemindMe(s.app.RemindMe()).Headline(),
		TimeFormat: s.timeFormat,
	}
}

func (s *liveSession) handleKeys(ctx context.Context, keys <-chan interaction.KeyEvent, t *app.Ticker, quit func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case k, ok := <-keys:
			if !ok {
				return
			}
			if s.apply(k) {
				quit()
				return
			}
			if k.Type == interaction.KeyChar && (k.Key == 'r' || k.Key == 'R') {
				if err := s.app.Reload(); err != nil {
					util.LogError("reload failed", util.F("error", err))
				}
			}
			if k.Type == interaction.KeyFocusIn {
				t.Poke(app.TriggerFocus)
			} else {
				t.Poke(app.TriggerRequest)
			}
		}
	}
}

// apply updates the state for one key and reports whether to quit.
func (s *liveSession) apply(k interaction.KeyEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if k.IsQuit() {
		if s.state.ShowHelp && k.Type == interaction.KeyEscape {
			s.state.ShowHelp = false
			return false
		}
		return true
	}
	if k.Type != interaction.KeyChar {
		return false
	}
	switch k.Key {
	case 'r', 'R':
		s.state.StatusMessage = "refreshed"
	case 't', 'T':
		s.state.LayoutStyle = layout.NextStyle(s.state.LayoutStyle)
		s.state.StatusMessage = "layout: " + layout.GetLayoutStrategy(s.state.LayoutStyle).GetName()
	case 'p', 'P':
		s.state.Paused = !s.state.Paused
	case 'h', 'H', '?':
		s.state.ShowHelp = !s.state.ShowHelp
	}
	return false
}
