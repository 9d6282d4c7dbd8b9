package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-breathfree/internal/games"
	"github.com/penwyp/go-breathfree/internal/presentation/display"
	"github.com/penwyp/go-breathfree/internal/presentation/interaction"
	"github.com/penwyp/go-breathfree/internal/presentation/layout"
	"github.com/penwyp/go-breathfree/internal/util"
)

func newBreatheCmd(o *rootOptions) *cobra.Command {
	var mute bool
	cmd := &cobra.Command{
		Use:     "breathe",
		Aliases: []string{"zen"},
		Short:   "Guided 4-7-8 breathing, three cycles",
		Long: `Guided 4-7-8 breathing: inhale 4s, hold 7s, exhale 8s, three times.
Press space when you start inhaling and again when you start exhaling to
pace yourself; q or Esc stops the session. Finishing pays 50 credits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.discover(cmd, "game_cat_zen_breather")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			b := games.NewBreather(games.DefaultPacerConfig(), o.app.Earner(), o.announcer(mute || !o.cfg.Breathing.Voice))
			return runBreathing(ctx, b, keyboardEvents(), out)
		},
	}
	cmd.Flags().BoolVar(&mute, "mute", false, "Disable spoken cues")
	return cmd
}

// announcer returns a speech engine when voice is enabled and one is
// installed, otherwise nil.
func (o *rootOptions) announcer(muted bool) games.Announcer {
	if muted {
		return nil
	}
	s, err := games.NewSpeechAnnouncer()
	if err != nil {
		util.LogDebug("spoken cues unavailable", util.F("error", err))
		return nil
	}
	return s
}

// keyboardEvents opens raw keyboard input, or returns nil when stdin is
// not a terminal.
func keyboardEvents() *interaction.KeyboardReader {
	kr, err := interaction.NewKeyboardReader()
	if err != nil {
		if !errors.Is(err, interaction.ErrNoTerminal) {
			util.LogWarn("keyboard unavailable", util.F("error", err))
		}
		return nil
	}
	return kr
}

// runBreathing drives one session and prints each transition. Lines end
// in \r\n because the terminal may be in raw mode.
func runBreathing(ctx context.Context, b *games.Breather, kr *interaction.KeyboardReader, out io.Writer) error {
	var keys <-chan interaction.KeyEvent
	if kr != nil {
		keys = kr.Events()
		fmt.Fprint(out, "space: inhale/exhale cue · q: stop\r\n")
	}

	done, err := b.Start()
	if err != nil {
		if kr != nil {
			_ = kr.Close()
		}
		return err
	}

	interrupted := ctx.Done()
	holding := false
	var awarded int64
loop:
	for {
		select {
		case <-interrupted:
			interrupted = nil
			b.Cancel()
		case k, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			switch {
			case k.IsQuit():
				b.Cancel()
			case k.Type == interaction.KeyChar && k.Key == interaction.KeySpace:
				holding = !holding
				b.SetHolding(holding)
				if b.SyncError() {
					fmt.Fprintf(out, "%s\r\n", util.Colorize(util.ColorYellow, "  out of step, follow the prompt"))
				}
			}
		case ev := <-b.Events():
			awarded += ev.Awarded
			printPhase(out, ev)
		case <-done:
			break loop
		}
	}

	// The final event is published just before done closes.
	for drained := false; !drained; {
		select {
		case ev := <-b.Events():
			awarded += ev.Awarded
			printPhase(out, ev)
		default:
			drained = true
		}
	}
	if kr != nil {
		_ = kr.Close()
	}
	return summarize(out, b, awarded)
}

func printPhase(out io.Writer, ev games.PhaseEvent) {
	switch ev.Phase {
	case games.PhaseInhale, games.PhaseHold, games.PhaseExhale:
		fmt.Fprintf(out, "[%d/%d] %-20s %s\r\n",
			ev.Cycle+1, games.DefaultPacerConfig().Cycles, ev.Phase.Prompt(), util.FormatDuration(ev.Duration))
	}
}

func summarize(out io.Writer, b *games.Breather, awarded int64) error {
	phase, cycles := b.State()
	text := fmt.Sprintf("%d of %d cycles finished.", cycles, games.DefaultPacerConfig().Cycles)
	if phase == games.PhaseComplete {
		text = games.CompletionPhrase + "\n" + text
		if awarded > 0 {
			text += fmt.Sprintf("\n+%d credits", awarded)
		}
	}
	display.Boxed(out, phase.Prompt(), text, layout.Sizer{}.GetMaxWidth())
	return nil
}
