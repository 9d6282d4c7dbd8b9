package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/go-breathfree/internal/core/constants"
	"github.com/penwyp/go-breathfree/internal/core/progression"
	"github.com/penwyp/go-breathfree/internal/util"
)

// Trigger is why a frame was rendered.
type Trigger string

const (
	TriggerStart   Trigger = "start"
	TriggerTick    Trigger = "tick"
	TriggerResume  Trigger = "resume"
	TriggerFocus   Trigger = "focus"
	TriggerData    Trigger = "data"
	TriggerRequest Trigger = "request"
)

// Frame is one recomputed report.
type Frame struct {
	Report  progression.Report
	Balance Balance
	Trigger Trigger
}

// Ticker recomputes progression once per interval and immediately on
// recovery events: SIGCONT, terminal focus, or data written by another
// process.
type Ticker struct {
	app      *App
	interval time.Duration
	pokes    chan Trigger
	watcher  *Watcher
	signals  bool
}

// TickerOption configures a Ticker.
type TickerOption func(*Ticker)

// WithWatcher reloads state when w reports a change.
func WithWatcher(w *Watcher) TickerOption {
	return func(t *Ticker) { t.watcher = w }
}

// WithoutSignals disables the SIGCONT hook.
func WithoutSignals() TickerOption {
	return func(t *Ticker) { t.signals = false }
}

// NewTicker creates a ticker. A non-positive interval uses the default
// of one second.
func NewTicker(a *App, interval time.Duration, opts ...TickerOption) *Ticker {
	if interval <= 0 {
		interval = constants.DefaultRefreshInterval
	}
	t := &Ticker{
		app:      a,
		interval: interval,
		pokes:    make(chan Trigger, 4),
		signals:  true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Poke requests an immediate frame. It never blocks.
func (t *Ticker) Poke(reason Trigger) {
	select {
	case t.pokes <- reason:
	default:
	}
}

func (t *Ticker) frame(reason Trigger) Frame {
	return Frame{Report: t.app.Report(), Balance: t.app.Balance(), Trigger: reason}
}

// Run renders a frame at start and on every tick or trigger until ctx is
// done.
func (t *Ticker) Run(ctx context.Context, render func(Frame)) error {
	var sigs chan os.Signal
	if t.signals {
		sigs = make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGCONT)
		defer signal.Stop(sigs)
	}

	var fileEvents <-chan FileEvent
	if t.watcher != nil {
		fileEvents = t.watcher.Events()
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	render(t.frame(TriggerStart))
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			render(t.frame(TriggerTick))

		case <-sigs:
			util.LogDebug("resumed, recomputing")
			render(t.frame(TriggerResume))

		case reason := <-t.pokes:
			render(t.frame(reason))

		case ev := <-fileEvents:
			util.LogDebug("data changed on disk", util.F("path", ev.Path), util.F("op", ev.Operation))
			if err := t.app.Reload(); err != nil {
				util.LogError("reload failed", util.F("error", err))
			}
			render(t.frame(TriggerData))
		}
	}
}
