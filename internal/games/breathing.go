package games

import (
	"errors"
	"sync"
	"time"

	"github.com/penwyp/go-breathfree/internal/core/constants"
	"github.com/penwyp/go-breathfree/internal/core/economy"
	"github.com/penwyp/go-breathfree/internal/util"
)

var ErrSessionActive = errors.New("breathing session already running")

// Phase of the breathing pacer.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInhale
	PhaseHold
	PhaseExhale
	PhaseComplete
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseInhale:
		return "Inhale"
	case PhaseHold:
		return "Hold"
	case PhaseExhale:
		return "Exhale"
	case PhaseComplete:
		return "Complete"
	case PhaseCancelled:
		return "Cancelled"
	default:
		return "Idle"
	}
}

// Prompt is the on-screen instruction for a phase.
func (p Phase) Prompt() string {
	switch p {
	case PhaseInhale:
		return "Inhale deeply..."
	case PhaseHold:
		return "Hold your breath..."
	case PhaseExhale:
		return "Exhale slowly..."
	case PhaseComplete:
		return "Session Complete!"
	case PhaseCancelled:
		return "Session Stopped"
	default:
		return "Press Start"
	}
}

// CompletionPhrase is spoken when all cycles finish.
const CompletionPhrase = "Session complete. Well done."

// Announcer speaks phase cues.
type Announcer interface {
	Announce(text string) error
}

// PacerConfig sets phase lengths and cycle count.
type PacerConfig struct {
	Inhale time.Duration
	Hold   time.Duration
	Exhale time.Duration
	Cycles int
}

// DefaultPacerConfig is the 4-7-8 pattern, three times.
func DefaultPacerConfig() PacerConfig {
	return PacerConfig{
		Inhale: constants.InhaleDuration,
		Hold:   constants.HoldDuration,
		Exhale: constants.ExhaleDuration,
		Cycles: constants.BreathingCycles,
	}
}

func (c PacerConfig) duration(p Phase) time.Duration {
	switch p {
	case PhaseInhale:
		return c.Inhale
	case PhaseHold:
		return c.Hold
	default:
		return c.Exhale
	}
}

// PhaseEvent is published on every transition.
type PhaseEvent struct {
	Phase    Phase
	Cycle    int
	Duration time.Duration
	Awarded  int64
}

// Breather paces a breathing session with timers. Completion pays the
// breathing reward once; cancelling pays nothing.
type Breather struct {
	mu        sync.Mutex
	cfg       PacerConfig
	earner    Earner
	announcer Announcer
	muted     bool

	phase   Phase
	cycle   int
	holding bool
	gen     int
	timer   *time.Timer
	done    chan struct{}
	events  chan PhaseEvent
}

// NewBreather creates an idle pacer. announcer may be nil.
func NewBreather(cfg PacerConfig, earner Earner, announcer Announcer) *Breather {
	if cfg.Cycles < 1 {
		cfg.Cycles = 1
	}
	return &Breather{
		cfg:       cfg,
		earner:    earner,
		announcer: announcer,
		events:    make(chan PhaseEvent, 32),
	}
}

// Events delivers transitions. Events are dropped if the reader falls
// behind.
func (b *Breather) Events() <-chan PhaseEvent { return b.events }

// Start begins the first inhale. The returned channel closes when the
// session completes or is cancelled.
func (b *Breather) Start() (<-chan struct{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.active() {
		return nil, ErrSessionActive
	}
	b.gen++
	b.cycle = 0
	b.done = make(chan struct{})
	b.enter(PhaseInhale)
	return b.done, nil
}

// Cancel stops pending timers. It is a no-op when idle.
func (b *Breather) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active() {
		return
	}
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.phase = PhaseCancelled
	b.publish(PhaseEvent{Phase: PhaseCancelled, Cycle: b.cycle})
	close(b.done)
}

// SetMuted silences announcements without affecting timing.
func (b *Breather) SetMuted(muted bool) {
	b.mu.Lock()
	b.muted = muted
	b.mu.Unlock()
}

// SetHolding records whether the user is holding the pacing key.
func (b *Breather) SetHolding(holding bool) {
	b.mu.Lock()
	b.holding = holding
	b.mu.Unlock()
}

// SyncError reports whether the user is out of step: during inhale and
// hold the key should be held, during exhale released. Advisory only.
func (b *Breather) SyncError() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.phase {
	case PhaseInhale, PhaseHold:
		return !b.holding
	case PhaseExhale:
		return b.holding
	default:
		return false
	}
}

// State returns the current phase and completed cycle count.
func (b *Breather) State() (Phase, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase, b.cycle
}

func (b *Breather) active() bool {
	return b.phase == PhaseInhale || b.phase == PhaseHold || b.phase == PhaseExhale
}

// enter switches phase and arms the timer. Caller holds mu.
func (b *Breather) enter(p Phase) {
	b.phase = p
	d := b.cfg.duration(p)
	b.announce(p.String())
	b.publish(PhaseEvent{Phase: p, Cycle: b.cycle, Duration: d})

	gen := b.gen
	b.timer = time.AfterFunc(d, func() { b.advance(gen) })
}

func (b *Breather) advance(gen int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.gen || !b.active() {
		return
	}

	switch b.phase {
	case PhaseInhale:
		b.enter(PhaseHold)
	case PhaseHold:
		b.enter(PhaseExhale)
	case PhaseExhale:
		b.cycle++
		if b.cycle < b.cfg.Cycles {
			b.enter(PhaseInhale)
			return
		}
		b.finish()
	}
}

// finish pays the reward and closes the session. Caller holds mu.
func (b *Breather) finish() {
	b.timer = nil
	b.phase = PhaseComplete
	b.announce(CompletionPhrase)

	reward := economy.RewardFor(economy.ActionBreathing).Credits
	awarded := int64(0)
	if b.earner != nil {
		if err := b.earner.Earn(reward); err != nil {
			util.LogWarn("breathing reward not credited", util.F("error", err))
		} else {
			awarded = reward
		}
	}
	b.publish(PhaseEvent{Phase: PhaseComplete, Cycle: b.cycle, Awarded: awarded})
	close(b.done)
}

func (b *Breather) announce(text string) {
	if b.muted || b.announcer == nil {
		return
	}
	if err := b.announcer.Announce(text); err != nil {
		util.LogDebugf("announce %q: %v", text, err)
	}
}

func (b *Breather) publish(ev PhaseEvent) {
	select {
	case b.events <- ev:
	default:
	}
}
