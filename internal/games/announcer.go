package games

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

var ErrNoSpeechEngine = errors.New("no speech engine found")

// speechEngines are tried in order.
var speechEngines = []string{"say", "espeak-ng", "espeak", "spd-say"}

// SpeechAnnouncer speaks through the first text-to-speech command found
// on PATH. Speech runs in the background; a new cue interrupts the
// previous one.
type SpeechAnnouncer struct {
	path string
	mu   sync.Mutex
	cur  *exec.Cmd
}

// NewSpeechAnnouncer locates a speech engine.
func NewSpeechAnnouncer() (*SpeechAnnouncer, error) {
	for _, name := range speechEngines {
		if p, err := exec.LookPath(name); err == nil {
			return &SpeechAnnouncer{path: p}, nil
		}
	}
	return nil, ErrNoSpeechEngine
}

func (s *SpeechAnnouncer) Announce(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur != nil && s.cur.Process != nil {
		_ = s.cur.Process.Kill()
	}
	cmd := exec.Command(s.path, text)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", s.path, err)
	}
	s.cur = cmd
	go func() { _ = cmd.Wait() }()
	return nil
}

// WriterAnnouncer prints cues as lines, for terminals without speech.
type WriterAnnouncer struct {
	W io.Writer
}

func (w WriterAnnouncer) Announce(text string) error {
	_, err := fmt.Fprintf(w.W, "\a%s\r\n", text)
	return err
}

// MultiAnnouncer fans a cue out to several announcers and returns the
// first error.
type MultiAnnouncer []Announcer

func (m MultiAnnouncer) Announce(text string) error {
	var first error
	for _, a := range m {
		if err := a.Announce(text); err != nil && first == nil {
			first = err
		}
	}
	return first
}
