package interaction

import (
	"bytes"
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/penwyp/go-breathfree/internal/util"
)

// ErrNoTerminal is returned when raw mode is not available.
var ErrNoTerminal = errors.New("keyboard input requires an interactive terminal")

// KeyboardReader handles keyboard input in raw mode
type KeyboardReader struct {
	fd    int
	in    io.Reader
	input chan KeyEvent
	stop  chan struct{}
	once  sync.Once
	// restore undoes raw mode; nil when the terminal was never changed.
	restore func() error
}

// KeyEvent represents a keyboard event
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyType represents the type of key pressed
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	// KeyFocusIn and KeyFocusOut arrive while focus reporting is enabled.
	KeyFocusIn
	KeyFocusOut
)

const (
	KeyCtrlC rune = 3
	KeyEsc   rune = 27
	KeySpace rune = ' '
)

// IsQuit reports whether the key asks to leave the current screen.
func (e KeyEvent) IsQuit() bool {
	return e.Type == KeyEscape || (e.Type == KeyChar && (e.Key == 'q' || e.Key == 'Q' || e.Key == KeyCtrlC))
}

// NewKeyboardReader puts stdin in raw mode and starts reading keys.
func NewKeyboardReader() (*KeyboardReader, error) {
	kr := newReader(os.Stdin)
	kr.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(kr.fd) {
		return nil, ErrNoTerminal
	}

	// Set terminal to raw mode
	if err := kr.enableRawMode(); err != nil {
		return nil, err
	}

	// Start reading keyboard input
	go kr.readInput()

	return kr, nil
}

func newReader(in io.Reader) *KeyboardReader {
	return &KeyboardReader{
		in:    in,
		fd:    -1,
		input: make(chan KeyEvent, 10),
		stop:  make(chan struct{}),
	}
}

// readInput reads keyboard input in a goroutine
func (kr *KeyboardReader) readInput() {
	buf := make([]byte, 16)

	for {
		select {
		case <-kr.stop:
			return
		default:
		}

		n, err := kr.in.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			util.LogDebugf("keyboard read: %v", err)
			continue
		}

		for _, event := range kr.parseInput(buf[:n]) {
			select {
			case kr.input <- event:
			case <-kr.stop:
				return
			}
		}
	}
}

// parseInput splits one read into key events. A read may carry several
// keys, or a focus report followed by a key.
func (kr *KeyboardReader) parseInput(buf []byte) []KeyEvent {
	var events []KeyEvent
	for len(buf) > 0 {
		switch {
		case bytes.HasPrefix(buf, []byte(util.FocusIn)):
			events = append(events, KeyEvent{Type: KeyFocusIn})
			buf = buf[len(util.FocusIn):]
		case bytes.HasPrefix(buf, []byte(util.FocusOut)):
			events = append(events, KeyEvent{Type: KeyFocusOut})
			buf = buf[len(util.FocusOut):]
		case buf[0] == byte(KeyEsc):
			if len(buf) >= 3 && buf[1] == '[' {
				// Unhandled CSI sequence (arrows and friends).
				buf = buf[3:]
				continue
			}
			events = append(events, KeyEvent{Key: KeyEsc, Type: KeyEscape})
			buf = buf[1:]
		default:
			events = append(events, KeyEvent{Key: rune(buf[0]), Type: KeyChar})
			buf = buf[1:]
		}
	}
	return events
}

// Events returns the keyboard event channel
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close stops the keyboard reader and restores terminal
func (kr *KeyboardReader) Close() error {
	var err error
	kr.once.Do(func() {
		close(kr.stop)
		if kr.restore != nil {
			err = kr.restore()
		}
	})
	return err
}
