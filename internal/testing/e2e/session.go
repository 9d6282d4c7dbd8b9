// Package e2e drives the built binary through a pseudo-terminal so the
// raw-mode keyboard and the alternate-screen dashboard run for real.
package e2e

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes CSI escape sequences.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// Config describes one binary run.
type Config struct {
	Binary  string
	Args    []string
	Env     []string
	Rows    uint16
	Cols    uint16
	Timeout time.Duration
}

// Session is a running binary attached to a PTY.
type Session struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	cancel context.CancelFunc

	mu     sync.Mutex
	output bytes.Buffer
	done   chan struct{}
}

// Start launches the binary on a new PTY.
func Start(cfg Config) (*Session, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Rows == 0 {
		cfg.Rows = 40
	}
	if cfg.Cols == 0 {
		cfg.Cols = 100
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	cmd := exec.CommandContext(ctx, cfg.Binary, cfg.Args...)
	cmd.Env = append(os.Environ(), cfg.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: cfg.Rows, Cols: cfg.Cols})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	s := &Session{cmd: cmd, ptmx: ptmx, cancel: cancel, done: make(chan struct{})}
	go s.capture()
	return s, nil
}

func (s *Session) capture() {
	defer close(s.done)
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.output.Write(buf[:n])
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Send writes keys to the program's terminal.
func (s *Session) Send(keys string) error {
	_, err := io.WriteString(s.ptmx, keys)
	return err
}

// Output is everything written so far, escape sequences included.
func (s *Session) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output.String()
}

// WaitFor polls until the ANSI-stripped output contains text.
func (s *Session) WaitFor(text string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(StripANSI(s.Output()), text) {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for %q", text)
}

// Wait blocks until the program exits and returns its error.
func (s *Session) Wait(timeout time.Duration) error {
	exited := make(chan error, 1)
	go func() { exited <- s.cmd.Wait() }()
	select {
	case err := <-exited:
		s.close()
		return err
	case <-time.After(timeout):
		s.Kill()
		return errors.New("program did not exit")
	}
}

// Kill stops the program and releases the PTY.
func (s *Session) Kill() {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	s.close()
}

func (s *Session) close() {
	s.cancel()
	_ = s.ptmx.Close()
	<-s.done
}
