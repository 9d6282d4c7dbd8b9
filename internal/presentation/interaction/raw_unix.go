//go:build darwin || linux

package interaction

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// enableRawMode turns off echo and line buffering on stdin.
func (kr *KeyboardReader) enableRawMode() error {
	oldState, err := unix.IoctlGetTermios(kr.fd, ioctlReadTermios)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoTerminal, err)
	}

	newState := *oldState
	newState.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN
	// Keep ISIG enabled to allow Ctrl+C handling
	newState.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	newState.Cflag |= unix.CS8
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(kr.fd, ioctlWriteTermios, &newState); err != nil {
		return err
	}
	fd := kr.fd
	kr.restore = func() error {
		return unix.IoctlSetTermios(fd, ioctlWriteTermios, oldState)
	}
	return nil
}
