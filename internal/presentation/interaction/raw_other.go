//go:build !darwin && !linux

package interaction

func (kr *KeyboardReader) enableRawMode() error {
	return ErrNoTerminal
}
