package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// EntryKind distinguishes a resisted craving from a consumption event.
type EntryKind string

const (
	KindResist EntryKind = "RESIST"
	// KindConsume serialises as PUFF so backups from the mobile app load.
	KindConsume EntryKind = "PUFF"
)

var ErrInvalidEntry = errors.New("invalid entry")

// UnmarshalJSON accepts RESIST, PUFF and CONSUME in any case.
func (k *EntryKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := sonic.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("entry kind must be a string: %w", err)
	}
	kind, err := ParseEntryKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseEntryKind maps user and wire spellings onto a kind.
func ParseEntryKind(s string) (EntryKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RESIST":
		return KindResist, nil
	case "PUFF", "CONSUME":
		return KindConsume, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidEntry, s)
	}
}

func (k EntryKind) Label() string {
	if k == KindConsume {
		return "consume"
	}
	return "resist"
}

// Entry is one logged event. Timestamp is Unix milliseconds.
type Entry struct {
	ID        string    `json:"id"`
	Kind      EntryKind `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Quantity  int       `json:"count,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// Validate checks that quantity is present exactly for consume entries.
func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidEntry)
	}
	switch e.Kind {
	case KindConsume:
		if e.Quantity < 1 {
			return fmt.Errorf("%w: consume entry %s needs a positive count", ErrInvalidEntry, e.ID)
		}
	case KindResist:
		if e.Quantity != 0 {
			return fmt.Errorf("%w: resist entry %s cannot carry a count", ErrInvalidEntry, e.ID)
		}
	default:
		return fmt.Errorf("%w: entry %s has unknown kind %q", ErrInvalidEntry, e.ID, e.Kind)
	}
	return nil
}

// Normalized returns the entry with quantity coerced to its kind.
func (e Entry) Normalized() Entry {
	switch e.Kind {
	case KindConsume:
		if e.Quantity < 1 {
			e.Quantity = 1
		}
	default:
		e.Quantity = 0
	}
	return e
}

func (e Entry) IsResist() bool  { return e.Kind == KindResist }
func (e Entry) IsConsume() bool { return e.Kind == KindConsume }
