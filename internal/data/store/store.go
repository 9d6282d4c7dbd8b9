// Package store persists application state as raw JSON values under a
// small fixed set of keys. Two backends exist: a directory of JSON files
// and a single SQLite database.
package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/penwyp/go-breathfree/internal/util"
)

// Keys used by the application.
const (
	KeyEntries   = "entries"
	KeyQuitEpoch = "quit_epoch"
	KeyFinancial = "financial"
	KeyInventory = "inventory"
	KeyWallet    = "wallet"
	KeySettings  = "settings"
	KeyGames     = "games"
	KeyCardOrder = "card_order"
	KeyRemindMe  = "remind_me"
)

// AllKeys lists every key Reset removes.
var AllKeys = []string{
	KeyEntries,
	KeyQuitEpoch,
	KeyFinancial,
	KeyInventory,
	KeyWallet,
	KeySettings,
	KeyGames,
	KeyCardOrder,
	KeyRemindMe,
}

var (
	ErrInvalidKey     = errors.New("invalid store key")
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrClosed         = errors.New("store is closed")
)

// Store is a key-value persistence backend.
type Store interface {
	// Load returns the stored value and whether it exists.
	Load(key string) ([]byte, bool, error)
	Save(key string, value []byte) error
	// Delete removes keys; missing keys are ignored.
	Delete(keys ...string) error
	// Location is the file or directory holding the data.
	Location() string
	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// SQLiteFileName is the database file created inside the data directory.
const SQLiteFileName = "breathfree.db"

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Open creates the backend named kind rooted at dir.
func Open(kind, dir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case BackendJSON, "":
		fs, err := NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		if err := fs.Preload(); err != nil {
			util.LogWarn("file store: preload failed", util.F("dir", dir), util.F("error", err))
		}
		return fs, nil
	case BackendSQLite:
		return OpenSQLite(dir)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}
