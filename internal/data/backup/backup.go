// Package backup encodes and decodes the portable backup document. The
// document layout matches the files written by the original mobile app so
// those backups import unchanged.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-breathfree/internal/core/economy"
	"github.com/penwyp/go-breathfree/internal/core/model"
)

const (
	Version = 1
	AppName = "BreathFree"
)

var ErrInvalidBackup = errors.New("invalid backup file format")

// Meta describes the document.
type Meta struct {
	Version   int    `json:"version"`
	CreatedAt string `json:"createdAt"`
	AppName   string `json:"appName"`
}

// Payload carries the application state. A nil field means the key is
// absent from the document and import leaves the stored value alone.
type Payload struct {
	Entries         []model.Entry         `json:"entries"`
	FinancialConfig *model.FinancialModel `json:"financialConfig"`
	RemindMe        json.RawMessage       `json:"remindMe"`
	CardOrder       []string              `json:"cardOrder"`
	Inventory       *model.Inventory      `json:"inventory"`
	WalletState     *economy.Ledger       `json:"walletState"`
	Settings        *model.Settings       `json:"settings"`
	QuitTimestamp   *int64                `json:"quitTimestamp"`
	SolvedGames     []string              `json:"solvedGames,omitempty"`
}

// Document is the file written by Encode.
type Document struct {
	Meta    Meta     `json:"meta"`
	Payload *Payload `json:"payload"`
}

// Encode writes p as an indented backup document stamped with createdAt.
func Encode(p Payload, createdAt time.Time) ([]byte, error) {
	doc := Document{
		Meta: Meta{
			Version:   Version,
			CreatedAt: createdAt.UTC().Format("2006-01-02T15:04:05.000Z"),
			AppName:   AppName,
		},
		Payload: &p,
	}
	if p.Entries == nil {
		doc.Payload.Entries = []model.Entry{}
	}
	data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("backup: encode: %w", err)
	}
	return data, nil
}

// Decode parses and validates a backup document. Nothing is returned
// unless the whole document is usable.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if doc.Payload == nil {
		return nil, fmt.Errorf("%w: missing payload", ErrInvalidBackup)
	}
	if err := doc.Payload.normalize(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// normalize coerces entry quantities, drops JSON nulls that decoded as
// present values and validates everything that will be written.
func (p *Payload) normalize() error {
	for i, e := range p.Entries {
		e = e.Normalized()
		if err := e.Validate(); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrInvalidBackup, i, err)
		}
		p.Entries[i] = e
	}

	if string(p.RemindMe) == "null" {
		p.RemindMe = nil
	}
	if p.RemindMe != nil && !sonic.Valid(p.RemindMe) {
		return fmt.Errorf("%w: remindMe is not valid JSON", ErrInvalidBackup)
	}

	if f := p.FinancialConfig; f != nil {
		if f.UnitCost < 0 || f.UnitLifetimeDays <= 0 {
			return fmt.Errorf("%w: financialConfig: %v", ErrInvalidBackup, model.ErrInvalidFinancial)
		}
	}

	if p.WalletState != nil {
		p.WalletState.Normalize()
	}

	if p.Inventory != nil {
		for i, item := range *p.Inventory {
			if item.ID == "" {
				return fmt.Errorf("%w: inventory item %d has no id", ErrInvalidBackup, i)
			}
		}
	}

	if p.QuitTimestamp != nil && *p.QuitTimestamp <= 0 {
		p.QuitTimestamp = nil
	}
	return nil
}

// FileName is the default export name for the given day.
func FileName(now time.Time) string {
	return fmt.Sprintf("breathfree-backup-%s.json", now.Format("2006-01-02"))
}
