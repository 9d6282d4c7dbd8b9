package journal

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/penwyp/go-breathfree/internal/core/model"
)

var ErrEntryNotFound = errors.New("entry not found")

// Journal is the ordered event log. Entries are kept newest first; entries
// sharing a timestamp keep insertion order with the newest insert first.
type Journal struct {
	entries []model.Entry
}

// New builds a journal from stored entries, normalising quantities and
// restoring the canonical order.
func New(entries []model.Entry) *Journal {
	j := &Journal{entries: make([]model.Entry, 0, len(entries))}
	for _, e := range entries {
		j.entries = append(j.entries, e.Normalized())
	}
	j.sort()
	return j
}

// NewEntry creates an entry with a fresh id. Quantity is ignored for
// resist entries and defaults to 1 for consume entries.
func NewEntry(kind model.EntryKind, quantity int, timestamp int64, note string) model.Entry {
	return model.Entry{
		ID:        uuid.NewString(),
		Kind:      kind,
		Timestamp: timestamp,
		Quantity:  quantity,
		Note:      strings.TrimSpace(note),
	}.Normalized()
}

func (j *Journal) sort() {
	sort.SliceStable(j.entries, func(a, b int) bool {
		return j.entries[a].Timestamp > j.entries[b].Timestamp
	})
}

// Entries returns a copy in canonical order.
func (j *Journal) Entries() []model.Entry {
	out := make([]model.Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

func (j *Journal) Len() int { return len(j.entries) }

// Add inserts e, clamping a future timestamp (or a zero one) to now. It
// returns the stored entry.
func (j *Journal) Add(e model.Entry, now int64) model.Entry {
	if e.Timestamp == 0 || e.Timestamp > now {
		e.Timestamp = now
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e = e.Normalized()

	j.entries = append([]model.Entry{e}, j.entries...)
	j.sort()
	return e
}

// Get looks an entry up by id.
func (j *Journal) Get(id string) (model.Entry, bool) {
	for _, e := range j.entries {
		if e.ID == id {
			return e, true
		}
	}
	return model.Entry{}, false
}

// Update replaces the entry with the same id and re-sorts. Timestamps are
// taken as given; edits never move the quit epoch.
func (j *Journal) Update(e model.Entry) error {
	e = e.Normalized()
	if err := e.Validate(); err != nil {
		return err
	}
	for i := range j.entries {
		if j.entries[i].ID == e.ID {
			j.entries[i] = e
			j.sort()
			return nil
		}
	}
	return fmt.Errorf("update %s: %w", e.ID, ErrEntryNotFound)
}

// Delete removes the entry with id and reports whether it existed.
func (j *Journal) Delete(id string) bool {
	for i, e := range j.entries {
		if e.ID == id {
			j.entries = append(j.entries[:i], j.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Merge adds imported entries whose ids are not already present. Existing
// entries win on id collisions. It returns the number added.
func (j *Journal) Merge(imported []model.Entry) int {
	seen := make(map[string]bool, len(j.entries))
	for _, e := range j.entries {
		seen[e.ID] = true
	}

	fresh := make([]model.Entry, 0, len(imported))
	for _, e := range imported {
		if e.ID == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		fresh = append(fresh, e.Normalized())
	}

	j.entries = append(fresh, j.entries...)
	j.sort()
	return len(fresh)
}

// ClampFuture returns a copy of entries with timestamps after now moved to
// now, the same rule Add applies to a single entry.
func ClampFuture(entries []model.Entry, now int64) []model.Entry {
	if entries == nil {
		return nil
	}
	out := make([]model.Entry, len(entries))
	for i, e := range entries {
		if e.Timestamp > now {
			e.Timestamp = now
		}
		out[i] = e
	}
	return out
}

// ResistCount counts resist entries.
func (j *Journal) ResistCount() int {
	n := 0
	for _, e := range j.entries {
		if e.IsResist() {
			n++
		}
	}
	return n
}

// ConsumeTotal sums consume quantities.
func (j *Journal) ConsumeTotal() int {
	n := 0
	for _, e := range j.entries {
		if e.IsConsume() {
			n += e.Quantity
		}
	}
	return n
}

// Oldest returns the timestamp of the earliest entry.
func (j *Journal) Oldest() (int64, bool) {
	if len(j.entries) == 0 {
		return 0, false
	}
	return j.entries[len(j.entries)-1].Timestamp, true
}

// LatestConsume returns the timestamp of the newest consume entry.
func (j *Journal) LatestConsume() (int64, bool) {
	return LatestConsume(j.entries)
}

// Recent returns up to n newest entries.
func (j *Journal) Recent(n int) []model.Entry {
	if n > len(j.entries) || n < 0 {
		n = len(j.entries)
	}
	out := make([]model.Entry, n)
	copy(out, j.entries[:n])
	return out
}

// LatestConsume scans any slice, ordered or not.
func LatestConsume(entries []model.Entry) (int64, bool) {
	var latest int64
	found := false
	for _, e := range entries {
		if e.IsConsume() && (!found || e.Timestamp > latest) {
			latest = e.Timestamp
			found = true
		}
	}
	return latest, found
}
