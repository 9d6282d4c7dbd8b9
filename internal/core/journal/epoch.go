package journal

// Epoch is the quit timestamp, the start of the current abstinence streak.
type Epoch struct {
	ts  int64
	set bool
}

// EpochAt returns a set epoch.
func EpochAt(ts int64) Epoch { return Epoch{ts: ts, set: true} }

// EpochFromPtr adapts the stored optional form.
func EpochFromPtr(ts *int64) Epoch {
	if ts == nil {
		return Epoch{}
	}
	return EpochAt(*ts)
}

// Value returns the timestamp and whether one is set.
func (e Epoch) Value() (int64, bool) { return e.ts, e.set }

// Ptr returns the stored optional form.
func (e Epoch) Ptr() *int64 {
	if !e.set {
		return nil
	}
	ts := e.ts
	return &ts
}

// ObserveConsume applies the relapse rule: a consume event at or after the
// current epoch, or any consume event when none is set, becomes the new
// epoch. Older events never move it back. Reports whether it moved.
func (e *Epoch) ObserveConsume(ts int64) bool {
	if e.set && ts < e.ts {
		return false
	}
	e.ts, e.set = ts, true
	return true
}

// Set overrides the epoch unconditionally.
func (e *Epoch) Set(ts int64) { e.ts, e.set = ts, true }

// Clear unsets the epoch.
func (e *Epoch) Clear() { e.ts, e.set = 0, false }

// DeriveEpoch recovers an epoch from the newest consume entry in j.
func DeriveEpoch(j *Journal) Epoch {
	if ts, ok := j.LatestConsume(); ok {
		return EpochAt(ts)
	}
	return Epoch{}
}
