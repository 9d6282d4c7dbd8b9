package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/go-breathfree/internal/core/constants"
	"github.com/penwyp/go-breathfree/internal/core/model"
)

var dateTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseLocalDateTime parses a wall-clock date and optional time in loc and
// returns Unix milliseconds.
func ParseLocalDateTime(s string, loc *time.Location) (int64, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("invalid date/time %q (expected YYYY-MM-DD [HH:MM])", s)
}

// DayCount aggregates one calendar day of activity.
type DayCount struct {
	Day      time.Time
	Resists  int
	Consumed int
}

// DailyCounts buckets entries into the last days calendar days ending at
// now (inclusive), oldest first.
func (j *Journal) DailyCounts(days int, now time.Time) []DayCount {
	if days < 1 {
		days = 1
	}
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	start := today.AddDate(0, 0, -(days - 1))

	out := make([]DayCount, days)
	for i := range out {
		out[i].Day = start.AddDate(0, 0, i)
	}

	for _, e := range j.entries {
		t := time.UnixMilli(e.Timestamp).In(loc)
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if d.Before(start) || d.After(today) {
			continue
		}
		// Calendar difference, robust to DST-length days.
		idx := int((d.Sub(start) + constants.Day/2) / constants.Day)
		if idx < 0 || idx >= days {
			continue
		}
		if e.Kind == model.KindResist {
			out[idx].Resists++
		} else {
			out[idx].Consumed += e.Quantity
		}
	}
	return out
}
