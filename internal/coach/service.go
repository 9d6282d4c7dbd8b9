package coach

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/penwyp/go-breathfree/internal/core/constants"
	"github.com/penwyp/go-breathfree/internal/core/model"
	"github.com/penwyp/go-breathfree/internal/util"
)

const (
	// RecentLimit is how many of the newest entries are analysed.
	RecentLimit = 50

	cacheSize  = 32
	timeLayout = "1/2/2006, 3:04:05 PM"
)

// Service answers advice requests through a Provider with caching,
// request deduplication and a timeout.
type Service struct {
	provider Provider
	timeout  time.Duration
	loc      *time.Location
	cache    *lru.Cache
	group    singleflight.Group
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLocation renders entry times in loc.
func WithLocation(loc *time.Location) ServiceOption {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService wraps p. A nil provider always answers with Fallback.
func NewService(p Provider, opts ...ServiceOption) *Service {
	if p == nil {
		p = disabledProvider{}
	}
	cache, _ := lru.New(cacheSize)
	s := &Service{
		provider: p,
		timeout:  constants.DefaultCoachTimeout,
		loc:      time.Local,
		cache:    cache,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lines summarises the newest entries, newest first.
func (s *Service) Lines(entries []model.Entry) []LogLine {
	n := len(entries)
	if n > RecentLimit {
		n = RecentLimit
	}
	lines := make([]LogLine, 0, n)
	for _, e := range entries[:n] {
		line := LogLine{
			Type: string(e.Kind),
			Time: time.UnixMilli(e.Timestamp).In(s.loc).Format(timeLayout),
		}
		if e.IsConsume() {
			line.Count = e.Quantity
		}
		lines = append(lines, line)
	}
	return lines
}

func digest(lines []LogLine) string {
	h := sha256.New()
	for _, l := range lines {
		fmt.Fprintf(h, "%s|%s|%d\n", l.Type, l.Time, l.Count)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Advise returns advice for entries, which must be sorted newest first.
// It never fails: errors and timeouts yield Fallback.
func (s *Service) Advise(ctx context.Context, entries []model.Entry) Advice {
	if len(entries) == 0 {
		return Onboarding
	}

	lines := s.Lines(entries)
	key := digest(lines)
	if v, ok := s.cache.Get(key); ok {
		a := v.(Advice)
		a.Source = SourceCache
		return a
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		a, err := s.provider.Advise(callCtx, lines)
		if err != nil {
			return nil, err
		}
		s.cache.Add(key, a)
		return a, nil
	})
	if err != nil {
		util.LogWarn("coach unavailable, using fallback",
			util.F("provider", s.provider.Name()),
			util.F("error", err))
		return Fallback
	}
	return v.(Advice)
}
