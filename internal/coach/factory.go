package coach

import (
	"context"
	"os"
	"time"

	"github.com/penwyp/go-breathfree/internal/util"
)

// Config selects and tunes the provider.
type Config struct {
	Enabled   bool
	Model     string
	APIKeyEnv string
	Timeout   time.Duration
}

// NewFromConfig builds a Service. A disabled coach or a missing key gives
// a service that always answers with Fallback.
func NewFromConfig(ctx context.Context, cfg Config, loc *time.Location) *Service {
	opts := []ServiceOption{WithTimeout(cfg.Timeout), WithLocation(loc)}
	if !cfg.Enabled {
		util.LogDebug("coach disabled by configuration")
		return NewService(nil, opts...)
	}

	p, err := NewGenAIProvider(ctx, os.Getenv(cfg.APIKeyEnv), cfg.Model)
	if err != nil {
		util.LogWarn("coach provider unavailable", util.F("env", cfg.APIKeyEnv), util.F("error", err))
		return NewService(nil, opts...)
	}
	util.LogDebug("coach provider ready", util.F("provider", p.Name()))
	return NewService(p, opts...)
}
