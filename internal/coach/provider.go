// Package coach asks a language model for a short encouraging insight
// about recent activity. Every failure degrades to a fixed message.
package coach

import (
	"context"
	"errors"
)

// Advice is one coaching reply.
type Advice struct {
	Message string `json:"message"`
	Tip     string `json:"tip"`
	// Source is where the advice came from: onboarding, provider, cache
	// or fallback.
	Source string `json:"source"`
}

const (
	SourceOnboarding = "onboarding"
	SourceProvider   = "provider"
	SourceCache      = "cache"
	SourceFallback   = "fallback"
)

var (
	// Onboarding is returned when there is nothing to analyse yet.
	Onboarding = Advice{
		Message: "Start logging your journey to get personalized insights.",
		Tip:     "Log your first activity now!",
		Source:  SourceOnboarding,
	}

	// Fallback replaces any failed or timed out request.
	Fallback = Advice{
		Message: "Stay consistent with your logging.",
		Tip:     "Take a deep breath when cravings hit.",
		Source:  SourceFallback,
	}
)

// LogLine is the summary of one entry sent to the provider.
type LogLine struct {
	Type  string `json:"type"`
	Time  string `json:"time"`
	Count int    `json:"count,omitempty"`
}

// Provider produces advice for a list of recent log lines.
type Provider interface {
	Advise(ctx context.Context, lines []LogLine) (Advice, error)

	// Name identifies the provider in logs.
	Name() string
}

var (
	ErrNoAPIKey      = errors.New("coach API key is not set")
	ErrEmptyResponse = errors.New("coach returned an empty response")
	ErrDisabled      = errors.New("coach is disabled")
)

// disabledProvider always fails, so the service answers with Fallback.
type disabledProvider struct{}

func (disabledProvider) Advise(context.Context, []LogLine) (Advice, error) {
	return Advice{}, ErrDisabled
}

func (disabledProvider) Name() string { return "disabled" }
