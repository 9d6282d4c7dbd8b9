// Package games holds the mini-games that pay bonus credits: answer
// puzzles, tic-tac-toe against a simple opponent, and a paced breathing
// exercise.
package games

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrUnknownLevel = errors.New("unknown puzzle level")

// Category groups puzzles.
type Category string

const (
	CategoryRiddle   Category = "riddles"
	CategoryScramble Category = "scrambles"
	CategoryTrivia   Category = "trivia"
	CategoryMath     Category = "math"
)

// Puzzle is one answerable level.
type Puzzle struct {
	ID         string   `json:"id"`
	Category   Category `json:"category"`
	Difficulty string   `json:"difficulty"`
	Prompt     string   `json:"prompt"`
	Answer     string   `json:"-"`
	Options    []string `json:"options,omitempty"`
	Reward     int64    `json:"reward"`
}

// synonyms lists extra accepted answers keyed by the normalised answer.
var synonyms = map[string][]string{
	"man": {"human", "person"},
	"m":   {"letter m", "the letter m"},
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Check reports whether answer solves the puzzle. Free-text answers are
// compared trimmed and case-insensitively. Multiple choice answers must
// name an option exactly (surrounding space ignored) or give its 1-based
// position.
func (p Puzzle) Check(answer string) bool {
	if len(p.Options) > 0 {
		a := strings.TrimSpace(answer)
		if n, err := strconv.Atoi(a); err == nil && n >= 1 && n <= len(p.Options) {
			a = p.Options[n-1]
		}
		return a == p.Answer
	}

	got, want := normalize(answer), normalize(p.Answer)
	if got == want {
		return true
	}
	for _, alt := range synonyms[want] {
		if got == alt {
			return true
		}
	}
	return false
}

// Earner receives bonus credits.
type Earner interface {
	Earn(amount int64) error
}

// EarnerFunc adapts a function to Earner.
type EarnerFunc func(amount int64) error

func (f EarnerFunc) Earn(amount int64) error { return f(amount) }

// Result describes the outcome of a submission.
type Result struct {
	Puzzle        Puzzle `json:"puzzle"`
	Correct       bool   `json:"correct"`
	AlreadySolved bool   `json:"alreadySolved"`
	Awarded       int64  `json:"awarded"`
}

// Arcade tracks which puzzles are solved and pays each one once.
type Arcade struct {
	puzzles map[string]Puzzle
	solved  map[string]bool
	earner  Earner
}

// NewArcade restores solved ids. Unknown ids are kept so that progress
// from a newer catalog survives a round trip.
func NewArcade(puzzles []Puzzle, solved []string, earner Earner) *Arcade {
	a := &Arcade{
		puzzles: make(map[string]Puzzle, len(puzzles)),
		solved:  make(map[string]bool, len(solved)),
		earner:  earner,
	}
	for _, p := range puzzles {
		a.puzzles[p.ID] = p
	}
	for _, id := range solved {
		a.solved[id] = true
	}
	return a
}

// Submit checks answer against level id. A first correct answer marks the
// level solved and pays its reward; later ones pay nothing.
func (a *Arcade) Submit(id, answer string) (Result, error) {
	p, ok := a.puzzles[id]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownLevel, id)
	}

	res := Result{Puzzle: p, AlreadySolved: a.solved[id]}
	res.Correct = p.Check(answer)
	if !res.Correct || res.AlreadySolved {
		return res, nil
	}

	if a.earner != nil {
		if err := a.earner.Earn(p.Reward); err != nil {
			return res, fmt.Errorf("award %s: %w", id, err)
		}
	}
	a.solved[id] = true
	res.Awarded = p.Reward
	return res, nil
}

// IsSolved reports whether id has been solved.
func (a *Arcade) IsSolved(id string) bool { return a.solved[id] }

// Solved returns the solved ids, sorted.
func (a *Arcade) Solved() []string {
	out := make([]string, 0, len(a.solved))
	for id := range a.solved {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
