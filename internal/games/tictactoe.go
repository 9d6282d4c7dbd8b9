package games

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/penwyp/go-breathfree/internal/core/economy"
)

var (
	ErrCellTaken         = errors.New("cell already taken")
	ErrCellOutOfRange    = errors.New("cell out of range")
	ErrGameOver          = errors.New("game is over")
	ErrDifficultyLocked  = errors.New("difficulty cannot change once the game has started")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// Difficulty sets how often the opponent plays a random cell instead of
// its best move.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Hard:
		return "Hard"
	default:
		return "Medium"
	}
}

// ParseDifficulty accepts easy, medium or hard in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium", "":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return Medium, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}

// randomMoveChance is the probability of the opponent ignoring strategy.
func (d Difficulty) randomMoveChance() float64 {
	switch d {
	case Easy:
		return 1
	case Hard:
		return 0.1
	default:
		return 0.6
	}
}

// RewardAction is the reward table key paid when the player wins.
func (d Difficulty) RewardAction() string {
	switch d {
	case Easy:
		return economy.ActionTicTacToeEasy
	case Hard:
		return economy.ActionTicTacToeHard
	default:
		return economy.ActionTicTacToeMed
	}
}

// Cell is a board square.
type Cell int8

const (
	Empty Cell = iota
	PlayerX
	OpponentO
)

func (c Cell) String() string {
	switch c {
	case PlayerX:
		return "X"
	case OpponentO:
		return "O"
	default:
		return " "
	}
}

// Board is a 3x3 grid indexed 0..8 row-major.
type Board [9]Cell

var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Winner returns the mark that owns a full line, or Empty.
func (b Board) Winner() Cell {
	for _, l := range winningLines {
		if b[l[0]] != Empty && b[l[0]] == b[l[1]] && b[l[1]] == b[l[2]] {
			return b[l[0]]
		}
	}
	return Empty
}

// EmptyCells lists free squares in index order.
func (b Board) EmptyCells() []int {
	out := make([]int, 0, 9)
	for i, c := range b {
		if c == Empty {
			out = append(out, i)
		}
	}
	return out
}

func (b Board) started() bool {
	for _, c := range b {
		if c != Empty {
			return true
		}
	}
	return false
}

// winningMove finds a square that completes a line for mark, or -1.
func (b Board) winningMove(mark Cell) int {
	for _, l := range winningLines {
		owned, free := 0, -1
		for _, i := range l {
			switch b[i] {
			case mark:
				owned++
			case Empty:
				free = i
			}
		}
		if owned == 2 && free >= 0 {
			return free
		}
	}
	return -1
}

// Rand is the randomness the opponent needs. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Outcome of a match.
type Outcome int

const (
	InProgress Outcome = iota
	PlayerWon
	OpponentWon
	Draw
)

func (o Outcome) String() string {
	switch o {
	case PlayerWon:
		return "You win!"
	case OpponentWon:
		return "Opponent wins."
	case Draw:
		return "Draw."
	default:
		return "In progress"
	}
}

// Match is one game of tic-tac-toe. The player is X and always moves
// first; the opponent answers immediately after each player move.
type Match struct {
	board      Board
	difficulty Difficulty
	outcome    Outcome
	rng        Rand
	settled    bool
}

// NewMatch starts an empty board. A nil rng uses a time-seeded source.
func NewMatch(d Difficulty, rng Rand) *Match {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Match{difficulty: d, rng: rng}
}

func (m *Match) Board() Board           { return m.board }
func (m *Match) Difficulty() Difficulty { return m.difficulty }
func (m *Match) Outcome() Outcome       { return m.outcome }
func (m *Match) Settled() bool          { return m.settled }

// SetDifficulty changes difficulty on an empty board only.
func (m *Match) SetDifficulty(d Difficulty) error {
	if m.board.started() {
		return ErrDifficultyLocked
	}
	m.difficulty = d
	return nil
}

// Reset clears the board and outcome, unlocking difficulty for a rematch.
func (m *Match) Reset() {
	m.board = Board{}
	m.outcome = InProgress
	m.settled = false
}

// Turn reports what happened after a player move.
type Turn struct {
	OpponentMove int
	Outcome      Outcome
}

// Play places X at cell and, if the game continues, lets the opponent
// answer.
func (m *Match) Play(cell int) (Turn, error) {
	if m.outcome != InProgress {
		return Turn{OpponentMove: -1, Outcome: m.outcome}, ErrGameOver
	}
	if cell < 0 || cell > 8 {
		return Turn{OpponentMove: -1}, fmt.Errorf("%w: %d", ErrCellOutOfRange, cell)
	}
	if m.board[cell] != Empty {
		return Turn{OpponentMove: -1}, fmt.Errorf("%w: %d", ErrCellTaken, cell)
	}

	m.board[cell] = PlayerX
	if m.settle() {
		return Turn{OpponentMove: -1, Outcome: m.outcome}, nil
	}

	move := m.OpponentMove()
	m.board[move] = OpponentO
	m.settle()
	return Turn{OpponentMove: move, Outcome: m.outcome}, nil
}

func (m *Match) settle() bool {
	switch m.board.Winner() {
	case PlayerX:
		m.outcome = PlayerWon
	case OpponentO:
		m.outcome = OpponentWon
	default:
		if len(m.board.EmptyCells()) == 0 {
			m.outcome = Draw
		}
	}
	return m.outcome != InProgress
}

// OpponentMove picks the opponent's square without placing it. It
// returns -1 on a full board.
func (m *Match) OpponentMove() int {
	empty := m.board.EmptyCells()
	if len(empty) == 0 {
		return -1
	}
	if m.rng.Float64() < m.difficulty.randomMoveChance() {
		return empty[m.rng.Intn(len(empty))]
	}
	return BestMove(m.board, m.rng)
}

// BestMove wins if possible, else blocks, else takes the centre, else a
// random free square.
func BestMove(b Board, rng Rand) int {
	if i := b.winningMove(OpponentO); i >= 0 {
		return i
	}
	if i := b.winningMove(PlayerX); i >= 0 {
		return i
	}
	if b[4] == Empty {
		return 4
	}
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return -1
	}
	return empty[rng.Intn(len(empty))]
}

// Reward is the credit payout for the finished match: the difficulty's
// table entry on a player win, nothing otherwise.
func (m *Match) Reward() int64 {
	if m.outcome != PlayerWon {
		return 0
	}
	return economy.RewardFor(m.difficulty.RewardAction()).Credits
}

// Settle pays a finished match through e exactly once and returns the
// amount paid. Unfinished or already settled matches pay nothing. A failed
// payment leaves the match unsettled.
func (m *Match) Settle(e Earner) (int64, error) {
	if m.outcome == InProgress || m.settled {
		return 0, nil
	}
	reward := m.Reward()
	if reward > 0 {
		if err := e.Earn(reward); err != nil {
			return 0, err
		}
	}
	m.settled = true
	return reward, nil
}
