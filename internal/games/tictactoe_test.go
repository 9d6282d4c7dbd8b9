package games

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand returns fixed values so opponent choices are predictable.
type scriptedRand struct {
	float float64
	intn  int
}

func (s scriptedRand) Float64() float64 { return s.float }
func (s scriptedRand) Intn(n int) int {
	if s.intn >= n {
		return n - 1
	}
	return s.intn
}

func boardOf(x, o []int) Board {
	var b Board
	for _, i := range x {
		b[i] = PlayerX
	}
	for _, i := range o {
		b[i] = OpponentO
	}
	return b
}

func TestBestMovePriorities(t *testing.T) {
	rng := scriptedRand{intn: 0}
	tests := []struct {
		name  string
		board Board
		want  int
	}{
		{name: "take the win", board: boardOf([]int{0, 1}, []int{3, 4}), want: 5},
		{name: "block", board: boardOf([]int{0, 1}, []int{4}), want: 2},
		{name: "centre", board: boardOf([]int{0}, nil), want: 4},
		{name: "first free when centre is taken", board: boardOf([]int{4}, nil), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BestMove(tt.board, rng))
		})
	}
}

func TestWinner(t *testing.T) {
	assert.Equal(t, PlayerX, boardOf([]int{2, 4, 6}, nil).Winner())
	assert.Equal(t, OpponentO, boardOf(nil, []int{1, 4, 7}).Winner())
	assert.Equal(t, Empty, boardOf([]int{0, 1}, []int{2}).Winner())
}

func TestHardOpponentWins(t *testing.T) {
	m := NewMatch(Hard, scriptedRand{float: 0.99})

	turn, err := m.Play(0)
	require.NoError(t, err)
	assert.Equal(t, 4, turn.OpponentMove)

	turn, err = m.Play(1)
	require.NoError(t, err)
	assert.Equal(t, 2, turn.OpponentMove, "opponent blocks")

	turn, err = m.Play(3)
	require.NoError(t, err)
	assert.Equal(t, 6, turn.OpponentMove, "opponent completes 2-4-6")
	assert.Equal(t, OpponentWon, turn.Outcome)
	assert.Equal(t, int64(0), m.Reward())

	_, err = m.Play(8)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestPlayerWinPaysByDifficulty(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		reward     int64
	}{
		{Easy, 10},
		{Medium, 25},
		{Hard, 50},
	}

	for _, tt := range tests {
		t.Run(tt.difficulty.String(), func(t *testing.T) {
			// Float 0 forces the random branch at every difficulty and
			// Intn 0 picks the lowest free square.
			m := NewMatch(tt.difficulty, scriptedRand{float: 0, intn: 0})

			turn, err := m.Play(4)
			require.NoError(t, err)
			assert.Equal(t, 0, turn.OpponentMove)

			turn, err = m.Play(2)
			require.NoError(t, err)
			assert.Equal(t, 1, turn.OpponentMove)

			turn, err = m.Play(6)
			require.NoError(t, err)
			assert.Equal(t, -1, turn.OpponentMove)
			assert.Equal(t, PlayerWon, turn.Outcome)
			assert.Equal(t, tt.reward, m.Reward())
		})
	}
}

// winEasy plays X down the 2-4-6 diagonal against an opponent that
// always takes the lowest free square.
func winEasy(t *testing.T, m *Match) {
	t.Helper()
	for _, cell := range []int{4, 2, 6} {
		_, err := m.Play(cell)
		require.NoError(t, err)
	}
	require.Equal(t, PlayerWon, m.Outcome())
}

func TestSettlePaysOnce(t *testing.T) {
	earner := &countingEarner{}
	m := NewMatch(Easy, scriptedRand{float: 0, intn: 0})

	paid, err := m.Settle(earner)
	require.NoError(t, err)
	assert.Equal(t, int64(0), paid, "unfinished match")

	winEasy(t, m)
	paid, err = m.Settle(earner)
	require.NoError(t, err)
	assert.Equal(t, int64(10), paid)
	assert.True(t, m.Settled())

	paid, err = m.Settle(earner)
	require.NoError(t, err)
	assert.Equal(t, int64(0), paid)
	assert.Equal(t, int64(10), earner.total)
	assert.Equal(t, 1, earner.calls)

	m.Reset()
	assert.False(t, m.Settled())
	require.NoError(t, m.SetDifficulty(Hard))
	winEasy(t, m)
	paid, err = m.Settle(earner)
	require.NoError(t, err)
	assert.Equal(t, int64(50), paid, "rematch pays again")
	assert.Equal(t, int64(60), earner.total)
}

func TestSettleFailureCanRetry(t *testing.T) {
	earner := &countingEarner{err: errors.New("disk full")}
	m := NewMatch(Easy, scriptedRand{float: 0, intn: 0})
	winEasy(t, m)

	_, err := m.Settle(earner)
	assert.Error(t, err)
	assert.False(t, m.Settled())

	earner.err = nil
	paid, err := m.Settle(earner)
	require.NoError(t, err)
	assert.Equal(t, int64(10), paid)
}

func TestPlayValidation(t *testing.T) {
	m := NewMatch(Medium, scriptedRand{float: 0.99})

	_, err := m.Play(9)
	assert.ErrorIs(t, err, ErrCellOutOfRange)

	_, err = m.Play(0)
	require.NoError(t, err)
	_, err = m.Play(0)
	assert.ErrorIs(t, err, ErrCellTaken)
}

func TestDifficultyLock(t *testing.T) {
	m := NewMatch(Medium, scriptedRand{float: 0.99})
	require.NoError(t, m.SetDifficulty(Hard))

	_, err := m.Play(0)
	require.NoError(t, err)
	assert.ErrorIs(t, m.SetDifficulty(Easy), ErrDifficultyLocked)
	assert.Equal(t, Hard, m.Difficulty())

	m.Reset()
	assert.Equal(t, Board{}, m.Board())
	assert.Equal(t, InProgress, m.Outcome())
	require.NoError(t, m.SetDifficulty(Easy))
}

func TestDraw(t *testing.T) {
	m := NewMatch(Hard, scriptedRand{float: 0.99, intn: 0})
	steps := []struct {
		player, opponent int
	}{
		{0, 4}, // centre
		{8, 1}, // lowest free
		{7, 6}, // block 6-7-8
		{2, 5}, // block 2-5-8
		{3, -1},
	}
	var turn Turn
	for _, s := range steps {
		var err error
		turn, err = m.Play(s.player)
		require.NoError(t, err)
		assert.Equal(t, s.opponent, turn.OpponentMove, "after X at %d", s.player)
	}
	assert.Equal(t, Draw, turn.Outcome)
	assert.Equal(t, int64(0), m.Reward())
}

func TestEasyOpponentIsUniform(t *testing.T) {
	// O can win at 5 and must block at 2; an Easy opponent shows no
	// preference for either.
	board := boardOf([]int{0, 1}, []int{3, 4})
	empty := board.EmptyCells()
	require.Len(t, empty, 5)

	rng := rand.New(rand.NewSource(7))
	const trials = 10000
	counts := map[int]int{}
	for i := 0; i < trials; i++ {
		m := NewMatch(Easy, rng)
		m.board = board
		counts[m.OpponentMove()]++
	}

	expected := float64(trials) / float64(len(empty))
	chi := 0.0
	for _, cell := range empty {
		diff := float64(counts[cell]) - expected
		chi += diff * diff / expected
	}
	// 4 degrees of freedom, p=0.001 critical value.
	assert.Less(t, chi, 18.47, "counts=%v", counts)
	assert.Len(t, counts, 5)
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("HARD")
	require.NoError(t, err)
	assert.Equal(t, Hard, d)

	d, err = ParseDifficulty("")
	require.NoError(t, err)
	assert.Equal(t, Medium, d)

	_, err = ParseDifficulty("nightmare")
	assert.ErrorIs(t, err, ErrUnknownDifficulty)
}
