package commands

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-breathfree/internal/games"
	"github.com/penwyp/go-breathfree/internal/presentation/formatter"
)

func newGamesCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Puzzles and tic-tac-toe to ride out a craving",
	}

	var category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List puzzle levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.discover(cmd, "tab_games")
			puzzles := games.Puzzles
			if category != "" {
				c := games.Category(strings.ToLower(category))
				puzzles = games.ByCategory(games.Puzzles, c)
				if len(puzzles) == 0 {
					return fmt.Errorf("unknown category %q (use %s)", category, categoryNames())
				}
				o.discover(cmd, "game_cat_"+string(c))
			}
			return o.print(cmd, formatter.NewPuzzlesView(puzzles, o.app.SolvedLevels()))
		},
	}
	list.Flags().StringVar(&category, "category", "", "Only list one category ("+categoryNames()+")")

	answer := &cobra.Command{
		Use:   "answer <level> <answer>",
		Short: "Answer a puzzle; each level pays once",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := o.app.SubmitAnswer(args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			switch {
			case !res.Correct:
				return o.notice(cmd, res, "Not quite. Try again.")
			case res.AlreadySolved:
				return o.notice(cmd, res, "Correct! You solved this one before, so no new credits.")
			default:
				return o.notice(cmd, res, "Correct! +%d credits", res.Awarded)
			}
		},
	}

	cmd.AddCommand(list, answer, newTicTacToeCmd(o))
	return cmd
}

func categoryNames() string {
	names := make([]string, 0, len(games.Categories))
	for _, c := range games.Categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func newTicTacToeCmd(o *rootOptions) *cobra.Command {
	var difficulty string
	cmd := &cobra.Command{
		Use:   "tictactoe",
		Short: "Play tic-tac-toe against the computer",
		Long: `Play tic-tac-toe as X. Enter a cell number 1-9 on each turn, "q" to quit.
A win pays 10 (easy), 25 (medium) or 50 (hard) credits. After each game,
answer "y" for a rematch or name a difficulty to switch to it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := games.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}
			o.discover(cmd, "game_cat_craving_crusher")
			m := games.NewMatch(d, o.rng)
			return playMatch(o, m, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&difficulty, "difficulty", "medium", "Opponent difficulty (easy, medium, hard)")
	return cmd
}

// playMatch runs games until the player declines a rematch, quits, or
// input runs out.
func playMatch(o *rootOptions, m *games.Match, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		done, err := playRound(o, m, scanner, out)
		if err != nil || done {
			return err
		}
		again, err := rematch(m, scanner, out)
		if err != nil || !again {
			return err
		}
	}
}

// playRound plays one game and settles it. done is true when the player
// quit or input ran out.
func playRound(o *rootOptions, m *games.Match, scanner *bufio.Scanner, out io.Writer) (done bool, err error) {
	fmt.Fprintf(out, "Tic-tac-toe (%s). You are X.\n", m.Difficulty())
	for m.Outcome() == games.InProgress {
		drawBoard(out, m.Board())
		fmt.Fprint(out, "Your move (1-9, q to quit): ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return true, scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "q" || line == "quit" {
			fmt.Fprintln(out, "Game abandoned.")
			return true, nil
		}
		cell, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(out, "Enter a number from 1 to 9.")
			continue
		}
		turn, err := m.Play(cell - 1)
		if err != nil {
			fmt.Fprintf(out, "%v\n", err)
			continue
		}
		if turn.OpponentMove >= 0 {
			fmt.Fprintf(out, "Opponent plays %d.\n", turn.OpponentMove+1)
		}
	}

	drawBoard(out, m.Board())
	fmt.Fprintln(out, m.Outcome())
	reward, err := o.app.SettleMatch(m)
	if err != nil {
		return true, err
	}
	if reward > 0 {
		fmt.Fprintf(out, "+%d credits\n", reward)
	}
	return false, nil
}

// rematch asks for another game. "y" keeps the difficulty, a difficulty
// name switches to it; anything else ends the session.
func rematch(m *games.Match, scanner *bufio.Scanner, out io.Writer) (bool, error) {
	fmt.Fprint(out, "Play again? (y/N, or easy/medium/hard): ")
	if !scanner.Scan() {
		fmt.Fprintln(out)
		return false, scanner.Err()
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	switch answer {
	case "y", "yes":
		m.Reset()
		return true, nil
	case "", "n", "no", "q", "quit":
		return false, nil
	}
	d, err := games.ParseDifficulty(answer)
	if err != nil {
		fmt.Fprintln(out, "Thanks for playing.")
		return false, nil
	}
	m.Reset()
	if err := m.SetDifficulty(d); err != nil {
		return false, err
	}
	return true, nil
}

func drawBoard(out io.Writer, b games.Board) {
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			i := row*3 + col
			cells[col] = b[i].String()
			if b[i] == games.Empty {
				cells[col] = strconv.Itoa(i + 1)
			}
		}
		fmt.Fprintf(out, " %s \n", strings.Join(cells, " │ "))
		if row < 2 {
			fmt.Fprintln(out, "───┼───┼───")
		}
	}
}
