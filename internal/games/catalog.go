package games

// Puzzles is the stock puzzle catalog, grouped by category in display
// order.
var Puzzles = []Puzzle{
	{ID: "riddle_1", Category: CategoryRiddle, Difficulty: "Easy", Prompt: "What has hands but cannot clap?", Answer: "Clock", Reward: 20},
	{ID: "riddle_2", Category: CategoryRiddle, Difficulty: "Medium", Prompt: "What has many keys but can't open a single lock?", Answer: "Piano", Reward: 50},
	{ID: "riddle_3", Category: CategoryRiddle, Difficulty: "Hard", Prompt: "What comes once in a minute, twice in a moment, but never in a thousand years?", Answer: "M", Reward: 100},
	{ID: "riddle_4", Category: CategoryRiddle, Difficulty: "Expert", Prompt: "I am not alive, but I grow; I don't have lungs, but I need air; I don't have a mouth, but water kills me. What am I?", Answer: "Fire", Reward: 250},
	{ID: "riddle_5", Category: CategoryRiddle, Difficulty: "Master", Prompt: "What walks on four legs in the morning, two legs at noon, and three legs in the evening?", Answer: "Man", Reward: 500},

	{ID: "scramble_1", Category: CategoryScramble, Difficulty: "Level 1", Prompt: "STIM", Answer: "MIST", Reward: 20},
	{ID: "scramble_2", Category: CategoryScramble, Difficulty: "Level 2", Prompt: "XODTE", Answer: "DETOX", Reward: 50},
	{ID: "scramble_3", Category: CategoryScramble, Difficulty: "Level 3", Prompt: "GEXYON", Answer: "OXYGEN", Reward: 100},
	{ID: "scramble_4", Category: CategoryScramble, Difficulty: "Level 4", Prompt: "EEHBAR T", Answer: "BREATHE", Reward: 250},
	{ID: "scramble_5", Category: CategoryScramble, Difficulty: "Level 5", Prompt: "YROTCIV", Answer: "VICTORY", Reward: 500},

	{ID: "trivia_1", Category: CategoryTrivia, Difficulty: "Fact 1", Prompt: "What toxic metal is commonly found in heated vape coils?", Answer: "Lead", Options: []string{"Gold", "Lead", "Silver", "Platinum"}, Reward: 30},
	{ID: "trivia_2", Category: CategoryTrivia, Difficulty: "Fact 2", Prompt: "Nicotine reaches the brain within how many seconds of inhaling?", Answer: "10 Seconds", Options: []string{"10 Seconds", "2 Minutes", "5 Minutes", "1 Hour"}, Reward: 60},
	{ID: "trivia_3", Category: CategoryTrivia, Difficulty: "Fact 3", Prompt: "Which chemical used in vape flavoring is linked to 'Popcorn Lung'?", Answer: "Diacetyl", Options: []string{"Formaldehyde", "Diacetyl", "Glycerin", "Propylene"}, Reward: 120},
	{ID: "trivia_4", Category: CategoryTrivia, Difficulty: "Fact 4", Prompt: "How long does it take for your heart rate to drop after quitting?", Answer: "20 Minutes", Options: []string{"20 Minutes", "24 Hours", "1 Week", "1 Month"}, Reward: 200},
	{ID: "trivia_5", Category: CategoryTrivia, Difficulty: "Fact 5", Prompt: "E-cigarette waste (batteries) contains which valuable resource?", Answer: "Lithium", Options: []string{"Diamond", "Lithium", "Uranium", "Titanium"}, Reward: 400},

	{ID: "math_1", Category: CategoryMath, Difficulty: "Level 1", Prompt: "15 + 7 = ?", Answer: "22", Reward: 15},
	{ID: "math_2", Category: CategoryMath, Difficulty: "Level 2", Prompt: "8 x 4 = ?", Answer: "32", Reward: 30},
	{ID: "math_3", Category: CategoryMath, Difficulty: "Level 3", Prompt: "50 - 18 = ?", Answer: "32", Reward: 60},
	{ID: "math_4", Category: CategoryMath, Difficulty: "Level 4", Prompt: "144 / 12 = ?", Answer: "12", Reward: 120},
	{ID: "math_5", Category: CategoryMath, Difficulty: "Level 5", Prompt: "7 x 7 + 10 = ?", Answer: "59", Reward: 250},
}

// ByCategory filters the catalog.
func ByCategory(puzzles []Puzzle, c Category) []Puzzle {
	var out []Puzzle
	for _, p := range puzzles {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists the categories in display order.
var Categories = []Category{CategoryRiddle, CategoryScramble, CategoryTrivia, CategoryMath}
