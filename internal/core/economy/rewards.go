package economy

// RewardKind says how an action is triggered.
type RewardKind int

const (
	KindDiscovery RewardKind = iota
	KindClaim
	KindGame
)

// Reward is what an action pays into the ledger.
type Reward struct {
	Kind    RewardKind
	Credits int64
	XP      int64
}

// Action ids with bespoke rewards.
const (
	ActionCTACheckbox   = "cta_checkbox"
	ActionCTALink       = "cta_link"
	ActionBreathing     = "breathing_session"
	ActionTicTacToeEasy = "tictactoe_easy"
	ActionTicTacToeMed  = "tictactoe_medium"
	ActionTicTacToeHard = "tictactoe_hard"
)

// DefaultDiscovery is paid for any discovery id not listed in the table.
var DefaultDiscovery = Reward{Credits: 10, XP: 50}

// RewardTable holds every fixed payout in the economy.
var RewardTable = map[string]Reward{
	ActionCTACheckbox:   {Kind: KindClaim, Credits: 300, XP: 200},
	ActionCTALink:       {Kind: KindClaim, Credits: 300, XP: 100},
	ActionBreathing:     {Kind: KindGame, Credits: 50},
	ActionTicTacToeEasy: {Kind: KindGame, Credits: 10},
	ActionTicTacToeMed:  {Kind: KindGame, Credits: 25},
	ActionTicTacToeHard: {Kind: KindGame, Credits: 50},
}

// RewardFor looks up an action, falling back to the discovery default.
func RewardFor(id string) Reward {
	if r, ok := RewardTable[id]; ok {
		return r
	}
	return DefaultDiscovery
}

// IsClaim reports whether id is a one-off civic action claimed directly
// rather than discovered by exploring the app.
func IsClaim(id string) bool {
	return RewardFor(id).Kind == KindClaim
}

// KnownDiscoveries lists the ids the app hands out when a section is first
// opened. Other ids are accepted and pay the default.
var KnownDiscoveries = []string{
	"tab_journey",
	"tab_inventory",
	"tab_games",
	"tab_shop",
	"game_cat_zen_breather",
	"game_cat_craving_crusher",
	"game_cat_riddles",
	"game_cat_scrambles",
	"game_cat_trivia",
	"game_cat_math",
	"financial_expanded",
	"remind_expanded",
	"remind_setup_complete",
	"why_expanded",
}
