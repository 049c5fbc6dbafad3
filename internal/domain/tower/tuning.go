package tower

const (
	StartingTokens = 100
	MaxSanity      = 100
	TraitCap       = 15

	// Gossip
	GossipMaxContentRunes = 280
	GossipMaxMutations    = 8
	GossipDecayTicks      = 30
	GossipReachMilestone1 = 5
	GossipReachMilestone2 = 10

	// Parties
	PartyOpenTicks    = 10
	PartyGreatFunBar  = 70
	PartySanityRecoup = 5

	// Market
	MarketSellFraction  = 0.6
	MarketPriceK        = 4
	MarketPriceFloorDiv = 2
	MarketPriceCeilMul  = 4
	MarketRestockBelow  = 3

	// Trades
	TradeOpenTicks = 20

	// Duels
	DuelRounds       = 3
	DuelRoundSwing   = 3
	DuelStreakBar    = 5
	DuelLoserSanity  = -8
	DuelCrowdMinimum = 3

	// Politics
	ProposalQuorumMin   = 3
	ProposalQuorumShare = 0.3
	ProposalOpenTicks   = 20

	// Exploration
	ExploreBaseChance     = 0.3
	ExploreCreativityCoef = 0.03
	ExploreChaosCoef      = 0.02
	ExploreVoidBonus      = 0.2

	// Event log bound: halved once the cap is hit, like a ring with slack.
	EventLogCap = 1000

	// Prank
	PrankTargetSanity = -4
)

// Clout rewards per notable act. Social currency is deliberately
// inflationary; token flow between residents is a closed system.
var CloutRewards = map[string]int{
	"start_gossip":     5,
	"gossip_reach_5":   25,
	"gossip_reach_10":  40,
	"throw_party":      15,
	"great_party":      30,
	"party_attendance": 5,
	"cook_for_others":  10,
	"prank_success":    18,
	"prank_backfire":   8,
	"explore_void":     15,
	"duel_win":         15,
	"duel_streak":      35,
	"make_rival":       12,
}

var TokenCosts = map[string]int{
	"throw_party":  20,
	"explore_void": 5,
}

var TokenRewards = map[string]int{
	"cook_for_others": 8,
	"quest_step":      5,
}
