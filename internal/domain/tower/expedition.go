package tower

import "math/rand"

// Rarity tiers are ordered; higher tiers carry bigger bonuses and rarer
// drops.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
)

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	default:
		return "legendary"
	}
}

type Artifact struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Rarity    Rarity `json:"rarity"`
	Bonus     Traits `json:"bonus"`
	FoundBy   string `json:"found_by"`
	FoundAt   string `json:"found_at"`
	FoundTick int64  `json:"found_tick"`
}

type artifactTemplate struct {
	name  string
	bonus Traits
}

var artifactTemplates = map[Rarity][]artifactTemplate{
	RarityCommon: {
		{"Dusty Board Game", Traits{Creativity: 1}},
		{"Broken Clock", Traits{Purity: 1}},
		{"Mysterious Key", Traits{Chaos: 1}},
		{"Whisper Amplifier", Traits{Charisma: 1}},
	},
	RarityRare: {
		{"The Landlord's Old Journal", Traits{Creativity: 2, Purity: 1}},
		{"Quantum Dice", Traits{Chaos: 2, Drama: 1}},
		{"Ancient Cooking Utensil", Traits{Purity: 2}},
		{"Social Radar", Traits{Charisma: 2}},
	},
	RarityEpic: {
		{"The Compass of Doubt", Traits{Creativity: 3}},
		{"Drama Crown", Traits{Drama: 3, Charisma: 1}},
		{"Chaos Scepter", Traits{Chaos: 3}},
	},
	RarityLegendary: {
		{"The Fifth Floor Key", Traits{Charisma: 3, Creativity: 3, Drama: 3, Purity: 3, Chaos: 3}},
		{"The Golden Arrow", Traits{Creativity: 4, Charisma: 2}},
		{"The Architect's Lens", Traits{Purity: 4, Creativity: 2}},
	},
}

// rarityWeights must sum to 1; order matters for the cumulative roll.
var rarityWeights = []struct {
	rarity Rarity
	weight float64
}{
	{RarityCommon, 0.50},
	{RarityRare, 0.30},
	{RarityEpic, 0.15},
	{RarityLegendary, 0.05},
}

// RollArtifact draws a rarity tier then a template within it.
func RollArtifact(id string, finder Resident, locationID string, tick int64, rng *rand.Rand) Artifact {
	roll := rng.Float64()
	cumulative := 0.0
	rarity := RarityCommon
	for _, w := range rarityWeights {
		cumulative += w.weight
		if roll < cumulative {
			rarity = w.rarity
			break
		}
	}
	templates := artifactTemplates[rarity]
	t := templates[rng.Intn(len(templates))]
	return Artifact{
		ID:        id,
		Name:      t.name,
		Rarity:    rarity,
		Bonus:     t.bonus,
		FoundBy:   finder.ID,
		FoundAt:   locationID,
		FoundTick: tick,
	}
}

// DiscoveryChance is the exploration success probability for a resident at
// a location: creative and chaotic residents find more; the void floor
// hides the most.
func DiscoveryChance(r Resident, behavior Behavior) float64 {
	t := EffectiveTraits(r)
	chance := ExploreBaseChance +
		float64(t.Creativity)*ExploreCreativityCoef +
		float64(t.Chaos)*ExploreChaosCoef
	if behavior == BehaviorVoid {
		chance += ExploreVoidBonus
	}
	if chance > 0.95 {
		chance = 0.95
	}
	return chance
}

// ApplyArtifactBonus raises finder traits, capped at TraitCap.
func ApplyArtifactBonus(r *Resident, a Artifact) {
	r.Traits.Charisma = clamp(r.Traits.Charisma+a.Bonus.Charisma, 1, TraitCap)
	r.Traits.Creativity = clamp(r.Traits.Creativity+a.Bonus.Creativity, 1, TraitCap)
	r.Traits.Drama = clamp(r.Traits.Drama+a.Bonus.Drama, 1, TraitCap)
	r.Traits.Purity = clamp(r.Traits.Purity+a.Bonus.Purity, 1, TraitCap)
	r.Traits.Chaos = clamp(r.Traits.Chaos+a.Bonus.Chaos, 1, TraitCap)
	r.Artifacts = append(r.Artifacts, a.ID)
}

type QuestStatus string

const (
	QuestAvailable QuestStatus = "available"
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
)

type QuestStep struct {
	Description string `json:"description"`
	Milestone   string `json:"milestone"` // action milestone key that completes it
	Done        bool   `json:"done"`
}

type QuestReward struct {
	Tokens int     `json:"tokens"`
	Clout  int     `json:"clout"`
	Chain  float64 `json:"chain"`
}

type Quest struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Steps       []QuestStep `json:"steps"`
	Current     int         `json:"current"`
	AssignedTo  string      `json:"assigned_to,omitempty"`
	Status      QuestStatus `json:"status"`
	Reward      QuestReward `json:"reward"`
}

type questTemplate struct {
	name        string
	description string
	milestones  []string
	reward      QuestReward
}

var questTemplates = []questTemplate{
	{
		name:        "The Basement Mystery",
		description: "Strange sounds come from below. Investigate.",
		milestones:  []string{"move:basement", "explore", "talk"},
		reward:      QuestReward{Tokens: 30, Clout: 20, Chain: 0.001},
	},
	{
		name:        "The Great Gossip Chain",
		description: "Start a rumor and keep it moving.",
		milestones:  []string{"gossip_start", "gossip_spread", "gossip_spread"},
		reward:      QuestReward{Tokens: 25, Clout: 30, Chain: 0.0005},
	},
	{
		name:        "Party Animal",
		description: "Throw three parties.",
		milestones:  []string{"throw_party", "throw_party", "throw_party"},
		reward:      QuestReward{Tokens: 50, Clout: 40, Chain: 0.002},
	},
	{
		name:        "The Floor Tour",
		description: "See every kind of floor the tower has.",
		milestones:  []string{"move:rooftop", "move:floor_3_hall", "move:floor_2_hall", "move:floor_1_hall", "move:basement"},
		reward:      QuestReward{Tokens: 20, Clout: 15, Chain: 0.0003},
	},
	{
		name:        "The Duel Master",
		description: "Win three duels.",
		milestones:  []string{"duel_win", "duel_win", "duel_win"},
		reward:      QuestReward{Tokens: 45, Clout: 35, Chain: 0.002},
	},
	{
		name:        "Market Mogul",
		description: "Move goods until the market knows your name.",
		milestones:  []string{"buy", "sell", "trade_accept"},
		reward:      QuestReward{Tokens: 40, Clout: 20, Chain: 0.001},
	},
}

// SeedQuests builds the quest board from the templates. The id function
// keeps id generation with the caller.
func SeedQuests(nextID func() string) []Quest {
	quests := make([]Quest, 0, len(questTemplates))
	for _, t := range questTemplates {
		steps := make([]QuestStep, len(t.milestones))
		for i, m := range t.milestones {
			steps[i] = QuestStep{Description: t.name + " step", Milestone: m, Done: false}
		}
		quests = append(quests, Quest{
			ID:          nextID(),
			Name:        t.name,
			Description: t.description,
			Steps:       steps,
			Status:      QuestAvailable,
			Reward:      t.reward,
		})
	}
	return quests
}

// AdvanceQuest marks the current step done when the milestone matches.
// Returns true when the whole quest just completed.
func (q *Quest) Advance(milestone string) (progressed, completed bool) {
	if q.Status != QuestActive || q.Current >= len(q.Steps) {
		return false, false
	}
	if q.Steps[q.Current].Milestone != milestone {
		return false, false
	}
	q.Steps[q.Current].Done = true
	q.Current++
	if q.Current >= len(q.Steps) {
		q.Status = QuestCompleted
		return true, true
	}
	return true, false
}
