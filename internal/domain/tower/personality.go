package tower

// Personality is a closed set of variants. Each carries a fixed table of
// trait weights and transformation rules consulted by the subsystems at the
// point of use; there is no per-personality behavior type.
type Personality string

const (
	SocialButterfly    Personality = "social_butterfly"
	Schemer            Personality = "schemer"
	DramaQueen         Personality = "drama_queen"
	Nerd               Personality = "nerd"
	ChaosGremlin       Personality = "chaos_gremlin"
	ConspiracyTheorist Personality = "conspiracy_theorist"
)

func Personalities() []Personality {
	return []Personality{
		SocialButterfly, Schemer, DramaQueen, Nerd, ChaosGremlin, ConspiracyTheorist,
	}
}

func (p Personality) Valid() bool {
	switch p {
	case SocialButterfly, Schemer, DramaQueen, Nerd, ChaosGremlin, ConspiracyTheorist:
		return true
	}
	return false
}

var baseTraits = map[Personality]Traits{
	SocialButterfly:    {Charisma: 8, Creativity: 5, Drama: 6, Purity: 4, Chaos: 3},
	Schemer:            {Charisma: 6, Creativity: 8, Drama: 5, Purity: 3, Chaos: 5},
	DramaQueen:         {Charisma: 7, Creativity: 6, Drama: 9, Purity: 2, Chaos: 6},
	Nerd:               {Charisma: 3, Creativity: 7, Drama: 2, Purity: 9, Chaos: 1},
	ChaosGremlin:       {Charisma: 5, Creativity: 7, Drama: 7, Purity: 1, Chaos: 9},
	ConspiracyTheorist: {Charisma: 4, Creativity: 9, Drama: 8, Purity: 2, Chaos: 7},
}

func (p Personality) BaseTraits() Traits {
	return baseTraits[p]
}

var defaultMood = map[Personality]Mood{
	SocialButterfly:    MoodHappy,
	Schemer:            MoodScheming,
	DramaQueen:         MoodDramatic,
	Nerd:               MoodChill,
	ChaosGremlin:       MoodChaotic,
	ConspiracyTheorist: MoodSuspicious,
}

func (p Personality) DefaultMood() Mood {
	return defaultMood[p]
}

// EffectiveTraits composes the resident's stored traits with the faction
// bonus vector. Bonuses are never written back to the resident record.
func EffectiveTraits(r Resident) Traits {
	t := r.Traits
	if info, ok := FactionTable[r.Faction]; ok {
		t.Charisma = clamp(t.Charisma+info.Bonus.Charisma, 1, TraitCap)
		t.Creativity = clamp(t.Creativity+info.Bonus.Creativity, 1, TraitCap)
		t.Drama = clamp(t.Drama+info.Bonus.Drama, 1, TraitCap)
		t.Purity = clamp(t.Purity+info.Bonus.Purity, 1, TraitCap)
		t.Chaos = clamp(t.Chaos+info.Bonus.Chaos, 1, TraitCap)
	}
	return t
}

// DuelAbility is a personality's combat trigger. Boost applies to the
// owner's roll except for ConspiracyTheorist, whose boost debuffs the
// opponent instead.
type DuelAbility struct {
	Name          string
	Boost         int
	TriggerChance float64
	OnlyIfLosing  bool
	DebuffsFoe    bool
	WildSwing     int // ChaosGremlin rolls in [-WildSwing, WildSwing]
}

var duelAbilities = map[Personality]DuelAbility{
	SocialButterfly:    {Name: "crowd support", Boost: 2, TriggerChance: 0.4},
	Schemer:            {Name: "calculated strike", Boost: 3, TriggerChance: 0.5},
	DramaQueen:         {Name: "dramatic comeback", Boost: 4, TriggerChance: 0.3, OnlyIfLosing: true},
	Nerd:               {Name: "statistical advantage", Boost: 8, TriggerChance: 0.25},
	ChaosGremlin:       {Name: "wild card", TriggerChance: 0.6, WildSwing: 5},
	ConspiracyTheorist: {Name: "psychological warfare", Boost: 2, TriggerChance: 0.35, DebuffsFoe: true},
}

func (p Personality) DuelAbility() DuelAbility {
	return duelAbilities[p]
}
