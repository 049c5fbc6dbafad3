package tower

import "time"

type Traits struct {
	Charisma   int `json:"charisma"`
	Creativity int `json:"creativity"`
	Drama      int `json:"drama"`
	Purity     int `json:"purity"`
	Chaos      int `json:"chaos"`
}

type Mood string

const (
	MoodHappy      Mood = "happy"
	MoodBored      Mood = "bored"
	MoodExcited    Mood = "excited"
	MoodSuspicious Mood = "suspicious"
	MoodAnxious    Mood = "anxious"
	MoodChaotic    Mood = "chaotic"
	MoodChill      Mood = "chill"
	MoodScheming   Mood = "scheming"
	MoodDramatic   Mood = "dramatic"
)

type Relationship struct {
	Affinity     int `json:"affinity"`
	Interactions int `json:"interactions"`
}

// Label bands an affinity score into the social vocabulary residents see.
func (r Relationship) Label() string {
	switch {
	case r.Affinity >= 75:
		return "bestie"
	case r.Affinity >= 40:
		return "friend"
	case r.Affinity >= 10:
		return "acquaintance"
	case r.Affinity >= -10:
		return "neutral"
	case r.Affinity >= -40:
		return "annoyed"
	case r.Affinity >= -75:
		return "rival"
	default:
		return "nemesis"
	}
}

type DuelRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Streak int `json:"streak"`
}

// Resident is the canonical agent record. Owned by the entity registry;
// every other subsystem refers to residents by id only.
type Resident struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Personality Personality             `json:"personality"`
	Traits      Traits                  `json:"traits"`
	Mood        Mood                    `json:"mood"`
	Sanity      int                     `json:"sanity"`
	LocationID  string                  `json:"location_id"`
	Clout       int                     `json:"clout"`
	Tokens      int                     `json:"tokens"`
	ChainEarned float64                 `json:"chain_earned"`
	Inventory   map[string]int          `json:"inventory"`
	Relations   map[string]Relationship `json:"relations"`
	Faction     Faction                 `json:"faction,omitempty"`
	DuelRecord  DuelRecord              `json:"duel_record"`
	HeardGossip []string                `json:"heard_gossip,omitempty"`
	Artifacts   []string                `json:"artifacts,omitempty"`
	Quests      []string                `json:"quests,omitempty"`
	TradeCount  int                     `json:"trade_count"`
	VotesCast   int                     `json:"votes_cast"`
	Explored    int                     `json:"explored"`
	JoinedTick  int64                   `json:"joined_tick"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

func NewResident(id, name string, p Personality, tick int64) Resident {
	return Resident{
		ID:          id,
		Name:        name,
		Personality: p,
		Traits:      p.BaseTraits(),
		Mood:        p.DefaultMood(),
		Sanity:      MaxSanity,
		LocationID:  LocationLobby,
		Tokens:      StartingTokens,
		Inventory:   map[string]int{},
		Relations:   map[string]Relationship{},
		JoinedTick:  tick,
	}
}

// AdjustRelation moves the affinity toward the target and bumps the
// interaction counter. Affinity stays within [-100, 100].
func (r *Resident) AdjustRelation(targetID string, delta int) {
	rel := r.Relations[targetID]
	rel.Affinity = clamp(rel.Affinity+delta, -100, 100)
	rel.Interactions++
	if r.Relations == nil {
		r.Relations = map[string]Relationship{}
	}
	r.Relations[targetID] = rel
}

func (r *Resident) AddItem(itemID string, qty int) {
	if r.Inventory == nil {
		r.Inventory = map[string]int{}
	}
	r.Inventory[itemID] += qty
}

// RemoveItem takes qty of an item from the inventory. Reports false and
// leaves the multiset untouched when the resident holds fewer than qty.
func (r *Resident) RemoveItem(itemID string, qty int) bool {
	if r.Inventory[itemID] < qty {
		return false
	}
	r.Inventory[itemID] -= qty
	if r.Inventory[itemID] == 0 {
		delete(r.Inventory, itemID)
	}
	return true
}

func (r *Resident) AdjustSanity(delta int) {
	r.Sanity = clamp(r.Sanity+delta, 0, MaxSanity)
}

// PublicView is what other residents and observers see.
type PublicView struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Personality Personality `json:"personality"`
	Mood        Mood        `json:"mood"`
	LocationID  string      `json:"location_id"`
	Clout       int         `json:"clout"`
	Faction     Faction     `json:"faction,omitempty"`
	DuelRecord  DuelRecord  `json:"duel_record"`
}

func (r Resident) Public() PublicView {
	return PublicView{
		ID:          r.ID,
		Name:        r.Name,
		Personality: r.Personality,
		Mood:        r.Mood,
		LocationID:  r.LocationID,
		Clout:       r.Clout,
		Faction:     r.Faction,
		DuelRecord:  r.DuelRecord,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
