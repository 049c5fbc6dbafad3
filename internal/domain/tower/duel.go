package tower

import "math/rand"

type DuelRound struct {
	Round          int    `json:"round"`
	Stat           string `json:"stat"`
	ChallengerRoll int    `json:"challenger_roll"`
	DefenderRoll   int    `json:"defender_roll"`
	Winner         string `json:"winner"` // "challenger" or "defender"
	ChallengerNote string `json:"challenger_note,omitempty"`
	DefenderNote   string `json:"defender_note,omitempty"`
}

// Duel is a resolved best-of-three. Exactly one of the two parties wins;
// there is no draw state.
type Duel struct {
	ID           string      `json:"id"`
	ChallengerID string      `json:"challenger_id"`
	DefenderID   string      `json:"defender_id"`
	WinnerID     string      `json:"winner_id"`
	LoserID      string      `json:"loser_id"`
	Wager        int         `json:"wager"`
	Rounds       []DuelRound `json:"rounds"`
	Score        [2]int      `json:"score"` // challenger, defender
	Tick         int64       `json:"tick"`
}

var duelStats = []string{"charisma", "creativity", "drama", "chaos"}

func traitByName(t Traits, name string) int {
	switch name {
	case "charisma":
		return t.Charisma
	case "creativity":
		return t.Creativity
	case "drama":
		return t.Drama
	case "purity":
		return t.Purity
	default:
		return t.Chaos
	}
}

// ResolveDuel plays the rounds with the injected RNG. Each round draws one
// contested stat, rolls base±swing, and applies personality ability
// triggers. Ties go to the challenger so a round, and therefore the duel,
// always has a winner.
func ResolveDuel(id string, challenger, defender Resident, wager int, nearby int, tick int64, rng *rand.Rand) Duel {
	d := Duel{
		ID:           id,
		ChallengerID: challenger.ID,
		DefenderID:   defender.ID,
		Wager:        wager,
		Tick:         tick,
	}
	ct := EffectiveTraits(challenger)
	dt := EffectiveTraits(defender)

	for round := 1; round <= DuelRounds; round++ {
		stat := duelStats[rng.Intn(len(duelStats))]
		cRoll := traitByName(ct, stat) + rng.Intn(2*DuelRoundSwing+1) - DuelRoundSwing
		dRoll := traitByName(dt, stat) + rng.Intn(2*DuelRoundSwing+1) - DuelRoundSwing

		r := DuelRound{Round: round, Stat: stat}

		cBoost, cNote := abilityRoll(challenger.Personality, d.Score[0] < d.Score[1], rng)
		dBoost, dNote := abilityRoll(defender.Personality, d.Score[1] < d.Score[0], rng)
		r.ChallengerNote, r.DefenderNote = cNote, dNote
		if challenger.Personality.DuelAbility().DebuffsFoe {
			dRoll -= cBoost
		} else {
			cRoll += cBoost
		}
		if defender.Personality.DuelAbility().DebuffsFoe {
			cRoll -= dBoost
		} else {
			dRoll += dBoost
		}

		// Crowd support: social butterflies feed on an audience.
		if nearby >= DuelCrowdMinimum {
			if challenger.Personality == SocialButterfly {
				cRoll++
			}
			if defender.Personality == SocialButterfly {
				dRoll++
			}
		}

		r.ChallengerRoll, r.DefenderRoll = cRoll, dRoll
		if cRoll >= dRoll {
			r.Winner = "challenger"
			d.Score[0]++
		} else {
			r.Winner = "defender"
			d.Score[1]++
		}
		d.Rounds = append(d.Rounds, r)

		if d.Score[0] == 2 || d.Score[1] == 2 {
			break
		}
	}

	if d.Score[0] > d.Score[1] {
		d.WinnerID, d.LoserID = challenger.ID, defender.ID
	} else {
		d.WinnerID, d.LoserID = defender.ID, challenger.ID
	}
	return d
}

func abilityRoll(p Personality, losing bool, rng *rand.Rand) (int, string) {
	a := p.DuelAbility()
	if rng.Float64() > a.TriggerChance {
		return 0, ""
	}
	if a.OnlyIfLosing && !losing {
		return 0, ""
	}
	if a.WildSwing > 0 {
		return rng.Intn(2*a.WildSwing+1) - a.WildSwing, a.Name
	}
	return a.Boost, a.Name
}
