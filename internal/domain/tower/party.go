package tower

type Vibe string

const (
	VibeChill   Vibe = "chill"
	VibeKaraoke Vibe = "karaoke"
	VibeDrama   Vibe = "drama"
	VibeMystery Vibe = "mystery"
	VibeDance   Vibe = "dance"
	VibeDebate  Vibe = "debate"
	VibePotluck Vibe = "potluck"
)

func Vibes() []Vibe {
	return []Vibe{VibeChill, VibeKaraoke, VibeDrama, VibeMystery, VibeDance, VibeDebate, VibePotluck}
}

func (v Vibe) Valid() bool {
	switch v {
	case VibeChill, VibeKaraoke, VibeDrama, VibeMystery, VibeDance, VibeDebate, VibePotluck:
		return true
	}
	return false
}

// FoldState is the running party state threaded through the vibe sequence.
type FoldState struct {
	Energy  int      `json:"energy"`
	Chaos   int      `json:"chaos"`
	Bonding int      `json:"bonding"`
	Fun     int      `json:"fun"`
	Frozen  bool     `json:"frozen"`
	Log     []string `json:"log"`
}

type Party struct {
	ID          string    `json:"id"`
	HostID      string    `json:"host_id"`
	LocationID  string    `json:"location_id"`
	Vibes       []Vibe    `json:"vibes"`
	AttendeeIDs []string  `json:"attendee_ids"`
	State       FoldState `json:"state"`
	CreatedTick int64     `json:"created_tick"`
	ClosedTick  int64     `json:"closed_tick,omitempty"`
	Closed      bool      `json:"closed"`
}

func (p Party) HasAttendee(id string) bool {
	for _, a := range p.AttendeeIDs {
		if a == id {
			return true
		}
	}
	return false
}

// FoldVibes composes a vibe sequence into a party outcome. Each vibe maps
// the running state through its own transformation, so composition is
// non-commutative: [mystery, karaoke] is a different night than
// [karaoke, mystery]. Gated vibes freeze the fold when the running state
// can't carry them. The fold is deterministic for a fixed sequence.
func FoldVibes(vibes []Vibe) FoldState {
	s := FoldState{Energy: 50, Chaos: 20, Bonding: 30, Fun: 40}
	for _, v := range vibes {
		s.clampAll()
		if !applyVibe(&s, v) {
			s.Frozen = true
			break
		}
	}
	s.clampAll()
	return s
}

func applyVibe(s *FoldState, v Vibe) bool {
	switch v {
	case VibeChill:
		s.Energy -= 15
		s.Chaos -= 20
		s.Bonding += 15
		s.Fun += 5
		s.Log = append(s.Log, "everyone mellowed out")
	case VibeKaraoke:
		if s.Energy < 20 {
			s.Log = append(s.Log, "nobody had the energy for karaoke; the mic sat lonely")
			return false
		}
		if s.Chaos >= 50 {
			// rowdy room: terrible singing, memorable anyway
			s.Chaos += 20
			s.Fun += 10
			s.Log = append(s.Log, "the karaoke was objectively terrible but somehow iconic")
		} else {
			s.Fun += 25
			s.Bonding += 15
			s.Energy += 10
			s.Log = append(s.Log, "somebody crushed the karaoke; standing ovation")
		}
	case VibeDrama:
		if s.Chaos < 10 && s.Energy < 25 {
			s.Log = append(s.Log, "everyone was too zen for drama; suspicious")
			return false
		}
		s.Chaos += 30
		s.Energy += 20
		s.Fun += 15
		s.Bonding -= 10
		s.Log = append(s.Log, "someone said something they can't take back")
	case VibeMystery:
		if s.Bonding >= 40 {
			s.Bonding += 25
			s.Fun += 15
			s.Log = append(s.Log, "a hidden compartment in the wall; everyone played the board game inside")
		} else {
			s.Chaos += 25
			s.Fun += 20
			s.Log = append(s.Log, "the lights flickered and a note appeared under the door")
		}
	case VibeDance:
		if s.Energy < 30 {
			s.Log = append(s.Log, "nobody had legs left for dancing")
			return false
		}
		s.Energy -= 20
		s.Fun += 25
		s.Bonding += 15
		s.Chaos += 10
		s.Log = append(s.Log, "the dance floor opened up; reputations were built")
	case VibeDebate:
		s.Energy += 10
		s.Chaos += 15
		s.Fun += 10
		s.Bonding += 5
		s.Log = append(s.Log, "a philosophical debate: is a hot dog a sandwich? it got heated")
	case VibePotluck:
		s.Bonding += 20
		s.Fun += 15
		if s.Chaos > 50 {
			s.Chaos += 20
			s.Log = append(s.Log, "someone brought mystery casserole; survivors bonded")
		} else {
			s.Chaos += 5
			s.Log = append(s.Log, "the potluck was genuinely lovely; the pasta was legendary")
		}
	}
	return true
}

func (s *FoldState) clampAll() {
	s.Energy = clamp(s.Energy, 0, 100)
	s.Chaos = clamp(s.Chaos, 0, 100)
	s.Bonding = clamp(s.Bonding, 0, 100)
	s.Fun = clamp(s.Fun, 0, 100)
}
