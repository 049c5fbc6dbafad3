package tower

type Faction string

const (
	FactionNone        Faction = ""
	FactionPurists     Faction = "purists"
	FactionChaoticians Faction = "chaoticians"
	FactionSchemers    Faction = "schemers"
	FactionMystics     Faction = "mystics"
	FactionUnbound     Faction = "unbound"
)

type FactionInfo struct {
	Name         string `json:"name"`
	Motto        string `json:"motto"`
	Bonus        Traits `json:"bonus"`
	Headquarters string `json:"headquarters"`
}

// FactionTable is the closed faction catalog. Stat bonuses are additive
// vectors composed read-side by EffectiveTraits.
var FactionTable = map[Faction]FactionInfo{
	FactionPurists: {
		Name:         "The Purists",
		Motto:        "What goes in comes out unchanged.",
		Bonus:        Traits{Purity: 2, Chaos: -1},
		Headquarters: LocationLobby,
	},
	FactionChaoticians: {
		Name:         "The Chaoticians",
		Motto:        "Why have one outcome when you can have twelve?",
		Bonus:        Traits{Chaos: 2, Creativity: 1},
		Headquarters: "floor_1_hall",
	},
	FactionSchemers: {
		Name:         "The Schemers",
		Motto:        "Every choice is binary. Choose wisely.",
		Bonus:        Traits{Creativity: 2, Drama: 1},
		Headquarters: "floor_2_hall",
	},
	FactionMystics: {
		Name:         "The Mystics",
		Motto:        "Perhaps. Or perhaps not.",
		Bonus:        Traits{Drama: 1, Creativity: 1, Chaos: 1},
		Headquarters: "floor_3_hall",
	},
	FactionUnbound: {
		Name:         "The Unbound",
		Motto:        "Side effects are features, not bugs.",
		Bonus:        Traits{Charisma: 2, Chaos: 1},
		Headquarters: "rooftop",
	},
}

func (f Faction) Valid() bool {
	_, ok := FactionTable[f]
	return ok
}

type ProposalStatus string

const (
	ProposalActive ProposalStatus = "active"
	ProposalPassed ProposalStatus = "passed"
	ProposalFailed ProposalStatus = "failed"
)

// Proposal is a building vote. Immutable once resolved.
type Proposal struct {
	ID           string            `json:"id"`
	ProposerID   string            `json:"proposer_id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Options      []string          `json:"options"`
	Votes        map[string]string `json:"votes"` // resident id -> choice
	Status       ProposalStatus    `json:"status"`
	Result       string            `json:"result,omitempty"`
	CreatedTick  int64             `json:"created_tick"`
	DeadlineTick int64             `json:"deadline_tick"`
	ResolvedTick int64             `json:"resolved_tick,omitempty"`
}

func NewProposal(id, proposerID, title, description string, options []string, tick int64) Proposal {
	if len(options) == 0 {
		options = []string{"yes", "no"}
	}
	return Proposal{
		ID:           id,
		ProposerID:   proposerID,
		Title:        title,
		Description:  description,
		Options:      options,
		Votes:        map[string]string{},
		Status:       ProposalActive,
		CreatedTick:  tick,
		DeadlineTick: tick + ProposalOpenTicks,
	}
}

func (p Proposal) HasOption(choice string) bool {
	for _, o := range p.Options {
		if o == choice {
			return true
		}
	}
	return false
}

func (p Proposal) Tally() map[string]int {
	tally := map[string]int{}
	for _, o := range p.Options {
		tally[o] = 0
	}
	for _, choice := range p.Votes {
		tally[choice]++
	}
	return tally
}

// Quorum is the minimum turnout before a proposal can pass.
func Quorum(totalResidents int) int {
	q := int(float64(totalResidents) * ProposalQuorumShare)
	if q < ProposalQuorumMin {
		q = ProposalQuorumMin
	}
	return q
}

// Resolve finalizes a proposal at its deadline. Without quorum it fails;
// otherwise the option with the most votes wins, and a winning "no" still
// counts as failed. Option order breaks ties, so resolution is
// deterministic.
func (p *Proposal) Resolve(totalResidents int, tick int64) {
	p.ResolvedTick = tick
	if len(p.Votes) < Quorum(totalResidents) {
		p.Status = ProposalFailed
		p.Result = "no quorum"
		return
	}
	tally := p.Tally()
	best := p.Options[0]
	for _, o := range p.Options[1:] {
		if tally[o] > tally[best] {
			best = o
		}
	}
	p.Result = best
	if best == "no" {
		p.Status = ProposalFailed
	} else {
		p.Status = ProposalPassed
	}
}
