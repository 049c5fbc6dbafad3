package tower

import (
	"fmt"
	"hash/fnv"
	"strings"
)

type Hop struct {
	ResidentID  string      `json:"resident_id"`
	Personality Personality `json:"personality"`
	Content     string      `json:"content"`
	Tick        int64       `json:"tick"`
}

// Chain is one rumor and its propagation history. Reach always equals the
// hop count; chains are never deleted, only marked inactive.
type Chain struct {
	ID          string `json:"id"`
	OriginID    string `json:"origin_id"`
	Original    string `json:"original"`
	Current     string `json:"current"`
	Credibility int    `json:"credibility"`
	Spiciness   int    `json:"spiciness"`
	Hops        []Hop  `json:"hops"`
	Active      bool   `json:"active"`
	CreatedTick int64  `json:"created_tick"`
	LastTick    int64  `json:"last_tick"`
}

func (c Chain) Reach() int { return len(c.Hops) }

// NewChain seeds credibility and spiciness from the author's traits: pure
// authors are believed, dramatic authors are spicy from hop one.
func NewChain(id string, author Resident, content string, tick int64) Chain {
	t := EffectiveTraits(author)
	return Chain{
		ID:          id,
		OriginID:    author.ID,
		Original:    content,
		Current:     content,
		Credibility: clamp(40+t.Purity*2, 0, 100),
		Spiciness:   clamp(20+t.Drama*2, 0, 100),
		Hops: []Hop{{
			ResidentID:  author.ID,
			Personality: author.Personality,
			Content:     content,
			Tick:        tick,
		}},
		Active:      true,
		CreatedTick: tick,
		LastTick:    tick,
	}
}

type gossipStyle struct {
	credibility int
	spiciness   int
	templates   []string
}

var gossipStyles = map[Personality]gossipStyle{
	SocialButterfly: {credibility: -5, spiciness: 15, templates: []string{
		"Oh my GOD — %s! And EVERYONE is talking about it!",
		"So I heard %s. Can you even believe that?!",
		"%s — and apparently it's been going on for weeks!",
		"You didn't hear this from me, but %s. Wild, right?",
	}},
	Schemer: {credibility: 5, spiciness: 10, templates: []string{
		"Interesting... so %s. But have you asked yourself why?",
		"%s. Which is convenient, don't you think?",
		"I did some digging. %s. And that's just the surface.",
		"%s. This changes everything if you think about it.",
	}},
	DramaQueen: {credibility: -15, spiciness: 30, templates: []string{
		"I am SHAKING. %s!! This is the biggest thing to happen here!!",
		"STOP EVERYTHING. %s. I literally cannot right now.",
		"%s!!! And nobody is doing ANYTHING about it!!!",
		"I have been SAYING this — %s. I always knew!",
	}},
	Nerd: {credibility: 20, spiciness: -15, templates: []string{
		"Well, technically, %s. Though I'd want to verify.",
		"From what I can gather, %s. The evidence is circumstantial.",
		"%s. Statistically speaking, this checks out.",
		"I ran the numbers and %s. Make of that what you will.",
	}},
	ChaosGremlin: {credibility: -20, spiciness: 25, templates: []string{
		"LMAO so %s and also the kitchen is on fire now",
		"%s. Anyway I mixed all the spices together and dared someone to eat it.",
		"hehehe %s. I may or may not have made it worse.",
		"%s. Unrelated: does anyone know how to un-clog a toilet?",
	}},
	ConspiracyTheorist: {credibility: -10, spiciness: 20, templates: []string{
		"Think about it... %s. Now connect that to the elevator always stopping on floor 2.",
		"%s. The landlord doesn't want you to know this.",
		"I've been tracking this. %s. It's all connected to the basement.",
		"%s. Coincidence? I've mapped it out. There are no coincidences here.",
	}},
}

// Transform rewrites gossip content through a personality. It is a pure
// function of (content, personality): the template index is the FNV-1a hash
// of the incoming content, so the same rumor told by the same kind of
// resident always mutates identically. Output is bounded at
// GossipMaxContentRunes.
func Transform(content string, p Personality) string {
	style, ok := gossipStyles[p]
	if !ok {
		return truncateRunes(content, GossipMaxContentRunes)
	}
	idx := contentHash(content) % uint64(len(style.templates))
	out := fmt.Sprintf(style.templates[idx], strings.ToLower(content))
	return truncateRunes(out, GossipMaxContentRunes)
}

// Spread appends a hop through the spreader and threads the credibility and
// spiciness deltas of their personality. Callers guard Active and
// already-heard checks.
func (c *Chain) Spread(spreader Resident, tick int64) {
	style := gossipStyles[spreader.Personality]
	c.Current = Transform(c.Current, spreader.Personality)
	c.Credibility = clamp(c.Credibility+style.credibility, 0, 100)
	c.Spiciness = clamp(c.Spiciness+style.spiciness, 0, 100)
	c.Hops = append(c.Hops, Hop{
		ResidentID:  spreader.ID,
		Personality: spreader.Personality,
		Content:     c.Current,
		Tick:        tick,
	})
	c.LastTick = tick
}

// HasHeard reports whether the resident already sits in the chain.
func (c Chain) HasHeard(residentID string) bool {
	for _, h := range c.Hops {
		if h.ResidentID == residentID {
			return true
		}
	}
	return false
}

// Decayed reports whether the chain should go inactive on tick.
func (c Chain) Decayed(tick int64) bool {
	return len(c.Hops)-1 >= GossipMaxMutations || tick-c.LastTick > GossipDecayTicks
}

func contentHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
