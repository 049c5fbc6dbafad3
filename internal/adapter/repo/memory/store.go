package memory

import (
	"sync"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

// Store is the authoritative world state. One RWMutex guards everything;
// TxManager takes the write lock for the duration of an action or tick, so
// repos never lock individually. All getters hand out deep copies: a
// handler that aborts mid-way has only ever touched its own copies.
type Store struct {
	mu sync.RWMutex

	tick        int64
	eventSeq    int64
	residents   map[string]tower.Resident
	locations   map[string]tower.Location
	chains      map[string]tower.Chain
	parties     map[string]tower.Party
	listings    map[string]tower.Listing
	trades      map[string]tower.TradeOffer
	duels       []tower.Duel
	proposals   map[string]tower.Proposal
	quests      map[string]tower.Quest
	artifacts   map[string]tower.Artifact
	boardPosts  map[string][]ports.BoardPost
	events      []tower.Event
	credentials map[string]ports.AgentCredentialRecord
}

func NewStore() *Store {
	return &Store{
		residents:   map[string]tower.Resident{},
		locations:   map[string]tower.Location{},
		chains:      map[string]tower.Chain{},
		parties:     map[string]tower.Party{},
		listings:    map[string]tower.Listing{},
		trades:      map[string]tower.TradeOffer{},
		proposals:   map[string]tower.Proposal{},
		quests:      map[string]tower.Quest{},
		artifacts:   map[string]tower.Artifact{},
		boardPosts:  map[string][]ports.BoardPost{},
		credentials: map[string]ports.AgentCredentialRecord{},
	}
}

// SeedLocations installs the floor plan. Called once at boot, before any
// traffic.
func (s *Store) SeedLocations(locs []tower.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range locs {
		s.locations[l.ID] = l
	}
}

func (s *Store) SeedListings(listings []tower.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range listings {
		s.listings[l.ItemID] = l
	}
}

func (s *Store) SeedQuests(quests []tower.Quest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range quests {
		s.quests[q.ID] = cloneQuest(q)
	}
}

func cloneResident(r tower.Resident) tower.Resident {
	out := r
	out.Inventory = cloneIntMap(r.Inventory)
	out.Relations = make(map[string]tower.Relationship, len(r.Relations))
	for k, v := range r.Relations {
		out.Relations[k] = v
	}
	out.HeardGossip = append([]string(nil), r.HeardGossip...)
	out.Artifacts = append([]string(nil), r.Artifacts...)
	out.Quests = append([]string(nil), r.Quests...)
	return out
}

func cloneChain(c tower.Chain) tower.Chain {
	out := c
	out.Hops = append([]tower.Hop(nil), c.Hops...)
	return out
}

func cloneParty(p tower.Party) tower.Party {
	out := p
	out.Vibes = append([]tower.Vibe(nil), p.Vibes...)
	out.AttendeeIDs = append([]string(nil), p.AttendeeIDs...)
	out.State.Log = append([]string(nil), p.State.Log...)
	return out
}

func cloneTrade(t tower.TradeOffer) tower.TradeOffer {
	out := t
	out.Offering.Items = cloneIntMap(t.Offering.Items)
	out.Asking.Items = cloneIntMap(t.Asking.Items)
	return out
}

func cloneProposal(p tower.Proposal) tower.Proposal {
	out := p
	out.Options = append([]string(nil), p.Options...)
	out.Votes = make(map[string]string, len(p.Votes))
	for k, v := range p.Votes {
		out.Votes[k] = v
	}
	return out
}

func cloneQuest(q tower.Quest) tower.Quest {
	out := q
	out.Steps = append([]tower.QuestStep(nil), q.Steps...)
	return out
}

func cloneEvent(e tower.Event) tower.Event {
	out := e
	if e.Payload != nil {
		out.Payload = make(map[string]any, len(e.Payload))
		for k, v := range e.Payload {
			out.Payload[k] = v
		}
	}
	return out
}

func cloneIntMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
