package memory

import (
	"context"
	"sort"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

type LocationRepo struct{ store *Store }

func NewLocationRepo(store *Store) LocationRepo { return LocationRepo{store: store} }

func (r LocationRepo) Get(_ context.Context, id string) (tower.Location, error) {
	loc, ok := r.store.locations[id]
	if !ok {
		return tower.Location{}, ports.ErrNotFound
	}
	return loc, nil
}

func (r LocationRepo) List(_ context.Context) ([]tower.Location, error) {
	out := make([]tower.Location, 0, len(r.store.locations))
	for _, l := range r.store.locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type GossipRepo struct{ store *Store }

func NewGossipRepo(store *Store) GossipRepo { return GossipRepo{store: store} }

func (r GossipRepo) Get(_ context.Context, id string) (tower.Chain, error) {
	c, ok := r.store.chains[id]
	if !ok {
		return tower.Chain{}, ports.ErrNotFound
	}
	return cloneChain(c), nil
}

func (r GossipRepo) ListActive(_ context.Context) ([]tower.Chain, error) {
	var out []tower.Chain
	for _, c := range r.store.chains {
		if c.Active {
			out = append(out, cloneChain(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r GossipRepo) List(_ context.Context) ([]tower.Chain, error) {
	out := make([]tower.Chain, 0, len(r.store.chains))
	for _, c := range r.store.chains {
		out = append(out, cloneChain(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r GossipRepo) Save(_ context.Context, c tower.Chain) error {
	r.store.chains[c.ID] = cloneChain(c)
	return nil
}

type PartyRepo struct{ store *Store }

func NewPartyRepo(store *Store) PartyRepo { return PartyRepo{store: store} }

func (r PartyRepo) Get(_ context.Context, id string) (tower.Party, error) {
	p, ok := r.store.parties[id]
	if !ok {
		return tower.Party{}, ports.ErrNotFound
	}
	return cloneParty(p), nil
}

func (r PartyRepo) ListOpen(_ context.Context) ([]tower.Party, error) {
	var out []tower.Party
	for _, p := range r.store.parties {
		if !p.Closed {
			out = append(out, cloneParty(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r PartyRepo) OpenAt(_ context.Context, locationID string) (tower.Party, error) {
	for _, p := range r.store.parties {
		if !p.Closed && p.LocationID == locationID {
			return cloneParty(p), nil
		}
	}
	return tower.Party{}, ports.ErrNotFound
}

func (r PartyRepo) Save(_ context.Context, p tower.Party) error {
	r.store.parties[p.ID] = cloneParty(p)
	return nil
}

type MarketRepo struct{ store *Store }

func NewMarketRepo(store *Store) MarketRepo { return MarketRepo{store: store} }

func (r MarketRepo) GetListing(_ context.Context, itemID string) (tower.Listing, error) {
	l, ok := r.store.listings[itemID]
	if !ok {
		return tower.Listing{}, ports.ErrNotFound
	}
	return l, nil
}

func (r MarketRepo) Listings(_ context.Context) ([]tower.Listing, error) {
	out := make([]tower.Listing, 0, len(r.store.listings))
	for _, l := range r.store.listings {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (r MarketRepo) SaveListing(_ context.Context, l tower.Listing) error {
	r.store.listings[l.ItemID] = l
	return nil
}

func (r MarketRepo) GetTrade(_ context.Context, id string) (tower.TradeOffer, error) {
	t, ok := r.store.trades[id]
	if !ok {
		return tower.TradeOffer{}, ports.ErrNotFound
	}
	return cloneTrade(t), nil
}

func (r MarketRepo) OpenTrades(_ context.Context) ([]tower.TradeOffer, error) {
	var out []tower.TradeOffer
	for _, t := range r.store.trades {
		if t.Status == tower.TradeOpen {
			out = append(out, cloneTrade(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r MarketRepo) SaveTrade(_ context.Context, t tower.TradeOffer) error {
	r.store.trades[t.ID] = cloneTrade(t)
	return nil
}

type DuelRepo struct{ store *Store }

func NewDuelRepo(store *Store) DuelRepo { return DuelRepo{store: store} }

func (r DuelRepo) Save(_ context.Context, d tower.Duel) error {
	r.store.duels = append(r.store.duels, d)
	return nil
}

func (r DuelRepo) ListByResident(_ context.Context, residentID string, limit int) ([]tower.Duel, error) {
	var out []tower.Duel
	for i := len(r.store.duels) - 1; i >= 0; i-- {
		d := r.store.duels[i]
		if d.ChallengerID == residentID || d.DefenderID == residentID {
			out = append(out, d)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

type ProposalRepo struct{ store *Store }

func NewProposalRepo(store *Store) ProposalRepo { return ProposalRepo{store: store} }

func (r ProposalRepo) Get(_ context.Context, id string) (tower.Proposal, error) {
	p, ok := r.store.proposals[id]
	if !ok {
		return tower.Proposal{}, ports.ErrNotFound
	}
	return cloneProposal(p), nil
}

func (r ProposalRepo) ListActive(_ context.Context) ([]tower.Proposal, error) {
	var out []tower.Proposal
	for _, p := range r.store.proposals {
		if p.Status == tower.ProposalActive {
			out = append(out, cloneProposal(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r ProposalRepo) List(_ context.Context) ([]tower.Proposal, error) {
	out := make([]tower.Proposal, 0, len(r.store.proposals))
	for _, p := range r.store.proposals {
		out = append(out, cloneProposal(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r ProposalRepo) Save(_ context.Context, p tower.Proposal) error {
	r.store.proposals[p.ID] = cloneProposal(p)
	return nil
}

type QuestRepo struct{ store *Store }

func NewQuestRepo(store *Store) QuestRepo { return QuestRepo{store: store} }

func (r QuestRepo) Get(_ context.Context, id string) (tower.Quest, error) {
	q, ok := r.store.quests[id]
	if !ok {
		return tower.Quest{}, ports.ErrNotFound
	}
	return cloneQuest(q), nil
}

func (r QuestRepo) List(_ context.Context) ([]tower.Quest, error) {
	out := make([]tower.Quest, 0, len(r.store.quests))
	for _, q := range r.store.quests {
		out = append(out, cloneQuest(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r QuestRepo) ListByResident(_ context.Context, residentID string) ([]tower.Quest, error) {
	var out []tower.Quest
	for _, q := range r.store.quests {
		if q.AssignedTo == residentID {
			out = append(out, cloneQuest(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r QuestRepo) Save(_ context.Context, q tower.Quest) error {
	r.store.quests[q.ID] = cloneQuest(q)
	return nil
}

type ArtifactRepo struct{ store *Store }

func NewArtifactRepo(store *Store) ArtifactRepo { return ArtifactRepo{store: store} }

func (r ArtifactRepo) Get(_ context.Context, id string) (tower.Artifact, error) {
	a, ok := r.store.artifacts[id]
	if !ok {
		return tower.Artifact{}, ports.ErrNotFound
	}
	return a, nil
}

func (r ArtifactRepo) List(_ context.Context) ([]tower.Artifact, error) {
	out := make([]tower.Artifact, 0, len(r.store.artifacts))
	for _, a := range r.store.artifacts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r ArtifactRepo) Save(_ context.Context, a tower.Artifact) error {
	r.store.artifacts[a.ID] = a
	return nil
}

type BoardRepo struct{ store *Store }

func NewBoardRepo(store *Store) BoardRepo { return BoardRepo{store: store} }

func (r BoardRepo) Posts(_ context.Context, locationID string, limit int) ([]ports.BoardPost, error) {
	posts := r.store.boardPosts[locationID]
	if limit > 0 && len(posts) > limit {
		posts = posts[len(posts)-limit:]
	}
	return append([]ports.BoardPost(nil), posts...), nil
}

func (r BoardRepo) Append(_ context.Context, p ports.BoardPost) error {
	r.store.boardPosts[p.LocationID] = append(r.store.boardPosts[p.LocationID], p)
	return nil
}

type CredentialRepo struct{ store *Store }

func NewCredentialRepo(store *Store) CredentialRepo { return CredentialRepo{store: store} }

func (r CredentialRepo) Create(_ context.Context, credential ports.AgentCredentialRecord) error {
	if _, ok := r.store.credentials[credential.AgentID]; ok {
		return ports.ErrConflict
	}
	r.store.credentials[credential.AgentID] = credential
	return nil
}

func (r CredentialRepo) GetByAgentID(_ context.Context, agentID string) (ports.AgentCredentialRecord, error) {
	cred, ok := r.store.credentials[agentID]
	if !ok {
		return ports.AgentCredentialRecord{}, ports.ErrNotFound
	}
	return cred, nil
}

type ClockRepo struct{ store *Store }

func NewClockRepo(store *Store) ClockRepo { return ClockRepo{store: store} }

func (r ClockRepo) CurrentTick(_ context.Context) (int64, error) {
	return r.store.tick, nil
}

func (r ClockRepo) AdvanceTick(_ context.Context) (int64, error) {
	r.store.tick++
	return r.store.tick, nil
}
