// Package observe builds the full situational context an agent needs to
// decide its next action: self state, location, neighbors, open parties,
// market prices, active proposals, quests, and recent local events.
package observe

import (
	"context"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

type Request struct {
	AgentID string
}

type Response struct {
	Tick      int64              `json:"tick"`
	You       You                `json:"you"`
	Location  LocationView       `json:"location"`
	Residents []tower.PublicView `json:"residents"`
	Party     *tower.Party       `json:"party,omitempty"`
	Gossip    []GossipView       `json:"gossip,omitempty"`
	Market    []tower.Listing    `json:"market"`
	Trades    []tower.TradeOffer `json:"open_trades,omitempty"`
	Proposals []tower.Proposal   `json:"active_proposals,omitempty"`
	Quests    []tower.Quest      `json:"your_quests,omitempty"`
	Events    []tower.Event      `json:"recent_events,omitempty"`
}

// You is the actor's private view: everything PublicView hides.
type You struct {
	tower.PublicView
	Traits      tower.Traits            `json:"traits"`
	Effective   tower.Traits            `json:"effective_traits"`
	Sanity      int                     `json:"sanity"`
	Tokens      int                     `json:"tokens"`
	ChainEarned float64                 `json:"chain_earned"`
	Inventory   map[string]int          `json:"inventory"`
	Relations   map[string]RelationView `json:"relations,omitempty"`
}

type RelationView struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Affinity int    `json:"affinity"`
}

type LocationView struct {
	tower.Location
	Board []ports.BoardPost `json:"board,omitempty"`
}

// GossipView is a chain as the observer knows it: residents who haven't
// heard a rumor see that it exists, not what it says.
type GossipView struct {
	ChainID     string `json:"chain_id"`
	Content     string `json:"content,omitempty"`
	Credibility int    `json:"credibility"`
	Spiciness   int    `json:"spiciness"`
	Reach       int    `json:"reach"`
	Heard       bool   `json:"heard"`
}

type UseCase struct {
	TxManager ports.TxManager
	Residents ports.ResidentRepository
	Locations ports.LocationRepository
	Gossip    ports.GossipRepository
	Parties   ports.PartyRepository
	Market    ports.MarketRepository
	Proposals ports.ProposalRepository
	Quests    ports.QuestRepository
	Board     ports.BoardRepository
	Events    ports.EventLog
	Clock     ports.ClockRepository
}

const recentEventLimit = 20

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		tick, err := u.Clock.CurrentTick(txCtx)
		if err != nil {
			return err
		}
		actor, err := u.Residents.Get(txCtx, req.AgentID)
		if err != nil {
			return err
		}
		loc, err := u.Locations.Get(txCtx, actor.LocationID)
		if err != nil {
			return err
		}
		here, err := u.Residents.ListByLocation(txCtx, actor.LocationID)
		if err != nil {
			return err
		}
		neighbors := make([]tower.PublicView, 0, len(here))
		for _, r := range here {
			if r.ID != actor.ID {
				neighbors = append(neighbors, r.Public())
			}
		}

		relations := make(map[string]RelationView, len(actor.Relations))
		for id, rel := range actor.Relations {
			name := id
			if other, err := u.Residents.Get(txCtx, id); err == nil {
				name = other.Name
			}
			relations[id] = RelationView{Name: name, Label: rel.Label(), Affinity: rel.Affinity}
		}

		chains, err := u.Gossip.ListActive(txCtx)
		if err != nil {
			return err
		}
		gossip := make([]GossipView, 0, len(chains))
		for _, c := range chains {
			v := GossipView{
				ChainID:     c.ID,
				Credibility: c.Credibility,
				Spiciness:   c.Spiciness,
				Reach:       c.Reach(),
				Heard:       c.HasHeard(actor.ID),
			}
			if v.Heard {
				v.Content = c.Current
			}
			gossip = append(gossip, v)
		}

		listings, err := u.Market.Listings(txCtx)
		if err != nil {
			return err
		}
		trades, err := u.Market.OpenTrades(txCtx)
		if err != nil {
			return err
		}
		proposals, err := u.Proposals.ListActive(txCtx)
		if err != nil {
			return err
		}
		quests, err := u.Quests.ListByResident(txCtx, actor.ID)
		if err != nil {
			return err
		}
		board, err := u.Board.Posts(txCtx, loc.ID, 10)
		if err != nil {
			return err
		}
		events, err := u.Events.ListByLocation(txCtx, loc.ID, recentEventLimit)
		if err != nil {
			return err
		}

		out = Response{
			Tick: tick,
			You: You{
				PublicView:  actor.Public(),
				Traits:      actor.Traits,
				Effective:   tower.EffectiveTraits(actor),
				Sanity:      actor.Sanity,
				Tokens:      actor.Tokens,
				ChainEarned: actor.ChainEarned,
				Inventory:   actor.Inventory,
				Relations:   relations,
			},
			Location:  LocationView{Location: loc, Board: board},
			Residents: neighbors,
			Gossip:    gossip,
			Market:    listings,
			Trades:    trades,
			Proposals: proposals,
			Quests:    quests,
			Events:    events,
		}
		if party, err := u.Parties.OpenAt(txCtx, loc.ID); err == nil {
			out.Party = &party
		} else if err != ports.ErrNotFound {
			return err
		}
		return nil
	})
	return out, err
}
