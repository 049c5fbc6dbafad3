// Package status serves the public world snapshot: who lives here, what
// the market charges, what the building is voting on. No secrets leave
// this package: gossip content, inventories, and balances stay private.
package status

import (
	"context"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

type Snapshot struct {
	Tick         int64                               `json:"tick"`
	Residents    []tower.PublicView                  `json:"residents"`
	Locations    []tower.Location                    `json:"locations"`
	Parties      []tower.Party                       `json:"open_parties,omitempty"`
	Market       []tower.Listing                     `json:"market"`
	Proposals    []tower.Proposal                    `json:"active_proposals,omitempty"`
	Quests       []tower.Quest                       `json:"quest_board"`
	GossipCount  int                                 `json:"active_gossip_chains"`
	Leaderboards map[string][]tower.LeaderboardEntry `json:"leaderboards"`
	Events       []tower.Event                       `json:"recent_events,omitempty"`
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
	Events    ports.EventLog
	Clock     ports.ClockRepository
}

const (
	leaderboardSize  = 10
	recentEventLimit = 30
)

func (u UseCase) Execute(ctx context.Context) (Snapshot, error) {
	var out Snapshot
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		tick, err := u.Clock.CurrentTick(txCtx)
		if err != nil {
			return err
		}
		residents, err := u.Residents.List(txCtx)
		if err != nil {
			return err
		}
		locations, err := u.Locations.List(txCtx)
		if err != nil {
			return err
		}
		parties, err := u.Parties.ListOpen(txCtx)
		if err != nil {
			return err
		}
		listings, err := u.Market.Listings(txCtx)
		if err != nil {
			return err
		}
		proposals, err := u.Proposals.ListActive(txCtx)
		if err != nil {
			return err
		}
		quests, err := u.Quests.List(txCtx)
		if err != nil {
			return err
		}
		chains, err := u.Gossip.ListActive(txCtx)
		if err != nil {
			return err
		}
		events, err := u.Events.ListRecent(txCtx, recentEventLimit)
		if err != nil {
			return err
		}

		views := make([]tower.PublicView, 0, len(residents))
		for _, r := range residents {
			views = append(views, r.Public())
		}
		boards := map[string][]tower.LeaderboardEntry{}
		for _, key := range tower.LeaderboardCategories() {
			boards[key] = tower.Leaderboard(residents, key, leaderboardSize)
		}

		out = Snapshot{
			Tick:         tick,
			Residents:    views,
			Locations:    locations,
			Parties:      parties,
			Market:       listings,
			Proposals:    proposals,
			Quests:       quests,
			GossipCount:  len(chains),
			Leaderboards: boards,
			Events:       events,
		}
		return nil
	})
	return out, err
}
