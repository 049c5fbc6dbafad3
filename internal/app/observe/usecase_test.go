package observe

import (
	"context"
	"errors"
	"testing"

	"towerverse/internal/adapter/repo/memory"
	"towerverse/internal/app/ports"
	"towerverse/internal/catalog"
	"towerverse/internal/domain/tower"
)

func newFixture(t *testing.T) (*memory.Store, UseCase) {
	t.Helper()
	store := memory.NewStore()
	locations, err := catalog.Locations()
	if err != nil {
		t.Fatalf("load locations: %v", err)
	}
	items, err := catalog.Items()
	if err != nil {
		t.Fatalf("load items: %v", err)
	}
	store.SeedLocations(locations)
	store.SeedListings(catalog.Listings(items))

	uc := UseCase{
		TxManager: memory.NewTxManager(store),
		Residents: memory.NewResidentRepo(store),
		Locations: memory.NewLocationRepo(store),
		Gossip:    memory.NewGossipRepo(store),
		Parties:   memory.NewPartyRepo(store),
		Market:    memory.NewMarketRepo(store),
		Proposals: memory.NewProposalRepo(store),
		Quests:    memory.NewQuestRepo(store),
		Board:     memory.NewBoardRepo(store),
		Events:    memory.NewEventLog(store),
		Clock:     memory.NewClockRepo(store),
	}
	return store, uc
}

func inTx(t *testing.T, store *memory.Store, fn func(ctx context.Context) error) {
	t.Helper()
	if err := memory.NewTxManager(store).RunInTx(context.Background(), fn); err != nil {
		t.Fatalf("tx: %v", err)
	}
}

func seedResident(t *testing.T, store *memory.Store, id, name string, p tower.Personality, locationID string) {
	t.Helper()
	inTx(t, store, func(ctx context.Context) error {
		r := tower.NewResident(id, name, p, 0)
		r.LocationID = locationID
		return memory.NewResidentRepo(store).Save(ctx, r)
	})
}

func TestObserveComposesContext(t *testing.T) {
	store, uc := newFixture(t)
	seedResident(t, store, "res_a", "Ada", tower.Nerd, "rooftop")
	seedResident(t, store, "res_b", "Bo", tower.DramaQueen, "rooftop")
	seedResident(t, store, "res_c", "Cyn", tower.Schemer, "lobby")

	// Bo starts a rumor Ada has not heard yet.
	inTx(t, store, func(ctx context.Context) error {
		bo, err := memory.NewResidentRepo(store).Get(ctx, "res_b")
		if err != nil {
			return err
		}
		chain := tower.NewChain("chain-1", bo, "the landlady hides the rent money in the disco ball", 0)
		return memory.NewGossipRepo(store).Save(ctx, chain)
	})

	resp, err := uc.Execute(context.Background(), Request{AgentID: "res_a"})
	if err != nil {
		t.Fatalf("observe: %v", err)
	}

	if resp.Location.ID != "rooftop" {
		t.Fatalf("location mismatch: %s", resp.Location.ID)
	}
	if len(resp.Residents) != 1 || resp.Residents[0].ID != "res_b" {
		t.Fatalf("expected only the rooftop neighbor, got %+v", resp.Residents)
	}
	if resp.You.Tokens != tower.StartingTokens || resp.You.Sanity != tower.MaxSanity {
		t.Fatalf("self view mismatch: %+v", resp.You)
	}
	if len(resp.Market) == 0 {
		t.Fatalf("expected market listings")
	}
	if resp.Party != nil {
		t.Fatalf("no party open, got %+v", resp.Party)
	}

	if len(resp.Gossip) != 1 {
		t.Fatalf("expected one gossip view, got %d", len(resp.Gossip))
	}
	if resp.Gossip[0].Heard {
		t.Fatalf("ada has not heard the rumor")
	}
	if resp.Gossip[0].Content != "" {
		t.Fatalf("unheard gossip must hide content, got %q", resp.Gossip[0].Content)
	}
}

func TestObserveRevealsHeardGossip(t *testing.T) {
	store, uc := newFixture(t)
	seedResident(t, store, "res_b", "Bo", tower.DramaQueen, "rooftop")

	inTx(t, store, func(ctx context.Context) error {
		bo, err := memory.NewResidentRepo(store).Get(ctx, "res_b")
		if err != nil {
			return err
		}
		chain := tower.NewChain("chain-1", bo, "someone replaced the gym weights with bread", 0)
		return memory.NewGossipRepo(store).Save(ctx, chain)
	})

	resp, err := uc.Execute(context.Background(), Request{AgentID: "res_b"})
	if err != nil {
		t.Fatalf("observe: %v", err)
	}
	if len(resp.Gossip) != 1 || !resp.Gossip[0].Heard {
		t.Fatalf("author must count as having heard, got %+v", resp.Gossip)
	}
	if resp.Gossip[0].Content == "" {
		t.Fatalf("heard gossip must include content")
	}
}

func TestObserveUnknownAgent(t *testing.T) {
	_, uc := newFixture(t)
	_, err := uc.Execute(context.Background(), Request{AgentID: "ghost"})
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
