package status

import (
	"context"
	"testing"

	"towerverse/internal/adapter/repo/memory"
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
		Events:    memory.NewEventLog(store),
		Clock:     memory.NewClockRepo(store),
	}
	return store, uc
}

func saveResident(t *testing.T, store *memory.Store, r tower.Resident) {
	t.Helper()
	err := memory.NewTxManager(store).RunInTx(context.Background(), func(ctx context.Context) error {
		return memory.NewResidentRepo(store).Save(ctx, r)
	})
	if err != nil {
		t.Fatalf("save resident: %v", err)
	}
}

func TestSnapshotPublicSurface(t *testing.T) {
	store, uc := newFixture(t)

	rich := tower.NewResident("res_rich", "Rich", tower.Schemer, 0)
	rich.Clout = 50
	rich.Tokens = 900
	saveResident(t, store, rich)

	famous := tower.NewResident("res_famous", "Fay", tower.SocialButterfly, 0)
	famous.Clout = 80
	saveResident(t, store, famous)

	snap, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if len(snap.Residents) != 2 {
		t.Fatalf("expected 2 residents, got %d", len(snap.Residents))
	}
	if len(snap.Locations) == 0 || len(snap.Market) == 0 {
		t.Fatalf("catalog surfaces empty: locations=%d market=%d", len(snap.Locations), len(snap.Market))
	}

	clout := snap.Leaderboards["clout"]
	if len(clout) != 2 || clout[0].ResidentID != "res_famous" {
		t.Fatalf("clout leaderboard wrong: %+v", clout)
	}
	tokens := snap.Leaderboards["tokens"]
	if len(tokens) == 0 || tokens[0].ResidentID != "res_rich" {
		t.Fatalf("token leaderboard wrong: %+v", tokens)
	}
	for _, key := range tower.LeaderboardCategories() {
		if _, ok := snap.Leaderboards[key]; !ok {
			t.Fatalf("missing leaderboard %q", key)
		}
	}
}

// The public snapshot never includes balances, inventories, or gossip
// content; it only counts chains.
func TestSnapshotKeepsSecrets(t *testing.T) {
	store, uc := newFixture(t)

	bo := tower.NewResident("res_b", "Bo", tower.DramaQueen, 0)
	saveResident(t, store, bo)
	err := memory.NewTxManager(store).RunInTx(context.Background(), func(ctx context.Context) error {
		chain := tower.NewChain("chain-1", bo, "a secret only residents may hear", 0)
		return memory.NewGossipRepo(store).Save(ctx, chain)
	})
	if err != nil {
		t.Fatalf("seed chain: %v", err)
	}

	snap, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.GossipCount != 1 {
		t.Fatalf("expected 1 active chain, got %d", snap.GossipCount)
	}
}
