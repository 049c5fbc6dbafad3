package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"towerverse/internal/adapter/repo/memory"
	"towerverse/internal/catalog"
	"towerverse/internal/domain/tower"
)

type fixture struct {
	store *memory.Store
	uc    UseCase
}

func newFixture(t *testing.T, seed int64) *fixture {
	t.Helper()
	store := memory.NewStore()
	locs, err := catalog.Locations()
	if err != nil {
		t.Fatalf("load locations: %v", err)
	}
	store.SeedLocations(locs)
	items, err := catalog.Items()
	if err != nil {
		t.Fatalf("load items: %v", err)
	}
	store.SeedListings(catalog.Listings(items))

	n := 0
	uc := UseCase{
		TxManager: memory.NewTxManager(store),
		Residents: memory.NewResidentRepo(store),
		Locations: memory.NewLocationRepo(store),
		Gossip:    memory.NewGossipRepo(store),
		Parties:   memory.NewPartyRepo(store),
		Market:    memory.NewMarketRepo(store),
		Duels:     memory.NewDuelRepo(store),
		Proposals: memory.NewProposalRepo(store),
		Quests:    memory.NewQuestRepo(store),
		Artifacts: memory.NewArtifactRepo(store),
		Board:     memory.NewBoardRepo(store),
		Events:    memory.NewEventLog(store),
		Clock:     memory.NewClockRepo(store),
		IDs: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
		RNG: rand.New(rand.NewSource(seed)),
		Now: func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	return &fixture{store: store, uc: uc}
}

func (f *fixture) seedResident(t *testing.T, id, name string, p tower.Personality, locationID string) tower.Resident {
	t.Helper()
	r := tower.NewResident(id, name, p, 0)
	r.LocationID = locationID
	if err := f.save(r); err != nil {
		t.Fatalf("seed resident %s: %v", id, err)
	}
	return r
}

func (f *fixture) save(r tower.Resident) error {
	return f.uc.TxManager.RunInTx(context.Background(), func(ctx context.Context) error {
		return f.uc.Residents.Save(ctx, r)
	})
}

func (f *fixture) resident(t *testing.T, id string) tower.Resident {
	t.Helper()
	var out tower.Resident
	err := f.uc.TxManager.RunInTx(context.Background(), func(ctx context.Context) error {
		var err error
		out, err = f.uc.Residents.Get(ctx, id)
		return err
	})
	if err != nil {
		t.Fatalf("get resident %s: %v", id, err)
	}
	return out
}

func (f *fixture) act(t *testing.T, agentID, action, params string) (Response, error) {
	t.Helper()
	req := Request{AgentID: agentID, Action: action}
	if params != "" {
		req.Params = json.RawMessage(params)
	}
	return f.uc.Execute(context.Background(), req)
}

func (f *fixture) mustAct(t *testing.T, agentID, action, params string) Response {
	t.Helper()
	resp, err := f.act(t, agentID, action, params)
	if err != nil {
		t.Fatalf("%s %s: %v", agentID, action, err)
	}
	return resp
}
