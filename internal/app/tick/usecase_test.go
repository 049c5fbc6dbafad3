package tick

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"towerverse/internal/adapter/repo/memory"
	"towerverse/internal/app/ports"
	"towerverse/internal/catalog"
	"towerverse/internal/domain/tower"
)

func newTickUseCase(t *testing.T, store *memory.Store) UseCase {
	t.Helper()
	locs, err := catalog.Locations()
	if err != nil {
		t.Fatalf("load locations: %v", err)
	}
	store.SeedLocations(locs)
	return UseCase{
		TxManager: memory.NewTxManager(store),
		Residents: memory.NewResidentRepo(store),
		Locations: memory.NewLocationRepo(store),
		Gossip:    memory.NewGossipRepo(store),
		Parties:   memory.NewPartyRepo(store),
		Market:    memory.NewMarketRepo(store),
		Proposals: memory.NewProposalRepo(store),
		Clock:     memory.NewClockRepo(store),
		Events:    memory.NewEventLog(store),
		RNG:       rand.New(rand.NewSource(1)),
		Now:       func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func run(t *testing.T, store *memory.Store, fn func(ctx context.Context) error) {
	t.Helper()
	if err := memory.NewTxManager(store).RunInTx(context.Background(), fn); err != nil {
		t.Fatalf("tx: %v", err)
	}
}

func advance(t *testing.T, u UseCase, n int) int64 {
	t.Helper()
	var tick int64
	for i := 0; i < n; i++ {
		var err error
		tick, err = u.Execute(context.Background())
		if err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	return tick
}

func TestTickClosesStalePartiesAndPaysOut(t *testing.T) {
	store := memory.NewStore()
	u := newTickUseCase(t, store)

	host := tower.NewResident("h1", "Pixel", tower.SocialButterfly, 0)
	guest := tower.NewResident("g1", "Mango", tower.Nerd, 0)
	run(t, store, func(ctx context.Context) error {
		if err := u.Residents.Save(ctx, host); err != nil {
			return err
		}
		if err := u.Residents.Save(ctx, guest); err != nil {
			return err
		}
		return u.Parties.Save(ctx, tower.Party{
			ID:          "p1",
			HostID:      "h1",
			LocationID:  "rooftop",
			AttendeeIDs: []string{"h1", "g1"},
			State:       tower.FoldState{Fun: 80},
			CreatedTick: 0,
		})
	})

	advance(t, u, tower.PartyOpenTicks)

	var party tower.Party
	var hostAfter, guestAfter tower.Resident
	run(t, store, func(ctx context.Context) error {
		var err error
		if party, err = u.Parties.Get(ctx, "p1"); err != nil {
			return err
		}
		if hostAfter, err = u.Residents.Get(ctx, "h1"); err != nil {
			return err
		}
		guestAfter, err = u.Residents.Get(ctx, "g1")
		return err
	})
	if !party.Closed {
		t.Fatalf("stale party should close")
	}
	if hostAfter.Clout != tower.CloutRewards["great_party"] {
		t.Fatalf("great party host clout: got=%d", hostAfter.Clout)
	}
	if guestAfter.Clout != tower.CloutRewards["party_attendance"] {
		t.Fatalf("attendee clout: got=%d", guestAfter.Clout)
	}
}

func TestTickDecaysIdleGossip(t *testing.T) {
	store := memory.NewStore()
	u := newTickUseCase(t, store)

	author := tower.NewResident("a1", "Pixel", tower.Nerd, 0)
	run(t, store, func(ctx context.Context) error {
		return u.Gossip.Save(ctx, tower.NewChain("c1", author, "something about the boiler", 0))
	})

	advance(t, u, int(tower.GossipDecayTicks)+1)

	var chain tower.Chain
	run(t, store, func(ctx context.Context) error {
		var err error
		chain, err = u.Gossip.Get(ctx, "c1")
		return err
	})
	if chain.Active {
		t.Fatalf("idle chain should go inactive")
	}
}

func TestTickResolvesExpiredProposals(t *testing.T) {
	store := memory.NewStore()
	u := newTickUseCase(t, store)

	run(t, store, func(ctx context.Context) error {
		for _, r := range []string{"r1", "r2", "r3"} {
			if err := u.Residents.Save(ctx, tower.NewResident(r, r, tower.Nerd, 0)); err != nil {
				return err
			}
		}
		p := tower.NewProposal("p1", "r1", "Fix the elevator", "", nil, 0)
		p.Votes = map[string]string{"r1": "yes", "r2": "yes", "r3": "no"}
		return u.Proposals.Save(ctx, p)
	})

	advance(t, u, int(tower.ProposalOpenTicks)+1)

	var p tower.Proposal
	run(t, store, func(ctx context.Context) error {
		var err error
		p, err = u.Proposals.Get(ctx, "p1")
		return err
	})
	if p.Status != tower.ProposalPassed || p.Result != "yes" {
		t.Fatalf("expected passed/yes, got %s/%s", p.Status, p.Result)
	}
}

func TestTickExpiresOpenTrades(t *testing.T) {
	store := memory.NewStore()
	u := newTickUseCase(t, store)

	run(t, store, func(ctx context.Context) error {
		return u.Market.SaveTrade(ctx, tower.TradeOffer{
			ID: "t1", ProposerID: "r1", Status: tower.TradeOpen, CreatedTick: 0,
		})
	})

	advance(t, u, int(tower.TradeOpenTicks)+1)

	var offer tower.TradeOffer
	run(t, store, func(ctx context.Context) error {
		var err error
		offer, err = u.Market.GetTrade(ctx, "t1")
		return err
	})
	if offer.Status != tower.TradeExpired {
		t.Fatalf("stale trade should expire, got %s", offer.Status)
	}
}

func TestTickVoidDrainsSanity(t *testing.T) {
	store := memory.NewStore()
	u := newTickUseCase(t, store)

	r := tower.NewResident("r1", "Pixel", tower.Nerd, 0)
	r.LocationID = "basement"
	run(t, store, func(ctx context.Context) error {
		return u.Residents.Save(ctx, r)
	})

	advance(t, u, 3)

	var after tower.Resident
	run(t, store, func(ctx context.Context) error {
		var err error
		after, err = u.Residents.Get(ctx, "r1")
		return err
	})
	if after.Sanity != tower.MaxSanity-6 {
		t.Fatalf("void drain: got=%d want=%d", after.Sanity, tower.MaxSanity-6)
	}
	if after.Mood != tower.MoodSuspicious {
		t.Fatalf("void mood pull: got=%s", after.Mood)
	}
}

// A broken step must not stop the steps after it. Gossip is left nil so
// its step panics; the party step still has to run.
func TestTickStepPanicIsIsolated(t *testing.T) {
	store := memory.NewStore()
	u := newTickUseCase(t, store)
	u.Gossip = nil

	run(t, store, func(ctx context.Context) error {
		if err := u.Residents.Save(ctx, tower.NewResident("h1", "Pixel", tower.Nerd, 0)); err != nil {
			return err
		}
		return u.Parties.Save(ctx, tower.Party{
			ID: "p1", HostID: "h1", LocationID: "rooftop",
			AttendeeIDs: []string{"h1"}, CreatedTick: 0,
		})
	})

	advance(t, u, tower.PartyOpenTicks)

	var party tower.Party
	run(t, store, func(ctx context.Context) error {
		var err error
		party, err = u.Parties.Get(ctx, "p1")
		return err
	})
	if !party.Closed {
		t.Fatalf("party step should survive the gossip step panic")
	}
}

var _ ports.TxManager = memory.TxManager{}
