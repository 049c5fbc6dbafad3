// Package tick advances the world clock and runs the background rules:
// gossip decay, party wind-down, proposal deadlines, trade expiry, market
// drift, and the pull each floor exerts on the residents standing there.
package tick

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

type UseCase struct {
	TxManager ports.TxManager
	Residents ports.ResidentRepository
	Locations ports.LocationRepository
	Gossip    ports.GossipRepository
	Parties   ports.PartyRepository
	Market    ports.MarketRepository
	Proposals ports.ProposalRepository
	Clock     ports.ClockRepository
	Events    ports.EventLog
	Broadcast ports.EventBroadcaster
	Metrics   ports.ActionMetrics
	Logger    *slog.Logger
	RNG       *rand.Rand
	Now       func() time.Time
}

type step struct {
	name string
	run  func(ctx context.Context, tick int64, now time.Time) error
}

// Execute advances the tick and runs every step. Steps are isolated: each
// runs in its own transaction, and a panic or error in one never stops
// the ones after it.
func (u UseCase) Execute(ctx context.Context) (int64, error) {
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn().UTC()
	started := now

	var tick int64
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		tick, err = u.Clock.AdvanceTick(txCtx)
		return err
	})
	if err != nil {
		return 0, err
	}

	steps := []step{
		{"gossip_decay", u.stepGossipDecay},
		{"party_close", u.stepPartyClose},
		{"proposal_resolve", u.stepProposalResolve},
		{"trade_expiry", u.stepTradeExpiry},
		{"market_drift", u.stepMarketDrift},
		{"mood_drift", u.stepMoodDrift},
		{"landlady_decree", u.stepDecree},
	}
	for _, s := range steps {
		u.runStep(ctx, s, tick, now)
	}

	if u.Metrics != nil {
		u.Metrics.RecordTick(time.Since(started).Milliseconds())
	}
	return tick, nil
}

func (u UseCase) runStep(ctx context.Context, s step, tick int64, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			u.log().Error("tick step panicked", "step", s.name, "tick", tick, "panic", fmt.Sprint(r))
		}
	}()
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.run(txCtx, tick, now)
	})
	if err != nil {
		u.log().Error("tick step failed", "step", s.name, "tick", tick, "err", err)
	}
}

func (u UseCase) stepGossipDecay(ctx context.Context, tick int64, now time.Time) error {
	chains, err := u.Gossip.ListActive(ctx)
	if err != nil {
		return err
	}
	for _, c := range chains {
		if !c.Decayed(tick) {
			continue
		}
		c.Active = false
		if err := u.Gossip.Save(ctx, c); err != nil {
			return err
		}
		u.append(ctx, tower.Event{
			Tick:    tick,
			Type:    tower.EventGossipDecay,
			Payload: map[string]any{"chain_id": c.ID, "final_reach": c.Reach()},
			At:      now,
		})
	}
	return nil
}

func (u UseCase) stepPartyClose(ctx context.Context, tick int64, now time.Time) error {
	parties, err := u.Parties.ListOpen(ctx)
	if err != nil {
		return err
	}
	for _, p := range parties {
		if tick-p.CreatedTick < tower.PartyOpenTicks {
			continue
		}
		p.Closed = true
		p.ClosedTick = tick
		if err := u.Parties.Save(ctx, p); err != nil {
			return err
		}

		great := !p.State.Frozen && p.State.Fun >= tower.PartyGreatFunBar
		for _, id := range p.AttendeeIDs {
			r, err := u.Residents.Get(ctx, id)
			if err != nil {
				continue
			}
			if id == p.HostID && great {
				r.Clout += tower.CloutRewards["great_party"]
			} else if id != p.HostID {
				r.Clout += tower.CloutRewards["party_attendance"]
			}
			if err := u.Residents.Save(ctx, r); err != nil {
				return err
			}
		}
		u.append(ctx, tower.Event{
			Tick:       tick,
			Type:       tower.EventPartyClosed,
			ResidentID: p.HostID,
			LocationID: p.LocationID,
			Payload:    map[string]any{"party_id": p.ID, "fun": p.State.Fun, "great": great, "attendees": len(p.AttendeeIDs)},
			At:         now,
		})
	}
	return nil
}

func (u UseCase) stepProposalResolve(ctx context.Context, tick int64, now time.Time) error {
	proposals, err := u.Proposals.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(proposals) == 0 {
		return nil
	}
	total, err := u.Residents.Count(ctx)
	if err != nil {
		return err
	}
	for _, p := range proposals {
		if tick <= p.DeadlineTick {
			continue
		}
		p.Resolve(total, tick)
		if err := u.Proposals.Save(ctx, p); err != nil {
			return err
		}
		u.append(ctx, tower.Event{
			Tick:       tick,
			Type:       tower.EventProposalClosed,
			ResidentID: p.ProposerID,
			Payload:    map[string]any{"proposal_id": p.ID, "status": string(p.Status), "result": p.Result},
			At:         now,
		})
	}
	return nil
}

func (u UseCase) stepTradeExpiry(ctx context.Context, tick int64, now time.Time) error {
	trades, err := u.Market.OpenTrades(ctx)
	if err != nil {
		return err
	}
	for _, t := range trades {
		if !t.ExpiredAt(tick) {
			continue
		}
		t.Status = tower.TradeExpired
		t.ClosedTick = tick
		if err := u.Market.SaveTrade(ctx, t); err != nil {
			return err
		}
		u.append(ctx, tower.Event{
			Tick:       tick,
			Type:       tower.EventTradeExpired,
			ResidentID: t.ProposerID,
			Payload:    map[string]any{"trade_id": t.ID},
			At:         now,
		})
	}
	return nil
}

func (u UseCase) stepMarketDrift(ctx context.Context, tick int64, now time.Time) error {
	listings, err := u.Market.Listings(ctx)
	if err != nil {
		return err
	}
	for _, l := range listings {
		l.Drift()
		if err := u.Market.SaveListing(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

// stepMoodDrift lets each floor's character seep into the residents
// standing on it. The void also drains sanity every tick spent inside.
func (u UseCase) stepMoodDrift(ctx context.Context, tick int64, now time.Time) error {
	locations, err := u.Locations.List(ctx)
	if err != nil {
		return err
	}
	for _, loc := range locations {
		mood, pulls := tower.MoodDrift[loc.Behavior]
		drains := loc.Behavior == tower.BehaviorVoid
		if !pulls && !drains {
			continue
		}
		here, err := u.Residents.ListByLocation(ctx, loc.ID)
		if err != nil {
			return err
		}
		for _, r := range here {
			if pulls {
				r.Mood = mood
			}
			if drains {
				r.AdjustSanity(-2)
			}
			if err := u.Residents.Save(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

const decreeChance = 0.15

var decrees = []string{
	"The landlady has declared today Mandatory Compliment Day. Participation is being monitored.",
	"Notice: the elevator will be honest about which floor it stops on. This is new.",
	"The landlady found glitter in the stairwell. Nobody is in trouble. Yet.",
	"Rent is unchanged, but the landlady is raising her eyebrows.",
	"A new rule is posted in the lobby, in handwriting nobody recognizes.",
	"The landlady has opinions about last night's noise. They will be shared at length.",
}

func (u UseCase) stepDecree(ctx context.Context, tick int64, now time.Time) error {
	if u.RNG == nil || u.RNG.Float64() >= decreeChance {
		return nil
	}
	text := decrees[u.RNG.Intn(len(decrees))]
	u.append(ctx, tower.Event{
		Tick:       tick,
		Type:       tower.EventDecree,
		LocationID: tower.LocationLobby,
		Payload:    map[string]any{"text": text},
		At:         now,
	})
	return nil
}

func (u UseCase) append(ctx context.Context, e tower.Event) {
	saved, err := u.Events.Append(ctx, e)
	if err != nil {
		u.log().Error("append tick event", "type", string(e.Type), "err", err)
		return
	}
	if u.Broadcast != nil {
		u.Broadcast.Broadcast(saved)
	}
}

func (u UseCase) log() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}
