package dispatch

import (
	"context"
	"fmt"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

func handleGossipStart(ctx context.Context, uc UseCase, ac *actionContext) error {
	content := ac.str("content")
	chain := tower.NewChain(uc.nextID(), ac.Actor, content, ac.Tick)
	ac.Writes.chains = append(ac.Writes.chains, chain)

	ac.Actor.Clout += tower.CloutRewards["start_gossip"]
	ac.Actor.HeardGossip = append(ac.Actor.HeardGossip, chain.ID)

	ac.emit(tower.EventGossipStart, map[string]any{
		"chain_id":    chain.ID,
		"content":     chain.Current,
		"credibility": chain.Credibility,
		"spiciness":   chain.Spiciness,
	})
	ac.milestone("gossip_start")
	ac.Data = map[string]any{"chain_id": chain.ID}
	ac.Message = "The rumor is loose. What it becomes is no longer up to you."
	return nil
}

func handleGossipSpread(ctx context.Context, uc UseCase, ac *actionContext) error {
	chain, err := uc.Gossip.Get(ctx, ac.str("chain_id"))
	if err != nil {
		return err
	}
	if !chain.Active {
		return fmt.Errorf("%w: %s", ports.ErrChainInactive, chain.ID)
	}
	if !chain.HasHeard(ac.Actor.ID) {
		return fmt.Errorf("%w: you haven't heard that one yet", ports.ErrInvalidParams)
	}
	target, err := requireHere(ctx, uc, ac, ac.str("target"))
	if err != nil {
		return err
	}
	if chain.HasHeard(target.ID) {
		return fmt.Errorf("%w: %s", ports.ErrAlreadyHeard, target.Name)
	}

	// The listener's personality warps the rumor as they take it in.
	chain.Spread(target, ac.Tick)
	target.HeardGossip = append(target.HeardGossip, chain.ID)
	ac.Writes.putResident(target)
	ac.Writes.chains = append(ac.Writes.chains, chain)

	// Reach milestones pay the original author.
	reach := chain.Reach()
	if reach == tower.GossipReachMilestone1 || reach == tower.GossipReachMilestone2 {
		reward := tower.CloutRewards["gossip_reach_5"]
		if reach == tower.GossipReachMilestone2 {
			reward = tower.CloutRewards["gossip_reach_10"]
		}
		if chain.OriginID == ac.Actor.ID {
			ac.Actor.Clout += reward
		} else if origin, err := uc.Residents.Get(ctx, chain.OriginID); err == nil {
			origin.Clout += reward
			ac.Writes.putResident(origin)
		} else if err != ports.ErrNotFound {
			return err
		}
	}

	ac.Actor.AdjustRelation(target.ID, 1)
	ac.emit(tower.EventGossipSpread, map[string]any{
		"chain_id": chain.ID,
		"target":   target.ID,
		"reach":    reach,
		"content":  chain.Current,
	})
	ac.milestone("gossip_spread")
	ac.Data = map[string]any{"reach": reach, "content": chain.Current}
	ac.Message = fmt.Sprintf("You lean in and tell %s. By the time it leaves their mouth it will be something else.", target.Name)
	return nil
}
