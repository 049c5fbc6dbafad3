package dispatch

import (
	"context"
	"fmt"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

func handleExplore(ctx context.Context, uc UseCase, ac *actionContext) error {
	if ac.Location.Behavior == tower.BehaviorVoid {
		cost := tower.TokenCosts["explore_void"]
		if ac.Actor.Tokens < cost {
			return fmt.Errorf("%w: the basement demands %d tokens of nerve", ports.ErrInsufficientFunds, cost)
		}
		ac.Actor.Tokens -= cost
		ac.Actor.AdjustSanity(-3)
	}
	ac.Actor.Explored++
	ac.milestone("explore")

	chance := tower.DiscoveryChance(ac.Actor, ac.Location.Behavior)
	if uc.RNG.Float64() >= chance {
		ac.emit(tower.EventExploreEmpty, nil)
		ac.Message = "You search every corner. Dust, a dead spider, and the distinct feeling of being watched. Nothing today."
		return nil
	}

	artifact := tower.RollArtifact(uc.nextID(), ac.Actor, ac.Location.ID, ac.Tick, uc.RNG)
	tower.ApplyArtifactBonus(&ac.Actor, artifact)
	ac.Writes.artifacts = append(ac.Writes.artifacts, artifact)
	if ac.Location.Behavior == tower.BehaviorVoid {
		ac.Actor.Clout += tower.CloutRewards["explore_void"]
	}

	ac.emit(tower.EventExploreFound, map[string]any{
		"artifact_id": artifact.ID,
		"name":        artifact.Name,
		"rarity":      artifact.Rarity.String(),
	})
	ac.Data = map[string]any{"artifact": artifact}
	ac.Message = fmt.Sprintf("Behind a loose panel: %s (%s). It hums faintly. Your traits shift.", artifact.Name, artifact.Rarity)
	return nil
}

func handleAcceptQuest(ctx context.Context, uc UseCase, ac *actionContext) error {
	q, err := uc.Quests.Get(ctx, ac.str("quest_id"))
	if err != nil {
		return err
	}
	if q.Status != tower.QuestAvailable {
		return fmt.Errorf("%w: quest already taken", ports.ErrConflict)
	}

	q.Status = tower.QuestActive
	q.AssignedTo = ac.Actor.ID
	ac.Writes.quests = append(ac.Writes.quests, q)
	ac.Actor.Quests = append(ac.Actor.Quests, q.ID)

	ac.emit(tower.EventQuestAccepted, map[string]any{"quest_id": q.ID, "name": q.Name})
	ac.Data = map[string]any{"quest": q}
	ac.Message = fmt.Sprintf("Quest accepted: %s. %s", q.Name, q.Description)
	return nil
}
