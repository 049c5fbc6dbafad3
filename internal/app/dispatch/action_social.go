package dispatch

import (
	"context"
	"fmt"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

// requireHere resolves a target resident who must share the actor's
// location. Accepts ids or exact names.
func requireHere(ctx context.Context, uc UseCase, ac *actionContext, ref string) (tower.Resident, error) {
	target, err := uc.Residents.Get(ctx, ref)
	if err == ports.ErrNotFound {
		target, err = uc.Residents.GetByName(ctx, ref)
	}
	if err != nil {
		return tower.Resident{}, err
	}
	if target.ID == ac.Actor.ID {
		return tower.Resident{}, fmt.Errorf("%w: that's you", ports.ErrInvalidParams)
	}
	if target.LocationID != ac.Actor.LocationID {
		return tower.Resident{}, fmt.Errorf("%w: %s is not here", ports.ErrWrongLocation, target.Name)
	}
	return target, nil
}

func handleTalk(ctx context.Context, uc UseCase, ac *actionContext) error {
	target, err := requireHere(ctx, uc, ac, ac.str("target"))
	if err != nil {
		return err
	}
	message := ac.str("message")

	warmth := 2
	if ac.Location.Behavior == tower.BehaviorEcho {
		// Echo floors repeat everything; a chat counts double.
		warmth = 4
	}
	ac.Actor.AdjustRelation(target.ID, warmth)
	target.AdjustRelation(ac.Actor.ID, warmth)
	ac.Writes.putResident(target)

	ac.emit(tower.EventTalk, map[string]any{"target": target.ID, "message": message})
	ac.milestone("talk")
	label := ac.Actor.Relations[target.ID].Label()
	if ac.Location.Behavior == tower.BehaviorEcho {
		ac.Message = fmt.Sprintf("You talk with %s. The hallway repeats your best lines back. You are now %s.", target.Name, label)
	} else {
		ac.Message = fmt.Sprintf("You talk with %s. You are now %s.", target.Name, label)
	}
	return nil
}

func handleBoardPost(ctx context.Context, uc UseCase, ac *actionContext) error {
	post := ports.BoardPost{
		ID:         uc.nextID(),
		AuthorID:   ac.Actor.ID,
		AuthorName: ac.Actor.Name,
		LocationID: ac.Actor.LocationID,
		Text:       ac.str("text"),
		Tick:       ac.Tick,
		At:         ac.Now,
	}
	ac.Writes.boardPosts = append(ac.Writes.boardPosts, post)
	ac.emit(tower.EventBoardPost, map[string]any{"post_id": post.ID, "text": post.Text})
	ac.Message = "Your note is pinned to the board."
	return nil
}

func handleCook(ctx context.Context, uc UseCase, ac *actionContext) error {
	dish := ac.str("dish")
	if dish == "" {
		dish = "something ambitious"
	}

	quality := "decent"
	if ac.Actor.Inventory["golden_spatula"] > 0 {
		quality = "legendary"
	} else if ac.Actor.Inventory["mystery_sauce"] > 0 {
		ac.Actor.RemoveItem("mystery_sauce", 1)
		quality = "mysterious"
	}

	here, err := uc.Residents.ListByLocation(ctx, ac.Actor.LocationID)
	if err != nil {
		return err
	}
	fed := 0
	for _, r := range here {
		if r.ID == ac.Actor.ID {
			continue
		}
		r.AdjustSanity(5)
		r.AdjustRelation(ac.Actor.ID, 3)
		ac.Writes.putResident(r)
		fed++
	}
	ac.Actor.AdjustSanity(3)
	if fed > 0 {
		ac.Actor.Clout += tower.CloutRewards["cook_for_others"]
		ac.Actor.Tokens += tower.TokenRewards["cook_for_others"]
	}

	ac.emit(tower.EventCook, map[string]any{"dish": dish, "quality": quality, "fed": fed})
	if fed == 0 {
		ac.Message = fmt.Sprintf("You cook %s (%s). Nobody else is around, so it's all yours.", dish, quality)
	} else {
		ac.Message = fmt.Sprintf("You cook %s (%s) and feed %d resident(s). The kitchen approves.", dish, quality, fed)
	}
	return nil
}

func handlePrank(ctx context.Context, uc UseCase, ac *actionContext) error {
	target, err := requireHere(ctx, uc, ac, ac.str("target"))
	if err != nil {
		return err
	}

	at := tower.EffectiveTraits(ac.Actor)
	tt := tower.EffectiveTraits(target)
	// Chaos against purity; purists see it coming.
	chance := 0.5 + float64(at.Chaos-tt.Purity)*0.04
	if chance < 0.1 {
		chance = 0.1
	}
	if chance > 0.9 {
		chance = 0.9
	}

	if uc.RNG.Float64() < chance {
		ac.Actor.Clout += tower.CloutRewards["prank_success"]
		target.AdjustSanity(tower.PrankTargetSanity)
		target.AdjustRelation(ac.Actor.ID, -10)
		ac.Actor.AdjustRelation(target.ID, -3)
		ac.Writes.putResident(target)
		ac.emit(tower.EventPrank, map[string]any{"target": target.ID, "success": true})
		ac.Message = fmt.Sprintf("The prank lands. %s is furious. The hallway is delighted.", target.Name)
		return nil
	}

	ac.Actor.Clout += tower.CloutRewards["prank_backfire"]
	ac.Actor.AdjustSanity(tower.PrankTargetSanity)
	target.AdjustRelation(ac.Actor.ID, -4)
	ac.Writes.putResident(target)
	ac.emit(tower.EventPrank, map[string]any{"target": target.ID, "success": false})
	ac.Message = fmt.Sprintf("The prank backfires spectacularly. %s watched the whole thing. You gain sympathy points.", target.Name)
	return nil
}
