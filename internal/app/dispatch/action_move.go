package dispatch

import (
	"context"
	"fmt"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

const flakyDoorChance = 0.25

func handleMove(ctx context.Context, uc UseCase, ac *actionContext) error {
	dest, err := uc.Locations.Get(ctx, ac.str("destination"))
	if err != nil {
		if err == ports.ErrNotFound {
			return fmt.Errorf("%w: %q", ports.ErrInvalidDestination, ac.str("destination"))
		}
		return err
	}
	if !tower.Reachable(ac.Location, dest) {
		return fmt.Errorf("%w: no way from %s to %s", ports.ErrInvalidDestination, ac.Location.ID, dest.ID)
	}

	// Flaky floors: sometimes the door just isn't there. The move is a
	// legal action that happens to go nowhere.
	if dest.Behavior == tower.BehaviorFlaky && uc.RNG.Float64() < flakyDoorChance {
		ac.Actor.Mood = tower.MoodAnxious
		ac.Message = fmt.Sprintf("You reached for the door to %s. It wasn't there. Maybe next time.", dest.Name)
		return nil
	}

	from := ac.Actor.LocationID
	ac.Actor.LocationID = dest.ID
	ac.Location = dest

	switch dest.Behavior {
	case tower.BehaviorVoid:
		ac.Actor.AdjustSanity(-5)
		ac.Message = fmt.Sprintf("You descend into %s. The darkness is load-bearing. Sanity slips.", dest.Name)
	case tower.BehaviorFork:
		ac.Message = fmt.Sprintf("You arrive at %s. The hallway splits: left or right. It always does.", dest.Name)
	case tower.BehaviorEcho:
		ac.Message = fmt.Sprintf("You arrive at %s. Your footsteps arrive several times each.", dest.Name)
	default:
		ac.Message = fmt.Sprintf("You arrive at %s.", dest.Name)
	}

	ac.emit(tower.EventResidentMove, map[string]any{"from": from, "to": dest.ID})
	ac.milestone("move:" + dest.ID)
	return nil
}

func handleLook(ctx context.Context, uc UseCase, ac *actionContext) error {
	here, err := uc.Residents.ListByLocation(ctx, ac.Location.ID)
	if err != nil {
		return err
	}
	others := make([]tower.PublicView, 0, len(here))
	for _, r := range here {
		if r.ID == ac.Actor.ID {
			continue
		}
		others = append(others, r.Public())
	}

	data := map[string]any{
		"location":  ac.Location,
		"residents": others,
	}
	if party, err := uc.Parties.OpenAt(ctx, ac.Location.ID); err == nil {
		data["party"] = party
	} else if err != ports.ErrNotFound {
		return err
	}
	posts, err := uc.Board.Posts(ctx, ac.Location.ID, 10)
	if err != nil {
		return err
	}
	if len(posts) > 0 {
		data["board"] = posts
	}

	ac.Data = data
	if len(others) == 0 {
		ac.Message = fmt.Sprintf("%s. You are alone here. %s", ac.Location.Name, ac.Location.Description)
	} else {
		ac.Message = fmt.Sprintf("%s. %d other resident(s) here.", ac.Location.Name, len(others))
	}
	return nil
}
