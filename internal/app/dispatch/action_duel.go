package dispatch

import (
	"context"
	"fmt"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

func handleDuel(ctx context.Context, uc UseCase, ac *actionContext) error {
	target, err := requireHere(ctx, uc, ac, ac.str("target"))
	if err != nil {
		return err
	}
	wager := ac.num("wager")
	if wager > 0 && (ac.Actor.Tokens < wager || target.Tokens < wager) {
		return fmt.Errorf("%w: both parties must cover a %d token wager", ports.ErrInsufficientFunds, wager)
	}

	here, err := uc.Residents.ListByLocation(ctx, ac.Actor.LocationID)
	if err != nil {
		return err
	}
	nearby := len(here) - 2 // spectators only

	duel := tower.ResolveDuel(uc.nextID(), ac.Actor, target, wager, nearby, ac.Tick, uc.RNG)
	ac.Writes.duels = append(ac.Writes.duels, duel)

	winner, loser := &ac.Actor, &target
	if duel.WinnerID != ac.Actor.ID {
		winner, loser = &target, &ac.Actor
	}
	if wager > 0 {
		tower.TransferTokens(loser, winner, wager)
	}
	winner.DuelRecord.Wins++
	winner.DuelRecord.Streak++
	winner.Clout += tower.CloutRewards["duel_win"]
	if winner.DuelRecord.Streak == tower.DuelStreakBar {
		winner.Clout += tower.CloutRewards["duel_streak"]
	}
	loser.DuelRecord.Losses++
	loser.DuelRecord.Streak = 0
	loser.AdjustSanity(tower.DuelLoserSanity)

	winner.AdjustRelation(loser.ID, -5)
	loser.AdjustRelation(winner.ID, -5)
	if loser.Relations[winner.ID].Affinity <= -40 {
		winner.Clout += tower.CloutRewards["make_rival"]
	}
	ac.Writes.putResident(target)

	ac.emit(tower.EventDuelResolved, map[string]any{
		"duel_id": duel.ID,
		"winner":  duel.WinnerID,
		"loser":   duel.LoserID,
		"score":   duel.Score,
		"wager":   wager,
	})
	if duel.WinnerID == ac.Actor.ID {
		ac.milestone("duel_win")
		ac.Message = fmt.Sprintf("You take the duel %d-%d against %s. The crowd will remember this.", duel.Score[0], duel.Score[1], target.Name)
	} else {
		ac.Message = fmt.Sprintf("%s takes the duel %d-%d. You need a minute.", target.Name, duel.Score[1], duel.Score[0])
	}
	ac.Data = map[string]any{"duel": duel}
	return nil
}
