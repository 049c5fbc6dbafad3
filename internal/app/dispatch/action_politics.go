package dispatch

import (
	"context"
	"fmt"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

func handleJoinFaction(ctx context.Context, uc UseCase, ac *actionContext) error {
	f := tower.Faction(ac.str("faction"))
	if !f.Valid() {
		return fmt.Errorf("%w: unknown faction %q", ports.ErrInvalidParams, ac.str("faction"))
	}
	if ac.Actor.Faction == f {
		return fmt.Errorf("%w: already a member", ports.ErrConflict)
	}

	previous := ac.Actor.Faction
	ac.Actor.Faction = f
	info := tower.FactionTable[f]

	ac.emit(tower.EventFactionJoined, map[string]any{"faction": string(f), "previous": string(previous)})
	ac.Data = map[string]any{"faction": info}
	if previous == tower.FactionNone {
		ac.Message = fmt.Sprintf("You pledge to %s. %q", info.Name, info.Motto)
	} else {
		ac.Message = fmt.Sprintf("You defect to %s. %s will not forget.", info.Name, tower.FactionTable[previous].Name)
	}
	return nil
}

func handlePropose(ctx context.Context, uc UseCase, ac *actionContext) error {
	var options []string
	if raw, ok := ac.Params["options"].([]any); ok {
		for _, o := range raw {
			if s, ok := o.(string); ok && s != "" {
				options = append(options, s)
			}
		}
	}
	p := tower.NewProposal(uc.nextID(), ac.Actor.ID, ac.str("title"), ac.str("description"), options, ac.Tick)
	ac.Writes.proposals = append(ac.Writes.proposals, p)

	ac.emit(tower.EventProposalOpened, map[string]any{
		"proposal_id": p.ID,
		"title":       p.Title,
		"options":     p.Options,
		"deadline":    p.DeadlineTick,
	})
	ac.Data = map[string]any{"proposal_id": p.ID, "deadline_tick": p.DeadlineTick}
	ac.Message = fmt.Sprintf("Proposal posted: %q. The building has until tick %d to weigh in.", p.Title, p.DeadlineTick)
	return nil
}

func handleVote(ctx context.Context, uc UseCase, ac *actionContext) error {
	p, err := uc.Proposals.Get(ctx, ac.str("proposal_id"))
	if err != nil {
		return err
	}
	if p.Status != tower.ProposalActive || ac.Tick > p.DeadlineTick {
		return fmt.Errorf("%w: %s", ports.ErrProposalClosed, p.ID)
	}
	choice := ac.str("choice")
	if !p.HasOption(choice) {
		return fmt.Errorf("%w: %q is not on the ballot", ports.ErrInvalidParams, choice)
	}

	if _, voted := p.Votes[ac.Actor.ID]; voted {
		return fmt.Errorf("%w: you already voted on %s", ports.ErrConflict, p.ID)
	}
	p.Votes[ac.Actor.ID] = choice
	ac.Actor.VotesCast++
	ac.Writes.proposals = append(ac.Writes.proposals, p)

	ac.emit(tower.EventVoteCast, map[string]any{"proposal_id": p.ID, "choice": choice})
	ac.Data = map[string]any{"tally": p.Tally()}
	ac.Message = fmt.Sprintf("Vote recorded: %q.", choice)
	return nil
}
