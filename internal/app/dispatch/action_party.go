package dispatch

import (
	"context"
	"fmt"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

func handleThrowParty(ctx context.Context, uc UseCase, ac *actionContext) error {
	rawVibes, _ := ac.Params["vibes"].([]any)
	if len(rawVibes) == 0 {
		return ports.ErrEmptyVibeSequence
	}
	vibes := make([]tower.Vibe, 0, len(rawVibes))
	for _, rv := range rawVibes {
		s, _ := rv.(string)
		v := tower.Vibe(s)
		if !v.Valid() {
			return fmt.Errorf("%w: unknown vibe %q", ports.ErrInvalidParams, s)
		}
		vibes = append(vibes, v)
	}

	if _, err := uc.Parties.OpenAt(ctx, ac.Actor.LocationID); err == nil {
		return fmt.Errorf("%w: a party is already running here", ports.ErrConflict)
	} else if err != ports.ErrNotFound {
		return err
	}

	cost := tower.TokenCosts["throw_party"]
	if ac.Actor.Tokens < cost {
		return fmt.Errorf("%w: a party costs %d tokens", ports.ErrInsufficientFunds, cost)
	}
	ac.Actor.Tokens -= cost

	state := tower.FoldVibes(vibes)
	party := tower.Party{
		ID:          uc.nextID(),
		HostID:      ac.Actor.ID,
		LocationID:  ac.Actor.LocationID,
		Vibes:       vibes,
		AttendeeIDs: []string{ac.Actor.ID},
		State:       state,
		CreatedTick: ac.Tick,
	}
	ac.Writes.parties = append(ac.Writes.parties, party)

	ac.Actor.Clout += tower.CloutRewards["throw_party"]
	if state.Frozen {
		ac.Actor.AdjustSanity(-2)
	} else {
		ac.Actor.AdjustSanity(tower.PartySanityRecoup)
	}

	ac.emit(tower.EventPartyThrown, map[string]any{
		"party_id": party.ID,
		"vibes":    vibes,
		"fun":      state.Fun,
		"frozen":   state.Frozen,
	})
	ac.milestone("throw_party")
	ac.Data = map[string]any{"party_id": party.ID, "state": state}
	if state.Frozen {
		ac.Message = "The party stalled partway through the plan. Some nights just don't compose."
	} else {
		ac.Message = fmt.Sprintf("The party is on. Fun is at %d and climbing. Doors stay open for a while.", state.Fun)
	}
	return nil
}

func handleJoinParty(ctx context.Context, uc UseCase, ac *actionContext) error {
	partyID, _ := ac.Params["party_id"].(string)
	party, err := uc.Parties.Get(ctx, partyID)
	if err != nil {
		if err == ports.ErrNotFound {
			return fmt.Errorf("%w: party %q", ports.ErrNotFound, partyID)
		}
		return err
	}
	if party.Closed {
		return fmt.Errorf("%w: the doors shut at tick %d", ports.ErrPartyClosed, party.ClosedTick)
	}
	if party.LocationID != ac.Actor.LocationID {
		return fmt.Errorf("%w: that party is in %s", ports.ErrWrongLocation, party.LocationID)
	}
	if party.HasAttendee(ac.Actor.ID) {
		return fmt.Errorf("%w: you are already at this party", ports.ErrConflict)
	}

	party.AttendeeIDs = append(party.AttendeeIDs, ac.Actor.ID)
	ac.Writes.parties = append(ac.Writes.parties, party)

	ac.Actor.AdjustSanity(tower.PartySanityRecoup)
	ac.Actor.Mood = tower.MoodExcited
	if host, err := uc.Residents.Get(ctx, party.HostID); err == nil {
		ac.Actor.AdjustRelation(host.ID, 3)
		host.AdjustRelation(ac.Actor.ID, 3)
		ac.Writes.putResident(host)
	} else if err != ports.ErrNotFound {
		return err
	}

	ac.emit(tower.EventPartyJoined, map[string]any{"party_id": party.ID, "attendees": len(party.AttendeeIDs)})
	ac.Data = map[string]any{"party_id": party.ID, "state": party.State}
	ac.Message = fmt.Sprintf("You join the party. %d resident(s) in. Fun sits at %d.", len(party.AttendeeIDs), party.State.Fun)
	return nil
}
