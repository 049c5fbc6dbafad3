package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

// UseCase executes one action. The whole pipeline runs inside a single
// transaction: read the actor, validate, run the handler against working
// copies, check invariants, then commit the write set. Either everything
// the handler touched lands, or nothing does.
type UseCase struct {
	TxManager ports.TxManager
	Residents ports.ResidentRepository
	Locations ports.LocationRepository
	Gossip    ports.GossipRepository
	Parties   ports.PartyRepository
	Market    ports.MarketRepository
	Duels     ports.DuelRepository
	Proposals ports.ProposalRepository
	Quests    ports.QuestRepository
	Artifacts ports.ArtifactRepository
	Board     ports.BoardRepository
	Events    ports.EventLog
	Clock     ports.ClockRepository
	Broadcast ports.EventBroadcaster
	Metrics   ports.ActionMetrics
	IDs       func() string
	RNG       *rand.Rand
	Now       func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	name := strings.TrimSpace(req.Action)
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		tick, err := u.Clock.CurrentTick(txCtx)
		if err != nil {
			return err
		}
		// The actor is resolved before the action name is judged.
		actor, err := u.Residents.Get(txCtx, req.AgentID)
		if err != nil {
			return err
		}
		spec, ok := actionRegistry[name]
		if !ok {
			return fmt.Errorf("%w: %q", ports.ErrUnknownAction, req.Action)
		}
		params, err := decodeParams(spec, req.Params)
		if err != nil {
			return err
		}
		loc, err := u.Locations.Get(txCtx, actor.LocationID)
		if err != nil {
			return err
		}
		if spec.Behavior != "" && loc.Behavior != spec.Behavior {
			return fmt.Errorf("%w: %s needs a %s location", ports.ErrWrongLocation, spec.Name, spec.Behavior)
		}

		ac := &actionContext{
			Actor:    actor,
			Location: loc,
			Params:   params,
			Tick:     tick,
			Now:      nowFn().UTC(),
		}
		if err := spec.Handler(txCtx, u, ac); err != nil {
			return err
		}

		ac.Actor.UpdatedAt = ac.Now
		ac.Writes.putResident(ac.Actor)

		if err := checkInvariants(ac); err != nil {
			return err
		}
		if err := u.advanceQuests(txCtx, ac); err != nil {
			return err
		}
		committed, err := u.commit(txCtx, ac)
		if err != nil {
			return err
		}

		out = Response{
			OK:      true,
			Action:  spec.Name,
			Tick:    tick,
			Message: ac.Message,
			Data:    ac.Data,
			You:     ac.Writes.residents[actor.ID].Public(),
			Events:  committed,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrUnknownAction) || errors.Is(err, ports.ErrInvalidParams) {
			u.record("rejected", name)
		} else {
			u.record("failure", name)
		}
		return Response{}, err
	}
	u.record("success", name)
	return out, nil
}

func decodeParams(spec actionSpec, raw json.RawMessage) (map[string]any, error) {
	var v any = map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ports.ErrInvalidParams, err)
		}
	}
	if err := spec.Schema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrInvalidParams, err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: params must be an object", ports.ErrInvalidParams)
	}
	return m, nil
}

// checkInvariants rejects a write set that would corrupt the world.
// Handlers are written to make these unreachable; the check is the last
// line before commit.
func checkInvariants(ac *actionContext) error {
	for _, r := range ac.Writes.residents {
		if r.Tokens < 0 {
			return fmt.Errorf("%w: %s tokens %d", ports.ErrInvariant, r.ID, r.Tokens)
		}
		if r.Sanity < 0 || r.Sanity > tower.MaxSanity {
			return fmt.Errorf("%w: %s sanity %d", ports.ErrInvariant, r.ID, r.Sanity)
		}
		for item, qty := range r.Inventory {
			if qty < 0 {
				return fmt.Errorf("%w: %s holds %d %s", ports.ErrInvariant, r.ID, qty, item)
			}
		}
	}
	for _, c := range ac.Writes.chains {
		if len([]rune(c.Current)) > tower.GossipMaxContentRunes {
			return fmt.Errorf("%w: chain %s content overflow", ports.ErrInvariant, c.ID)
		}
	}
	return nil
}

// advanceQuests walks the actor's active quests against the milestones the
// handler recorded, paying step and completion rewards.
func (u UseCase) advanceQuests(ctx context.Context, ac *actionContext) error {
	if len(ac.Milestones) == 0 {
		return nil
	}
	quests, err := u.Quests.ListByResident(ctx, ac.Actor.ID)
	if err != nil {
		return err
	}
	actor := ac.Writes.residents[ac.Actor.ID]
	for _, q := range quests {
		changed := false
		for _, m := range ac.Milestones {
			progressed, completed := q.Advance(m)
			if !progressed {
				continue
			}
			changed = true
			actor.Tokens += tower.TokenRewards["quest_step"]
			ac.emit(tower.EventQuestProgress, map[string]any{"quest": q.Name, "step": q.Current})
			if completed {
				actor.Tokens += q.Reward.Tokens
				actor.Clout += q.Reward.Clout
				actor.ChainEarned += q.Reward.Chain
				ac.emit(tower.EventQuestCompleted, map[string]any{"quest": q.Name})
			}
		}
		if changed {
			ac.Writes.quests = append(ac.Writes.quests, q)
		}
	}
	ac.Writes.putResident(actor)
	return nil
}

func (u UseCase) commit(ctx context.Context, ac *actionContext) ([]tower.Event, error) {
	for _, r := range ac.Writes.residents {
		if err := u.Residents.Save(ctx, r); err != nil {
			return nil, err
		}
	}
	for _, c := range ac.Writes.chains {
		if err := u.Gossip.Save(ctx, c); err != nil {
			return nil, err
		}
	}
	for _, p := range ac.Writes.parties {
		if err := u.Parties.Save(ctx, p); err != nil {
			return nil, err
		}
	}
	for _, l := range ac.Writes.listings {
		if err := u.Market.SaveListing(ctx, l); err != nil {
			return nil, err
		}
	}
	for _, t := range ac.Writes.trades {
		if err := u.Market.SaveTrade(ctx, t); err != nil {
			return nil, err
		}
	}
	for _, d := range ac.Writes.duels {
		if err := u.Duels.Save(ctx, d); err != nil {
			return nil, err
		}
	}
	for _, p := range ac.Writes.proposals {
		if err := u.Proposals.Save(ctx, p); err != nil {
			return nil, err
		}
	}
	for _, q := range ac.Writes.quests {
		if err := u.Quests.Save(ctx, q); err != nil {
			return nil, err
		}
	}
	for _, a := range ac.Writes.artifacts {
		if err := u.Artifacts.Save(ctx, a); err != nil {
			return nil, err
		}
	}
	for _, p := range ac.Writes.boardPosts {
		if err := u.Board.Append(ctx, p); err != nil {
			return nil, err
		}
	}
	committed := make([]tower.Event, 0, len(ac.Events))
	for _, e := range ac.Events {
		saved, err := u.Events.Append(ctx, e)
		if err != nil {
			return nil, err
		}
		committed = append(committed, saved)
		if u.Broadcast != nil {
			u.Broadcast.Broadcast(saved)
		}
	}
	return committed, nil
}

func (u UseCase) record(kind, action string) {
	if u.Metrics == nil {
		return
	}
	switch kind {
	case "success":
		u.Metrics.RecordSuccess(action)
	case "rejected":
		u.Metrics.RecordRejected(action)
	default:
		u.Metrics.RecordFailure(action)
	}
}

func (u UseCase) nextID() string {
	if u.IDs != nil {
		return u.IDs()
	}
	return newID()
}
