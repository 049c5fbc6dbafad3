package dispatch

import (
	"encoding/json"
	"time"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

type Request struct {
	AgentID string          `json:"-"`
	Action  string          `json:"action"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	OK      bool             `json:"ok"`
	Action  string           `json:"action"`
	Tick    int64            `json:"tick"`
	Message string           `json:"message,omitempty"`
	Data    map[string]any   `json:"data,omitempty"`
	You     tower.PublicView `json:"you"`
	Events  []tower.Event    `json:"events,omitempty"`
}

// writeSet accumulates every aggregate a handler touched. Nothing is
// persisted until the handler and the invariant check both pass, so a
// failed action leaves the world exactly as it found it.
type writeSet struct {
	residents  map[string]tower.Resident
	chains     []tower.Chain
	parties    []tower.Party
	listings   []tower.Listing
	trades     []tower.TradeOffer
	duels      []tower.Duel
	proposals  []tower.Proposal
	quests     []tower.Quest
	artifacts  []tower.Artifact
	boardPosts []ports.BoardPost
}

func (ws *writeSet) putResident(r tower.Resident) {
	if ws.residents == nil {
		ws.residents = map[string]tower.Resident{}
	}
	ws.residents[r.ID] = r
}

// actionContext is the per-dispatch scratch space threaded through a
// handler.
type actionContext struct {
	Actor    tower.Resident // working copy; committed via the write set
	Location tower.Location
	Params   map[string]any
	Tick     int64
	Now      time.Time

	Writes     writeSet
	Message    string
	Data       map[string]any
	Events     []tower.Event
	Milestones []string
}

func (ac *actionContext) emit(t tower.EventType, payload map[string]any) {
	ac.Events = append(ac.Events, tower.Event{
		Tick:       ac.Tick,
		Type:       t,
		ResidentID: ac.Actor.ID,
		LocationID: ac.Actor.LocationID,
		Payload:    payload,
		At:         ac.Now,
	})
}

func (ac *actionContext) milestone(m string) {
	ac.Milestones = append(ac.Milestones, m)
}

func (ac *actionContext) str(key string) string {
	s, _ := ac.Params[key].(string)
	return s
}

func (ac *actionContext) num(key string) int {
	f, _ := ac.Params[key].(float64)
	return int(f)
}
