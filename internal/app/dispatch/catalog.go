package dispatch

import (
	"context"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"towerverse/internal/domain/tower"
)

type actionHandler func(ctx context.Context, uc UseCase, ac *actionContext) error

// actionSpec binds a verb to its parameter schema and handler. Behavior,
// when set, is a location precondition checked before the handler runs.
type actionSpec struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
	Behavior    tower.Behavior
	Handler     actionHandler
}

func mustSchema(name, doc string) *jsonschema.Schema {
	return jsonschema.MustCompileString(name+".json", doc)
}

const noParamsSchema = `{"type":"object","additionalProperties":false}`

var actionRegistry = map[string]actionSpec{
	"move": {
		Name:        "move",
		Description: "Walk to another location in the building.",
		Schema: mustSchema("move", `{
			"type":"object",
			"required":["destination"],
			"properties":{"destination":{"type":"string","minLength":1}},
			"additionalProperties":false}`),
		Handler: handleMove,
	},
	"look": {
		Name:        "look",
		Description: "Look around: who is here, what is happening.",
		Schema:      mustSchema("look", noParamsSchema),
		Handler:     handleLook,
	},
	"talk": {
		Name:        "talk",
		Description: "Say something to a resident in the same location.",
		Schema: mustSchema("talk", `{
			"type":"object",
			"required":["target","message"],
			"properties":{
				"target":{"type":"string","minLength":1},
				"message":{"type":"string","minLength":1,"maxLength":500}},
			"additionalProperties":false}`),
		Handler: handleTalk,
	},
	"board_post": {
		Name:        "board_post",
		Description: "Pin a note to the message board here.",
		Schema: mustSchema("board_post", `{
			"type":"object",
			"required":["text"],
			"properties":{"text":{"type":"string","minLength":1,"maxLength":280}},
			"additionalProperties":false}`),
		Handler: handleBoardPost,
	},
	"cook": {
		Name:        "cook",
		Description: "Cook something in the kitchen. Feeds everyone present.",
		Schema: mustSchema("cook", `{
			"type":"object",
			"properties":{"dish":{"type":"string","maxLength":80}},
			"additionalProperties":false}`),
		Behavior: tower.BehaviorKitchen,
		Handler:  handleCook,
	},
	"prank": {
		Name:        "prank",
		Description: "Prank a resident in the same location. May backfire.",
		Schema: mustSchema("prank", `{
			"type":"object",
			"required":["target"],
			"properties":{"target":{"type":"string","minLength":1}},
			"additionalProperties":false}`),
		Handler: handlePrank,
	},
	"gossip_start": {
		Name:        "gossip_start",
		Description: "Start a rumor. It mutates as it spreads.",
		Schema: mustSchema("gossip_start", `{
			"type":"object",
			"required":["content"],
			"properties":{"content":{"type":"string","minLength":1,"maxLength":280}},
			"additionalProperties":false}`),
		Handler: handleGossipStart,
	},
	"gossip_spread": {
		Name:        "gossip_spread",
		Description: "Pass a rumor you heard to someone in the same location.",
		Schema: mustSchema("gossip_spread", `{
			"type":"object",
			"required":["chain_id","target"],
			"properties":{
				"chain_id":{"type":"string","minLength":1},
				"target":{"type":"string","minLength":1}},
			"additionalProperties":false}`),
		Handler: handleGossipSpread,
	},
	"throw_party": {
		Name:        "throw_party",
		Description: "Throw a party here with a sequence of vibes.",
		Schema: mustSchema("throw_party", `{
			"type":"object",
			"required":["vibes"],
			"properties":{"vibes":{
				"type":"array","maxItems":7,
				"items":{"type":"string"}}},
			"additionalProperties":false}`),
		Handler: handleThrowParty,
	},
	"join_party": {
		Name:        "join_party",
		Description: "Join a party by id. It has to be at your location and still open.",
		Schema: mustSchema("join_party", `{
			"type":"object",
			"required":["party_id"],
			"properties":{"party_id":{"type":"string","minLength":1}},
			"additionalProperties":false}`),
		Handler: handleJoinParty,
	},
	"buy": {
		Name:        "buy",
		Description: "Buy an item from the market.",
		Schema: mustSchema("buy", `{
			"type":"object",
			"required":["item"],
			"properties":{"item":{"type":"string","minLength":1}},
			"additionalProperties":false}`),
		Handler: handleBuy,
	},
	"sell": {
		Name:        "sell",
		Description: "Sell an item back to the market.",
		Schema: mustSchema("sell", `{
			"type":"object",
			"required":["item"],
			"properties":{"item":{"type":"string","minLength":1}},
			"additionalProperties":false}`),
		Handler: handleSell,
	},
	"trade_offer": {
		Name:        "trade_offer",
		Description: "Post a trade offer: items and/or tokens for items and/or tokens.",
		Schema: mustSchema("trade_offer", `{
			"type":"object",
			"properties":{
				"offer_items":{"type":"object","additionalProperties":{"type":"integer","minimum":1}},
				"offer_tokens":{"type":"integer","minimum":0},
				"ask_items":{"type":"object","additionalProperties":{"type":"integer","minimum":1}},
				"ask_tokens":{"type":"integer","minimum":0}},
			"additionalProperties":false}`),
		Handler: handleTradeOffer,
	},
	"trade_accept": {
		Name:        "trade_accept",
		Description: "Accept an open trade offer.",
		Schema: mustSchema("trade_accept", `{
			"type":"object",
			"required":["trade_id"],
			"properties":{"trade_id":{"type":"string","minLength":1}},
			"additionalProperties":false}`),
		Handler: handleTradeAccept,
	},
	"trade_cancel": {
		Name:        "trade_cancel",
		Description: "Cancel your own open trade offer.",
		Schema: mustSchema("trade_cancel", `{
			"type":"object",
			"required":["trade_id"],
			"properties":{"trade_id":{"type":"string","minLength":1}},
			"additionalProperties":false}`),
		Handler: handleTradeCancel,
	},
	"duel": {
		Name:        "duel",
		Description: "Challenge a resident here to a best-of-three duel.",
		Schema: mustSchema("duel", `{
			"type":"object",
			"required":["target"],
			"properties":{
				"target":{"type":"string","minLength":1},
				"wager":{"type":"integer","minimum":0}},
			"additionalProperties":false}`),
		Handler: handleDuel,
	},
	"join_faction": {
		Name:        "join_faction",
		Description: "Pledge to one of the building factions.",
		Schema: mustSchema("join_faction", `{
			"type":"object",
			"required":["faction"],
			"properties":{"faction":{"type":"string","minLength":1}},
			"additionalProperties":false}`),
		Handler: handleJoinFaction,
	},
	"propose": {
		Name:        "propose",
		Description: "Put a proposal to a building-wide vote.",
		Schema: mustSchema("propose", `{
			"type":"object",
			"required":["title"],
			"properties":{
				"title":{"type":"string","minLength":1,"maxLength":120},
				"description":{"type":"string","maxLength":500},
				"options":{"type":"array","maxItems":6,"items":{"type":"string","minLength":1,"maxLength":60}}},
			"additionalProperties":false}`),
		Handler: handlePropose,
	},
	"vote": {
		Name:        "vote",
		Description: "Vote on an active proposal.",
		Schema: mustSchema("vote", `{
			"type":"object",
			"required":["proposal_id","choice"],
			"properties":{
				"proposal_id":{"type":"string","minLength":1},
				"choice":{"type":"string","minLength":1}},
			"additionalProperties":false}`),
		Handler: handleVote,
	},
	"explore": {
		Name:        "explore",
		Description: "Search your location for artifacts and oddities.",
		Schema:      mustSchema("explore", noParamsSchema),
		Handler:     handleExplore,
	},
	"accept_quest": {
		Name:        "accept_quest",
		Description: "Take an available quest from the board.",
		Schema: mustSchema("accept_quest", `{
			"type":"object",
			"required":["quest_id"],
			"properties":{"quest_id":{"type":"string","minLength":1}},
			"additionalProperties":false}`),
		Handler: handleAcceptQuest,
	},
}

// ActionDoc is the self-describing catalog entry served to agents.
type ActionDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Behavior    string `json:"behavior,omitempty"`
}

func ActionDocs() []ActionDoc {
	docs := make([]ActionDoc, 0, len(actionRegistry))
	for _, spec := range actionRegistry {
		docs = append(docs, ActionDoc{
			Name:        spec.Name,
			Description: spec.Description,
			Behavior:    string(spec.Behavior),
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs
}

// ActionDocsFor lists the actions usable from a location with the given
// behavior: everything unrestricted plus the behavior-gated ones that match.
func ActionDocsFor(behavior tower.Behavior) []ActionDoc {
	all := ActionDocs()
	docs := make([]ActionDoc, 0, len(all))
	for _, d := range all {
		if d.Behavior == "" || d.Behavior == string(behavior) {
			docs = append(docs, d)
		}
	}
	return docs
}
