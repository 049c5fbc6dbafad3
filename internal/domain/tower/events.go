package tower

import "time"

type EventType string

const (
	EventResidentEnter  EventType = "resident_enter"
	EventResidentMove   EventType = "resident_move"
	EventTalk           EventType = "talk"
	EventBoardPost      EventType = "board_post"
	EventCook           EventType = "cook"
	EventPrank          EventType = "prank"
	EventGossipStart    EventType = "gossip_start"
	EventGossipSpread   EventType = "gossip_spread"
	EventGossipDecay    EventType = "gossip_decay"
	EventPartyThrown    EventType = "party_thrown"
	EventPartyJoined    EventType = "party_joined"
	EventPartyClosed    EventType = "party_closed"
	EventMarketBuy      EventType = "market_buy"
	EventMarketSell     EventType = "market_sell"
	EventTradeOffered   EventType = "trade_offered"
	EventTradeAccepted  EventType = "trade_accepted"
	EventTradeCancelled EventType = "trade_cancelled"
	EventTradeExpired   EventType = "trade_expired"
	EventDuelResolved   EventType = "duel_resolved"
	EventFactionJoined  EventType = "faction_joined"
	EventProposalOpened EventType = "proposal_opened"
	EventVoteCast       EventType = "vote_cast"
	EventProposalClosed EventType = "proposal_closed"
	EventExploreFound   EventType = "explore_found"
	EventExploreEmpty   EventType = "explore_empty"
	EventQuestAccepted  EventType = "quest_accepted"
	EventQuestProgress  EventType = "quest_progress"
	EventQuestCompleted EventType = "quest_completed"
	EventDecree         EventType = "landlady_decree"
)

// Event is one line of the world's append-only history. Seq is assigned
// by the log and is strictly increasing.
type Event struct {
	Seq        int64          `json:"seq"`
	Tick       int64          `json:"tick"`
	Type       EventType      `json:"type"`
	ResidentID string         `json:"resident_id,omitempty"`
	LocationID string         `json:"location_id,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	At         time.Time      `json:"at"`
}
