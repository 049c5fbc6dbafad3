package ports

import (
	"context"
	"time"

	"towerverse/internal/domain/tower"
)

// Repositories return value copies. Mutations become visible only through
// an explicit Save inside a TxManager transaction, so an aborted handler
// leaves no trace.

type ResidentRepository interface {
	Get(ctx context.Context, id string) (tower.Resident, error)
	GetByName(ctx context.Context, name string) (tower.Resident, error)
	List(ctx context.Context) ([]tower.Resident, error)
	ListByLocation(ctx context.Context, locationID string) ([]tower.Resident, error)
	Save(ctx context.Context, r tower.Resident) error
	Count(ctx context.Context) (int, error)
}

type LocationRepository interface {
	Get(ctx context.Context, id string) (tower.Location, error)
	List(ctx context.Context) ([]tower.Location, error)
}

type GossipRepository interface {
	Get(ctx context.Context, id string) (tower.Chain, error)
	ListActive(ctx context.Context) ([]tower.Chain, error)
	List(ctx context.Context) ([]tower.Chain, error)
	Save(ctx context.Context, c tower.Chain) error
}

type PartyRepository interface {
	Get(ctx context.Context, id string) (tower.Party, error)
	ListOpen(ctx context.Context) ([]tower.Party, error)
	OpenAt(ctx context.Context, locationID string) (tower.Party, error)
	Save(ctx context.Context, p tower.Party) error
}

type MarketRepository interface {
	GetListing(ctx context.Context, itemID string) (tower.Listing, error)
	Listings(ctx context.Context) ([]tower.Listing, error)
	SaveListing(ctx context.Context, l tower.Listing) error

	GetTrade(ctx context.Context, id string) (tower.TradeOffer, error)
	OpenTrades(ctx context.Context) ([]tower.TradeOffer, error)
	SaveTrade(ctx context.Context, t tower.TradeOffer) error
}

type DuelRepository interface {
	Save(ctx context.Context, d tower.Duel) error
	ListByResident(ctx context.Context, residentID string, limit int) ([]tower.Duel, error)
}

type ProposalRepository interface {
	Get(ctx context.Context, id string) (tower.Proposal, error)
	ListActive(ctx context.Context) ([]tower.Proposal, error)
	List(ctx context.Context) ([]tower.Proposal, error)
	Save(ctx context.Context, p tower.Proposal) error
}

type QuestRepository interface {
	Get(ctx context.Context, id string) (tower.Quest, error)
	List(ctx context.Context) ([]tower.Quest, error)
	ListByResident(ctx context.Context, residentID string) ([]tower.Quest, error)
	Save(ctx context.Context, q tower.Quest) error
}

type ArtifactRepository interface {
	Get(ctx context.Context, id string) (tower.Artifact, error)
	List(ctx context.Context) ([]tower.Artifact, error)
	Save(ctx context.Context, a tower.Artifact) error
}

// EventLog is the world's append-only history. Append assigns the
// sequence number; ListAfter drives replay cursors.
type EventLog interface {
	Append(ctx context.Context, e tower.Event) (tower.Event, error)
	ListAfter(ctx context.Context, afterSeq int64, limit int) ([]tower.Event, error)
	ListRecent(ctx context.Context, limit int) ([]tower.Event, error)
	ListByLocation(ctx context.Context, locationID string, limit int) ([]tower.Event, error)
}

type BoardRepository interface {
	Posts(ctx context.Context, locationID string, limit int) ([]BoardPost, error)
	Append(ctx context.Context, p BoardPost) error
}

type BoardPost struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	LocationID string    `json:"location_id"`
	Text       string    `json:"text"`
	Tick       int64     `json:"tick"`
	At         time.Time `json:"at"`
}

type AgentCredentialRecord struct {
	AgentID   string
	KeySalt   []byte
	KeyHash   []byte
	Status    string
	CreatedAt time.Time
}

type AgentCredentialRepository interface {
	Create(ctx context.Context, credential AgentCredentialRecord) error
	GetByAgentID(ctx context.Context, agentID string) (AgentCredentialRecord, error)
}

// ClockRepository owns the tick counter.
type ClockRepository interface {
	CurrentTick(ctx context.Context) (int64, error)
	AdvanceTick(ctx context.Context) (int64, error)
}
