package tower

// Listing is the market book entry for one item.
type Listing struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
	Base   int    `json:"base"`
	Price  int    `json:"price"`
	Supply int    `json:"supply"`
	Demand int    `json:"demand"`
}

// ResolvePrice is a pure function of the base price and the supply/demand
// counters: scarce and wanted items cost more, gluts cost less. Idempotent
// for identical counters, bounded to [base/2, base*4].
func ResolvePrice(base, supply, demand int) int {
	if base < 1 {
		base = 1
	}
	p := base * (demand + MarketPriceK) / (supply + MarketPriceK)
	return clamp(p, base/MarketPriceFloorDiv, base*MarketPriceCeilMul)
}

func (l *Listing) Reprice() {
	l.Price = ResolvePrice(l.Base, l.Supply, l.Demand)
}

// RecordBuy consumes stock and registers demand, then reprices.
func (l *Listing) RecordBuy(qty int) {
	l.Supply -= qty
	if l.Supply < 0 {
		l.Supply = 0
	}
	l.Demand += qty
	l.Reprice()
}

// RecordSell returns stock and eases demand, then reprices.
func (l *Listing) RecordSell(qty int) {
	l.Supply += qty
	l.Demand -= qty
	if l.Demand < 0 {
		l.Demand = 0
	}
	l.Reprice()
}

// SellCredit is what the market pays for one unit: a fixed fraction of the
// current price. The spread is the market's cut.
func (l Listing) SellCredit() int {
	credit := int(float64(l.Price) * MarketSellFraction)
	if credit < 1 {
		credit = 1
	}
	return credit
}

// Drift nudges the book toward the base price and restocks thin items.
// Called once per tick.
func (l *Listing) Drift() {
	if l.Supply < MarketRestockBelow {
		l.Supply++
	}
	if l.Demand > 0 {
		l.Demand--
	}
	l.Reprice()
}

// TradeStatus is the lifecycle of a direct resident-to-resident offer.
type TradeStatus string

const (
	TradeOpen      TradeStatus = "open"
	TradeAccepted  TradeStatus = "accepted"
	TradeCancelled TradeStatus = "cancelled"
	TradeExpired   TradeStatus = "expired"
)

// TradeSide is one half of an offer: items, tokens, or both.
type TradeSide struct {
	Items  map[string]int `json:"items,omitempty"`
	Tokens int            `json:"tokens,omitempty"`
}

func (s TradeSide) Empty() bool {
	return s.Tokens == 0 && len(s.Items) == 0
}

type TradeOffer struct {
	ID          string      `json:"id"`
	ProposerID  string      `json:"proposer_id"`
	Offering    TradeSide   `json:"offering"`
	Asking      TradeSide   `json:"asking"`
	Status      TradeStatus `json:"status"`
	AccepterID  string      `json:"accepter_id,omitempty"`
	CreatedTick int64       `json:"created_tick"`
	ClosedTick  int64       `json:"closed_tick,omitempty"`
}

func (t TradeOffer) ExpiredAt(tick int64) bool {
	return t.Status == TradeOpen && tick-t.CreatedTick > TradeOpenTicks
}
