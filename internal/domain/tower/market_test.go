package tower

import "testing"

func TestResolvePriceIdempotent(t *testing.T) {
	for _, tc := range []struct{ base, supply, demand int }{
		{10, 5, 0},
		{10, 0, 12},
		{3, 100, 0},
		{25, 2, 2},
	} {
		a := ResolvePrice(tc.base, tc.supply, tc.demand)
		b := ResolvePrice(tc.base, tc.supply, tc.demand)
		if a != b {
			t.Fatalf("price not idempotent for %+v: %d vs %d", tc, a, b)
		}
	}
}

func TestResolvePriceBounds(t *testing.T) {
	base := 10
	if got := ResolvePrice(base, 1000, 0); got < base/MarketPriceFloorDiv {
		t.Fatalf("price below floor: %d", got)
	}
	if got := ResolvePrice(base, 0, 1000); got > base*MarketPriceCeilMul {
		t.Fatalf("price above ceiling: %d", got)
	}
}

func TestBuyRaisesSellLowersPrice(t *testing.T) {
	l := Listing{ItemID: "coffee", Base: 10, Supply: 10}
	l.Reprice()
	start := l.Price

	l.RecordBuy(1)
	afterBuy := l.Price
	if afterBuy < start {
		t.Fatalf("buy should not lower the price: %d -> %d", start, afterBuy)
	}

	l.RecordSell(1)
	if l.Price > afterBuy {
		t.Fatalf("sell should not raise the price: %d -> %d", afterBuy, l.Price)
	}
	// One buy and one sell restore the counters, so the price round-trips.
	if l.Supply != 10 || l.Demand != 0 {
		t.Fatalf("counters did not round-trip: supply=%d demand=%d", l.Supply, l.Demand)
	}
	if l.Price != start {
		t.Fatalf("price did not round-trip: %d -> %d", start, l.Price)
	}
}

func TestSellCreditLosesTheSpread(t *testing.T) {
	l := Listing{ItemID: "coffee", Base: 10, Supply: 10}
	l.Reprice()
	if credit := l.SellCredit(); credit >= l.Price {
		t.Fatalf("sell credit must sit below the buy price: credit=%d price=%d", credit, l.Price)
	}
}

func TestDriftRestocksAndCools(t *testing.T) {
	l := Listing{ItemID: "snack", Base: 5, Supply: 1, Demand: 4}
	l.Reprice()
	l.Drift()
	if l.Supply != 2 {
		t.Fatalf("thin listing should restock: supply=%d", l.Supply)
	}
	if l.Demand != 3 {
		t.Fatalf("demand should cool: demand=%d", l.Demand)
	}

	fat := Listing{ItemID: "snack", Base: 5, Supply: 10}
	fat.Drift()
	if fat.Supply != 10 {
		t.Fatalf("healthy stock should not restock: supply=%d", fat.Supply)
	}
}

func TestTradeOfferExpiry(t *testing.T) {
	offer := TradeOffer{ID: "t1", Status: TradeOpen, CreatedTick: 5}
	if offer.ExpiredAt(5 + TradeOpenTicks) {
		t.Fatalf("offer inside the window should stand")
	}
	if !offer.ExpiredAt(5 + TradeOpenTicks + 1) {
		t.Fatalf("offer past the window should expire")
	}
	offer.Status = TradeAccepted
	if offer.ExpiredAt(5 + TradeOpenTicks + 1) {
		t.Fatalf("settled offer never expires")
	}
}

func TestTradeSideEmpty(t *testing.T) {
	if !(TradeSide{}).Empty() {
		t.Fatalf("zero side is empty")
	}
	if (TradeSide{Tokens: 3}).Empty() {
		t.Fatalf("token side is not empty")
	}
	if (TradeSide{Items: map[string]int{"mug": 1}}).Empty() {
		t.Fatalf("item side is not empty")
	}
}
