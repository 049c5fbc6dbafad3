package dispatch

import (
	"context"
	"fmt"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

func handleBuy(ctx context.Context, uc UseCase, ac *actionContext) error {
	listing, err := uc.Market.GetListing(ctx, ac.str("item"))
	if err != nil {
		return err
	}
	if listing.Supply < 1 {
		return fmt.Errorf("%w: %s", ports.ErrOutOfStock, listing.Name)
	}
	if ac.Actor.Tokens < listing.Price {
		return fmt.Errorf("%w: %s costs %d, you hold %d", ports.ErrInsufficientFunds, listing.Name, listing.Price, ac.Actor.Tokens)
	}

	paid := listing.Price
	ac.Actor.Tokens -= paid
	ac.Actor.AddItem(listing.ItemID, 1)
	listing.RecordBuy(1)
	ac.Writes.listings = append(ac.Writes.listings, listing)

	ac.emit(tower.EventMarketBuy, map[string]any{"item": listing.ItemID, "paid": paid, "new_price": listing.Price})
	ac.milestone("buy")
	ac.Data = map[string]any{"paid": paid, "new_price": listing.Price}
	ac.Message = fmt.Sprintf("Bought %s for %d tokens. Demand noted; the price ticks to %d.", listing.Name, paid, listing.Price)
	return nil
}

func handleSell(ctx context.Context, uc UseCase, ac *actionContext) error {
	listing, err := uc.Market.GetListing(ctx, ac.str("item"))
	if err != nil {
		return err
	}
	if !ac.Actor.RemoveItem(listing.ItemID, 1) {
		return fmt.Errorf("%w: you don't hold a %s", ports.ErrInvalidParams, listing.Name)
	}

	credit := listing.SellCredit()
	ac.Actor.Tokens += credit
	listing.RecordSell(1)
	ac.Writes.listings = append(ac.Writes.listings, listing)

	ac.emit(tower.EventMarketSell, map[string]any{"item": listing.ItemID, "credit": credit, "new_price": listing.Price})
	ac.milestone("sell")
	ac.Data = map[string]any{"credit": credit, "new_price": listing.Price}
	ac.Message = fmt.Sprintf("Sold %s for %d tokens. The market takes its cut.", listing.Name, credit)
	return nil
}

func decodeTradeSide(params map[string]any, itemsKey, tokensKey string) tower.TradeSide {
	side := tower.TradeSide{}
	if raw, ok := params[itemsKey].(map[string]any); ok {
		side.Items = map[string]int{}
		for item, qty := range raw {
			if f, ok := qty.(float64); ok && f > 0 {
				side.Items[item] = int(f)
			}
		}
	}
	if f, ok := params[tokensKey].(float64); ok {
		side.Tokens = int(f)
	}
	return side
}

// canCover reports whether a resident holds everything a trade side names.
func canCover(r tower.Resident, side tower.TradeSide) bool {
	if r.Tokens < side.Tokens {
		return false
	}
	for item, qty := range side.Items {
		if r.Inventory[item] < qty {
			return false
		}
	}
	return true
}

func moveSide(from, to *tower.Resident, side tower.TradeSide) {
	from.Tokens -= side.Tokens
	to.Tokens += side.Tokens
	for item, qty := range side.Items {
		from.RemoveItem(item, qty)
		to.AddItem(item, qty)
	}
}

func handleTradeOffer(ctx context.Context, uc UseCase, ac *actionContext) error {
	offering := decodeTradeSide(ac.Params, "offer_items", "offer_tokens")
	asking := decodeTradeSide(ac.Params, "ask_items", "ask_tokens")
	if offering.Empty() && asking.Empty() {
		return fmt.Errorf("%w: a trade needs at least one side", ports.ErrInvalidParams)
	}
	if !canCover(ac.Actor, offering) {
		return fmt.Errorf("%w: you can't cover your own offer", ports.ErrInsufficientFunds)
	}

	offer := tower.TradeOffer{
		ID:          uc.nextID(),
		ProposerID:  ac.Actor.ID,
		Offering:    offering,
		Asking:      asking,
		Status:      tower.TradeOpen,
		CreatedTick: ac.Tick,
	}
	ac.Writes.trades = append(ac.Writes.trades, offer)

	ac.emit(tower.EventTradeOffered, map[string]any{"trade_id": offer.ID})
	ac.Data = map[string]any{"trade_id": offer.ID}
	ac.Message = "Trade posted. It stands until someone takes it, you pull it, or it goes stale."
	return nil
}

func handleTradeAccept(ctx context.Context, uc UseCase, ac *actionContext) error {
	offer, err := uc.Market.GetTrade(ctx, ac.str("trade_id"))
	if err != nil {
		return err
	}
	if offer.Status != tower.TradeOpen || offer.ExpiredAt(ac.Tick) {
		return fmt.Errorf("%w: %s", ports.ErrTradeClosed, offer.ID)
	}
	if offer.ProposerID == ac.Actor.ID {
		return fmt.Errorf("%w: you can't accept your own trade", ports.ErrInvalidParams)
	}
	proposer, err := uc.Residents.Get(ctx, offer.ProposerID)
	if err != nil {
		return err
	}
	// Both sides settle atomically or the whole action fails.
	if !canCover(proposer, offer.Offering) {
		return fmt.Errorf("%w: proposer can no longer cover the offer", ports.ErrConflict)
	}
	if !canCover(ac.Actor, offer.Asking) {
		return fmt.Errorf("%w: you can't cover the asking side", ports.ErrInsufficientFunds)
	}

	moveSide(&proposer, &ac.Actor, offer.Offering)
	moveSide(&ac.Actor, &proposer, offer.Asking)
	proposer.TradeCount++
	ac.Actor.TradeCount++
	proposer.AdjustRelation(ac.Actor.ID, 4)
	ac.Actor.AdjustRelation(proposer.ID, 4)
	ac.Writes.putResident(proposer)

	offer.Status = tower.TradeAccepted
	offer.AccepterID = ac.Actor.ID
	offer.ClosedTick = ac.Tick
	ac.Writes.trades = append(ac.Writes.trades, offer)

	ac.emit(tower.EventTradeAccepted, map[string]any{"trade_id": offer.ID, "proposer": proposer.ID})
	ac.milestone("trade_accept")
	ac.Message = fmt.Sprintf("Trade settled with %s. Both ledgers balance.", proposer.Name)
	return nil
}

func handleTradeCancel(ctx context.Context, uc UseCase, ac *actionContext) error {
	offer, err := uc.Market.GetTrade(ctx, ac.str("trade_id"))
	if err != nil {
		return err
	}
	if offer.ProposerID != ac.Actor.ID {
		return fmt.Errorf("%w: not your trade", ports.ErrInvalidParams)
	}
	if offer.Status != tower.TradeOpen {
		return fmt.Errorf("%w: %s", ports.ErrTradeClosed, offer.ID)
	}

	offer.Status = tower.TradeCancelled
	offer.ClosedTick = ac.Tick
	ac.Writes.trades = append(ac.Writes.trades, offer)

	ac.emit(tower.EventTradeCancelled, map[string]any{"trade_id": offer.ID})
	ac.Message = "Trade withdrawn."
	return nil
}
