// Package matching implements the single-symbol matching algorithm and the
// multi-symbol Venue that owns one OrderBook per traded symbol.
package matching

import (
	"github.com/clobcore/matching-engine/internal/order"
	"github.com/clobcore/matching-engine/internal/orderbook"
	"github.com/clobcore/matching-engine/internal/tick"
)

// OrderBook holds the bid and ask half-books for a single symbol plus an
// index of every live order resting in either one, keyed by OrderID.
//
// OrderBook is not safe for concurrent use; callers needing concurrent
// access should route requests through internal/ingress, which serializes
// them onto a single goroutine that owns the book.
type OrderBook struct {
	symbol  string
	bids    *orderbook.HalfBook
	asks    *orderbook.HalfBook
	resting map[order.ID]*orderbook.Handle
}

func newOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		symbol:  symbol,
		bids:    orderbook.NewHalfBook(tick.Bid),
		asks:    orderbook.NewHalfBook(tick.Ask),
		resting: make(map[order.ID]*orderbook.Handle),
	}
}

func (b *OrderBook) halfBook(side tick.Side) *orderbook.HalfBook {
	if side == tick.Bid {
		return b.bids
	}
	return b.asks
}

// oppositeBook returns the half-book a taker on side s would match against.
func (b *OrderBook) oppositeBook(s tick.Side) *orderbook.HalfBook {
	return b.halfBook(s.Opposite())
}

// bestCrosses reports whether the current best level on the opposite side
// would cross against a taker limited at price on side s.
func (b *OrderBook) bestCrosses(s tick.Side, price tick.PriceTick) (*orderbook.PriceLevel, bool) {
	best := b.oppositeBook(s).Best()
	if best == nil {
		return nil, false
	}
	return best, price.Crosses(s, best.Price)
}

// availableLiquidity sums remaining quantity across every opposite-side
// level that would cross against a taker limited at price on side s. Used
// by the FOK precheck (§4.5.3) — it performs no mutation.
func (b *OrderBook) availableLiquidity(s tick.Side, price tick.PriceTick) uint64 {
	var total uint64
	b.oppositeBook(s).WalkFromBest(0, func(lvl *orderbook.PriceLevel) bool {
		if !price.Crosses(s, lvl.Price) {
			return false
		}
		total += lvl.AggregateQuantity
		return true
	})
	return total
}

// match executes a taker order against resting liquidity in price-time
// priority until the taker is exhausted or no more levels cross. It mutates
// both the taker's QuantityFilled and every maker's QuantityFilled, popping
// and dropping maker handles/levels that become empty. Trades are appended
// to trades in execution order.
//
// match never looks at the taker's TimeInForce; remainder policy (rest,
// cancel, or reject) is decided by the caller (Venue.Submit) after matching
// completes, per §4.5.2 note "matching is TIF-agnostic."
func (b *OrderBook) match(taker *order.Order, nextTradeID func() order.ID, now int64, trades *[]order.Trade) {
	oppo := b.oppositeBook(taker.Side)

	for taker.Remaining() > 0 {
		best := oppo.Best()
		if best == nil {
			return
		}
		if !taker.Price.Crosses(taker.Side, best.Price) {
			return
		}

		h := best.PeekFront()
		maker := h.Order()

		qty := taker.Remaining()
		if maker.Remaining() < qty {
			qty = maker.Remaining()
		}

		taker.QuantityFilled += qty
		maker.QuantityFilled += qty
		best.Fill(h, qty)

		*trades = append(*trades, order.Trade{
			ID:           nextTradeID(),
			Symbol:       b.symbol,
			TakerOrderID: taker.ID,
			MakerOrderID: maker.ID,
			TakerUserID:  taker.SubmitterID,
			MakerUserID:  maker.SubmitterID,
			Price:        best.Price,
			Quantity:     qty,
			Timestamp:    now,
		})

		if maker.Remaining() == 0 {
			maker.Status = order.StatusFilled
			best.PopFront()
			delete(b.resting, maker.ID)
			if best.IsEmpty() {
				oppo.DropLevel(best.Price)
			}
		} else {
			maker.Status = order.StatusPartiallyFilled
		}
	}
}

// rest inserts an order with a non-zero remainder into this side's book,
// indexing it for O(1) cancellation lookup.
func (b *OrderBook) rest(ord *order.Order) {
	lvl := b.halfBook(ord.Side).LevelMut(ord.Price)
	h := lvl.PushBack(ord)
	b.resting[ord.ID] = h
	ord.Status = order.StatusResting
}

// cancel removes a resting order from its level, eagerly dropping the level
// if it becomes empty (§4.5.4, eager strategy). Returns the cancelled order,
// or nil if id is not currently resting.
func (b *OrderBook) cancel(id order.ID) *order.Order {
	h, ok := b.resting[id]
	if !ok {
		return nil
	}
	ord := h.Order()
	lvl := b.halfBook(ord.Side).Level(ord.Price)
	lvl.Remove(h)
	delete(b.resting, id)
	ord.IsCancelled = true
	ord.Status = order.StatusCancelled

	if lvl.IsEmpty() {
		b.halfBook(ord.Side).DropLevel(ord.Price)
	}
	return ord
}

// depth returns a snapshot of up to maxLevels price levels per side, best
// first. maxLevels <= 0 means unlimited.
func (b *OrderBook) depth(maxLevels int) order.DepthSnapshot {
	snap := order.DepthSnapshot{Symbol: b.symbol}

	b.bids.WalkFromBest(maxLevels, func(lvl *orderbook.PriceLevel) bool {
		snap.Bids = append(snap.Bids, order.PriceLevel{Price: lvl.Price, Quantity: lvl.AggregateQuantity})
		return true
	})
	b.asks.WalkFromBest(maxLevels, func(lvl *orderbook.PriceLevel) bool {
		snap.Asks = append(snap.Asks, order.PriceLevel{Price: lvl.Price, Quantity: lvl.AggregateQuantity})
		return true
	})
	return snap
}
