package matching

import (
	"sync/atomic"

	"github.com/clobcore/matching-engine/internal/order"
)

// Venue owns one OrderBook per traded symbol plus the monotonic OrderID and
// TradeID counters shared across all of them — the "engine instance" in the
// spec's ordering-guarantee sense (§5): IDs are unique and increasing across
// symbols on the same Venue, not just within one symbol's book.
//
// A Venue is not safe for concurrent use on its own; internal/ingress
// serializes calls onto a single goroutine that owns it.
type Venue struct {
	books       map[string]*OrderBook
	nextOrderID uint64
	nextTradeID uint64
	clock       int64
}

// NewVenue creates an empty venue with no symbols. Call AddSymbol before
// submitting orders for it.
func NewVenue() *Venue {
	return &Venue{books: make(map[string]*OrderBook)}
}

// AddSymbol registers a symbol with a fresh, empty order book. Calling it
// again for an already-registered symbol is a no-op.
func (v *Venue) AddSymbol(symbol string) {
	if _, ok := v.books[symbol]; ok {
		return
	}
	v.books[symbol] = newOrderBook(symbol)
}

// Symbols returns the set of registered symbols.
func (v *Venue) Symbols() []string {
	out := make([]string, 0, len(v.books))
	for s := range v.books {
		out = append(out, s)
	}
	return out
}

func (v *Venue) nextOrder() order.ID {
	return order.ID(atomic.AddUint64(&v.nextOrderID, 1))
}

func (v *Venue) nextTrade() order.ID {
	return order.ID(atomic.AddUint64(&v.nextTradeID, 1))
}

// nextTimestamp returns a monotonically increasing logical clock value,
// used in place of wall time so ordering is deterministic and reproducible
// under replay or property testing (§8 "single-threaded core... is
// deterministic").
func (v *Venue) nextTimestamp() int64 {
	v.clock++
	return v.clock
}

// Submit validates and processes one order submission against its symbol's
// book per §4.5.1-§4.5.3. Validation failures (ErrUnknownSymbol,
// ErrInvalidQuantity, ErrInvalidPrice) leave no trace: no ID is assigned and
// no state mutates (§4.5.6).
func (v *Venue) Submit(req order.SubmitRequest) (order.SubmitResult, error) {
	book, ok := v.books[req.Symbol]
	if !ok {
		return order.SubmitResult{}, order.ErrUnknownSymbol
	}
	if req.Quantity == 0 {
		return order.SubmitResult{}, order.ErrInvalidQuantity
	}
	if req.Price == 0 {
		return order.SubmitResult{}, order.ErrInvalidPrice
	}

	now := v.nextTimestamp()

	// FOK precheck (§4.5.3): verify sufficient crossing liquidity exists
	// before mutating anything. A failed precheck rejects with zero effect.
	if req.TimeInForce == order.FOK {
		if book.availableLiquidity(req.Side, req.Price) < req.Quantity {
			return order.SubmitResult{Status: order.RejectedFOK}, order.ErrRejectedFOK
		}
	}

	ord := &order.Order{
		ID:          v.nextOrder(),
		Symbol:      req.Symbol,
		Side:        req.Side,
		Price:       req.Price,
		TimeInForce: req.TimeInForce,
		Quantity:    req.Quantity,
		SubmitterID: req.SubmitterID,
		Timestamp:   now,
		Status:      order.StatusNew,
	}

	var trades []order.Trade
	book.match(ord, v.nextTrade, now, &trades)

	result := order.SubmitResult{Trades: trades}

	switch {
	case ord.Remaining() == 0:
		ord.Status = order.StatusFilled
		result.Status = order.FullyFilled

	case req.TimeInForce == order.GTC:
		book.rest(ord)
		id := ord.ID
		result.OrderID = &id
		if ord.QuantityFilled > 0 {
			result.Status = order.PartiallyFilledAndResting
		} else {
			result.Status = order.Accepted
		}

	default: // IOC or FOK with a partial fill: remainder is cancelled, never rests.
		ord.IsCancelled = true
		ord.Status = order.StatusCancelled
		result.Status = order.CancelledIOC
	}

	return result, nil
}

// Cancel removes a resting order from its symbol's book (§4.5.4). Returns
// ErrUnknownSymbol or ErrNotFound if the order is not currently resting
// (already filled, already cancelled, or never existed).
func (v *Venue) Cancel(symbol string, id order.ID) (order.CancelResult, error) {
	book, ok := v.books[symbol]
	if !ok {
		return order.CancelResult{}, order.ErrUnknownSymbol
	}
	ord := book.cancel(id)
	if ord == nil {
		return order.CancelResult{}, order.ErrNotFound
	}
	return order.CancelResult{Cancelled: ord}, nil
}

// Depth returns a read-only snapshot of a symbol's book, up to maxLevels per
// side (0 or negative means unlimited, §6's max_levels_per_depth default).
func (v *Venue) Depth(symbol string, maxLevels int) (order.DepthSnapshot, error) {
	book, ok := v.books[symbol]
	if !ok {
		return order.DepthSnapshot{}, order.ErrUnknownSymbol
	}
	return book.depth(maxLevels), nil
}
