package matching

import (
	"testing"

	"github.com/clobcore/matching-engine/internal/order"
	"github.com/clobcore/matching-engine/internal/tick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const symbol = "TEST"

func newVenue() *Venue {
	v := NewVenue()
	v.AddSymbol(symbol)
	return v
}

func submit(t *testing.T, v *Venue, side tick.Side, tif order.TimeInForce, qty uint64, price tick.PriceTick) order.SubmitResult {
	t.Helper()
	res, err := v.Submit(order.SubmitRequest{Symbol: symbol, Side: side, Price: price, Quantity: qty, TimeInForce: tif})
	require.NoError(t, err)
	return res
}

// S1: empty book, submit Bid GTC 100 @ 10.
func TestS1_RestsOnEmptyBook(t *testing.T) {
	v := newVenue()
	res := submit(t, v, tick.Bid, order.GTC, 100, 10)

	require.NotNil(t, res.OrderID)
	assert.Equal(t, order.ID(1), *res.OrderID)
	assert.Empty(t, res.Trades)
	assert.Equal(t, order.Accepted, res.Status)

	depth, err := v.Depth(symbol, 0)
	require.NoError(t, err)
	assert.Equal(t, []order.PriceLevel{{Price: 10, Quantity: 100}}, depth.Bids)
	assert.Empty(t, depth.Asks)
}

// S2: after S1, submit Ask GTC 60 @ 9 — partial fill against the resting bid.
func TestS2_PartialFillAgainstRestingBid(t *testing.T) {
	v := newVenue()
	submit(t, v, tick.Bid, order.GTC, 100, 10)

	res := submit(t, v, tick.Ask, order.GTC, 60, 9)

	require.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	assert.Equal(t, order.ID(2), tr.TakerOrderID)
	assert.Equal(t, order.ID(1), tr.MakerOrderID)
	assert.Equal(t, uint64(60), tr.Quantity)
	assert.Equal(t, tick.PriceTick(10), tr.Price)
	assert.Equal(t, order.FullyFilled, res.Status)
	assert.Nil(t, res.OrderID)

	depth, err := v.Depth(symbol, 0)
	require.NoError(t, err)
	assert.Equal(t, []order.PriceLevel{{Price: 10, Quantity: 40}}, depth.Bids)
	assert.Empty(t, depth.Asks)
}

// S3: after S1, submit Ask GTC 150 @ 10 — fills the bid entirely and rests the
// remainder on the ask side; book is not crossed once the bid side empties.
func TestS3_FillsRestingSideThenRestsRemainder(t *testing.T) {
	v := newVenue()
	submit(t, v, tick.Bid, order.GTC, 100, 10)

	res := submit(t, v, tick.Ask, order.GTC, 150, 10)

	require.Len(t, res.Trades, 1)
	assert.Equal(t, order.ID(1), res.Trades[0].MakerOrderID)
	assert.Equal(t, uint64(100), res.Trades[0].Quantity)
	assert.Equal(t, tick.PriceTick(10), res.Trades[0].Price)
	assert.Equal(t, order.PartiallyFilledAndResting, res.Status)
	require.NotNil(t, res.OrderID)
	assert.Equal(t, order.ID(2), *res.OrderID)

	depth, err := v.Depth(symbol, 0)
	require.NoError(t, err)
	assert.Empty(t, depth.Bids)
	assert.Equal(t, []order.PriceLevel{{Price: 10, Quantity: 50}}, depth.Asks)
}

// S4: two resting bids at the same tick, then an IOC ask sweeps both in
// arrival order (FIFO within a level).
func TestS4_FIFOWithinLevel(t *testing.T) {
	v := newVenue()
	submit(t, v, tick.Bid, order.GTC, 50, 10) // id=1
	submit(t, v, tick.Bid, order.GTC, 30, 10) // id=2

	res := submit(t, v, tick.Ask, order.IOC, 60, 10)

	require.Len(t, res.Trades, 2)
	assert.Equal(t, order.ID(1), res.Trades[0].MakerOrderID)
	assert.Equal(t, uint64(50), res.Trades[0].Quantity)
	assert.Equal(t, order.ID(2), res.Trades[1].MakerOrderID)
	assert.Equal(t, uint64(10), res.Trades[1].Quantity)
	assert.Equal(t, order.FullyFilled, res.Status)

	depth, err := v.Depth(symbol, 0)
	require.NoError(t, err)
	assert.Equal(t, []order.PriceLevel{{Price: 10, Quantity: 20}}, depth.Bids)
	assert.Empty(t, depth.Asks)
}

// S5: best-price-first across levels, remainder rests after sweeping both.
func TestS5_BestPriceFirstAcrossLevels(t *testing.T) {
	v := newVenue()
	submit(t, v, tick.Bid, order.GTC, 40, 10)
	submit(t, v, tick.Bid, order.GTC, 30, 11)

	res := submit(t, v, tick.Ask, order.GTC, 100, 9)

	require.Len(t, res.Trades, 2)
	assert.Equal(t, tick.PriceTick(11), res.Trades[0].Price)
	assert.Equal(t, uint64(30), res.Trades[0].Quantity)
	assert.Equal(t, tick.PriceTick(10), res.Trades[1].Price)
	assert.Equal(t, uint64(40), res.Trades[1].Quantity)
	assert.Equal(t, order.PartiallyFilledAndResting, res.Status)

	depth, err := v.Depth(symbol, 0)
	require.NoError(t, err)
	assert.Empty(t, depth.Bids)
	assert.Equal(t, []order.PriceLevel{{Price: 9, Quantity: 30}}, depth.Asks)
}

// S6: FOK reject leaves the book untouched.
func TestS6_FOKRejectLeavesBookUnchanged(t *testing.T) {
	v := newVenue()
	submit(t, v, tick.Bid, order.GTC, 40, 10)

	res, err := v.Submit(order.SubmitRequest{Symbol: symbol, Side: tick.Ask, Price: 10, Quantity: 50, TimeInForce: order.FOK})

	require.ErrorIs(t, err, order.ErrRejectedFOK)
	assert.Equal(t, order.RejectedFOK, res.Status)
	assert.Empty(t, res.Trades)

	depth, derr := v.Depth(symbol, 0)
	require.NoError(t, derr)
	assert.Equal(t, []order.PriceLevel{{Price: 10, Quantity: 40}}, depth.Bids)
}

// S7: cancel removes a resting order; a second cancel is NotFound.
func TestS7_CancelThenDoubleCancelIsNotFound(t *testing.T) {
	v := newVenue()
	res := submit(t, v, tick.Bid, order.GTC, 100, 10)

	_, err := v.Cancel(symbol, *res.OrderID)
	require.NoError(t, err)

	depth, derr := v.Depth(symbol, 0)
	require.NoError(t, derr)
	assert.Empty(t, depth.Bids)

	_, err = v.Cancel(symbol, *res.OrderID)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestSubmit_UnknownSymbolRejected(t *testing.T) {
	v := NewVenue()
	_, err := v.Submit(order.SubmitRequest{Symbol: "NOPE", Side: tick.Bid, Price: 1, Quantity: 1, TimeInForce: order.GTC})
	assert.ErrorIs(t, err, order.ErrUnknownSymbol)
}

func TestSubmit_ZeroQuantityRejected(t *testing.T) {
	v := newVenue()
	_, err := v.Submit(order.SubmitRequest{Symbol: symbol, Side: tick.Bid, Price: 1, Quantity: 0, TimeInForce: order.GTC})
	assert.ErrorIs(t, err, order.ErrInvalidQuantity)
}

func TestSubmit_ZeroPriceRejected(t *testing.T) {
	v := newVenue()
	_, err := v.Submit(order.SubmitRequest{Symbol: symbol, Side: tick.Bid, Price: 0, Quantity: 1, TimeInForce: order.GTC})
	assert.ErrorIs(t, err, order.ErrInvalidPrice)
}

func TestSubmit_IOCRemainderNeverRests(t *testing.T) {
	v := newVenue()
	res := submit(t, v, tick.Ask, order.IOC, 10, 10)

	assert.Nil(t, res.OrderID)
	assert.Equal(t, order.CancelledIOC, res.Status)

	depth, err := v.Depth(symbol, 0)
	require.NoError(t, err)
	assert.Empty(t, depth.Asks)
}

func TestSubmit_MonotonicIDsAcrossSymbols(t *testing.T) {
	v := NewVenue()
	v.AddSymbol("A")
	v.AddSymbol("B")

	ra, _ := v.Submit(order.SubmitRequest{Symbol: "A", Side: tick.Bid, Price: 1, Quantity: 1, TimeInForce: order.GTC})
	rb, _ := v.Submit(order.SubmitRequest{Symbol: "B", Side: tick.Bid, Price: 1, Quantity: 1, TimeInForce: order.GTC})

	require.NotNil(t, ra.OrderID)
	require.NotNil(t, rb.OrderID)
	assert.True(t, *rb.OrderID > *ra.OrderID)
}

func TestDepth_IsPureBetweenCalls(t *testing.T) {
	v := newVenue()
	submit(t, v, tick.Bid, order.GTC, 100, 10)

	d1, err := v.Depth(symbol, 0)
	require.NoError(t, err)
	d2, err := v.Depth(symbol, 0)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestDepth_MaxLevelsLimitsPerSide(t *testing.T) {
	v := newVenue()
	submit(t, v, tick.Bid, order.GTC, 10, 10)
	submit(t, v, tick.Bid, order.GTC, 10, 11)
	submit(t, v, tick.Bid, order.GTC, 10, 12)

	depth, err := v.Depth(symbol, 2)
	require.NoError(t, err)
	assert.Len(t, depth.Bids, 2)
	assert.Equal(t, tick.PriceTick(12), depth.Bids[0].Price)
}
