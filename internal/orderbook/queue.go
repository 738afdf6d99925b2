// Package orderbook implements the price-level queue and the per-side
// ordered map (HalfBook) that together hold one side of a symbol's book.
//
// A HalfBook maps price tick -> PriceLevel; a PriceLevel holds a FIFO queue
// of live order handles at that price plus their aggregate remaining
// quantity. Price priority comes from the ordered map (rbtree.go); time
// priority comes from FIFO order within a level (this file).
package orderbook

import (
	"github.com/clobcore/matching-engine/internal/order"
	"github.com/clobcore/matching-engine/internal/tick"
)

// Handle is a stable reference to a live order within its PriceLevel,
// usable for O(1) removal regardless of unrelated insertions or removals
// elsewhere in the same level.
type Handle struct {
	order *order.Order
	prev  *Handle
	next  *Handle
	level *PriceLevel
}

// Order returns the order this handle refers to.
func (h *Handle) Order() *order.Order { return h.order }

// PriceLevel holds every live order resting at one price on one side.
//
// Invariant (I3): AggregateQuantity always equals the sum of Remaining()
// across every handle still linked into the queue; handles are unlinked the
// instant an order stops being live (filled to zero or cancelled), so an
// empty level is never left behind for a caller to observe.
type PriceLevel struct {
	Price            tick.PriceTick
	Side             tick.Side
	head             *Handle
	tail             *Handle
	count            int
	AggregateQuantity uint64
}

// NewPriceLevel creates an empty level at the given price and side.
func NewPriceLevel(price tick.PriceTick, side tick.Side) *PriceLevel {
	return &PriceLevel{Price: price, Side: side}
}

// IsEmpty reports whether the level has no live orders.
func (pl *PriceLevel) IsEmpty() bool { return pl.count == 0 }

// Count returns the number of live orders at this level.
func (pl *PriceLevel) Count() int { return pl.count }

// PushBack appends ord to the tail of the queue (lowest time priority at
// this price) and returns a stable handle for later O(1) removal.
func (pl *PriceLevel) PushBack(ord *order.Order) *Handle {
	h := &Handle{order: ord, level: pl}
	if pl.tail == nil {
		pl.head, pl.tail = h, h
	} else {
		h.prev = pl.tail
		pl.tail.next = h
		pl.tail = h
	}
	pl.count++
	pl.AggregateQuantity += ord.Remaining()
	return h
}

// PeekFront returns the current maker candidate (earliest-arrived live
// order), or nil if the level is empty. It does not remove anything.
func (pl *PriceLevel) PeekFront() *Handle {
	return pl.head
}

// PopFront removes and returns the front handle, or nil if empty.
func (pl *PriceLevel) PopFront() *Handle {
	h := pl.head
	if h == nil {
		return nil
	}
	pl.unlink(h)
	return h
}

// Remove detaches h from the queue in O(1) using its own prev/next links.
func (pl *PriceLevel) Remove(h *Handle) {
	if h == nil || h.level != pl {
		return
	}
	pl.unlink(h)
}

func (pl *PriceLevel) unlink(h *Handle) {
	pl.AggregateQuantity -= h.order.Remaining()
	pl.count--

	if h.prev != nil {
		h.prev.next = h.next
	} else {
		pl.head = h.next
	}
	if h.next != nil {
		h.next.prev = h.prev
	} else {
		pl.tail = h.prev
	}
	h.prev, h.next, h.level = nil, nil, nil
}

// Fill records a partial or full execution of the order at handle h,
// keeping AggregateQuantity consistent with the order's new remaining
// quantity (I3, I5). Callers are responsible for popping h once the order's
// remaining quantity reaches zero.
func (pl *PriceLevel) Fill(h *Handle, qty uint64) {
	pl.AggregateQuantity -= qty
}

// Orders returns a snapshot of every live order in the queue, front to
// back. It is a read-only view for diagnostics and tests; mutating the
// returned slice has no effect on the queue.
func (pl *PriceLevel) Orders() []*order.Order {
	out := make([]*order.Order, 0, pl.count)
	for h := pl.head; h != nil; h = h.next {
		out = append(out, h.order)
	}
	return out
}
