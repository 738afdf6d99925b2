package orderbook

import "github.com/clobcore/matching-engine/internal/tick"

// HalfBook is one side (bid or ask) of a symbol's order book: an ordered map
// from price tick to PriceLevel, giving O(log L) level lookup/insert/delete
// and O(1) best-price access.
type HalfBook struct {
	side tick.Side
	tree *rbTree
}

// NewHalfBook creates an empty half-book for the given side.
func NewHalfBook(side tick.Side) *HalfBook {
	return &HalfBook{side: side, tree: newRBTree(side == tick.Bid)}
}

// Side returns the side this half-book represents.
func (hb *HalfBook) Side() tick.Side { return hb.side }

// Best returns the best (highest-priority) level, or nil if the side is
// empty.
func (hb *HalfBook) Best() *PriceLevel {
	return hb.tree.Min()
}

// LevelMut returns the level at price, creating and inserting an empty one
// if none exists yet.
func (hb *HalfBook) LevelMut(price tick.PriceTick) *PriceLevel {
	if lvl := hb.tree.Get(price); lvl != nil {
		return lvl
	}
	lvl := NewPriceLevel(price, hb.side)
	hb.tree.Insert(lvl)
	return lvl
}

// Level returns the level at price, or nil if none exists.
func (hb *HalfBook) Level(price tick.PriceTick) *PriceLevel {
	return hb.tree.Get(price)
}

// DropLevel removes the level at price from the ordered map. Callers must
// only do this once the level is empty (I3) — a half-book never holds an
// empty level for a caller to observe.
func (hb *HalfBook) DropLevel(price tick.PriceTick) {
	hb.tree.Delete(price)
}

// WalkFromBest visits levels in best-to-worst priority order, stopping after
// limit levels (or all of them, if limit <= 0) or when visit returns false.
func (hb *HalfBook) WalkFromBest(limit int, visit func(*PriceLevel) bool) {
	n := 0
	hb.tree.ForEach(func(lvl *PriceLevel) bool {
		if limit > 0 && n >= limit {
			return false
		}
		n++
		return visit(lvl)
	})
}

// Depth returns the number of distinct price levels on this side.
func (hb *HalfBook) Depth() int { return hb.tree.Size() }
