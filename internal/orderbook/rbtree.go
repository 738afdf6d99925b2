package orderbook

import "github.com/clobcore/matching-engine/internal/tick"

// Red-black tree keyed by price tick, used to implement HalfBook's ordered
// map. Self-balancing gives O(log L) insert/delete for L distinct price
// levels, with cached min/max nodes for O(1) best-price access — the
// "balanced ordered-map structure keyed by PriceTick" the spec calls for;
// a hash map cannot give ordered best-price traversal, so it is unsuitable
// here regardless of its O(1) lookup.

type rbColor bool

const (
	red   rbColor = true
	black rbColor = false
)

type rbNode struct {
	price  tick.PriceTick
	level  *PriceLevel
	color  rbColor
	left   *rbNode
	right  *rbNode
	parent *rbNode
}

// rbTree is a red-black tree of PriceLevels keyed by price tick.
//
// descending controls which end Min() reports as "best": true for bids
// (highest tick first), false for asks (lowest tick first). Everything else
// about the tree's shape is side-agnostic.
type rbTree struct {
	root       *rbNode
	size       int
	minNode    *rbNode
	maxNode    *rbNode
	descending bool
}

func newRBTree(descending bool) *rbTree {
	return &rbTree{descending: descending}
}

func (t *rbTree) Size() int { return t.size }

// Min returns the best price level for this side, or nil if empty.
func (t *rbTree) Min() *PriceLevel {
	n := t.minNode
	if t.descending {
		n = t.maxNode
	}
	if n == nil {
		return nil
	}
	return n.level
}

// Get returns the level at price, or nil if no level exists there.
func (t *rbTree) Get(price tick.PriceTick) *PriceLevel {
	n := t.search(price)
	if n == nil {
		return nil
	}
	return n.level
}

// Insert adds a new level to the tree. The caller must have already checked
// that no level exists at this price (HalfBook.LevelMut does this).
func (t *rbTree) Insert(level *PriceLevel) {
	newNode := &rbNode{price: level.Price, level: level, color: red}

	if t.root == nil {
		newNode.color = black
		t.root = newNode
		t.minNode, t.maxNode = newNode, newNode
		t.size = 1
		return
	}

	var parent *rbNode
	cur := t.root
	for cur != nil {
		parent = cur
		if level.Price < cur.price {
			cur = cur.left
		} else if level.Price > cur.price {
			cur = cur.right
		} else {
			cur.level = level
			return
		}
	}

	newNode.parent = parent
	if level.Price < parent.price {
		parent.left = newNode
	} else {
		parent.right = newNode
	}
	t.size++

	if level.Price < t.minNode.price {
		t.minNode = newNode
	}
	if level.Price > t.maxNode.price {
		t.maxNode = newNode
	}

	t.insertFixup(newNode)
}

// Delete removes the level at price, if any.
func (t *rbTree) Delete(price tick.PriceTick) {
	n := t.search(price)
	if n == nil {
		return
	}
	t.size--

	if n == t.minNode {
		t.minNode = t.successor(n)
	}
	if n == t.maxNode {
		t.maxNode = t.predecessor(n)
	}

	t.deleteNode(n)
}

// ForEach visits levels in best-to-worst order for this side, stopping early
// if fn returns false.
func (t *rbTree) ForEach(fn func(*PriceLevel) bool) {
	if t.descending {
		t.reverseInOrder(t.root, fn)
	} else {
		t.inOrder(t.root, fn)
	}
}

func (t *rbTree) search(price tick.PriceTick) *rbNode {
	cur := t.root
	for cur != nil {
		switch {
		case price < cur.price:
			cur = cur.left
		case price > cur.price:
			cur = cur.right
		default:
			return cur
		}
	}
	return nil
}

func (t *rbTree) inOrder(n *rbNode, fn func(*PriceLevel) bool) bool {
	if n == nil {
		return true
	}
	if !t.inOrder(n.left, fn) {
		return false
	}
	if !fn(n.level) {
		return false
	}
	return t.inOrder(n.right, fn)
}

func (t *rbTree) reverseInOrder(n *rbNode, fn func(*PriceLevel) bool) bool {
	if n == nil {
		return true
	}
	if !t.reverseInOrder(n.right, fn) {
		return false
	}
	if !fn(n.level) {
		return false
	}
	return t.reverseInOrder(n.left, fn)
}

func (t *rbTree) successor(n *rbNode) *rbNode {
	if n.right != nil {
		cur := n.right
		for cur.left != nil {
			cur = cur.left
		}
		return cur
	}
	parent := n.parent
	for parent != nil && n == parent.right {
		n = parent
		parent = parent.parent
	}
	return parent
}

func (t *rbTree) predecessor(n *rbNode) *rbNode {
	if n.left != nil {
		cur := n.left
		for cur.right != nil {
			cur = cur.right
		}
		return cur
	}
	parent := n.parent
	for parent != nil && n == parent.left {
		n = parent
		parent = parent.parent
	}
	return parent
}

func (t *rbTree) rotateLeft(x *rbNode) {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == nil {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *rbTree) rotateRight(x *rbNode) {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent
	if x.parent == nil {
		t.root = y
	} else if x == x.parent.right {
		x.parent.right = y
	} else {
		x.parent.left = y
	}
	y.right = x
	x.parent = y
}

func (t *rbTree) insertFixup(z *rbNode) {
	for z.parent != nil && z.parent.color == red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right
			if y != nil && y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.rotateLeft(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rotateRight(z.parent.parent)
			}
		} else {
			y := z.parent.parent.left
			if y != nil && y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rotateRight(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rotateLeft(z.parent.parent)
			}
		}
	}
	t.root.color = black
}

func (t *rbTree) transplant(u, v *rbNode) {
	if u.parent == nil {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	if v != nil {
		v.parent = u.parent
	}
}

func (t *rbTree) deleteNode(z *rbNode) {
	var x, xParent *rbNode
	y := z
	yOriginalColor := y.color

	if z.left == nil {
		x = z.right
		xParent = z.parent
		t.transplant(z, z.right)
	} else if z.right == nil {
		x = z.left
		xParent = z.parent
		t.transplant(z, z.left)
	} else {
		y = z.right
		for y.left != nil {
			y = y.left
		}
		yOriginalColor = y.color
		x = y.right
		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yOriginalColor == black {
		t.deleteFixup(x, xParent)
	}
}

func (t *rbTree) deleteFixup(x *rbNode, xParent *rbNode) {
	for x != t.root && (x == nil || x.color == black) {
		if x == xParent.left {
			w := xParent.right
			if w != nil && w.color == red {
				w.color = black
				xParent.color = red
				t.rotateLeft(xParent)
				w = xParent.right
			}
			if w == nil || ((w.left == nil || w.left.color == black) && (w.right == nil || w.right.color == black)) {
				if w != nil {
					w.color = red
				}
				x = xParent
				xParent = x.parent
			} else {
				if w.right == nil || w.right.color == black {
					if w.left != nil {
						w.left.color = black
					}
					w.color = red
					t.rotateRight(w)
					w = xParent.right
				}
				w.color = xParent.color
				xParent.color = black
				if w.right != nil {
					w.right.color = black
				}
				t.rotateLeft(xParent)
				x = t.root
			}
		} else {
			w := xParent.left
			if w != nil && w.color == red {
				w.color = black
				xParent.color = red
				t.rotateRight(xParent)
				w = xParent.left
			}
			if w == nil || ((w.right == nil || w.right.color == black) && (w.left == nil || w.left.color == black)) {
				if w != nil {
					w.color = red
				}
				x = xParent
				xParent = x.parent
			} else {
				if w.left == nil || w.left.color == black {
					if w.right != nil {
						w.right.color = black
					}
					w.color = red
					t.rotateLeft(w)
					w = xParent.left
				}
				w.color = xParent.color
				xParent.color = black
				if w.left != nil {
					w.left.color = black
				}
				t.rotateRight(xParent)
				x = t.root
			}
		}
	}
	if x != nil {
		x.color = black
	}
}
