// Package order defines the order and trade value types shared by the
// matching engine: identity, lifecycle, time-in-force semantics, and the
// request/result shapes the core exposes at its boundary.
//
// Only the engine (package matching) may mutate an Order's QuantityFilled or
// IsCancelled fields; every other consumer treats Order as read-only.
package order

import (
	"errors"

	"github.com/clobcore/matching-engine/internal/tick"
)

// TimeInForce selects how an order's unfilled remainder is handled once it
// stops matching.
type TimeInForce int

const (
	// GTC (Good-Till-Cancelled) rests after a partial or zero fill.
	GTC TimeInForce = iota
	// IOC (Immediate-Or-Cancel) fills what it can immediately; any
	// remainder is cancelled and never rests.
	IOC
	// FOK (Fill-Or-Kill) fills the entire requested quantity immediately
	// or performs no fills at all.
	FOK
)

func (t TimeInForce) String() string {
	switch t {
	case GTC:
		return "GTC"
	case IOC:
		return "IOC"
	case FOK:
		return "FOK"
	default:
		return "UNKNOWN"
	}
}

// ID is a monotonically increasing identifier, unique for the engine's
// lifetime. Used for both OrderID and TradeID.
type ID uint64

// Status is the order's position in its lifecycle state machine (§4.5.5).
type Status int

const (
	StatusNew Status = iota
	StatusPartiallyFilled
	StatusResting
	StatusFilled
	StatusCancelled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusPartiallyFilled:
		return "partially_filled"
	case StatusResting:
		return "resting"
	case StatusFilled:
		return "filled"
	case StatusCancelled:
		return "cancelled"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Order is the engine's record of a single submission. Identity fields never
// change after creation; QuantityFilled and IsCancelled are mutated only by
// the engine during matching or explicit cancellation.
type Order struct {
	ID            ID
	Symbol        string
	Side          tick.Side
	Price         tick.PriceTick
	TimeInForce   TimeInForce
	Quantity      uint64
	SubmitterID   uint64
	Timestamp     int64 // monotonic per-engine counter, see Venue.nextTimestamp
	QuantityFilled uint64
	IsCancelled   bool
	Status        Status
}

// Remaining returns the unfilled quantity.
func (o *Order) Remaining() uint64 {
	return o.Quantity - o.QuantityFilled
}

// Live reports whether the order still has unfilled quantity and has not
// been cancelled.
func (o *Order) Live() bool {
	return o.Remaining() > 0 && !o.IsCancelled
}

// Trade is the immutable record of one execution between a taker and a
// resting maker order. Price is always the maker's resting tick.
type Trade struct {
	ID           ID
	Symbol       string
	TakerOrderID ID
	MakerOrderID ID
	TakerUserID  uint64
	MakerUserID  uint64
	Price        tick.PriceTick
	Quantity     uint64
	Timestamp    int64
}

// SubmitRequest is the input to Submit.
type SubmitRequest struct {
	Symbol      string
	Side        tick.Side
	Price       tick.PriceTick
	Quantity    uint64
	TimeInForce TimeInForce
	SubmitterID uint64
}

// SubmitStatus classifies the outcome of a Submit call.
type SubmitStatus int

const (
	Accepted SubmitStatus = iota
	PartiallyFilledAndResting
	FullyFilled
	CancelledIOC
	RejectedFOK
	Rejected
)

func (s SubmitStatus) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case PartiallyFilledAndResting:
		return "partially_filled_and_resting"
	case FullyFilled:
		return "fully_filled"
	case CancelledIOC:
		return "cancelled_ioc"
	case RejectedFOK:
		return "rejected_fok"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// SubmitResult is the output of Submit. OrderID is present iff an order
// rests after processing (GTC with a non-zero remainder).
type SubmitResult struct {
	OrderID *ID
	Trades  []Trade
	Status  SubmitStatus
}

// CancelResult is the output of Cancel.
type CancelResult struct {
	Cancelled *Order
}

// PriceLevel is one (price, aggregate quantity) pair of a DepthSnapshot.
type PriceLevel struct {
	Price    tick.PriceTick
	Quantity uint64
}

// DepthSnapshot is the result of a Depth read. Bids are ordered best (highest
// tick) to worst; asks are ordered best (lowest tick) to worst.
type DepthSnapshot struct {
	Symbol string
	Bids   []PriceLevel
	Asks   []PriceLevel
}

// Sentinel errors returned synchronously by the core's boundary operations.
// Validation and NotFound errors never leave partial effects (§4.5.6, §7).
var (
	ErrInvalidQuantity = errors.New("order: quantity must be positive")
	ErrInvalidPrice    = errors.New("order: price tick must be positive")
	ErrUnknownSymbol   = errors.New("order: unknown symbol")
	ErrNotFound        = errors.New("order: not found")
	ErrRejectedFOK     = errors.New("order: fill-or-kill could not be fully filled")
)
