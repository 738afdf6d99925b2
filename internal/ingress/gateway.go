package ingress

import (
	"github.com/clobcore/matching-engine/internal/matching"
	"github.com/clobcore/matching-engine/internal/order"
	"go.uber.org/zap"
)

// Gateway is the public entry point concurrent callers use to reach a
// Venue. It claims a ring buffer slot per request, writes the job into it,
// and publishes the slot for the single EventProcessor to pick up, then
// blocks on a per-request result channel.
type Gateway struct {
	ring *RingBuffer
	seq  *Sequencer
	proc *EventProcessor
}

// NewGateway wires a fresh ring buffer and sequencer to venue and starts
// the consumer goroutine. Call Shutdown to stop it.
func NewGateway(venue *matching.Venue, ringSize int, log *zap.Logger) *Gateway {
	ring := NewRingBuffer(ringSize)
	seq := NewSequencer(ringSize)
	proc := NewEventProcessor(venue, ring, seq, log)

	gw := &Gateway{ring: ring, seq: seq, proc: proc}
	go proc.Run()
	return gw
}

// Submit enqueues an order submission and blocks until the single consumer
// has processed it, returning the same result and error Venue.Submit would.
func (g *Gateway) Submit(req order.SubmitRequest) (order.SubmitResult, error) {
	result := make(chan submitOutcome, 1)
	seq := g.seq.claim()
	*g.ring.slot(seq) = request{kind: kindSubmit, submit: submitJob{req: req, result: result}}
	g.seq.publish(seq)

	out := <-result
	return out.result, out.err
}

// Cancel enqueues a cancellation and blocks until processed.
func (g *Gateway) Cancel(symbol string, id order.ID) (order.CancelResult, error) {
	result := make(chan cancelOutcome, 1)
	seq := g.seq.claim()
	*g.ring.slot(seq) = request{kind: kindCancel, cancel: cancelJob{symbol: symbol, id: id, result: result}}
	g.seq.publish(seq)

	out := <-result
	return out.result, out.err
}

// Depth enqueues a depth read and blocks until processed. Depth is
// read-only but still routed through the single consumer so a reader never
// observes a torn mid-match book state.
func (g *Gateway) Depth(symbol string, maxLevels int) (order.DepthSnapshot, error) {
	result := make(chan depthOutcome, 1)
	seq := g.seq.claim()
	*g.ring.slot(seq) = request{kind: kindDepth, depth: depthJob{symbol: symbol, maxLevels: maxLevels, result: result}}
	g.seq.publish(seq)

	out := <-result
	return out.snapshot, out.err
}

// Shutdown signals the consumer goroutine to stop once it finishes the slot
// it is processing, if any. It returns without waiting for the goroutine to
// exit, and slots still queued behind that one are not processed.
func (g *Gateway) Shutdown() {
	g.proc.Shutdown()
}
