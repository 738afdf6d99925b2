package ingress

import (
	"github.com/clobcore/matching-engine/internal/matching"
	"github.com/clobcore/matching-engine/internal/order"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type submitJob struct {
	req    order.SubmitRequest
	result chan<- submitOutcome
}

type submitOutcome struct {
	result order.SubmitResult
	err    error
}

type cancelJob struct {
	symbol string
	id     order.ID
	result chan<- cancelOutcome
}

type cancelOutcome struct {
	result order.CancelResult
	err    error
}

type depthJob struct {
	symbol    string
	maxLevels int
	result    chan<- depthOutcome
}

type depthOutcome struct {
	snapshot order.DepthSnapshot
	err      error
}

// EventProcessor is the single consumer goroutine that owns a
// matching.Venue outright. It is the only goroutine ever allowed to call
// into the Venue, which preserves the core's single-threaded-core
// invariant (§5, §9) while letting Gateway serve many concurrent callers.
type EventProcessor struct {
	venue *matching.Venue
	ring  *RingBuffer
	seq   *Sequencer
	log   *zap.Logger
	done  chan struct{}
}

// NewEventProcessor wires a venue to a ring buffer/sequencer pair and
// returns a processor ready to run.
func NewEventProcessor(venue *matching.Venue, ring *RingBuffer, seq *Sequencer, log *zap.Logger) *EventProcessor {
	return &EventProcessor{venue: venue, ring: ring, seq: seq, log: log, done: make(chan struct{})}
}

// Run drains published slots in sequence order until Shutdown is called.
// Intended to be launched as `go processor.Run()` exactly once.
func (p *EventProcessor) Run() {
	var next uint64
	for {
		select {
		case <-p.done:
			return
		default:
		}

		// Spin until this slot has been published. The sequencer's cursor
		// only advances once a producer has fully written the slot, so a
		// claimed-but-unwritten slot is never observed here.
		if next >= p.seq.publishedValue() {
			continue
		}

		req := p.ring.slot(next)
		p.processRequest(req)
		p.seq.markConsumed(next)
		next++
	}
}

func (p *EventProcessor) processRequest(r *request) {
	switch r.kind {
	case kindSubmit:
		p.processSubmit(r.submit)
	case kindCancel:
		p.processCancel(r.cancel)
	case kindDepth:
		p.processDepth(r.depth)
	}
}

func (p *EventProcessor) processSubmit(job submitJob) {
	correlationID := uuid.New()
	result, err := p.venue.Submit(job.req)
	if err != nil {
		p.log.Debug("order rejected",
			zap.String("correlation_id", correlationID.String()),
			zap.String("symbol", job.req.Symbol),
			zap.Error(err))
	} else {
		p.log.Debug("order processed",
			zap.String("correlation_id", correlationID.String()),
			zap.String("symbol", job.req.Symbol),
			zap.String("status", result.Status.String()),
			zap.Int("trades", len(result.Trades)))
	}
	job.result <- submitOutcome{result: result, err: err}
}

func (p *EventProcessor) processCancel(job cancelJob) {
	result, err := p.venue.Cancel(job.symbol, job.id)
	job.result <- cancelOutcome{result: result, err: err}
}

func (p *EventProcessor) processDepth(job depthJob) {
	snap, err := p.venue.Depth(job.symbol, job.maxLevels)
	job.result <- depthOutcome{snapshot: snap, err: err}
}

// Shutdown stops Run after it finishes any in-flight slot.
func (p *EventProcessor) Shutdown() {
	close(p.done)
}
