// Package debounce runs the most recent of a burst of requests after a fixed
// quiet period. Earlier requests are superseded, and results computed for a
// superseded request are discarded instead of delivered.
package debounce

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/agegrade/pkg/logger"
	"github.com/okian/agegrade/pkg/metrics"
)

const defaultDelay = 250 * time.Millisecond

type pending[Req any] struct {
	ctx context.Context
	req Req
	gen uint64
}

// Debouncer coalesces submissions so that only the latest one is computed.
type Debouncer[Req, Res any] struct {
	compute func(context.Context, Req) Res
	deliver func(Req, Res)
	delay   time.Duration
	name    string
	logger  logger.Logger

	mu      sync.Mutex
	gen     uint64
	next    *pending[Req]
	timer   *time.Timer
	stopped bool
	closed  bool

	// deliverMu keeps deliveries in submission order.
	deliverMu sync.Mutex
	running   sync.WaitGroup
}

// New creates a Debouncer. compute turns a request into a result; deliver
// receives only results whose request was still the latest when computed.
func New[Req, Res any](compute func(context.Context, Req) Res, deliver func(Req, Res), opts ...Option) *Debouncer[Req, Res] {
	s := settings{delay: defaultDelay, name: "debounce"}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Named(s.name)
	}

	return &Debouncer[Req, Res]{
		compute: compute,
		deliver: deliver,
		delay:   s.delay,
		name:    s.name,
		logger:  s.logger,
	}
}

// Submit schedules req, superseding anything submitted before it.
func (d *Debouncer[Req, Res]) Submit(ctx context.Context, req Req) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || d.closed {
		return ErrStopped
	}

	metrics.RecordDebounceSubmitted()
	if d.next != nil {
		metrics.RecordDebounceSuperseded()
	}

	d.gen++
	d.next = &pending[Req]{ctx: ctx, req: req, gen: d.gen}

	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
	return nil
}

// Flush runs the pending request now. It reports whether one was pending.
func (d *Debouncer[Req, Res]) Flush() bool {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	p := d.take()
	d.mu.Unlock()

	if p == nil {
		return false
	}
	d.run(p)
	d.running.Done()
	return true
}

// Stop drops pending work. Results of computations already running are
// discarded. Stop does not wait; use Shutdown for that.
func (d *Debouncer[Req, Res]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	d.next = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Shutdown stops the debouncer and waits for running computations. Their
// results are discarded; use Close to keep the latest one.
func (d *Debouncer[Req, Res]) Shutdown(ctx context.Context) error {
	d.Stop()
	return d.wait(ctx)
}

// Close rejects further submissions, runs the pending request now and waits
// until every computation has finished. Unlike Shutdown it keeps the latest
// result, including one that was already computing when Close was called.
func (d *Debouncer[Req, Res]) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	p := d.take()
	d.mu.Unlock()

	if p != nil {
		d.run(p)
		d.running.Done()
	}
	return d.wait(ctx)
}

func (d *Debouncer[Req, Res]) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (d *Debouncer[Req, Res]) fire(gen uint64) {
	d.mu.Lock()
	if d.next == nil || d.next.gen != gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	p := d.take()
	d.mu.Unlock()

	if p == nil {
		return
	}
	d.run(p)
	d.running.Done()
}

// take claims the pending request. Callers hold d.mu.
func (d *Debouncer[Req, Res]) take() *pending[Req] {
	p := d.next
	if p == nil || d.stopped {
		return nil
	}
	d.next = nil
	d.running.Add(1)
	return p
}

func (d *Debouncer[Req, Res]) run(p *pending[Req]) {
	res := d.compute(p.ctx, p.req)

	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()

	if !d.current(p.gen) {
		metrics.RecordDebounceSuperseded()
		d.logger.Debug(p.ctx, "discarding superseded result", logger.Any("generation", p.gen))
		return
	}
	d.deliver(p.req, res)
	metrics.RecordDebounceDelivered()
}

func (d *Debouncer[Req, Res]) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.stopped && d.gen == gen
}
