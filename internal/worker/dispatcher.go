package worker

import (
	"context"
	"sync"
	"time"

	"github.com/utakatalp/league-projections/internal/logger"
	"github.com/utakatalp/league-projections/internal/montecarlo"
)

// DefaultDebounce is the quiet period before a request is dispatched.
const DefaultDebounce = 150 * time.Millisecond

// State is what callers see of the projection pipeline.
// Projections is shared and must not be modified.
type State struct {
	Projections []montecarlo.TeamProjection `json:"projections"`
	IsRunning   bool                        `json:"isRunning"`
	LastUpdated time.Time                   `json:"lastUpdated"`
	Seq         uint64                      `json:"seq"`
}

type phase int

const (
	idle phase = iota
	pending
	running
)

func (p phase) String() string {
	switch p {
	case pending:
		return "pending"
	case running:
		return "running"
	default:
		return "idle"
	}
}

// Dispatcher debounces snapshot requests into a Worker and adopts only the
// result of the most recently dispatched request.
//
// Transitions: a request arms (or re-arms) the timer and moves to pending;
// the timer firing sends the latest snapshot and moves to running; a
// completion for the latest sequence number moves back to idle, or stays
// pending if a newer request arrived meanwhile.
type Dispatcher struct {
	worker *Worker
	window time.Duration

	mu       sync.Mutex
	phase    phase
	timer    *time.Timer
	gen      uint64
	snapshot Snapshot
	issued   uint64
	state    State
	subs     []chan State
	closed   bool
}

// NewDispatcher returns a dispatcher feeding w after window of quiet.
func NewDispatcher(w *Worker, window time.Duration) *Dispatcher {
	return &Dispatcher{
		worker: w,
		window: window,
		state:  State{Projections: []montecarlo.TeamProjection{}},
	}
}

// Request schedules a recompute of s, replacing any request still waiting
// for its debounce window. s is copied before Request returns.
func (d *Dispatcher) Request(s Snapshot) {
	cp := s.Clone()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		logger.Warn("Dispatcher: request after shutdown ignored", "tournament", s.Tournament)
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		logger.Debug("Dispatcher: debounced pending request", "tournament", s.Tournament, "phase", d.phase)
	}
	d.snapshot = cp
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
	d.phase = pending
}

func (d *Dispatcher) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.issued++
	req := Request{Seq: d.issued, Snapshot: d.snapshot}
	d.snapshot = Snapshot{}
	d.phase = running
	d.state.IsRunning = true
	d.mu.Unlock()

	if err := d.worker.Submit(req); err != nil {
		logger.Warn("Dispatcher: worker unavailable", "seq", req.Seq, "error", err)
		d.mu.Lock()
		if d.issued == req.Seq {
			d.state.IsRunning = false
			d.settle()
		}
		d.mu.Unlock()
	}
}

// Run adopts worker results until ctx is done or the worker stops.
func (d *Dispatcher) Run(ctx context.Context) {
	defer d.stop()
	results := d.worker.Results()
	for {
		select {
		case <-ctx.Done():
			return
		case resp, ok := <-results:
			if !ok {
				return
			}
			d.complete(resp)
		}
	}
}

func (d *Dispatcher) complete(resp Response) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if resp.Seq != d.issued {
		logger.Debug("Dispatcher: discarding stale result", "seq", resp.Seq, "latest", d.issued)
		return
	}
	d.state.IsRunning = false
	if resp.Err != nil {
		// Keep the last good projections.
		logger.Warn("Dispatcher: projection failed", "seq", resp.Seq, "error", resp.Err)
	} else {
		now := time.Now()
		if !now.After(d.state.LastUpdated) {
			now = d.state.LastUpdated.Add(time.Nanosecond)
		}
		d.state.Projections = resp.Projections
		d.state.LastUpdated = now
		d.state.Seq = resp.Seq
	}
	d.settle()
	d.publish()
}

// settle leaves running once nothing is in flight. Callers hold d.mu.
func (d *Dispatcher) settle() {
	switch {
	case d.timer != nil:
		d.phase = pending
	default:
		d.phase = idle
	}
}

func (d *Dispatcher) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.closed = true
	d.state.IsRunning = false
	d.phase = idle
	for _, ch := range d.subs {
		close(ch)
	}
	d.subs = nil
}

// State returns the current projections and run status.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Subscribe returns a channel receiving the state each time the latest
// request completes. Slow receivers miss intermediate states.
func (d *Dispatcher) Subscribe() <-chan State {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := make(chan State, 1)
	d.subs = append(d.subs, ch)
	return ch
}

// publish fans the state out. Callers hold d.mu.
func (d *Dispatcher) publish() {
	for _, ch := range d.subs {
		select {
		case ch <- d.state:
		default:
		}
	}
}
