// Package worker runs projections off the caller's goroutine and debounces
// bursts of recompute requests.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/utakatalp/league-projections/internal/league"
	"github.com/utakatalp/league-projections/internal/logger"
	"github.com/utakatalp/league-projections/internal/montecarlo"
)

var ErrClosed = errors.New("worker closed")

// Snapshot is the plain-data input of one projection. It never aliases
// caller state once cloned.
type Snapshot struct {
	Teams      []league.Team     `json:"teams"`
	Matches    []league.Match    `json:"matches"`
	Tournament league.Tournament `json:"tournament"`
	NumSims    int               `json:"numSims"`
}

// Clone deep-copies the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Teams:      league.CloneTeams(s.Teams),
		Matches:    league.CloneMatches(s.Matches),
		Tournament: s.Tournament,
		NumSims:    s.NumSims,
	}
}

// Request is one message into the worker.
type Request struct {
	Seq      uint64
	Snapshot Snapshot
}

// Response is one message out of the worker. Err is set when the
// computation failed; Projections is then nil.
type Response struct {
	Seq         uint64
	Projections []montecarlo.TeamProjection
	Err         error
}

// Projector computes projections for a snapshot.
type Projector interface {
	Project(teams []league.Team, matches []league.Match, tournament league.Tournament, numIterations int) ([]montecarlo.TeamProjection, error)
}

// Worker owns one Projector and runs at most one computation at a time on
// its own goroutine. Requests submitted while it is busy wait in a
// single-slot mailbox; a newer request replaces an older one that has not
// started yet.
type Worker struct {
	projector Projector

	mu     sync.Mutex
	next   *Request
	closed bool

	wake    chan struct{}
	results chan Response
}

// New creates a worker. Call Run to start it.
func New(p Projector) *Worker {
	return &Worker{
		projector: p,
		wake:      make(chan struct{}, 1),
		results:   make(chan Response, 1),
	}
}

// Submit queues req for computation.
func (w *Worker) Submit(req Request) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.next != nil {
		logger.Debug("Worker: replacing queued request", "old", w.next.Seq, "new", req.Seq)
	}
	w.next = &req
	select {
	case w.wake <- struct{}{}:
	default:
	}
	return nil
}

// Results delivers one Response per computed request. It is closed when Run returns.
func (w *Worker) Results() <-chan Response {
	return w.results
}

// Run processes requests until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	defer func() {
		w.mu.Lock()
		w.closed = true
		w.next = nil
		w.mu.Unlock()
		close(w.results)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
		}

		w.mu.Lock()
		req := w.next
		w.next = nil
		w.mu.Unlock()
		if req == nil {
			continue
		}

		resp := w.compute(*req)
		select {
		case w.results <- resp:
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) compute(req Request) (resp Response) {
	resp.Seq = req.Seq
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Worker: projection panicked", "seq", req.Seq, "panic", r)
			resp.Projections = nil
			resp.Err = fmt.Errorf("projection panicked: %v", r)
		}
	}()

	s := req.Snapshot
	projections, err := w.projector.Project(s.Teams, s.Matches, s.Tournament, s.NumSims)
	if err != nil {
		resp.Err = fmt.Errorf("projecting %s: %w", s.Tournament, err)
		return resp
	}
	resp.Projections = projections
	return resp
}
