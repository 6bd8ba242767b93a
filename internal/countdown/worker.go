// Package countdown runs a cancellable, time-boxed countdown off the UI goroutine.
package countdown

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultInterval is the wait between two progress reports.
const DefaultInterval = 500 * time.Millisecond

// EventKind distinguishes the two messages a worker emits.
type EventKind int

const (
	EventProgress EventKind = iota
	EventCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventCompleted:
		return "completed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a single worker -> UI message.
type Event struct {
	RunID string
	Kind  EventKind
	// Elapsed is the time since start in minutes. Zero for EventCompleted.
	Elapsed float64
}

// State is the lifecycle position of a worker.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Option customises a Worker.
type Option func(*Worker)

// WithInterval sets the tick interval.
func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(w *Worker) {
		if c != nil {
			w.clock = c
		}
	}
}

// Worker counts up to a limit and reports elapsed minutes on a channel.
//
// A Worker serves exactly one run. It emits EventProgress roughly every
// interval, then exactly one EventCompleted, then closes the channel. It does
// not say whether the run ended naturally or through Cancel; callers that
// care track that themselves.
type Worker struct {
	id       string
	limit    time.Duration
	minutes  float64
	interval time.Duration
	clock    Clock

	state     atomic.Int32
	cancelled atomic.Bool

	events    chan Event
	done      chan struct{}
	startOnce sync.Once
}

// New creates an idle worker for a run of limitMinutes.
func New(limitMinutes float64, opts ...Option) (*Worker, error) {
	if limitMinutes <= 0 || math.IsNaN(limitMinutes) || math.IsInf(limitMinutes, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLimit, limitMinutes)
	}

	w := &Worker{
		id:       uuid.New().String(),
		limit:    time.Duration(limitMinutes * float64(time.Minute)),
		minutes:  limitMinutes,
		interval: DefaultInterval,
		clock:    realClock{},
		events:   make(chan Event, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// ID returns the run identifier.
func (w *Worker) ID() string { return w.id }

// Limit returns the configured limit in minutes.
func (w *Worker) Limit() float64 { return w.minutes }

// Interval returns the tick interval.
func (w *Worker) Interval() time.Duration { return w.interval }

// State reports where the worker is in its lifecycle.
func (w *Worker) State() State { return State(w.state.Load()) }

// Events returns the channel progress and completion are delivered on.
// It is closed after EventCompleted.
func (w *Worker) Events() <-chan Event { return w.events }

// Done is closed once the loop goroutine has returned.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Start launches the countdown loop. Cancelling ctx aborts the loop without
// waiting for the current tick, which is how the owner shuts down.
func (w *Worker) Start(ctx context.Context) error {
	started := false
	w.startOnce.Do(func() {
		started = true
		w.state.Store(int32(StateRunning))
		go w.loop(ctx)
	})
	if !started {
		return ErrAlreadyStarted
	}
	return nil
}

// Cancel asks the loop to stop. It is safe to call from any goroutine and
// more than once; it takes effect at the next tick.
func (w *Worker) Cancel() {
	if w.cancelled.CompareAndSwap(false, true) {
		log.Printf("Countdown %s: cancel requested", shortID(w.id))
	}
}

// Cancelled reports whether Cancel has been called.
func (w *Worker) Cancelled() bool { return w.cancelled.Load() }

// Wait blocks until the loop goroutine has returned. It returns immediately
// for a worker that was never started.
func (w *Worker) Wait() {
	if w.State() == StateIdle {
		return
	}
	<-w.done
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.done)
	defer w.state.Store(int32(StateFinished))
	defer close(w.events)

	start := w.clock.Now()
	log.Printf("Countdown %s started (limit %.2f min, tick %s)", shortID(w.id), w.minutes, w.interval)

	last := 0.0
	for w.clock.Now().Sub(start) < w.limit && !w.cancelled.Load() {
		select {
		case <-ctx.Done():
			log.Printf("Countdown %s interrupted: %v", shortID(w.id), ctx.Err())
			return
		case <-w.clock.After(w.interval):
		}

		elapsed := w.clock.Now().Sub(start)
		if elapsed > w.limit {
			elapsed = w.limit
		}
		minutes := elapsed.Minutes()
		if minutes <= last {
			continue
		}
		last = minutes

		if !w.send(ctx, Event{RunID: w.id, Kind: EventProgress, Elapsed: minutes}) {
			return
		}
	}

	w.send(ctx, Event{RunID: w.id, Kind: EventCompleted})
	log.Printf("Countdown %s finished (elapsed %.2f min, cancelled %t)", shortID(w.id), last, w.cancelled.Load())
}

// send delivers ev unless ctx ends first.
func (w *Worker) send(ctx context.Context, ev Event) bool {
	select {
	case w.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
