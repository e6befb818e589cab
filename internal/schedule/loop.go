package schedule

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// PanicHandler is called when a task panics. It receives the panic value
// and the stack trace at the point of panic.
type PanicHandler func(panicValue any, stack []byte)

// defaultPanicHandler is a no-op; panics are isolated either way.
func defaultPanicHandler(panicValue any, stack []byte) {}

// Loop executes submitted tasks on one worker goroutine in FIFO order.
// It provides bounded queuing, graceful shutdown and panic isolation.
type Loop struct {
	// Configuration
	queueSize    int
	panicHandler PanicHandler

	// State
	mu      sync.Mutex // protects queue creation/destruction
	queue   chan func()
	running atomic.Bool
	wg      sync.WaitGroup

	// Stats
	submitted   atomic.Uint64
	executed    atomic.Uint64
	panicked    atomic.Uint64
	rejected    atomic.Uint64
	totalTimeNs atomic.Int64
}

// Option configures a Loop.
type Option func(*Loop)

// WithQueueSize sets the task queue capacity.
func WithQueueSize(size int) Option {
	return func(l *Loop) {
		if size > 0 {
			l.queueSize = size
		}
	}
}

// WithPanicHandler sets the handler invoked when a task panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(l *Loop) {
		if h != nil {
			l.panicHandler = h
		}
	}
}

// NewLoop creates a new task loop with the given options.
func NewLoop(opts ...Option) *Loop {
	l := &Loop{
		queueSize:    1024,
		panicHandler: defaultPanicHandler,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start starts the worker goroutine.
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running.Load() {
		return ErrAlreadyRunning
	}

	l.queue = make(chan func(), l.queueSize)
	l.running.Store(true)

	l.wg.Add(1)
	go l.worker()

	return nil
}

// Stop stops the loop gracefully. Tasks already queued are drained before
// the worker exits; Stop waits for the drain or until ctx is cancelled.
func (l *Loop) Stop(ctx context.Context) error {
	l.mu.Lock()
	if !l.running.Load() {
		l.mu.Unlock()
		return ErrNotRunning
	}

	l.running.Store(false)
	// Closing the queue signals the worker to drain and exit.
	close(l.queue)
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit enqueues fn for execution on the worker goroutine. Tasks execute
// in submission order. Returns ErrQueueFull when the queue is at capacity
// and ErrNotRunning after Stop.
func (l *Loop) Submit(fn func()) error {
	if fn == nil {
		return ErrNilTask
	}

	// The running check and the send must be one atomic step; otherwise a
	// Submit racing Stop's close(l.queue) sends on a closed channel. The
	// send is non-blocking, so holding mu here cannot deadlock.
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running.Load() {
		l.rejected.Add(1)
		return ErrNotRunning
	}

	select {
	case l.queue <- fn:
		l.submitted.Add(1)
		return nil
	default:
		l.rejected.Add(1)
		return ErrQueueFull
	}
}

// worker drains the queue until it is closed.
func (l *Loop) worker() {
	defer l.wg.Done()

	for task := range l.queue {
		l.run(task)
	}
}

// run executes one task with panic recovery.
func (l *Loop) run(task func()) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			l.panicked.Add(1)
			stack := debug.Stack()
			func() {
				defer func() { _ = recover() }()
				l.panicHandler(r, stack)
			}()
		}
		l.executed.Add(1)
		l.totalTimeNs.Add(time.Since(start).Nanoseconds())
	}()

	task()
}

// IsRunning reports whether the loop accepts submissions.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// Depth returns the number of tasks waiting in the queue. Returns 0 when
// the loop is not running.
func (l *Loop) Depth() int {
	if !l.running.Load() {
		return 0
	}
	return len(l.queue)
}

// Stats returns loop counters.
func (l *Loop) Stats() Stats {
	executed := l.executed.Load()
	totalNs := l.totalTimeNs.Load()

	var avgNs int64
	if executed > 0 {
		avgNs = totalNs / int64(executed)
	}

	return Stats{
		Submitted:     l.submitted.Load(),
		Executed:      executed,
		Panicked:      l.panicked.Load(),
		Rejected:      l.rejected.Load(),
		QueueDepth:    l.Depth(),
		TotalDuration: time.Duration(totalNs),
		AvgDuration:   time.Duration(avgNs),
	}
}

// Stats contains task loop statistics.
type Stats struct {
	// Submitted is the number of tasks accepted into the queue.
	Submitted uint64

	// Executed is the number of tasks run to completion (including panics).
	Executed uint64

	// Panicked is the number of tasks that panicked.
	Panicked uint64

	// Rejected counts submissions refused because the queue was full or
	// the loop was stopped.
	Rejected uint64

	// QueueDepth is the current number of waiting tasks.
	QueueDepth int

	// TotalDuration is the cumulative time spent in tasks.
	TotalDuration time.Duration

	// AvgDuration is the average task execution time.
	AvgDuration time.Duration
}
