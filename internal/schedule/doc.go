// Package schedule provides the owning scheduling context for a component:
// a single-worker FIFO task loop.
//
// Handler invocations deferred by the binding layer are submitted here
// instead of running on the native callback stack, so they observe a
// consistent component state and run in the order their triggering events
// occurred. Exactly one worker goroutine drains the queue, which makes
// submission order the execution order.
//
//	loop := schedule.NewLoop()
//	if err := loop.Start(); err != nil { ... }
//	defer loop.Stop(context.Background())
//
//	loop.Submit(func() { ... })
//
// Stop drains tasks already queued, then rejects further submissions with
// ErrNotRunning. Panics inside tasks are recovered and routed to the
// configured panic handler; they never take down the worker.
package schedule
